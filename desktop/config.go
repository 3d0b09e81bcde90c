package desktop

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/xr"
)

// RunConfig configures the desktop host window and its emulated session.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// FOV is the vertical field of view in degrees.
	FOV        float64
	ClearColor xr.Color
	ShowFPS    bool
	// Debug enables the engine's debug logging and the process-wide node
	// tree checks.
	Debug         bool
	ScreenshotDir string
	// Script is an optional path to a JSON interaction script that is
	// stepped once per tick against the emulated session.
	Script string
	// Controller overrides the controller visuals. nil uses
	// xr.DefaultControllerOptions.
	Controller *xr.ControllerOptions
	// OnKey is called for every key pressed this tick that the host does
	// not handle itself.
	OnKey func(key ebiten.Key)
	// OnUpdate runs once per tick, after input is applied to the session and
	// before the engine update.
	OnUpdate func(dt float64)
}

// envConfig is the subset of RunConfig that can be set from the environment.
type envConfig struct {
	Title         string  `env:"XR_TITLE"          envDefault:"xr"`
	Width         int     `env:"XR_WIDTH"          envDefault:"960"`
	Height        int     `env:"XR_HEIGHT"         envDefault:"540"`
	FOV           float64 `env:"XR_FOV"            envDefault:"70"`
	ShowFPS       bool    `env:"XR_SHOW_FPS"       envDefault:"true"`
	Debug         bool    `env:"XR_DEBUG"          envDefault:"false"`
	ScreenshotDir string  `env:"XR_SCREENSHOT_DIR" envDefault:"screenshots"`
	Script        string  `env:"XR_SCRIPT"`
}

// DefaultRunConfig returns the configuration used for zero fields.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "xr",
		Width:         960,
		Height:        540,
		FOV:           70,
		ClearColor:    xr.Color{R: 0.08, G: 0.08, B: 0.11, A: 1},
		ShowFPS:       true,
		ScreenshotDir: "screenshots",
	}
}

// LoadConfigFromEnv reads XR_* environment variables over the defaults.
func LoadConfigFromEnv() (RunConfig, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return RunConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return RunConfig{}, fmt.Errorf("parse env: window size %dx%d must be positive", raw.Width, raw.Height)
	}
	if raw.FOV <= 0 || raw.FOV >= 180 {
		return RunConfig{}, fmt.Errorf("parse env: fov %g out of range (0, 180)", raw.FOV)
	}
	cfg := DefaultRunConfig()
	cfg.Title = raw.Title
	cfg.Width = raw.Width
	cfg.Height = raw.Height
	cfg.FOV = raw.FOV
	cfg.ShowFPS = raw.ShowFPS
	cfg.Debug = raw.Debug
	cfg.ScreenshotDir = raw.ScreenshotDir
	cfg.Script = raw.Script
	return cfg, nil
}

// withDefaults fills zero fields from DefaultRunConfig.
func (c RunConfig) withDefaults() RunConfig {
	def := DefaultRunConfig()
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.FOV <= 0 {
		c.FOV = def.FOV
	}
	if c.ClearColor == (xr.Color{}) {
		c.ClearColor = def.ClearColor
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = def.ScreenshotDir
	}
	return c
}

package desktop

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/xr"
)

const (
	walkSpeed = 2.0 // metres per second
	turnSpeed = 1.5 // radians per second
)

// handOffset places the emulated controller below and to the right of the
// eye, in camera axes (right, up, forward).
var handOffset = xr.Vec3{0.18, -0.22, 0.3}

// touch is one touch point in screen pixels.
type touch struct {
	id   ebiten.TouchID
	x, y float64
}

// input is everything the host reads from the window in one tick.
type input struct {
	dt float64

	mouseX, mouseY float64
	mousePressed   bool
	mouseReleased  bool

	keysPressed  []ebiten.Key
	keysReleased []ebiten.Key
	walk, strafe float64 // -1..1
	turn         float64 // -1..1

	touchesDown []touch
	touchesHeld []touch
	touchesUp   []ebiten.TouchID
}

// Host is an ebiten.Game that emulates an immersive session on the desktop.
// The mouse is a right-handed tracked pointer, G toggles a gaze source and
// each touch is a transient screen source.
type Host struct {
	cfg    RunConfig
	scenes xr.SceneFunc
	ix     *xr.Interactions
	sim    *xr.SimSession
	cam    *Camera
	script *xr.ScriptRunner

	mouse   *xr.InputSource
	gaze    *xr.InputSource
	touches map[ebiten.TouchID]*xr.InputSource

	timestamp float64
	list      drawList
	drawer    drawer
	hud       hud
	shots     screenshotter
}

// New creates a host presenting the scene reported by scenes.
func New(scenes xr.SceneFunc, cfg RunConfig) (*Host, error) {
	cfg = cfg.withDefaults()

	var script *xr.ScriptRunner
	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return nil, fmt.Errorf("load script: %w", err)
		}
		if script, err = xr.LoadScript(data); err != nil {
			return nil, fmt.Errorf("load script %s: %w", cfg.Script, err)
		}
	}

	opts := xr.DefaultControllerOptions()
	if cfg.Controller != nil {
		opts = *cfg.Controller
	}
	h := &Host{
		cfg:     cfg,
		scenes:  scenes,
		ix:      xr.NewInteractions(scenes, opts),
		sim:     xr.NewSimSession(),
		cam:     NewCamera(cfg.FOV, cfg.Width, cfg.Height),
		script:  script,
		touches: make(map[ebiten.TouchID]*xr.InputSource),
		hud:     hud{showFPS: cfg.ShowFPS},
		shots:   screenshotter{dir: cfg.ScreenshotDir},
	}
	h.ix.SetDebugMode(cfg.Debug)
	if script != nil {
		script.SetDebugMode(cfg.Debug)
	}
	if cfg.Debug {
		xr.SetNodeChecks(true)
	}
	h.ix.Setup(h.sim)
	h.mouse = h.sim.AddSource("mouse", xr.RayModeTrackedPointer, xr.HandRight)
	return h, nil
}

// Run opens a window presenting scenes and blocks until it is closed or
// the session ends.
func Run(scenes xr.SceneFunc, cfg RunConfig) error {
	h, err := New(scenes, cfg)
	if err != nil {
		return err
	}
	return h.Run()
}

// Run opens the window and blocks until it is closed or the session ends.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(h)
	h.Close()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// Interactions returns the engine driven by the host.
func (h *Host) Interactions() *xr.Interactions { return h.ix }

// Session returns the emulated session.
func (h *Host) Session() *xr.SimSession { return h.sim }

// Camera returns the eye camera.
func (h *Host) Camera() *Camera { return h.cam }

// Screenshot queues a capture of the next drawn frame.
func (h *Host) Screenshot(label string) { h.shots.request(label) }

// Close ends the emulated session. Safe to call more than once.
func (h *Host) Close() {
	if !h.sim.Ended() {
		h.sim.End()
	}
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	return h.step(h.poll())
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(h.cfg.ClearColor))
	if scene := h.scenes(); scene != nil {
		h.list.build(scene.Root(), h.cam)
		h.drawer.draw(screen, &h.list)
	}
	if h.gaze != nil {
		cx, cy := float32(h.cam.Width/2), float32(h.cam.Height/2)
		white := toRGBA(xr.ColorWhite)
		vector.StrokeLine(screen, cx-6, cy, cx+6, cy, 1, white, false)
		vector.StrokeLine(screen, cx, cy-6, cx, cy+6, 1, white, false)
	}
	h.hud.draw(screen)
	h.shots.flush(screen)
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.cam.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// poll reads the window's input state.
func (h *Host) poll() input {
	in := input{dt: 1 / float64(ebiten.TPS())}

	mx, my := ebiten.CursorPosition()
	in.mouseX, in.mouseY = float64(mx), float64(my)
	in.mousePressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.mouseReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	in.keysPressed = inpututil.AppendJustPressedKeys(in.keysPressed)
	in.keysReleased = inpututil.AppendJustReleasedKeys(in.keysReleased)
	in.walk = axis(ebiten.KeyW, ebiten.KeyS)
	in.strafe = axis(ebiten.KeyD, ebiten.KeyA)
	in.turn = axis(ebiten.KeyQ, ebiten.KeyE)

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		in.touchesDown = append(in.touchesDown, touch{id, float64(x), float64(y)})
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		in.touchesHeld = append(in.touchesHeld, touch{id, float64(x), float64(y)})
	}
	in.touchesUp = inpututil.AppendJustReleasedTouchIDs(in.touchesUp)
	return in
}

// axis returns 1, -1 or 0 for a pair of opposing keys.
func axis(pos, neg ebiten.Key) float64 {
	v := 0.0
	if ebiten.IsKeyPressed(pos) {
		v++
	}
	if ebiten.IsKeyPressed(neg) {
		v--
	}
	return v
}

// step advances the emulated session and the engine by one tick.
func (h *Host) step(in input) error {
	if h.sim.Ended() {
		return ebiten.Termination
	}

	if in.walk != 0 || in.strafe != 0 {
		h.cam.Walk(in.walk*walkSpeed*in.dt, in.strafe*walkSpeed*in.dt)
	}
	if in.turn != 0 {
		h.cam.Turn(in.turn*turnSpeed*in.dt, 0)
	}
	h.cam.update(float32(in.dt))

	for _, k := range in.keysPressed {
		h.handleKey(k)
	}
	for _, k := range in.keysReleased {
		if k == ebiten.KeySpace && h.gaze != nil {
			h.sim.Release(h.gaze)
		}
	}

	h.aimMouse(in.mouseX, in.mouseY)
	if in.mousePressed {
		h.sim.Press(h.mouse)
	}
	if in.mouseReleased {
		h.sim.Release(h.mouse)
	}
	if h.gaze != nil {
		h.sim.Aim(h.gaze, h.cam.Position, h.cam.Position.Add(h.cam.Forward()))
	}
	h.stepTouches(in)

	if h.script != nil && !h.script.Done() {
		h.script.Step(h.sim)
	}
	if h.cfg.OnUpdate != nil {
		h.cfg.OnUpdate(in.dt)
	}

	h.timestamp += in.dt * 1000
	h.ix.Update(h.timestamp, h.sim.Frame())

	hovers, selections, drags := h.ix.Dispatcher().Counts()
	h.hud.update(in.dt, hudStats{
		sources:    h.ix.Registry().Len(),
		hovers:     hovers,
		selections: selections,
		drags:      drags,
		gaze:       h.gaze != nil,
	}, ebiten.ActualFPS(), ebiten.ActualTPS())
	return nil
}

func (h *Host) handleKey(k ebiten.Key) {
	switch k {
	case ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyQ, ebiten.KeyE:
		// Held keys are read through input axes.
	case ebiten.KeyG:
		h.toggleGaze()
	case ebiten.KeySpace:
		if h.gaze != nil {
			h.sim.Press(h.gaze)
		}
	case ebiten.KeyR:
		h.cam.Yaw, h.cam.Pitch = 0, 0
		h.cam.MoveTo(xr.Vec3{0, 1.6, 0}, 0.4, nil)
	case ebiten.KeyF12:
		h.Screenshot("f12")
	default:
		if h.cfg.OnKey != nil {
			h.cfg.OnKey(k)
		}
	}
}

func (h *Host) toggleGaze() {
	if h.gaze == nil {
		h.gaze = h.sim.AddSource("gaze", xr.RayModeGaze, xr.HandNone)
		return
	}
	h.sim.RemoveSource(h.gaze)
	h.gaze = nil
}

// aimMouse points the mouse source from the emulated hand at whatever the
// eye sees under the cursor, so the laser passes through the cursor pixel.
func (h *Host) aimMouse(sx, sy float64) {
	eye, far := h.cam.ScreenRay(sx, sy)
	target := far
	if scene := h.scenes(); scene != nil {
		ray := xr.Ray{Origin: eye, Direction: far.Sub(eye).Normalize()}
		if hits := scene.Intersect(ray); len(hits) > 0 {
			target = hits[0].Point
		}
	}
	right, fwd := h.cam.Right(), h.cam.Forward()
	up := right.Cross(fwd)
	hand := eye.Add(right.Mul(handOffset.X())).Add(up.Mul(handOffset.Y())).Add(fwd.Mul(handOffset.Z()))
	h.sim.Aim(h.mouse, hand, target)
}

// stepTouches maps touches onto transient screen sources that exist from
// touch down to touch up.
func (h *Host) stepTouches(in input) {
	for _, t := range in.touchesDown {
		src := h.sim.AddSource(fmt.Sprintf("touch-%d", t.id), xr.RayModeScreen, xr.HandNone)
		h.touches[t.id] = src
		h.aimScreen(src, t.x, t.y)
		h.sim.Press(src)
	}
	for _, t := range in.touchesHeld {
		if src, ok := h.touches[t.id]; ok {
			h.aimScreen(src, t.x, t.y)
		}
	}
	for _, id := range in.touchesUp {
		src, ok := h.touches[id]
		if !ok {
			continue
		}
		h.sim.Release(src)
		h.sim.RemoveSource(src)
		delete(h.touches, id)
	}
}

func (h *Host) aimScreen(src *xr.InputSource, sx, sy float64) {
	origin, target := h.cam.ScreenRay(sx, sy)
	h.sim.Aim(src, origin, target)
}

package desktop

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is how often, in seconds, the HUD text is rebuilt.
const hudRefresh = 0.5

const helpText = "mouse: aim/select  WASD: walk  QE: turn  G: gaze  space: gaze select  R: recenter  F12: screenshot"

// hudStats is the engine state shown in the HUD.
type hudStats struct {
	sources, hovers, selections, drags int
	gaze                               bool
}

// hud prints frame rate and interaction counts in the top-left corner.
type hud struct {
	showFPS bool
	elapsed float64
	text    string
}

// update rebuilds the text every hudRefresh seconds.
func (h *hud) update(dt float64, stats hudStats, fps, tps float64) {
	h.elapsed += dt
	if h.text != "" && h.elapsed < hudRefresh {
		return
	}
	h.elapsed = 0
	h.text = h.format(stats, fps, tps)
}

func (h *hud) format(stats hudStats, fps, tps float64) string {
	var b strings.Builder
	if h.showFPS {
		fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", fps, tps)
	}
	gaze := "off"
	if stats.gaze {
		gaze = "on"
	}
	fmt.Fprintf(&b, "sources: %d  gaze: %s\nhover: %d  select: %d  drag: %d\n",
		stats.sources, gaze, stats.hovers, stats.selections, stats.drags)
	b.WriteString(helpText)
	return b.String()
}

func (h *hud) draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, h.text)
}

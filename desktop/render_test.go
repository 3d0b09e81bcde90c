package desktop

import (
	"math"
	"testing"

	"github.com/phanxgames/xr"
)

func renderScene() (*xr.Scene, *Camera) {
	scene := xr.NewScene("render")
	cam := NewCamera(70, 800, 600)
	return scene, cam
}

func TestDrawListProjectsTriangles(t *testing.T) {
	scene, cam := renderScene()
	plane := xr.NewMesh("plane", xr.NewPlaneGeometry(1, 1))
	plane.SetPosition(0, 1.6, -3)
	scene.Add(plane)
	scene.UpdateWorld()

	var l drawList
	l.build(scene.Root(), cam)
	if len(l.tris) != plane.Geometry.TriangleCount() {
		t.Fatalf("tris = %d, want %d", len(l.tris), plane.Geometry.TriangleCount())
	}
	for _, tri := range l.tris {
		for k := range 3 {
			if tri.x[k] < 0 || tri.x[k] > 800 || tri.y[k] < 0 || tri.y[k] > 600 {
				t.Errorf("vertex (%v, %v) off screen", tri.x[k], tri.y[k])
			}
		}
		if tri.depth < 2.5 || tri.depth > 3.5 {
			t.Errorf("depth = %v, want about 3", tri.depth)
		}
	}
}

func TestDrawListBackToFront(t *testing.T) {
	scene, cam := renderScene()
	near := xr.NewMesh("near", xr.NewPlaneGeometry(1, 1))
	near.SetPosition(0, 1.6, -2)
	far := xr.NewMesh("far", xr.NewPlaneGeometry(1, 1))
	far.SetPosition(0, 1.6, -6)
	scene.Add(near)
	scene.Add(far)
	scene.UpdateWorld()

	var l drawList
	l.build(scene.Root(), cam)
	for i := 1; i < len(l.tris); i++ {
		if l.tris[i].depth > l.tris[i-1].depth {
			t.Fatalf("tris not sorted back to front at %d: %v > %v", i, l.tris[i].depth, l.tris[i-1].depth)
		}
	}
}

func TestDrawListSkipsHiddenAndBehind(t *testing.T) {
	scene, cam := renderScene()
	hidden := xr.NewGroup("hidden")
	hidden.Visible = false
	hidden.AddChild(xr.NewMesh("child", xr.NewBoxGeometry(1, 1, 1)))
	scene.Add(hidden)

	behind := xr.NewMesh("behind", xr.NewBoxGeometry(1, 1, 1))
	behind.SetPosition(0, 1.6, 5)
	scene.Add(behind)

	transparent := xr.NewMesh("transparent", xr.NewBoxGeometry(1, 1, 1))
	transparent.SetPosition(0, 1.6, -3)
	transparent.Color.A = 0
	scene.Add(transparent)
	scene.UpdateWorld()

	var l drawList
	l.build(scene.Root(), cam)
	if len(l.tris) != 0 {
		t.Errorf("tris = %d, want 0", len(l.tris))
	}
}

func TestDrawListLines(t *testing.T) {
	scene, cam := renderScene()
	laser := xr.NewMesh("laser", xr.NewLineGeometry(xr.Vec3{0, 1.6, -1}, xr.Vec3{0, 1.6, -5}))
	scene.Add(laser)
	scene.UpdateWorld()

	var l drawList
	l.build(scene.Root(), cam)
	if len(l.tris) != 0 || len(l.lines) != 1 {
		t.Fatalf("tris = %d lines = %d, want 0 and 1", len(l.tris), len(l.lines))
	}
	ln := l.lines[0]
	// A line straight down the view axis collapses onto the screen center.
	if math.Abs(float64(ln.x0)-400) > 1e-3 || math.Abs(float64(ln.x1)-400) > 1e-3 {
		t.Errorf("line x = %v..%v, want 400", ln.x0, ln.x1)
	}
}

func TestShade(t *testing.T) {
	col := xr.Color{R: 1, G: 0.5, B: 0.2, A: 0.7}
	lit := shade(col, lightDir)
	if math.Abs(lit.R-1) > 1e-9 || lit.A != 0.7 {
		t.Errorf("face toward the light = %+v, want unchanged", lit)
	}
	back := shade(col, lightDir.Mul(-1))
	if back != lit {
		t.Errorf("shading should be two-sided: %+v vs %+v", back, lit)
	}
	if shade(col, xr.Vec3{}) != col {
		t.Error("degenerate normal should leave the color unchanged")
	}
}

func TestToRGBA(t *testing.T) {
	c := toRGBA(xr.Color{R: 2, G: -1, B: 0.5, A: 1})
	if c.R != 255 || c.G != 0 || c.B != 128 || c.A != 255 {
		t.Errorf("toRGBA = %+v", c)
	}
}

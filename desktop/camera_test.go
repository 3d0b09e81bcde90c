package desktop

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/xr"
)

const epsilon = 1e-6

func nearVec(a, b xr.Vec3) bool {
	return a.Sub(b).Len() < epsilon
}

func TestCameraForward(t *testing.T) {
	c := NewCamera(70, 800, 600)
	if !nearVec(c.Forward(), xr.Vec3{0, 0, -1}) {
		t.Errorf("Forward = %v, want -Z", c.Forward())
	}
	if !nearVec(c.Right(), xr.Vec3{1, 0, 0}) {
		t.Errorf("Right = %v, want +X", c.Right())
	}
	c.Turn(math.Pi/2, 0)
	if !nearVec(c.Forward(), xr.Vec3{-1, 0, 0}) {
		t.Errorf("Forward after left turn = %v, want -X", c.Forward())
	}
}

func TestCameraPitchClamp(t *testing.T) {
	c := NewCamera(70, 800, 600)
	c.Turn(0, 10)
	if c.Pitch > maxPitch {
		t.Errorf("Pitch = %v, want <= %v", c.Pitch, maxPitch)
	}
	c.Turn(0, -20)
	if c.Pitch < -maxPitch {
		t.Errorf("Pitch = %v, want >= %v", c.Pitch, -maxPitch)
	}
}

func TestCameraScreenRayCenter(t *testing.T) {
	c := NewCamera(70, 800, 600)
	origin, target := c.ScreenRay(400, 300)
	if !nearVec(origin, c.Position) {
		t.Errorf("origin = %v, want eye %v", origin, c.Position)
	}
	dir := target.Sub(origin).Normalize()
	if !nearVec(dir, c.Forward()) {
		t.Errorf("center ray = %v, want forward %v", dir, c.Forward())
	}
}

func TestCameraProjectRoundTrip(t *testing.T) {
	c := NewCamera(70, 800, 600)
	c.Turn(0.3, -0.2)
	for _, px := range [][2]float64{{400, 300}, {10, 20}, {790, 580}, {123, 456}} {
		origin, target := c.ScreenRay(px[0], px[1])
		p := origin.Add(target.Sub(origin).Normalize().Mul(4))
		sx, sy, depth, ok := c.Project(p)
		if !ok {
			t.Fatalf("point in front of camera not projected: %v", p)
		}
		if math.Abs(sx-px[0]) > 1e-4 || math.Abs(sy-px[1]) > 1e-4 {
			t.Errorf("Project(ScreenRay(%v)) = (%v, %v)", px, sx, sy)
		}
		if depth <= 0 || depth > 4+epsilon {
			t.Errorf("depth = %v, want in (0, 4]", depth)
		}
	}
}

func TestCameraProjectBehind(t *testing.T) {
	c := NewCamera(70, 800, 600)
	if _, _, _, ok := c.Project(c.Position.Add(xr.Vec3{0, 0, 1})); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestCameraWalk(t *testing.T) {
	c := NewCamera(70, 800, 600)
	c.Turn(0, 0.5) // looking up must not lift the walk
	start := c.Position
	c.Walk(2, 1)
	want := start.Add(xr.Vec3{1, 0, -2})
	if !nearVec(c.Position, want) {
		t.Errorf("Position = %v, want %v", c.Position, want)
	}
}

func TestCameraMoveTo(t *testing.T) {
	c := NewCamera(70, 800, 600)
	c.MoveTo(xr.Vec3{2, 1.6, -4}, 1, ease.Linear)
	if !c.Moving() {
		t.Fatal("Moving should be true")
	}
	c.update(0.5)
	if !nearVec(c.Position, xr.Vec3{1, 1.6, -2}) {
		t.Errorf("halfway Position = %v", c.Position)
	}
	c.update(0.6)
	if c.Moving() {
		t.Error("move should be finished")
	}
	if !nearVec(c.Position, xr.Vec3{2, 1.6, -4}) {
		t.Errorf("final Position = %v", c.Position)
	}
}

func TestCameraWalkCancelsMove(t *testing.T) {
	c := NewCamera(70, 800, 600)
	c.MoveTo(xr.Vec3{5, 0, 0}, 1, nil)
	c.Walk(1, 0)
	if c.Moving() {
		t.Error("Walk should cancel MoveTo")
	}
}

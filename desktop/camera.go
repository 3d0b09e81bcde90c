package desktop

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/xr"
)

const (
	cameraNear = 0.05
	cameraFar  = 200.0
	maxPitch   = math.Pi/2 - 0.01
)

// moveAnim holds active move-to tweens for the camera position.
type moveAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a perspective eye standing in for the headset. Yaw 0 looks
// down -Z; positive pitch looks up.
type Camera struct {
	Position xr.Vec3
	Yaw      float64
	Pitch    float64
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Viewport size in pixels.
	Width, Height float64

	move *moveAnim
}

// NewCamera creates a camera at standing eye height.
func NewCamera(fov float64, width, height int) *Camera {
	return &Camera{
		Position: xr.Vec3{0, 1.6, 0},
		FOV:      fov,
		Width:    float64(width),
		Height:   float64(height),
	}
}

// Forward returns the unit view direction.
func (c *Camera) Forward() xr.Vec3 {
	cp := math.Cos(c.Pitch)
	return xr.Vec3{-math.Sin(c.Yaw) * cp, math.Sin(c.Pitch), -math.Cos(c.Yaw) * cp}
}

// Right returns the unit horizontal right vector.
func (c *Camera) Right() xr.Vec3 {
	return xr.Vec3{math.Cos(c.Yaw), 0, -math.Sin(c.Yaw)}
}

// Turn rotates the view, clamping pitch short of straight up or down.
func (c *Camera) Turn(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = mgl64.Clamp(c.Pitch+dpitch, -maxPitch, maxPitch)
}

// Walk moves the camera along its horizontal forward and right axes.
// Cancels any running MoveTo.
func (c *Camera) Walk(forward, right float64) {
	f := c.Forward()
	flat := xr.Vec3{f.X(), 0, f.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	c.Position = c.Position.Add(flat.Mul(forward)).Add(c.Right().Mul(right))
	c.move = nil
}

// MoveTo smoothly moves the camera to pos over duration seconds.
func (c *Camera) MoveTo(pos xr.Vec3, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	m := &moveAnim{}
	for i := range 3 {
		m.tweens[i] = gween.New(float32(c.Position[i]), float32(pos[i]), duration, easeFn)
	}
	c.move = m
}

// Moving reports whether a MoveTo is in progress.
func (c *Camera) Moving() bool { return c.move != nil }

// update advances a running MoveTo.
func (c *Camera) update(dt float32) {
	if c.move == nil {
		return
	}
	m := c.move
	for i := range 3 {
		if m.done[i] {
			continue
		}
		v, done := m.tweens[i].Update(dt)
		c.Position[i] = float64(v)
		m.done[i] = done
	}
	if m.done[0] && m.done[1] && m.done[2] {
		c.move = nil
	}
}

// View returns the world-to-eye matrix.
func (c *Camera) View() xr.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward()), xr.Vec3{0, 1, 0})
}

// Projection returns the perspective projection for the viewport.
func (c *Camera) Projection() xr.Mat4 {
	aspect := 1.0
	if c.Height > 0 {
		aspect = c.Width / c.Height
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, cameraNear, cameraFar)
}

// viewProjection returns Projection * View.
func (c *Camera) viewProjection() xr.Mat4 {
	return c.Projection().Mul4(c.View())
}

// ScreenRay returns the ray through screen pixel (sx, sy) as an origin at
// the eye and a target on the far plane.
func (c *Camera) ScreenRay(sx, sy float64) (origin, target xr.Vec3) {
	nx := 2*sx/c.Width - 1
	ny := 1 - 2*sy/c.Height
	inv := c.viewProjection().Inv()
	far := inv.Mul4x1(mgl64.Vec4{nx, ny, 1, 1})
	return c.Position, far.Vec3().Mul(1 / far.W())
}

// Project maps a world point to screen pixels. depth is the eye-space
// distance along the view axis; ok is false for points behind the near
// plane.
func (c *Camera) Project(p xr.Vec3) (sx, sy, depth float64, ok bool) {
	clip := c.viewProjection().Mul4x1(p.Vec4(1))
	if clip.W() < cameraNear {
		return 0, 0, clip.W(), false
	}
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	return (nx + 1) / 2 * c.Width, (1 - ny) / 2 * c.Height, clip.W(), true
}

// SetViewport updates the viewport size after a layout change.
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = float64(width), float64(height)
}

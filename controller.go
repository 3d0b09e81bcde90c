package xr

import "github.com/tanema/gween/ease"

// defaultLaserLength is how far the laser reaches when nothing is hit.
const defaultLaserLength = 100.0

// ControllerOptions configures the visuals created for each input source.
type ControllerOptions struct {
	CursorRadius float64
	CursorColor  Color
	LaserColor   Color
	// LaserLength is the laser length used when the ray hits nothing.
	LaserLength float64
	// GripModel builds the grip-tracked mesh for tracked-pointer sources.
	// nil uses a small box.
	GripModel func(src *InputSource) *Node
	// HoverPulse is the duration in seconds of the cursor pulse played when
	// the source starts hovering a node. Zero disables it.
	HoverPulse float32
}

// DefaultControllerOptions returns the options used when none are given.
func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{
		CursorRadius: 0.015,
		CursorColor:  ColorWhite,
		LaserColor:   Color{R: 0.4, G: 0.8, B: 1, A: 0.8},
		LaserLength:  defaultLaserLength,
		HoverPulse:   0.2,
	}
}

// Controller is the visual state of one input source: a cursor (gaze and
// tracked-pointer), a laser and a grip mesh (tracked-pointer only). Any of
// the element fields may be nil depending on the ray mode. None of the
// elements are raycastable.
type Controller struct {
	Source *InputSource
	Cursor *Node
	Laser  *Node
	Grip   *Node

	opts      ControllerOptions
	bound     *Node
	lastHover *Node
	pulse     *TweenGroup
}

// NewController creates the visuals for src according to its ray mode.
// Screen sources get no visuals.
func NewController(src *InputSource, opts ControllerOptions) *Controller {
	if opts.LaserLength <= 0 {
		opts.LaserLength = defaultLaserLength
	}
	c := &Controller{Source: src, opts: opts}

	if src.Mode == RayModeGaze || src.Mode == RayModeTrackedPointer {
		c.Cursor = NewMesh(src.Name+"-cursor", NewSphereGeometry(opts.CursorRadius, 12))
		c.Cursor.Color = opts.CursorColor
		c.Cursor.Visible = false // until the first hit
	}
	if src.Mode == RayModeTrackedPointer {
		c.Laser = NewMesh(src.Name+"-laser", NewLineGeometry(Vec3{}, Vec3{0, 0, -opts.LaserLength}))
		c.Laser.Color = opts.LaserColor
		c.Laser.MatrixAutoUpdate = false

		if opts.GripModel != nil {
			c.Grip = opts.GripModel(src)
		}
		if c.Grip == nil {
			c.Grip = NewMesh(src.Name+"-grip", NewBoxGeometry(0.04, 0.04, 0.12))
		}
		c.Grip.MatrixAutoUpdate = false
	}

	for _, el := range c.Elements() {
		el.Raycastable = false
	}
	return c
}

// Elements returns the non-nil visual elements.
func (c *Controller) Elements() []*Node {
	out := make([]*Node, 0, 3)
	for _, el := range []*Node{c.Cursor, c.Laser, c.Grip} {
		if el != nil {
			out = append(out, el)
		}
	}
	return out
}

// Bind attaches the visuals to root, detaching them from any previous scene.
func (c *Controller) Bind(root *Node) {
	if root == nil || c.bound == root {
		return
	}
	for _, el := range c.Elements() {
		root.AddChild(el)
	}
	c.bound = root
}

// Unbind detaches the visuals from the scene they are bound to.
func (c *Controller) Unbind() {
	for _, el := range c.Elements() {
		el.RemoveFromParent()
	}
	c.bound = nil
}

// Bound returns the root the visuals are attached to, or nil.
func (c *Controller) Bound() *Node {
	return c.bound
}

// Dispose unbinds and disposes every element.
func (c *Controller) Dispose() {
	c.Unbind()
	for _, el := range c.Elements() {
		el.Dispose()
	}
	c.pulse = nil
	c.lastHover = nil
}

// Update syncs the visuals with this frame's ray and hit. hovered is the
// node the dispatcher considers hovered (or selected) for the source; a
// change to a new node starts the cursor pulse. dt is in seconds.
func (c *Controller) Update(frame Frame, ray Ray, hit *Hit, hovered *Node, dt float32) {
	if c.Grip != nil {
		pose, ok := Pose(frame, c.Source.GripSpace)
		c.Grip.Visible = ok
		if ok {
			setWorldMatrix(c.Grip, pose)
		}
	}

	if c.Laser != nil {
		length := c.opts.LaserLength
		if hit != nil {
			length = hit.Distance
		}
		geo := c.Laser.Geometry
		geo.Positions[0] = Vec3{}
		geo.Positions[1] = Vec3{0, 0, -length}
		geo.Invalidate()
		setWorldMatrix(c.Laser, ray.Matrix)
	}

	if c.Cursor != nil {
		if hit != nil {
			p := hit.Point
			if c.Cursor.Parent != nil {
				p = c.Cursor.Parent.WorldToLocal(p)
			}
			c.Cursor.Position = p
			c.Cursor.Visible = true
			c.Cursor.MarkDirty()
		}
		if hovered != nil && hovered != c.lastHover && c.opts.HoverPulse > 0 {
			c.pulse = TweenScale(c.Cursor, 1.6, 1, c.opts.HoverPulse, ease.OutQuad)
		}
		if c.pulse != nil {
			c.pulse.Update(dt)
			if c.pulse.Done {
				c.pulse = nil
			}
		}
	}
	c.lastHover = hovered
}

// Pose resolves space in frame, treating a nil frame or space as untracked.
func Pose(frame Frame, space Space) (Mat4, bool) {
	if frame == nil || space == nil {
		return Mat4{}, false
	}
	return frame.Pose(space)
}

// setWorldMatrix sets n's local matrix so its world matrix becomes world.
func setWorldMatrix(n *Node, world Mat4) {
	if n.Parent != nil {
		world = n.Parent.worldMatrix.Inv().Mul4(world)
	}
	n.SetMatrix(world)
}

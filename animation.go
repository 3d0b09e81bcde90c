package xr

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates one property of a Node (position, rotation, scale or
// color). A single eased progress value drives the whole property, so vector
// components stay in step and rotations slerp. Create one with TweenPosition,
// TweenRotation, TweenScale or TweenColor and call Update(dt) each frame. If
// the target node is disposed, the group stops without writing.
//
// There is no global animation manager; callers update their own groups.
type TweenGroup struct {
	progress *gween.Tween
	apply    func(t float64)
	target   *Node
	Done     bool
	// OnDone runs once, on the update that finishes the group.
	OnDone func()
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, apply func(t float64)) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	return &TweenGroup{
		progress: gween.New(0, 1, duration, fn),
		apply:    apply,
		target:   node,
	}
}

// Update advances the group by dt seconds and writes the eased value to the
// node.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	t, finished := g.progress.Update(dt)
	if finished {
		t = 1
	}
	g.apply(float64(t))
	if g.target != nil {
		g.target.MarkDirty()
	}
	if finished {
		g.Done = true
		if g.OnDone != nil {
			g.OnDone()
		}
	}
}

func lerpVec3(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// TweenPosition moves node.Position to to.
func TweenPosition(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Position
	return newTweenGroup(node, duration, fn, func(t float64) {
		node.Position = lerpVec3(from, to, t)
	})
}

// TweenRotation turns node.Rotation to to along the shortest arc.
func TweenRotation(node *Node, to Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Rotation
	return newTweenGroup(node, duration, fn, func(t float64) {
		node.Rotation = mgl64.QuatSlerp(from, to, t)
	})
}

// TweenScale sets node.Scale to a uniform from value and animates it to a
// uniform to value.
func TweenScale(node *Node, from, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	node.SetScale(from)
	return newTweenGroup(node, duration, fn, func(t float64) {
		s := lerp(from, to, t)
		node.Scale = Vec3{s, s, s}
	})
}

// TweenColor animates all four components of node.Color to to.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Color
	return newTweenGroup(node, duration, fn, func(t float64) {
		node.Color = Color{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: lerp(from.A, to.A, t),
		}
	})
}

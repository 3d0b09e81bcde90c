package xr

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a world-space ray derived from an input source's target-ray pose.
// It is only valid for the frame it was derived in.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // normalized
	Matrix    Mat4 // the pose the ray was derived from
}

// RayFromPose builds a ray starting at the pose's translation and pointing
// down the pose's local -Z axis.
func RayFromPose(pose Mat4) Ray {
	return Ray{
		Origin:    pose.Col(3).Vec3(),
		Direction: mgl64.TransformNormal(Vec3{0, 0, -1}, pose).Normalize(),
		Matrix:    pose,
	}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// DeriveRay resolves src's target-ray pose in frame. ok is false when the
// pose is not available this frame, which callers treat as "no interaction
// for this source this frame".
func DeriveRay(src *InputSource, frame Frame) (ray Ray, ok bool) {
	if src == nil || frame == nil {
		return Ray{}, false
	}
	pose, ok := frame.Pose(src.TargetRaySpace)
	if !ok {
		return Ray{}, false
	}
	return RayFromPose(pose), true
}

// Hit is a single ray/mesh intersection.
type Hit struct {
	// Node is the mesh that was hit.
	Node *Node
	// Target is Node or its nearest ancestor with a capability slot; nil when
	// no such node exists.
	Target   *Node
	Distance float64
	Point    Vec3 // world space
	Normal   Vec3 // world-space face normal, facing the ray origin
	Face     int  // triangle index in Node.Geometry
}

// Raycaster intersects rays with a scene graph. It keeps a hit buffer
// between calls; the slice returned by Intersect is only valid until the
// next call.
type Raycaster struct {
	Near float64
	Far  float64

	hits []Hit
}

// NewRaycaster returns a raycaster with no distance limits.
func NewRaycaster() *Raycaster {
	return &Raycaster{Near: 0, Far: math.Inf(1)}
}

// Intersect returns every raycastable mesh under root (root included) hit
// by ray, nearest first. Each mesh contributes at most its nearest triangle.
// Invisible subtrees and subtrees with Raycastable=false are skipped. World
// matrices must be current. Returns an empty slice when nothing is hit.
func (r *Raycaster) Intersect(ray Ray, root *Node) []Hit {
	r.hits = r.hits[:0]
	if root != nil {
		r.collect(ray, root)
	}
	slices.SortStableFunc(r.hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return r.hits
}

// Nearest returns the nearest hit whose Target is non-nil, or nil.
func (r *Raycaster) Nearest(ray Ray, root *Node) *Hit {
	for i := range r.Intersect(ray, root) {
		if r.hits[i].Target != nil {
			h := r.hits[i]
			return &h
		}
	}
	return nil
}

// Intersect is a convenience for NewRaycaster().Intersect(ray, root).
func Intersect(ray Ray, root *Node) []Hit {
	return NewRaycaster().Intersect(ray, root)
}

func (r *Raycaster) collect(ray Ray, n *Node) {
	if !n.Visible || !n.Raycastable {
		return
	}
	if n.Geometry != nil && n.Geometry.Primitive == PrimitiveTriangles {
		if hit, ok := r.intersectMesh(ray, n); ok {
			r.hits = append(r.hits, hit)
		}
	}
	for _, child := range n.children {
		r.collect(ray, child)
	}
}

// intersectMesh tests the world-space bounding sphere, then every triangle
// in local space, and returns the nearest hit within [Near, Far].
func (r *Raycaster) intersectMesh(ray Ray, n *Node) (Hit, bool) {
	geo := n.Geometry
	if geo.TriangleCount() == 0 {
		return Hit{}, false
	}
	world := n.worldMatrix

	center, radius := geo.BoundingSphere()
	wc := mgl64.TransformCoordinate(center, world)
	wr := radius * maxAxisScale(world)
	if !raySphere(ray, wc, wr) {
		return Hit{}, false
	}

	inv := world.Inv()
	lo := mgl64.TransformCoordinate(ray.Origin, inv)
	ld := mgl64.TransformNormal(ray.Direction, inv)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for i := 0; i < geo.TriangleCount(); i++ {
		a, b, c := geo.Triangle(i)
		t, ok := intersectTriangle(lo, ld, a, b, c)
		if !ok {
			continue
		}
		point := mgl64.TransformCoordinate(lo.Add(ld.Mul(t)), world)
		dist := point.Sub(ray.Origin).Len()
		if dist < r.Near || dist > r.Far || dist >= best.Distance {
			continue
		}
		normal := mgl64.TransformNormal(b.Sub(a).Cross(c.Sub(a)), inv.Transpose())
		if normal.Len() > 0 {
			normal = normal.Normalize()
		}
		if normal.Dot(ray.Direction) > 0 {
			normal = normal.Mul(-1)
		}
		best = Hit{
			Node:     n,
			Target:   interactiveOwner(n),
			Distance: dist,
			Point:    point,
			Normal:   normal,
			Face:     i,
		}
		found = true
	}
	return best, found
}

// intersectTriangle is the Möller–Trumbore test, double sided. It returns
// the ray parameter t (in units of d) of the intersection.
func intersectTriangle(o, d, a, b, c Vec3) (float64, bool) {
	const eps = 1e-12
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := d.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := o.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := d.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// raySphere reports whether ray passes within radius of center, ahead of
// (or around) the origin.
func raySphere(ray Ray, center Vec3, radius float64) bool {
	oc := center.Sub(ray.Origin)
	tca := oc.Dot(ray.Direction)
	d2 := oc.Dot(oc) - tca*tca
	r2 := radius * radius
	if d2 > r2 {
		return false
	}
	thc := math.Sqrt(r2 - d2)
	return tca+thc >= 0
}

// maxAxisScale returns the largest column length of the upper 3x3.
func maxAxisScale(m Mat4) float64 {
	return math.Max(m.Col(0).Vec3().Len(),
		math.Max(m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()))
}

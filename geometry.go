package xr

import "math"

// Primitive selects how Geometry positions are assembled.
type Primitive uint8

const (
	PrimitiveTriangles Primitive = iota // Indices form triangles; raycastable
	PrimitiveLines                      // consecutive position pairs form segments; never hit
)

// Geometry is a local-space vertex set. Triangle geometry is what rays hit.
type Geometry struct {
	Positions []Vec3
	Indices   []uint16
	Primitive Primitive

	boundsCenter Vec3
	boundsRadius float64
	boundsDirty  bool
}

// NewGeometry creates triangle geometry from positions and indices.
func NewGeometry(positions []Vec3, indices []uint16) *Geometry {
	return &Geometry{Positions: positions, Indices: indices, boundsDirty: true}
}

// NewLineGeometry creates line-segment geometry. Used for lasers.
func NewLineGeometry(points ...Vec3) *Geometry {
	return &Geometry{Positions: points, Primitive: PrimitiveLines, boundsDirty: true}
}

// Invalidate marks the cached bounding sphere stale. Call after editing
// Positions in place.
func (g *Geometry) Invalidate() {
	g.boundsDirty = true
}

// BoundingSphere returns the local-space bounding sphere, recomputing it
// when the geometry was invalidated.
func (g *Geometry) BoundingSphere() (center Vec3, radius float64) {
	if g.boundsDirty {
		g.computeBoundingSphere()
	}
	return g.boundsCenter, g.boundsRadius
}

// computeBoundingSphere centers the sphere on the AABB center and takes the
// farthest vertex as radius.
func (g *Geometry) computeBoundingSphere() {
	g.boundsDirty = false
	if len(g.Positions) == 0 {
		g.boundsCenter = Vec3{}
		g.boundsRadius = 0
		return
	}
	lo, hi := g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	c := lo.Add(hi).Mul(0.5)
	var r2 float64
	for _, p := range g.Positions {
		d := p.Sub(c)
		r2 = math.Max(r2, d.Dot(d))
	}
	g.boundsCenter = c
	g.boundsRadius = math.Sqrt(r2)
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	if g.Primitive != PrimitiveTriangles {
		return 0
	}
	return len(g.Indices) / 3
}

// Triangle returns the local-space corners of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c Vec3) {
	return g.Positions[g.Indices[i*3]],
		g.Positions[g.Indices[i*3+1]],
		g.Positions[g.Indices[i*3+2]]
}

// --- Builders ---

// NewBoxGeometry creates an axis-aligned box centered on the origin.
func NewBoxGeometry(width, height, depth float64) *Geometry {
	x, y, z := width/2, height/2, depth/2
	positions := []Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}, // front
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z}, // back
	}
	indices := []uint16{
		0, 1, 2, 0, 2, 3, // +z
		5, 4, 7, 5, 7, 6, // -z
		1, 5, 6, 1, 6, 2, // +x
		4, 0, 3, 4, 3, 7, // -x
		3, 2, 6, 3, 6, 7, // +y
		4, 5, 1, 4, 1, 0, // -y
	}
	return NewGeometry(positions, indices)
}

// NewPlaneGeometry creates a width x height quad in the XY plane facing +Z.
func NewPlaneGeometry(width, height float64) *Geometry {
	x, y := width/2, height/2
	return NewGeometry(
		[]Vec3{{-x, -y, 0}, {x, -y, 0}, {x, y, 0}, {-x, y, 0}},
		[]uint16{0, 1, 2, 0, 2, 3},
	)
}

// NewSphereGeometry creates a UV sphere. segments is clamped to at least 3
// around and 2 from pole to pole.
func NewSphereGeometry(radius float64, segments int) *Geometry {
	lon := max(segments, 3)
	lat := max(segments/2, 2)

	positions := make([]Vec3, 0, (lat+1)*(lon+1))
	for iy := 0; iy <= lat; iy++ {
		v := float64(iy) / float64(lat)
		theta := v * math.Pi
		for ix := 0; ix <= lon; ix++ {
			u := float64(ix) / float64(lon)
			phi := u * 2 * math.Pi
			positions = append(positions, Vec3{
				-radius * math.Cos(phi) * math.Sin(theta),
				radius * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
			})
		}
	}

	indices := make([]uint16, 0, lat*lon*6)
	row := lon + 1
	for iy := 0; iy < lat; iy++ {
		for ix := 0; ix < lon; ix++ {
			a := uint16(iy*row + ix + 1)
			b := uint16(iy*row + ix)
			c := uint16((iy+1)*row + ix)
			d := uint16((iy+1)*row + ix + 1)
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != lat-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return NewGeometry(positions, indices)
}

package desktop

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/xr"
)

// lightDir is the fixed directional light used for flat shading.
var lightDir = xr.Vec3{0.3, 0.8, 0.5}.Normalize()

// screenTri is one projected, flat-shaded triangle.
type screenTri struct {
	x, y  [3]float32
	depth float64
	color xr.Color
}

// screenLine is one projected line segment.
type screenLine struct {
	x0, y0, x1, y1 float32
	color          xr.Color
}

// drawList is the projected content of one frame, triangles sorted back to
// front.
type drawList struct {
	tris  []screenTri
	lines []screenLine
}

// reset empties the list while keeping its backing arrays.
func (l *drawList) reset() {
	l.tris = l.tris[:0]
	l.lines = l.lines[:0]
}

// build projects every visible mesh under root through cam. Triangles with
// a vertex behind the near plane are dropped.
func (l *drawList) build(root *xr.Node, cam *Camera) {
	l.reset()
	l.collect(root, cam)
	sort.SliceStable(l.tris, func(i, j int) bool {
		return l.tris[i].depth > l.tris[j].depth
	})
}

func (l *drawList) collect(n *xr.Node, cam *Camera) {
	if n == nil || !n.Visible {
		return
	}
	if g := n.Geometry; g != nil && n.Color.A > 0 {
		world := n.WorldMatrix()
		switch g.Primitive {
		case xr.PrimitiveLines:
			l.addLines(g, world, n.Color, cam)
		default:
			l.addTriangles(g, world, n.Color, cam)
		}
	}
	for _, c := range n.Children() {
		l.collect(c, cam)
	}
}

func (l *drawList) addTriangles(g *xr.Geometry, world xr.Mat4, col xr.Color, cam *Camera) {
	for i := range g.TriangleCount() {
		a, b, c := g.Triangle(i)
		wa := mgl64.TransformCoordinate(a, world)
		wb := mgl64.TransformCoordinate(b, world)
		wc := mgl64.TransformCoordinate(c, world)

		var t screenTri
		var depth float64
		visible := true
		for k, p := range [3]xr.Vec3{wa, wb, wc} {
			sx, sy, d, ok := cam.Project(p)
			if !ok {
				visible = false
				break
			}
			t.x[k], t.y[k] = float32(sx), float32(sy)
			depth += d
		}
		if !visible {
			continue
		}
		t.depth = depth / 3
		t.color = shade(col, wb.Sub(wa).Cross(wc.Sub(wa)))
		l.tris = append(l.tris, t)
	}
}

func (l *drawList) addLines(g *xr.Geometry, world xr.Mat4, col xr.Color, cam *Camera) {
	for i := 0; i+1 < len(g.Positions); i += 2 {
		x0, y0, _, ok0 := cam.Project(mgl64.TransformCoordinate(g.Positions[i], world))
		x1, y1, _, ok1 := cam.Project(mgl64.TransformCoordinate(g.Positions[i+1], world))
		if !ok0 || !ok1 {
			continue
		}
		l.lines = append(l.lines, screenLine{
			x0: float32(x0), y0: float32(y0),
			x1: float32(x1), y1: float32(y1),
			color: col,
		})
	}
}

// shade scales col by a two-sided lambert term for the face normal.
func shade(col xr.Color, normal xr.Vec3) xr.Color {
	if normal.Len() == 0 {
		return col
	}
	k := 0.45 + 0.55*math.Abs(normal.Normalize().Dot(lightDir))
	return xr.Color{R: col.R * k, G: col.G * k, B: col.B * k, A: col.A}
}

// whiteImage is the source texture for solid triangles.
var whiteImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img
}()

var whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

// maxBatchTris keeps a DrawTriangles batch within uint16 indices.
const maxBatchTris = 65535 / 3

// drawer owns the reusable vertex buffers for rendering a drawList.
type drawer struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

func (d *drawer) draw(dst *ebiten.Image, l *drawList) {
	op := &ebiten.DrawTrianglesOptions{}
	for start := 0; start < len(l.tris); start += maxBatchTris {
		end := min(start+maxBatchTris, len(l.tris))
		d.vertices = d.vertices[:0]
		d.indices = d.indices[:0]
		for _, t := range l.tris[start:end] {
			base := uint16(len(d.vertices))
			for k := range 3 {
				d.vertices = append(d.vertices, ebiten.Vertex{
					DstX: t.x[k], DstY: t.y[k],
					SrcX: 1, SrcY: 1,
					ColorR: float32(t.color.R * t.color.A),
					ColorG: float32(t.color.G * t.color.A),
					ColorB: float32(t.color.B * t.color.A),
					ColorA: float32(t.color.A),
				})
			}
			d.indices = append(d.indices, base, base+1, base+2)
		}
		dst.DrawTriangles(d.vertices, d.indices, whiteSubImage, op)
	}
	for _, ln := range l.lines {
		vector.StrokeLine(dst, ln.x0, ln.y0, ln.x1, ln.y1, 2, toRGBA(ln.color), true)
	}
}

// toRGBA converts a straight-alpha Color to image/color.
func toRGBA(c xr.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(mgl64.Clamp(c.R, 0, 1) * 255)),
		G: uint8(math.Round(mgl64.Clamp(c.G, 0, 1) * 255)),
		B: uint8(math.Round(mgl64.Clamp(c.B, 0, 1) * 255)),
		A: uint8(math.Round(mgl64.Clamp(c.A, 0, 1) * 255)),
	}
}

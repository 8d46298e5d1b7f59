// Package preview draws a donut3d scene with Ebitengine as a flat donut seen
// along the Z axis. It is a donut3d.Backend: feed it mutations and call Draw
// from the game's Draw method.
package preview

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/donut3d"
	"github.com/phanxgames/donut3d/x3d"
)

// maxBatchVertices keeps a single DrawTriangles call within uint16 indices.
const maxBatchVertices = math.MaxUint16 - 2*(defaultSegments+1)

// debugGlyphWidth is the advance of ebitenutil's debug font.
const debugGlyphWidth = 6

// Layout places the chart on screen.
type Layout struct {
	CenterX, CenterY float64
	Scale            float64 // pixels per scene unit
	Segments         int     // ring quads per full turn, 0 for the default
}

// Slice is the flattened view of one chart series.
type Slice struct {
	Key   string
	Start float64 // clockwise from 12 o'clock, radians
	Sweep float64
	Inner float64 // ring radii in scene units
	Outer float64
	Color donut3d.RGBA
	Label string
}

// Preview mirrors the scene into an x3d.Document and projects it.
type Preview struct {
	Layout Layout
	doc    *x3d.Document

	verts []ebiten.Vertex
	inds  []uint16
}

// New creates a preview with the given layout.
func New(layout Layout) *Preview {
	return &Preview{Layout: layout, doc: x3d.NewDocument()}
}

// Apply mirrors muts. It implements donut3d.Backend.
func (p *Preview) Apply(muts []donut3d.Mutation) error {
	return p.doc.Apply(muts)
}

// Document returns the mirrored scene.
func (p *Preview) Document() *x3d.Document {
	return p.doc
}

// Slices reads the current series out of the mirrored scene in document
// order.
func (p *Preview) Slices() []Slice {
	var out []Slice
	for _, root := range p.doc.Roots() {
		for _, s := range root.FindAll(donut3d.KindTransform, donut3d.ClassSeries) {
			out = append(out, sliceOf(s))
		}
	}
	return out
}

func scalarAttr(el *x3d.Element, name string) float64 {
	if el == nil {
		return 0
	}
	v, ok := el.Attr(name)
	if !ok {
		return 0
	}
	f, _ := v.Scalar()
	return f
}

func sliceOf(series *x3d.Element) Slice {
	sl := Slice{
		Key:   series.Key,
		Start: math.Pi/2 - scalarAttr(series, "rotation"),
		Color: donut3d.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1},
	}
	if torus := series.Find(donut3d.KindTorus, ""); torus != nil {
		sl.Sweep = scalarAttr(torus, "angle")
		tube, ring := scalarAttr(torus, "innerRadius"), scalarAttr(torus, "outerRadius")
		sl.Inner, sl.Outer = ring-tube, ring+tube
	}
	if shape := series.Find(donut3d.KindShape, donut3d.ClassSlice); shape != nil {
		if mat := shape.Find(donut3d.KindMaterial, ""); mat != nil {
			if v, ok := mat.Attr("diffuseColor"); ok && v.Kind == donut3d.ValueVec3 {
				sl.Color = donut3d.RGBA{R: v.Vec[0], G: v.Vec[1], B: v.Vec[2], A: 1}
			}
			sl.Color.A = 1 - scalarAttr(mat, "transparency")
		}
	}
	if label := series.Find(donut3d.KindTransform, donut3d.ClassLabel); label != nil {
		if text := label.Find(donut3d.KindText, ""); text != nil {
			if v, ok := text.Attr("string"); ok {
				sl.Label = v.Str
			}
		}
	}
	return sl
}

// Draw renders every slice as a ring section, then the label lines and
// labels on top.
func (p *Preview) Draw(screen *ebiten.Image) {
	slices := p.Slices()
	l := p.Layout

	p.verts, p.inds = p.verts[:0], p.inds[:0]
	for _, s := range slices {
		p.verts, p.inds = appendRing(p.verts, p.inds, l.CenterX, l.CenterY,
			s.Inner*l.Scale, s.Outer*l.Scale, s.Start, s.Sweep, s.Color, l.Segments)
		if len(p.verts) >= maxBatchVertices {
			p.flush(screen)
		}
	}
	p.flush(screen)

	lineColor := color.Gray{Y: 0xbf}
	for _, s := range slices {
		if s.Label == "" {
			continue
		}
		mid := s.Start + s.Sweep/2
		x0, y0 := polar(l.CenterX, l.CenterY, s.Outer*l.Scale, mid)
		x1, y1 := polar(l.CenterX, l.CenterY, (s.Outer+1.5)*l.Scale, mid)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, lineColor, true)

		w := len(s.Label) * debugGlyphWidth
		tx := int(x1)
		if math.Sin(mid) < 0 {
			tx -= w
		}
		ebitenutil.DebugPrintAt(screen, s.Label, tx, int(y1)-8)
	}
}

func (p *Preview) flush(screen *ebiten.Image) {
	if len(p.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	screen.DrawTriangles(p.verts, p.inds, ensureWhitePixel(), &op)
	p.verts, p.inds = p.verts[:0], p.inds[:0]
}

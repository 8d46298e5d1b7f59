package preview

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/donut3d"
)

// defaultSegments is the number of quads per full turn of the ring.
const defaultSegments = 96

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Ring meshes sample it and take their color from the vertices.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// polar returns the screen point at distance r from (cx, cy), angle a
// clockwise from 12 o'clock.
func polar(cx, cy, r, a float64) (x, y float64) {
	return cx + r*math.Sin(a), cy - r*math.Cos(a)
}

// appendRing appends a ring section between radii inner and outer covering
// [start, start+sweep] to verts and inds. The section is a strip along the
// arc: for N steps it adds 2(N+1) vertices and 6N indices. A zero sweep adds
// nothing.
func appendRing(verts []ebiten.Vertex, inds []uint16, cx, cy, inner, outer, start, sweep float64, c donut3d.RGBA, perTurn int) ([]ebiten.Vertex, []uint16) {
	if sweep <= 0 || outer <= inner {
		return verts, inds
	}
	if perTurn <= 0 {
		perTurn = defaultSegments
	}
	steps := int(math.Ceil(sweep / (2 * math.Pi) * float64(perTurn)))
	if steps < 1 {
		steps = 1
	}

	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	base := uint16(len(verts))
	for i := 0; i <= steps; i++ {
		ang := start + sweep*float64(i)/float64(steps)
		ix, iy := polar(cx, cy, inner, ang)
		ox, oy := polar(cx, cy, outer, ang)
		verts = append(verts,
			ebiten.Vertex{DstX: float32(ix), DstY: float32(iy), SrcX: 0.5, SrcY: 0.5, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
			ebiten.Vertex{DstX: float32(ox), DstY: float32(oy), SrcX: 0.5, SrcY: 0.5, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		)
	}
	for i := 0; i < steps; i++ {
		tl := base + uint16(2*i)
		bl := tl + 1
		tr := tl + 2
		br := tl + 3
		inds = append(inds, tl, bl, tr, tr, bl, br)
	}
	return verts, inds
}

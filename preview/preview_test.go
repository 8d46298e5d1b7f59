package preview

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/donut3d"
)

func TestAppendRingCounts(t *testing.T) {
	verts, inds := appendRing(nil, nil, 0, 0, 10, 20, 0, math.Pi, donut3d.RGBA{R: 1, A: 1}, 8)
	// Half a turn at 8 per turn is 4 quads.
	assert.Len(t, verts, 10)
	assert.Len(t, inds, 24)
	for _, i := range inds {
		assert.Less(t, int(i), len(verts))
	}
	for _, v := range verts {
		assert.Equal(t, float32(1), v.ColorR)
		assert.Equal(t, float32(0), v.ColorG)
	}
}

func TestAppendRingGeometry(t *testing.T) {
	verts, _ := appendRing(nil, nil, 100, 100, 10, 20, 0, math.Pi/2, donut3d.RGBA{A: 1}, 4)
	require.Len(t, verts, 4)
	// Starts at 12 o'clock and runs clockwise to 3 o'clock.
	assert.InDelta(t, 100, verts[0].DstX, 1e-4)
	assert.InDelta(t, 90, verts[0].DstY, 1e-4)
	assert.InDelta(t, 80, verts[1].DstY, 1e-4)
	assert.InDelta(t, 110, verts[2].DstX, 1e-4)
	assert.InDelta(t, 100, verts[2].DstY, 1e-4)
	assert.InDelta(t, 120, verts[3].DstX, 1e-4)
}

func TestAppendRingAppendsAfterExisting(t *testing.T) {
	verts, inds := appendRing(nil, nil, 0, 0, 1, 2, 0, 1, donut3d.RGBA{A: 1}, 0)
	n := len(verts)
	verts, inds = appendRing(verts, inds, 0, 0, 1, 2, 1, 1, donut3d.RGBA{A: 1}, 0)
	assert.Equal(t, uint16(n), inds[len(inds)/2])
}

func TestAppendRingEmpty(t *testing.T) {
	verts, inds := appendRing(nil, nil, 0, 0, 1, 2, 0, 0, donut3d.RGBA{}, 0)
	assert.Empty(t, verts)
	assert.Empty(t, inds)
	verts, _ = appendRing(nil, nil, 0, 0, 2, 1, 0, 1, donut3d.RGBA{}, 0)
	assert.Empty(t, verts)
}

func TestSlicesFollowChart(t *testing.T) {
	p := New(Layout{CenterX: 320, CenterY: 240, Scale: 60})
	c := donut3d.NewChart(p)
	require.NoError(t, c.Render(donut3d.Config{
		Data: []donut3d.Record{
			{Name: "a", Value: 1, Color: donut3d.Named("red")},
			{Name: "b", Value: 3, Color: donut3d.RGBAColor(0, 0, 1, 0.25)},
		},
		LabelFormat: func(name string, _, _ float64) string { return name },
	}))

	slices := p.Slices()
	require.Len(t, slices, 2)

	assert.InDelta(t, 0, slices[0].Start, 1e-9)
	assert.InDelta(t, math.Pi/2, slices[0].Sweep, 1e-9)
	assert.InDelta(t, math.Pi/2, slices[1].Start, 1e-9)
	assert.InDelta(t, 3*math.Pi/2, slices[1].Sweep, 1e-9)

	assert.Equal(t, 0.5, slices[0].Inner)
	assert.Equal(t, 1.5, slices[0].Outer)
	assert.Equal(t, donut3d.RGBA{R: 1, A: 1}, slices[0].Color)
	assert.InDelta(t, 0.25, slices[1].Color.A, 1e-9)
	assert.Equal(t, "a", slices[0].Label)
	assert.Equal(t, "b", slices[1].Label)
}

func TestSlicesTrackTransitions(t *testing.T) {
	p := New(Layout{Scale: 1})
	c := donut3d.NewChart(p)
	cfg := donut3d.DefaultConfig().WithTransitionDuration(time.Second)
	require.NoError(t, c.Render(cfg.WithData([]donut3d.Record{{Value: 1}})))

	require.NoError(t, c.Tick(0))
	require.NoError(t, c.Tick(500*time.Millisecond))
	slices := p.Slices()
	require.Len(t, slices, 1)
	assert.InDelta(t, math.Pi, slices[0].Sweep, 1e-5)
	assert.Equal(t, donut3d.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, slices[0].Color)
	assert.Empty(t, slices[0].Label)

	require.NoError(t, c.Render(cfg))
	assert.Empty(t, p.Slices())
}

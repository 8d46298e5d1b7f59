package x3d

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/donut3d"
)

func floats(t *testing.T, v donut3d.Value) []float64 {
	t.Helper()
	var out []float64
	for _, f := range strings.Fields(v.String()) {
		x, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		out = append(out, x)
	}
	return out
}

func attr(t *testing.T, el *Element, name string) donut3d.Value {
	t.Helper()
	v, ok := el.Attr(name)
	require.True(t, ok, "%s has no %s", el.Name(), name)
	return v
}

func render(t *testing.T, cfg donut3d.Config) (*donut3d.Chart, *Document) {
	t.Helper()
	doc := NewDocument()
	c := donut3d.NewChart(doc)
	require.NoError(t, c.Render(cfg))
	return c, doc
}

func TestDocumentMirrorsChart(t *testing.T) {
	_, doc := render(t, donut3d.Config{Data: []donut3d.Record{
		{Value: 1, Color: donut3d.Named("red")},
		{Value: 2, Color: donut3d.Named("rgba(0, 255, 0, 0.5)")},
		{Value: 3, Color: donut3d.RGBAColor(0, 0, 1, 0)},
	}})

	roots := doc.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "X3D", roots[0].Name())

	series := roots[0].FindAll(donut3d.KindTransform, donut3d.ClassSeries)
	require.Len(t, series, 3)

	starts := []float64{0, 1.0 / 6, 1.0 / 2}
	transparency := []float64{0, 0.5, 1}
	for i, s := range series {
		rot := floats(t, attr(t, s, "rotation"))
		require.Len(t, rot, 4)
		assert.Equal(t, []float64{0, 0, 1}, rot[:3])
		assert.InDelta(t, (0.25-starts[i])*2*math.Pi, rot[3], 1e-9)

		torus := s.Find(donut3d.KindTorus, "")
		require.NotNil(t, torus)
		assert.InDelta(t, float64(i+1)/6*2*math.Pi, floats(t, attr(t, torus, "angle"))[0], 1e-9)

		mat := s.Find(donut3d.KindMaterial, "")
		require.NotNil(t, mat)
		assert.InDelta(t, transparency[i], floats(t, attr(t, mat, "transparency"))[0], 0.01)
	}
	assert.Equal(t, "1 0 0", attr(t, series[0].Find(donut3d.KindMaterial, ""), "diffuseColor").String())
	assert.Equal(t, "0 0 1", attr(t, series[2].Find(donut3d.KindMaterial, ""), "diffuseColor").String())
}

func TestDocumentLabels(t *testing.T) {
	_, doc := render(t, donut3d.Config{
		Data: []donut3d.Record{{Name: "a", Value: 1}, {Name: "b", Value: 1}},
		LabelFormat: func(name string, _, pct float64) string {
			return fmt.Sprintf("%s (%.0f%%)", name, pct)
		},
	})

	texts := doc.Roots()[0].FindAll(donut3d.KindText, "")
	require.Len(t, texts, 2)
	assert.Equal(t, "a (50%)", attr(t, texts[0], "string").String())
	assert.Equal(t, "false", attr(t, texts[0], "solid").String())

	lines := doc.Roots()[0].FindAll(donut3d.KindShape, donut3d.ClassLabelLine)
	require.Len(t, lines, 2)
	coord := lines[0].Find(donut3d.KindCoordinate, "")
	require.NotNil(t, coord)
	assert.Equal(t, "1.5 0 0 3 0 0", attr(t, coord, "point").String())
}

func TestDocumentTracksUpdates(t *testing.T) {
	doc := NewDocument()
	c := donut3d.NewChart(doc)
	key := donut3d.DefaultConfig().WithKey(donut3d.KeyByName).WithTransitionDuration(0)

	a := donut3d.Record{Name: "a", Value: 1}
	b := donut3d.Record{Name: "b", Value: 1}
	d := donut3d.Record{Name: "d", Value: 2}
	require.NoError(t, c.Render(key.WithData([]donut3d.Record{a, b})))
	require.NoError(t, c.Render(key.WithData([]donut3d.Record{d, b})))
	require.NoError(t, c.Render(key.WithData([]donut3d.Record{b, d})))

	series := doc.Roots()[0].FindAll(donut3d.KindTransform, donut3d.ClassSeries)
	require.Len(t, series, 2)
	assert.Equal(t, "b", series[0].Key)
	assert.Equal(t, "d", series[1].Key)

	fresh := NewDocument()
	require.NoError(t, fresh.Apply(c.Snapshot()))
	assert.Equal(t, fresh.Len(), doc.Len())

	want, err := Marshal(fresh)
	require.NoError(t, err)
	got, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestDocumentFollowsTicks(t *testing.T) {
	doc := NewDocument()
	c := donut3d.NewChart(doc)
	cfg := donut3d.DefaultConfig().WithData([]donut3d.Record{{Value: 1}}).WithTransitionDuration(time.Second)
	require.NoError(t, c.Render(cfg))

	torus := doc.Roots()[0].Find(donut3d.KindTorus, "")
	require.NotNil(t, torus)
	assert.Equal(t, "0", attr(t, torus, "angle").String())

	require.NoError(t, c.Tick(0))
	require.NoError(t, c.Tick(2*time.Second))
	assert.InDelta(t, 2*math.Pi, floats(t, attr(t, torus, "angle"))[0], 1e-12)
}

func TestApplyOutOfSync(t *testing.T) {
	cases := map[string]donut3d.Mutation{
		"unknown parent": {Op: donut3d.OpInsert, Node: 5, Parent: 9},
		"bad index":      {Op: donut3d.OpInsert, Node: 5, Parent: hostID, Index: 3},
		"unknown remove": {Op: donut3d.OpRemove, Node: 7},
		"unknown move":   {Op: donut3d.OpMove, Node: 7},
		"unknown set":    {Op: donut3d.OpSet, Node: 7, Attr: "x"},
		"unknown unset":  {Op: donut3d.OpUnset, Node: 7, Attr: "x"},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			err := NewDocument().Apply([]donut3d.Mutation{m})
			assert.ErrorIs(t, err, ErrOutOfSync)
		})
	}

	doc := NewDocument()
	ins := donut3d.Mutation{Op: donut3d.OpInsert, Node: 2, Parent: hostID, Kind: donut3d.KindX3D}
	require.NoError(t, doc.Apply([]donut3d.Mutation{ins}))
	assert.ErrorIs(t, doc.Apply([]donut3d.Mutation{ins}), ErrOutOfSync)
}

func TestApplyRemoveDropsSubtree(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.Apply([]donut3d.Mutation{
		{Op: donut3d.OpInsert, Node: 2, Parent: hostID, Kind: donut3d.KindX3D},
		{Op: donut3d.OpInsert, Node: 3, Parent: 2, Kind: donut3d.KindScene},
		{Op: donut3d.OpInsert, Node: 4, Parent: 3, Kind: donut3d.KindGroup},
	}))
	assert.Equal(t, 3, doc.Len())

	require.NoError(t, doc.Apply([]donut3d.Mutation{{Op: donut3d.OpRemove, Node: 3, Parent: 2}}))
	assert.Equal(t, 1, doc.Len())
	assert.Nil(t, doc.Element(4))
	assert.Empty(t, doc.Element(2).Children)
}

func TestEncode(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.Apply([]donut3d.Mutation{
		{Op: donut3d.OpInsert, Node: 2, Parent: hostID, Kind: donut3d.KindX3D},
		{Op: donut3d.OpSet, Node: 2, Attr: "style", Value: donut3d.StringValue("height: 1px;")},
		{Op: donut3d.OpInsert, Node: 3, Parent: 2, Kind: donut3d.KindScene},
		{Op: donut3d.OpInsert, Node: 4, Parent: 3, Kind: donut3d.KindGroup, Class: "chart"},
		{Op: donut3d.OpInsert, Node: 5, Parent: 3, Index: 1, Kind: donut3d.KindTransform},
		{Op: donut3d.OpSet, Node: 5, Attr: "rotation", Value: donut3d.ZRotation(0.5)},
	}))

	out, err := Marshal(doc)
	require.NoError(t, err)
	want := `<?xml version="1.0" encoding="UTF-8"?>
<X3D style="height: 1px;">
  <Scene>
    <Group class="chart"></Group>
    <Transform rotation="0 0 1 0.5"></Transform>
  </Scene>
</X3D>
`
	assert.Equal(t, want, string(out))

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetHeader(false)
	enc.SetIndent("")
	require.NoError(t, enc.Encode(doc))
	assert.Equal(t, `<X3D style="height: 1px;"><Scene><Group class="chart"></Group><Transform rotation="0 0 1 0.5"></Transform></Scene></X3D>`, buf.String())
}

func TestEncodeEscapesLabels(t *testing.T) {
	_, doc := render(t, donut3d.Config{
		Data:        []donut3d.Record{{Name: `<"&">`, Value: 1}},
		LabelFormat: func(name string, _, _ float64) string { return name },
	})
	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `<"&">`)
	assert.Contains(t, string(out), `&lt;&#34;&amp;&#34;&gt;`)
}

func TestWriteTo(t *testing.T) {
	_, doc := render(t, donut3d.Config{Data: []donut3d.Record{{Value: 1}}})
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)
	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))
}

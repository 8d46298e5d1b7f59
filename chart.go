package donut3d

import (
	"fmt"
	"math"
	"time"
)

// Chart geometry, in X3D scene units.
const (
	minorRadius = 0.5 // torus tube radius (X3DOM's innerRadius)
	majorRadius = 1.0 // torus ring radius (X3DOM's outerRadius)
	outerRadius = majorRadius + minorRadius
	labelOffset = 1.5
)

// Attribute names the chart writes.
const (
	attrRotation     = "rotation"
	attrAngle        = "angle"
	attrTranslation  = "translation"
	attrStyle        = "style"
	attrDiffuseColor = "diffuseColor"
)

// Classes of the chart's structural nodes.
const (
	ClassChart     = "chart"
	ClassSeries    = "chart-series"
	ClassSlice     = "chart-series-slice"
	ClassLabel     = "chart-series-label"
	ClassLabelLine = "chart-series-label-line"
	ClassLabelText = "chart-series-label-text"
)

const fontJustify = `"middle" "middle"`

// Chart renders records as a donut chart scene and keeps the scene in sync
// across renders. It owns its tree and scheduler exclusively and is not safe
// for concurrent use.
type Chart struct {
	tree    *Tree
	sched   *Scheduler
	backend Backend
	cfg     Config

	// animated maps animatable attribute names to their curve; every other
	// attribute is written synchronously during reconciliation.
	animated map[string]Curve

	stats Stats
	debug bool
}

// NewChart creates a chart that forwards its mutations to backend. backend
// may be nil, in which case the tree is still maintained and can be read
// through Tree or Snapshot.
func NewChart(backend Backend) *Chart {
	c := &Chart{
		tree:    NewTree(),
		sched:   NewScheduler(),
		backend: backend,
		animated: map[string]Curve{
			attrRotation: CurveLinear,
			attrAngle:    CurveLinear,
		},
	}
	c.tree.onDispose = c.sched.Cancel
	return c
}

// Tree returns the chart's scene tree. Callers must treat it as read-only.
func (c *Chart) Tree() *Tree {
	return c.tree
}

// Scheduler returns the chart's transition scheduler.
func (c *Chart) Scheduler() *Scheduler {
	return c.sched
}

// Config returns the config of the last successful render.
func (c *Chart) Config() Config {
	return c.cfg
}

// Stats returns the counters of the last successful render.
func (c *Chart) Stats() Stats {
	return c.stats
}

// Animating reports whether any transition is still running.
func (c *Chart) Animating() bool {
	return c.sched.Len() > 0
}

// Snapshot returns the mutations that rebuild the current scene from scratch,
// for backends attached after the first render.
func (c *Chart) Snapshot() []Mutation {
	return c.tree.Snapshot()
}

// SetDebugMode enables disposed-node panics and tree-size warnings.
func (c *Chart) SetDebugMode(enabled bool) {
	c.debug = enabled
	c.tree.SetDebugMode(enabled)
}

// Render reconciles the scene against cfg and sends the resulting mutations
// to the backend. Rendering the same config twice produces no mutations the
// second time. On error the scene is left exactly as it was, except when the
// backend itself fails, in which case the tree is already updated and the
// backend can resync from Snapshot.
func (c *Chart) Render(cfg Config) error {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return err
	}
	segments, err := Compute(cfg.Data, cfg.LabelFormat)
	if err != nil {
		return err
	}
	keys, err := cfg.keys()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.animated[attrRotation] = cfg.RotationCurve
	c.sched.SetEase(cfg.Ease)
	c.stats = Stats{}

	c.renderX3D(segments, keys)

	muts := c.tree.Flush()
	c.stats.Mutations = len(muts)
	c.stats.Duration = time.Since(start)
	Logger().Debug("render", "segments", len(segments), "stats", c.stats)

	return c.emit(muts)
}

// Tick advances running transitions to now and sends the interpolated
// attribute writes to the backend.
func (c *Chart) Tick(now time.Duration) error {
	tickErr := c.sched.Tick(now)
	if tickErr != nil {
		Logger().Error("tick", "err", tickErr)
	}
	if err := c.emit(c.tree.Flush()); err != nil {
		return err
	}
	return tickErr
}

func (c *Chart) emit(muts []Mutation) error {
	if len(muts) == 0 || c.backend == nil {
		return nil
	}
	if err := c.backend.Apply(muts); err != nil {
		Logger().Warn("backend apply failed", "mutations", len(muts), "err", err)
		return fmt.Errorf("apply %d mutations: %w", len(muts), err)
	}
	return nil
}

// --- Scene structure ---

func (c *Chart) renderX3D(segments []Segment, keys []string) {
	x3d := c.one(c.tree.Root(), KindX3D, "")
	if style := c.style(); style != "" {
		x3d.SetAttr(attrStyle, StringValue(style))
	} else {
		x3d.UnsetAttr(attrStyle)
	}

	scene := c.one(x3d, KindScene, "")
	chart := c.one(scene, KindGroup, ClassChart)
	c.renderSeries(chart, segments, keys)
}

func (c *Chart) style() string {
	var s string
	if c.cfg.Height != nil {
		s = "height: " + *c.cfg.Height + ";"
	}
	if c.cfg.Width != nil {
		if s != "" {
			s += " "
		}
		s += "width: " + *c.cfg.Width + ";"
	}
	return s
}

func (c *Chart) renderSeries(chart *Node, segments []Segment, keys []string) {
	res := c.tree.Reconcile(chart, KindTransform, ClassSeries, len(segments), func(i int) string { return keys[i] })
	c.stats.add(res)
	for i, n := range res.Nodes {
		s := segments[i]
		c.animate(n, attrRotation, ZRotation(math.Pi/2-s.StartAngle))
		c.renderSlice(n, s)
		c.renderLabel(n, s)
	}
}

func (c *Chart) renderSlice(series *Node, s Segment) {
	shape := c.one(series, KindShape, ClassSlice)

	torus := c.one(shape, KindTorus, "")
	torus.SetAttr("innerRadius", Number(minorRadius))
	torus.SetAttr("outerRadius", Number(majorRadius))
	torus.SetAttr("useGeoCache", BoolValue(false))
	c.animate(torus, attrAngle, Number(s.SweepAngle))

	material := c.one(c.one(shape, KindAppearance, ""), KindMaterial, "")
	material.SetAttr(attrDiffuseColor, ColorValue(s.Color))
	material.SetAttr("transparency", Number(s.Color.Transparency()))
}

func (c *Chart) renderLabel(series *Node, s Segment) {
	label := c.optional(series, KindTransform, ClassLabel, s.Label != "")
	if label == nil {
		return
	}
	c.animate(label, attrRotation, ZRotation(-s.SweepAngle/2))

	line := c.one(label, KindShape, ClassLabelLine)
	lineset := c.one(line, KindLineSet, "")
	lineset.SetAttr("vertexCount", Number(2))
	coord := c.one(lineset, KindCoordinate, "")
	coord.SetAttr("point", StringValue(joinFloats([]float64{outerRadius, 0, 0, outerRadius + labelOffset, 0, 0})))
	lineMaterial := c.one(c.one(line, KindAppearance, ""), KindMaterial, "")
	lineMaterial.SetAttr("emissiveColor", Vec3(0.75, 0.75, 0.75))

	text := c.one(label, KindTransform, ClassLabelText)
	text.SetAttr(attrTranslation, Vec3(outerRadius+labelOffset, 0, 0))
	c.animate(text, attrRotation, ZRotation(-math.Pi/2+s.StartAngle+s.SweepAngle/2))

	textShape := c.one(text, KindShape, "")
	textNode := c.one(textShape, KindText, "")
	textNode.SetAttr("string", StringValue(s.Label))
	textNode.SetAttr("solid", BoolValue(false))
	font := c.one(textNode, KindFontStyle, "")
	font.SetAttr("family", StringValue("sans-serif"))
	font.SetAttr("justify", StringValue(fontJustify))
	font.SetAttr("size", Number(0.25))
	textMaterial := c.one(c.one(textShape, KindAppearance, ""), KindMaterial, "")
	textMaterial.SetAttr(attrDiffuseColor, Vec3(0, 0, 0))
}

// one and optional reconcile single-child slots and count them in the stats.
func (c *Chart) one(parent *Node, kind NodeKind, class string) *Node {
	res := c.tree.Reconcile(parent, kind, class, 1, nil)
	c.stats.add(res)
	return res.Nodes[0]
}

func (c *Chart) optional(parent *Node, kind NodeKind, class string, present bool) *Node {
	n := 0
	if present {
		n = 1
	}
	res := c.tree.Reconcile(parent, kind, class, n, nil)
	c.stats.add(res)
	if len(res.Nodes) == 0 {
		return nil
	}
	return res.Nodes[0]
}

// animate moves attr on n towards target. Non-animatable attributes are
// written at once. Animatable ones start from their current value, or from
// the at-rest value (scalar 0) on a node that never had the attribute, and
// are handed to the scheduler; a transition already heading to target is
// left alone so identical renders stay free of mutations.
func (c *Chart) animate(n *Node, attr string, target Value) {
	curve, ok := c.animated[attr]
	if !ok {
		n.SetAttr(attr, target)
		return
	}
	to, _ := target.Scalar()

	if tr := c.sched.Active(n, attr); tr != nil {
		// A zero duration still has to cut a running transition short.
		if tr.To == to && c.cfg.TransitionDuration > 0 {
			return
		}
		c.sched.ScheduleCurve(n, attr, tr.From, to, c.cfg.TransitionDuration, curve)
		c.stats.Scheduled++
		return
	}

	if c.cfg.TransitionDuration <= 0 {
		n.SetAttr(attr, target)
		return
	}

	cur, ok := n.Attr(attr)
	if !ok {
		cur = target.WithScalar(0)
	}
	from, _ := cur.Scalar()
	// Non-animatable parts of the value (the rotation axis) apply at once.
	n.SetAttr(attr, target.WithScalar(from))
	if from == to {
		return
	}
	c.sched.ScheduleCurve(n, attr, from, to, c.cfg.TransitionDuration, curve)
	c.stats.Scheduled++
}

package donut3d

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tanema/gween/ease"
)

// ErrInvalidConfig is returned by Config.Validate and Chart.Render for
// settings that cannot be rendered.
var ErrInvalidConfig = errors.New("donut3d: invalid config")

// DefaultTransitionDuration matches the default transition length of the
// browser charting libraries this chart is usually paired with.
const DefaultTransitionDuration = 250 * time.Millisecond

// RecordKeyFunc returns the identity of a record. Records with the same key
// across renders keep their scene nodes (and running transitions), so a
// reordered data set moves nodes instead of re-targeting them.
type RecordKeyFunc func(r Record, i int) string

// KeyByName keys records by their Name.
func KeyByName(r Record, _ int) string {
	return r.Name
}

// Config parameterizes a render pass. The zero value is valid: no data, no
// labels and instant (unanimated) updates. Use DefaultConfig for the usual
// animated chart.
//
// The With* methods return a modified copy, so configs chain:
//
//	cfg := donut3d.DefaultConfig().
//		WithData(records).
//		WithLabelFormat(format).
//		WithSize("800px", "600px")
type Config struct {
	Data               []Record
	LabelFormat        LabelFormatter // nil: no labels
	TransitionDuration time.Duration  // 0: apply immediately
	Height             *string        // CSS dimension of the canvas, nil: unset
	Width              *string

	Key           RecordKeyFunc  // nil: positional keys
	Ease          ease.TweenFunc // nil: ease.Linear
	RotationCurve Curve          // interpolation of rotation attributes
}

// DefaultConfig returns a config with DefaultTransitionDuration and linear easing.
func DefaultConfig() Config {
	return Config{
		Data:               []Record{},
		TransitionDuration: DefaultTransitionDuration,
		Ease:               ease.Linear,
	}
}

// WithData returns a copy of c rendering records.
func (c Config) WithData(records []Record) Config {
	c.Data = records
	return c
}

// WithLabelFormat returns a copy of c using f for labels; nil disables labels.
func (c Config) WithLabelFormat(f LabelFormatter) Config {
	c.LabelFormat = f
	return c
}

// WithTransitionDuration returns a copy of c animating over d.
func (c Config) WithTransitionDuration(d time.Duration) Config {
	c.TransitionDuration = d
	return c
}

// WithHeight returns a copy of c with the canvas height set.
func (c Config) WithHeight(h string) Config {
	c.Height = &h
	return c
}

// WithWidth returns a copy of c with the canvas width set.
func (c Config) WithWidth(w string) Config {
	c.Width = &w
	return c
}

// WithSize returns a copy of c with both canvas dimensions set.
func (c Config) WithSize(width, height string) Config {
	return c.WithWidth(width).WithHeight(height)
}

// WithKey returns a copy of c keying records with k.
func (c Config) WithKey(k RecordKeyFunc) Config {
	c.Key = k
	return c
}

// WithEase returns a copy of c easing transitions with fn.
func (c Config) WithEase(fn ease.TweenFunc) Config {
	c.Ease = fn
	return c
}

// WithRotationCurve returns a copy of c interpolating rotations with curve.
func (c Config) WithRotationCurve(curve Curve) Config {
	c.RotationCurve = curve
	return c
}

// Validate checks every setting and record without rendering anything.
func (c Config) Validate() error {
	if c.TransitionDuration < 0 {
		return fmt.Errorf("%w: negative transition duration %v", ErrInvalidConfig, c.TransitionDuration)
	}
	if c.RotationCurve > CurveShortestArc {
		return fmt.Errorf("%w: unknown rotation curve %d", ErrInvalidConfig, c.RotationCurve)
	}
	for i, r := range c.Data {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
			return fmt.Errorf("%w: record %d (%q) has value %v", ErrInvalidRecord, i, r.Name, r.Value)
		}
		if _, err := r.Color.Resolve(); err != nil {
			return fmt.Errorf("record %d (%q): %w", i, r.Name, err)
		}
	}
	if _, err := c.keys(); err != nil {
		return err
	}
	return nil
}

// keys returns the reconciliation key of every record.
func (c Config) keys() ([]string, error) {
	keys := make([]string, len(c.Data))
	seen := make(map[string]int, len(c.Data))
	for i, r := range c.Data {
		k := strconv.Itoa(i)
		if c.Key != nil {
			k = c.Key(r, i)
		}
		if j, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: records %d and %d share key %q", ErrInvalidConfig, j, i, k)
		}
		seen[k] = i
		keys[i] = k
	}
	return keys, nil
}

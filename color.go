package donut3d

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"cogentcore.org/core/colors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidColor is returned when a ColorSpec cannot be resolved to RGBA.
var ErrInvalidColor = errors.New("donut3d: invalid color")

type colorTag uint8

const (
	colorUnset colorTag = iota
	colorNamed
	colorRGBA
)

// ColorSpec is either a CSS color string or an explicit RGBA tuple. The zero
// value is valid and resolves to a neutral gray.
type ColorSpec struct {
	tag  colorTag
	name string
	rgba RGBA
}

// Named returns a ColorSpec for a CSS color string: a color name, #hex,
// rgb(), rgba(), hsl() or hsla().
func Named(s string) ColorSpec {
	return ColorSpec{tag: colorNamed, name: s}
}

// RGB returns an opaque ColorSpec with channels in [0, 1].
func RGB(r, g, b float64) ColorSpec {
	return RGBAColor(r, g, b, 1)
}

// RGBAColor returns a ColorSpec with channels and alpha in [0, 1].
func RGBAColor(r, g, b, a float64) ColorSpec {
	return ColorSpec{tag: colorRGBA, rgba: RGBA{r, g, b, a}}
}

// FromColor converts a standard color.Color to a ColorSpec. Non-premultiplied
// colors keep their channels even when fully transparent.
func FromColor(c color.Color) ColorSpec {
	if n, ok := c.(color.NRGBA); ok {
		return RGBAColor(float64(n.R)/0xff, float64(n.G)/0xff, float64(n.B)/0xff, float64(n.A)/0xff)
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBAColor(
		float64(n.R)/0xffff,
		float64(n.G)/0xffff,
		float64(n.B)/0xffff,
		float64(n.A)/0xffff,
	)
}

// IsZero reports whether the spec was left unset.
func (c ColorSpec) IsZero() bool {
	return c.tag == colorUnset
}

// String returns the CSS string for named colors and an rgba() form otherwise.
func (c ColorSpec) String() string {
	switch c.tag {
	case colorNamed:
		return c.name
	case colorRGBA:
		return fmt.Sprintf("rgba(%g, %g, %g, %g)", c.rgba.R*255, c.rgba.G*255, c.rgba.B*255, c.rgba.A)
	default:
		return ""
	}
}

// Resolve returns the canonical RGBA value for the spec.
func (c ColorSpec) Resolve() (RGBA, error) {
	switch c.tag {
	case colorUnset:
		return neutralColor, nil
	case colorRGBA:
		if !c.rgba.valid() {
			return RGBA{}, fmt.Errorf("%w: channels out of range in %v", ErrInvalidColor, c.rgba)
		}
		return c.rgba, nil
	}
	s := strings.TrimSpace(c.name)
	if s == "" {
		return RGBA{}, fmt.Errorf("%w: empty color string", ErrInvalidColor)
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		return parseRGBFunc(lower)
	}
	rgba, err := colors.FromString(s, nil)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	return FromColor(rgba).rgba, nil
}

// parseRGBFunc parses rgb(r, g, b) and rgba(r, g, b, a). Channels are 0-255 or
// percentages; alpha is a fraction in [0, 1] or a percentage.
func parseRGBFunc(s string) (RGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if end != len(s)-1 {
		return RGBA{}, fmt.Errorf("%w: %q: missing closing parenthesis", ErrInvalidColor, s)
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, fmt.Errorf("%w: %q: want 3 or 4 components", ErrInvalidColor, s)
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		p = strings.TrimSpace(p)
		pct := strings.HasSuffix(p, "%")
		v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		switch {
		case pct:
			v /= 100
		case i < 3:
			v /= 255
		}
		ch[i] = v
	}
	c := RGBA{ch[0], ch[1], ch[2], ch[3]}
	if !c.valid() {
		return RGBA{}, fmt.Errorf("%w: %q: component out of range", ErrInvalidColor, s)
	}
	return c, nil
}

// UnmarshalYAML accepts a color string, a [r, g, b] or [r, g, b, a] sequence,
// or an {r, g, b, a} mapping. Sequence and mapping channels are in [0, 1];
// a missing alpha means opaque.
func (c *ColorSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*c = Named(s)
		return nil
	case yaml.SequenceNode:
		var ch []float64
		if err := value.Decode(&ch); err != nil {
			return err
		}
		switch len(ch) {
		case 3:
			*c = RGB(ch[0], ch[1], ch[2])
		case 4:
			*c = RGBAColor(ch[0], ch[1], ch[2], ch[3])
		default:
			return fmt.Errorf("%w: line %d: want 3 or 4 channels, got %d", ErrInvalidColor, value.Line, len(ch))
		}
		return nil
	case yaml.MappingNode:
		m := struct {
			R, G, B float64
			A       *float64
		}{}
		if err := value.Decode(&m); err != nil {
			return err
		}
		a := 1.0
		if m.A != nil {
			a = *m.A
		}
		*c = RGBAColor(m.R, m.G, m.B, a)
		return nil
	}
	return fmt.Errorf("%w: line %d: unsupported YAML node", ErrInvalidColor, value.Line)
}

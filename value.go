package donut3d

import (
	"strconv"
	"strings"
)

// ValueKind selects which field of a Value is meaningful.
type ValueKind uint8

const (
	ValueNumber   ValueKind = iota // Num
	ValueBool                      // Bool
	ValueString                    // Str, emitted verbatim
	ValueVec3                      // Vec[0:3]
	ValueRotation                  // axis Vec[0:3], angle Vec[3]
)

// Value is an attribute value in X3D terms. Values are comparable with ==,
// which reconciliation relies on to skip unchanged writes.
type Value struct {
	Kind ValueKind
	Num  float64
	Bool bool
	Str  string
	Vec  [4]float64
}

// Number returns a numeric attribute value.
func Number(v float64) Value { return Value{Kind: ValueNumber, Num: v} }

// BoolValue returns a boolean attribute value.
func BoolValue(v bool) Value { return Value{Kind: ValueBool, Bool: v} }

// StringValue returns a verbatim string attribute value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// Vec3 returns a three-component attribute value (points, colors, translations).
func Vec3(x, y, z float64) Value { return Value{Kind: ValueVec3, Vec: [4]float64{x, y, z}} }

// ColorValue returns the diffuse RGB triple of c.
func ColorValue(c RGBA) Value { return Vec3(c.R, c.G, c.B) }

// Rotation returns an axis-angle rotation value.
func Rotation(x, y, z, angle float64) Value {
	return Value{Kind: ValueRotation, Vec: [4]float64{x, y, z, angle}}
}

// ZRotation returns a rotation about the z axis, the only axis the chart uses.
func ZRotation(angle float64) Value { return Rotation(0, 0, 1, angle) }

// Scalar returns the component transitions animate: the number itself, or
// the angle of a rotation. ok is false for kinds that cannot be animated.
func (v Value) Scalar() (s float64, ok bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Num, true
	case ValueRotation:
		return v.Vec[3], true
	}
	return 0, false
}

// WithScalar returns v with its animatable component replaced by s.
func (v Value) WithScalar(s float64) Value {
	switch v.Kind {
	case ValueNumber:
		v.Num = s
	case ValueRotation:
		v.Vec[3] = s
	}
	return v
}

// String renders the value in X3D attribute syntax, e.g. "0 0 1 1.5707963267948966".
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return formatFloat(v.Num)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueString:
		return v.Str
	case ValueVec3:
		return joinFloats(v.Vec[:3])
	case ValueRotation:
		return joinFloats(v.Vec[:])
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFloats(fs []float64) string {
	var b strings.Builder
	for i, f := range fs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatFloat(f))
	}
	return b.String()
}

package donut3d

import "math"

// RGBA represents a color with components in [0, 1]. Not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// neutralColor is used for records that carry no color.
var neutralColor = RGBA{0.5, 0.5, 0.5, 1}

// valid reports whether every channel is a finite number in [0, 1].
func (c RGBA) valid() bool {
	for _, v := range [4]float64{c.R, c.G, c.B, c.A} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Transparency returns 1 - A, the X3D material transparency for this color.
func (c RGBA) Transparency() float64 {
	return 1 - c.A
}

// NodeKind is the X3D element a Node stands for.
type NodeKind uint8

const (
	KindHost       NodeKind = iota // tree root standing in for the host element
	KindX3D                        // <x3d> canvas element
	KindScene                      // <scene>
	KindGroup                      // <group>
	KindTransform                  // <transform> with rotation/translation
	KindShape                      // <shape>
	KindTorus                      // <torus> geometry
	KindAppearance                 // <appearance>
	KindMaterial                   // <material>
	KindLineSet                    // <lineset>
	KindCoordinate                 // <coordinate>
	KindText                       // <text>
	KindFontStyle                  // <fontstyle>
)

var kindNames = [...]string{
	KindHost:       "host",
	KindX3D:        "x3d",
	KindScene:      "scene",
	KindGroup:      "group",
	KindTransform:  "transform",
	KindShape:      "shape",
	KindTorus:      "torus",
	KindAppearance: "appearance",
	KindMaterial:   "material",
	KindLineSet:    "lineset",
	KindCoordinate: "coordinate",
	KindText:       "text",
	KindFontStyle:  "fontstyle",
}

// String returns the X3D element name for the kind.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Op identifies the kind of scene mutation.
type Op uint8

const (
	OpInsert Op = iota // node inserted under Parent at Index
	OpRemove           // node and its subtree detached from Parent
	OpMove             // existing node moved to Index among its siblings
	OpSet              // attribute Attr set to Value
	OpUnset            // attribute Attr removed
)

var opNames = [...]string{
	OpInsert: "insert",
	OpRemove: "remove",
	OpMove:   "move",
	OpSet:    "set",
	OpUnset:  "unset",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Curve selects how a transition interpolates between its endpoints.
type Curve uint8

const (
	CurveLinear      Curve = iota // plain interpolation through the configured ease
	CurveShortestArc              // angular interpolation along the shorter arc
)

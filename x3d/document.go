// Package x3d mirrors a donut3d mutation stream into an in-memory X3D
// document and encodes it as X3D XML.
package x3d

import (
	"errors"
	"fmt"

	"github.com/phanxgames/donut3d"
)

// ErrOutOfSync is returned by Document.Apply when a mutation refers to a node
// the document does not know, or would place it out of range. The document
// should be rebuilt from donut3d.Chart.Snapshot.
var ErrOutOfSync = errors.New("x3d: document out of sync")

// hostID is the ID of the tree root every stream hangs off.
const hostID = 1

var elementNames = map[donut3d.NodeKind]string{
	donut3d.KindX3D:        "X3D",
	donut3d.KindScene:      "Scene",
	donut3d.KindGroup:      "Group",
	donut3d.KindTransform:  "Transform",
	donut3d.KindShape:      "Shape",
	donut3d.KindTorus:      "Torus",
	donut3d.KindAppearance: "Appearance",
	donut3d.KindMaterial:   "Material",
	donut3d.KindLineSet:    "LineSet",
	donut3d.KindCoordinate: "Coordinate",
	donut3d.KindText:       "Text",
	donut3d.KindFontStyle:  "FontStyle",
}

// ElementName returns the X3D element name for kind.
func ElementName(kind donut3d.NodeKind) string {
	if name, ok := elementNames[kind]; ok {
		return name
	}
	return kind.String()
}

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value donut3d.Value
}

// Element is a node of the mirrored document.
type Element struct {
	ID       uint32
	Kind     donut3d.NodeKind
	Class    string
	Key      string
	Attrs    []Attr // in first-set order
	Parent   *Element
	Children []*Element
}

// Name returns the X3D element name.
func (e *Element) Name() string {
	return ElementName(e.Kind)
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (donut3d.Value, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return donut3d.Value{}, false
}

// Find returns the first element in e's subtree (e included) with the given
// kind and class, depth first, or nil.
func (e *Element) Find(kind donut3d.NodeKind, class string) *Element {
	if e.Kind == kind && e.Class == class {
		return e
	}
	for _, c := range e.Children {
		if f := c.Find(kind, class); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every element in e's subtree with the given kind and class
// in document order.
func (e *Element) FindAll(kind donut3d.NodeKind, class string) []*Element {
	var out []*Element
	e.walk(func(el *Element) {
		if el.Kind == kind && el.Class == class {
			out = append(out, el)
		}
	})
	return out
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.walk(fn)
	}
}

func (e *Element) setAttr(name string, v donut3d.Value) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = v
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: v})
}

func (e *Element) unsetAttr(name string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.Children {
		if c == child {
			copy(e.Children[i:], e.Children[i+1:])
			e.Children[len(e.Children)-1] = nil
			e.Children = e.Children[:len(e.Children)-1]
			return
		}
	}
}

func (e *Element) insertChild(child *Element, index int) {
	e.Children = append(e.Children, nil)
	copy(e.Children[index+1:], e.Children[index:])
	e.Children[index] = child
	child.Parent = e
}

// Document is a donut3d.Backend that keeps a copy of the scene. It is not
// safe for concurrent use.
type Document struct {
	host *Element
	byID map[uint32]*Element
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	host := &Element{ID: hostID, Kind: donut3d.KindHost}
	return &Document{
		host: host,
		byID: map[uint32]*Element{hostID: host},
	}
}

// Roots returns the top-level elements, normally a single X3D element.
func (d *Document) Roots() []*Element {
	return d.host.Children
}

// Element returns the element mirroring node id, or nil.
func (d *Document) Element(id uint32) *Element {
	return d.byID[id]
}

// Len returns the number of mirrored elements, excluding the host.
func (d *Document) Len() int {
	return len(d.byID) - 1
}

// Reset drops every element.
func (d *Document) Reset() {
	*d = *NewDocument()
}

// Apply mirrors muts into the document. Application stops at the first
// mutation that does not fit the current document.
func (d *Document) Apply(muts []donut3d.Mutation) error {
	for i, m := range muts {
		if err := d.apply(m); err != nil {
			return fmt.Errorf("mutation %d (%v): %w", i, m, err)
		}
	}
	return nil
}

func (d *Document) apply(m donut3d.Mutation) error {
	switch m.Op {
	case donut3d.OpInsert:
		parent := d.byID[m.Parent]
		if parent == nil {
			return fmt.Errorf("%w: unknown parent #%d", ErrOutOfSync, m.Parent)
		}
		if _, dup := d.byID[m.Node]; dup {
			return fmt.Errorf("%w: node #%d inserted twice", ErrOutOfSync, m.Node)
		}
		if m.Index < 0 || m.Index > len(parent.Children) {
			return fmt.Errorf("%w: index %d out of range [0, %d]", ErrOutOfSync, m.Index, len(parent.Children))
		}
		el := &Element{ID: m.Node, Kind: m.Kind, Class: m.Class, Key: m.Key}
		parent.insertChild(el, m.Index)
		d.byID[m.Node] = el

	case donut3d.OpRemove:
		el := d.byID[m.Node]
		if el == nil || el.Parent == nil {
			return fmt.Errorf("%w: unknown node #%d", ErrOutOfSync, m.Node)
		}
		el.Parent.removeChild(el)
		el.walk(func(e *Element) { delete(d.byID, e.ID) })
		el.Parent = nil

	case donut3d.OpMove:
		el := d.byID[m.Node]
		if el == nil || el.Parent == nil {
			return fmt.Errorf("%w: unknown node #%d", ErrOutOfSync, m.Node)
		}
		parent := el.Parent
		if m.Index < 0 || m.Index >= len(parent.Children) {
			return fmt.Errorf("%w: index %d out of range [0, %d)", ErrOutOfSync, m.Index, len(parent.Children))
		}
		parent.removeChild(el)
		parent.insertChild(el, m.Index)

	case donut3d.OpSet:
		el := d.byID[m.Node]
		if el == nil {
			return fmt.Errorf("%w: unknown node #%d", ErrOutOfSync, m.Node)
		}
		el.setAttr(m.Attr, m.Value)

	case donut3d.OpUnset:
		el := d.byID[m.Node]
		if el == nil {
			return fmt.Errorf("%w: unknown node #%d", ErrOutOfSync, m.Node)
		}
		el.unsetAttr(m.Attr)

	default:
		return fmt.Errorf("%w: unknown op %v", ErrOutOfSync, m.Op)
	}
	return nil
}

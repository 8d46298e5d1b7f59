package donut3d

import "fmt"

// Mutation is one entry of the ordered stream a Backend consumes. Which
// fields are meaningful depends on Op:
//
//	OpInsert: Node, Parent, Index, Kind, Class, Key
//	OpRemove: Node, Parent
//	OpMove:   Node, Parent, Index
//	OpSet:    Node, Attr, Value
//	OpUnset:  Node, Attr
//
// Parent 1 is always the host root.
type Mutation struct {
	Op     Op
	Node   uint32
	Parent uint32
	Index  int
	Kind   NodeKind
	Class  string
	Key    string
	Attr   string
	Value  Value
}

// String formats the mutation for logs and test failures.
func (m Mutation) String() string {
	switch m.Op {
	case OpInsert:
		return fmt.Sprintf("insert #%d %s.%s[%s] into #%d at %d", m.Node, m.Kind, m.Class, m.Key, m.Parent, m.Index)
	case OpRemove:
		return fmt.Sprintf("remove #%d from #%d", m.Node, m.Parent)
	case OpMove:
		return fmt.Sprintf("move #%d to %d in #%d", m.Node, m.Index, m.Parent)
	case OpSet:
		return fmt.Sprintf("set #%d %s=%q", m.Node, m.Attr, m.Value.String())
	case OpUnset:
		return fmt.Sprintf("unset #%d %s", m.Node, m.Attr)
	}
	return "unknown mutation"
}

// Backend consumes mutation batches. Batches arrive in the order the tree
// changed: a node's insertion always precedes its attributes and children.
type Backend interface {
	Apply(muts []Mutation) error
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(muts []Mutation) error

// Apply calls f(muts).
func (f BackendFunc) Apply(muts []Mutation) error {
	return f(muts)
}

// Recorder is a Backend that keeps every batch it receives.
type Recorder struct {
	Batches [][]Mutation
}

// Apply appends muts as a new batch.
func (r *Recorder) Apply(muts []Mutation) error {
	r.Batches = append(r.Batches, muts)
	return nil
}

// Last returns the most recent batch, or nil.
func (r *Recorder) Last() []Mutation {
	if len(r.Batches) == 0 {
		return nil
	}
	return r.Batches[len(r.Batches)-1]
}

// Count returns the total number of mutations received.
func (r *Recorder) Count() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b)
	}
	return n
}

// Reset drops all recorded batches.
func (r *Recorder) Reset() {
	r.Batches = nil
}

package donut3d

// Node is the scene graph element. A single flat struct is used for every
// X3D kind; the kind only changes how a backend names the element.
type Node struct {
	// Identity
	ID    uint32
	Kind  NodeKind
	Class string // X3D class attribute, part of the reconciliation selector
	Key   string // identity among siblings with the same kind and class

	// Hierarchy
	Parent   *Node
	children []*Node

	attrs     map[string]Value
	attrOrder []string // first-set order, so snapshots are deterministic

	tree     *Tree
	disposed bool
}

// PlanName returns the reconciliation key.
func (n *Node) PlanName() string {
	return n.Key
}

// --- Attributes ---

// Attr returns the current value of the named attribute.
func (n *Node) Attr(name string) (Value, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// AttrNames returns attribute names in first-set order. The returned slice
// MUST NOT be mutated by the caller.
func (n *Node) AttrNames() []string {
	return n.attrOrder
}

// SetAttr stores v under name and journals an OpSet when the node is part of
// the tree. It reports whether the stored value changed.
func (n *Node) SetAttr(name string, v Value) bool {
	if n.tree.debug {
		debugCheckDisposed(n, "SetAttr")
	}
	if old, ok := n.attrs[name]; ok && old == v {
		return false
	} else if !ok {
		if n.attrs == nil {
			n.attrs = make(map[string]Value)
		}
		n.attrOrder = append(n.attrOrder, name)
	}
	n.attrs[name] = v
	if n.attached() {
		n.tree.record(Mutation{Op: OpSet, Node: n.ID, Attr: name, Value: v})
	}
	return true
}

// UnsetAttr removes the named attribute. It reports whether it was present.
func (n *Node) UnsetAttr(name string) bool {
	if _, ok := n.attrs[name]; !ok {
		return false
	}
	delete(n.attrs, name)
	for i, a := range n.attrOrder {
		if a == name {
			n.attrOrder = append(n.attrOrder[:i], n.attrOrder[i+1:]...)
			break
		}
	}
	if n.attached() {
		n.tree.record(Mutation{Op: OpUnset, Node: n.ID, Attr: name})
	}
	return true
}

// setScalar replaces the animatable component of an attribute.
func (n *Node) setScalar(name string, s float64) {
	v, ok := n.attrs[name]
	if !ok {
		v = Number(0)
	}
	n.SetAttr(name, v.WithScalar(s))
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
func (n *Node) AddChild(child *Node) {
	n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at the given index.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, belongs to another tree, or is an ancestor of this
// node (cycle).
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("donut3d: cannot add nil child")
	}
	if n.tree.debug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if child.tree != n.tree {
		panic("donut3d: child belongs to a different tree")
	}
	if isAncestor(child, n) {
		panic("donut3d: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	if index < 0 || index > len(n.children) {
		panic("donut3d: child index out of range")
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	if n.attached() {
		n.tree.recordSubtree(child, index)
	}
	if n.tree.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node. The child is NOT disposed.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("donut3d: child's parent is not this node")
	}
	wasAttached := n.attached()
	n.removeChildByPtr(child)
	child.Parent = nil
	if wasAttached {
		n.tree.record(Mutation{Op: OpRemove, Node: child.ID, Parent: n.ID})
	}
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// ChildIndex returns the index of child among n's children, or -1.
func (n *Node) ChildIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("donut3d: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("donut3d: child index out of range")
	}
	oldIndex := n.ChildIndex(child)
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	if n.attached() {
		n.tree.record(Mutation{Op: OpMove, Node: child.ID, Parent: n.ID, Index: index})
	}
}

// --- Queries ---

// Find returns the first descendant (depth-first, pre-order) with the given
// kind and class, or nil.
func (n *Node) Find(kind NodeKind, class string) *Node {
	for _, c := range n.children {
		if c.Kind == kind && c.Class == class {
			return c
		}
		if found := c.Find(kind, class); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	if n.tree.onDispose != nil {
		n.tree.onDispose(n)
	}
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.attrs = nil
	n.attrOrder = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// attached reports whether n is reachable from its tree's root.
func (n *Node) attached() bool {
	for p := n; p != nil; p = p.Parent {
		if p == n.tree.root {
			return true
		}
	}
	return false
}

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

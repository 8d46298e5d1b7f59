package donut3d

import (
	"fmt"
	"strconv"

	"cogentcore.org/core/base/plan"
)

// KeyFunc returns the identity of the i-th desired child.
type KeyFunc func(i int) string

// IndexKey is the default key policy: a child's identity is its position.
// Inserting or removing in the middle of a list therefore re-targets every
// trailing sibling instead of shifting nodes; supply a KeyFunc to get moves.
func IndexKey(i int) string {
	return strconv.Itoa(i)
}

// Reconciled reports the outcome of one keyed child-list diff.
type Reconciled struct {
	Nodes   []*Node // matching children in the new order, one per datum
	Entered []bool  // Entered[i] is true when Nodes[i] was created by this diff
	Exited  int
	Moved   int
}

// Updated returns the number of nodes that were kept and updated in place.
func (r Reconciled) Updated() int {
	n := 0
	for _, e := range r.Entered {
		if !e {
			n++
		}
	}
	return n
}

// Reconcile makes the children of parent that match (kind, class) equal, by
// key, to n desired children. Kept nodes retain their identity, attributes and
// running transitions; new keys get fresh empty nodes inserted at their
// ordinal; missing keys are disposed with their subtree. Children of other
// kinds or classes are left alone. The matching children end up contiguous,
// starting where the first of them was (or at the end of the list).
//
// Reconcile is purely structural: the caller decides what to write into the
// returned nodes. Duplicate keys are a programming error and panic.
func (t *Tree) Reconcile(parent *Node, kind NodeKind, class string, n int, key KeyFunc) Reconciled {
	if key == nil {
		key = IndexKey
	}
	if parent.tree != t {
		panic("donut3d: reconcile parent belongs to a different tree")
	}

	seen := make(map[string]struct{}, n)
	for i := range n {
		k := key(i)
		if _, dup := seen[k]; dup {
			panic(fmt.Sprintf("donut3d: duplicate key %q under %s.%s", k, kind, class))
		}
		seen[k] = struct{}{}
	}

	var current []*Node
	for _, c := range parent.children {
		if c.Kind == kind && c.Class == class {
			current = append(current, c)
		}
	}

	res := Reconciled{}
	plan.Update(&current, n, key,
		func(name string, i int) *Node {
			return t.NewNode(kind, class, name)
		},
		func(e *Node, i int) {},
		func(e *Node) {
			res.Exited++
			e.Dispose()
		})

	anchor := len(parent.children)
	for i, c := range parent.children {
		if c.Kind == kind && c.Class == class {
			anchor = i
			break
		}
	}

	res.Nodes = current
	res.Entered = make([]bool, len(current))
	for i, nd := range current {
		pos := anchor + i
		switch {
		case nd.Parent == nil:
			parent.AddChildAt(nd, pos)
			res.Entered[i] = true
		case parent.children[pos] != nd:
			parent.SetChildIndex(nd, pos)
			res.Moved++
		}
	}
	return res
}

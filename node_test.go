package donut3d

import (
	"testing"
)

// --- Construction ---

func TestNewTreeRoot(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	if root.Kind != KindHost {
		t.Errorf("root kind = %v, want host", root.Kind)
	}
	if root.ID != 1 {
		t.Errorf("root ID = %d, want 1", root.ID)
	}
	if tree.Pending() != 0 {
		t.Errorf("new tree has %d pending mutations", tree.Pending())
	}
}

func TestUniqueIDs(t *testing.T) {
	tree := NewTree()
	a := tree.NewNode(KindGroup, "", "a")
	b := tree.NewNode(KindGroup, "", "b")
	c := tree.NewNode(KindShape, "", "c")
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- AddChild ---

func TestAddChildJournalsInsert(t *testing.T) {
	tree := NewTree()
	child := tree.NewNode(KindGroup, "chart", "0")
	tree.Root().AddChild(child)

	if child.Parent != tree.Root() {
		t.Error("child.Parent should be root")
	}
	muts := tree.Flush()
	if len(muts) != 1 {
		t.Fatalf("got %d mutations, want 1: %v", len(muts), muts)
	}
	m := muts[0]
	if m.Op != OpInsert || m.Node != child.ID || m.Parent != 1 || m.Index != 0 ||
		m.Kind != KindGroup || m.Class != "chart" || m.Key != "0" {
		t.Errorf("mutation = %v", m)
	}
	if tree.Pending() != 0 {
		t.Error("Flush should clear the journal")
	}
}

func TestDetachedChangesReplayOnInsert(t *testing.T) {
	tree := NewTree()
	parent := tree.NewNode(KindTransform, "", "")
	parent.SetAttr("rotation", ZRotation(1))
	child := tree.NewNode(KindShape, "", "")
	parent.AddChild(child)

	if tree.Pending() != 0 {
		t.Fatalf("detached changes journaled %d mutations", tree.Pending())
	}

	tree.Root().AddChild(parent)
	muts := tree.Flush()
	want := []Op{OpInsert, OpSet, OpInsert}
	if len(muts) != len(want) {
		t.Fatalf("got %v", muts)
	}
	for i, op := range want {
		if muts[i].Op != op {
			t.Errorf("mutation %d = %v, want op %v", i, muts[i], op)
		}
	}
	if muts[2].Parent != parent.ID {
		t.Errorf("child inserted under #%d, want #%d", muts[2].Parent, parent.ID)
	}
}

func TestAddChildAtOrder(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	a := tree.NewNode(KindGroup, "", "a")
	b := tree.NewNode(KindGroup, "", "b")
	c := tree.NewNode(KindGroup, "", "c")
	root.AddChild(a)
	root.AddChild(c)
	root.AddChildAt(b, 1)
	if root.ChildAt(0) != a || root.ChildAt(1) != b || root.ChildAt(2) != c {
		t.Error("children not in a, b, c order")
	}
	if root.ChildIndex(c) != 2 || root.ChildIndex(tree.NewNode(KindGroup, "", "x")) != -1 {
		t.Error("ChildIndex wrong")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	NewTree().Root().AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	tree := NewTree()
	a := tree.NewNode(KindGroup, "", "")
	b := tree.NewNode(KindGroup, "", "")
	a.AddChild(b)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	b.AddChild(a)
}

func TestAddChildForeignTreePanics(t *testing.T) {
	other := NewTree().NewNode(KindGroup, "", "")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	NewTree().Root().AddChild(other)
}

// --- Attributes ---

func TestSetAttrOnlyJournalsChanges(t *testing.T) {
	tree := NewTree()
	n := tree.NewNode(KindTorus, "", "")
	tree.Root().AddChild(n)
	tree.Flush()

	if !n.SetAttr("angle", Number(1)) {
		t.Error("first set should report a change")
	}
	if n.SetAttr("angle", Number(1)) {
		t.Error("identical set should report no change")
	}
	n.SetAttr("angle", Number(2))
	muts := tree.Flush()
	if len(muts) != 2 {
		t.Fatalf("got %v, want two sets", muts)
	}
	if v, _ := n.Attr("angle"); v != Number(2) {
		t.Errorf("angle = %v, want 2", v)
	}
}

func TestUnsetAttr(t *testing.T) {
	tree := NewTree()
	n := tree.NewNode(KindX3D, "", "")
	tree.Root().AddChild(n)
	n.SetAttr("style", StringValue("height: 1px;"))
	n.SetAttr("other", Number(1))
	tree.Flush()

	if !n.UnsetAttr("style") {
		t.Error("UnsetAttr should report removal")
	}
	if n.UnsetAttr("style") {
		t.Error("second UnsetAttr should be a no-op")
	}
	if _, ok := n.Attr("style"); ok {
		t.Error("style still present")
	}
	if names := n.AttrNames(); len(names) != 1 || names[0] != "other" {
		t.Errorf("AttrNames = %v", names)
	}
	muts := tree.Flush()
	if len(muts) != 1 || muts[0].Op != OpUnset {
		t.Errorf("got %v, want one unset", muts)
	}
}

// --- Remove / move ---

func TestRemoveChildJournalsRemove(t *testing.T) {
	tree := NewTree()
	n := tree.NewNode(KindGroup, "", "")
	tree.Root().AddChild(n)
	tree.Flush()

	tree.Root().RemoveChild(n)
	if n.Parent != nil {
		t.Error("Parent should be nil")
	}
	muts := tree.Flush()
	if len(muts) != 1 || muts[0].Op != OpRemove || muts[0].Node != n.ID || muts[0].Parent != 1 {
		t.Errorf("got %v", muts)
	}
}

func TestSetChildIndex(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	var nodes []*Node
	for _, k := range []string{"a", "b", "c", "d"} {
		n := tree.NewNode(KindGroup, "", k)
		root.AddChild(n)
		nodes = append(nodes, n)
	}
	tree.Flush()

	root.SetChildIndex(nodes[3], 0)
	got := ""
	for _, c := range root.Children() {
		got += c.Key
	}
	if got != "dabc" {
		t.Errorf("order = %q, want dabc", got)
	}
	root.SetChildIndex(nodes[0], 3)
	got = ""
	for _, c := range root.Children() {
		got += c.Key
	}
	if got != "dbca" {
		t.Errorf("order = %q, want dbca", got)
	}
	muts := tree.Flush()
	if len(muts) != 2 || muts[0].Op != OpMove || muts[0].Index != 0 || muts[1].Index != 3 {
		t.Errorf("got %v", muts)
	}
}

// --- Dispose ---

func TestDisposeSubtree(t *testing.T) {
	tree := NewTree()
	var disposed []uint32
	tree.onDispose = func(n *Node) { disposed = append(disposed, n.ID) }

	a := tree.NewNode(KindTransform, "", "")
	b := tree.NewNode(KindShape, "", "")
	c := tree.NewNode(KindTorus, "", "")
	tree.Root().AddChild(a)
	a.AddChild(b)
	b.AddChild(c)
	tree.Flush()

	a.Dispose()
	if !a.IsDisposed() || !b.IsDisposed() || !c.IsDisposed() {
		t.Error("whole subtree should be disposed")
	}
	if tree.Root().NumChildren() != 0 {
		t.Error("root should have no children")
	}
	if len(disposed) != 3 || disposed[0] != a.ID {
		t.Errorf("onDispose calls = %v", disposed)
	}
	muts := tree.Flush()
	if len(muts) != 1 || muts[0].Op != OpRemove || muts[0].Node != a.ID {
		t.Errorf("got %v, want a single remove of the subtree root", muts)
	}

	// Second dispose is a no-op.
	a.Dispose()
	if len(disposed) != 3 {
		t.Error("double dispose called onDispose again")
	}
}

func TestDebugModePanicsOnDisposedNode(t *testing.T) {
	tree := NewTree()
	tree.SetDebugMode(true)
	n := tree.NewNode(KindGroup, "", "")
	tree.Root().AddChild(n)
	n.Dispose()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	n.SetAttr("x", Number(1))
}

// --- Queries ---

func TestFindAndWalk(t *testing.T) {
	tree := NewTree()
	g := tree.NewNode(KindGroup, "chart", "")
	s := tree.NewNode(KindShape, "slice", "")
	tree.Root().AddChild(g)
	g.AddChild(s)

	if tree.Root().Find(KindShape, "slice") != s {
		t.Error("Find should locate the nested shape")
	}
	if tree.Root().Find(KindShape, "nope") != nil {
		t.Error("Find should return nil when absent")
	}

	var depths []int
	tree.Root().Walk(func(n *Node, depth int) bool {
		depths = append(depths, depth)
		return true
	})
	if len(depths) != 3 || depths[2] != 2 {
		t.Errorf("walk depths = %v", depths)
	}

	count := 0
	tree.Root().Walk(func(n *Node, depth int) bool {
		count++
		return n.Kind != KindGroup
	})
	if count != 2 {
		t.Errorf("pruned walk visited %d nodes, want 2", count)
	}
}

func TestSnapshotRebuildsTree(t *testing.T) {
	tree := NewTree()
	g := tree.NewNode(KindGroup, "chart", "")
	tree.Root().AddChild(g)
	g.SetAttr("a", Number(1))
	s := tree.NewNode(KindShape, "", "")
	g.AddChild(s)
	journal := tree.Flush()

	snap := tree.Snapshot()
	if len(snap) != len(journal) {
		t.Fatalf("snapshot %v, journal %v", snap, journal)
	}
	for i := range snap {
		if snap[i] != journal[i] {
			t.Errorf("mutation %d: snapshot %v, journal %v", i, snap[i], journal[i])
		}
	}
	if tree.Pending() != 0 {
		t.Error("Snapshot must not touch the journal")
	}
}

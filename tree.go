package donut3d

// Tree owns a node hierarchy rooted at a KindHost node, hands out node IDs,
// and journals every structural and attribute change made to attached nodes.
// The journal is drained with Flush and forwarded to a Backend.
type Tree struct {
	root    *Node
	nextID  uint32
	journal []Mutation
	debug   bool

	// onDispose is called for every node disposed, before its children.
	onDispose func(*Node)
}

// NewTree creates a tree with a fresh host root.
func NewTree() *Tree {
	t := &Tree{}
	t.root = t.NewNode(KindHost, "", "")
	return t
}

// Root returns the host node. It is never disposed.
func (t *Tree) Root() *Node {
	return t.root
}

// NewNode creates a detached node owned by this tree.
func (t *Tree) NewNode(kind NodeKind, class, key string) *Node {
	t.nextID++
	return &Node{ID: t.nextID, Kind: kind, Class: class, Key: key, tree: t}
}

// Pending returns the number of journaled mutations not yet flushed.
func (t *Tree) Pending() int {
	return len(t.journal)
}

// Flush returns the journaled mutations in the order they happened and
// clears the journal. The returned slice is owned by the caller.
func (t *Tree) Flush() []Mutation {
	if len(t.journal) == 0 {
		return nil
	}
	out := t.journal
	t.journal = nil
	return out
}

// Snapshot returns the mutations that rebuild the current tree from an empty
// host, parents before children and siblings in index order. It does not
// touch the journal.
func (t *Tree) Snapshot() []Mutation {
	var out []Mutation
	for i, c := range t.root.children {
		out = appendSubtree(out, c, i)
	}
	return out
}

// SetDebugMode enables panics on disposed-node use and warnings for deep or
// wide trees.
func (t *Tree) SetDebugMode(enabled bool) {
	t.debug = enabled
}

func (t *Tree) record(m Mutation) {
	t.journal = append(t.journal, m)
}

// recordSubtree journals the insertion of n at index, followed by whatever
// state n already carried while detached.
func (t *Tree) recordSubtree(n *Node, index int) {
	t.journal = appendSubtree(t.journal, n, index)
}

func appendSubtree(out []Mutation, n *Node, index int) []Mutation {
	out = append(out, Mutation{
		Op:     OpInsert,
		Node:   n.ID,
		Parent: n.Parent.ID,
		Index:  index,
		Kind:   n.Kind,
		Class:  n.Class,
		Key:    n.Key,
	})
	for _, name := range n.attrOrder {
		out = append(out, Mutation{Op: OpSet, Node: n.ID, Attr: name, Value: n.attrs[name]})
	}
	for i, c := range n.children {
		out = appendSubtree(out, c, i)
	}
	return out
}

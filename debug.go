package donut3d

import (
	"fmt"
	"log/slog"
	"time"
)

// Stats holds the counters of the most recent render pass.
type Stats struct {
	Entered   int
	Updated   int
	Exited    int
	Moved     int
	Scheduled int // transitions created or retargeted
	Mutations int
	Duration  time.Duration
}

func (s *Stats) add(r Reconciled) {
	s.Entered += len(r.Nodes) - r.Updated()
	s.Updated += r.Updated()
	s.Exited += r.Exited
	s.Moved += r.Moved
}

// LogValue groups the stats under one slog attribute.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("entered", s.Entered),
		slog.Int("updated", s.Updated),
		slog.Int("exited", s.Exited),
		slog.Int("moved", s.Moved),
		slog.Int("scheduled", s.Scheduled),
		slog.Int("mutations", s.Mutations),
		slog.Duration("took", s.Duration),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("donut3d debug: %s on disposed node %s.%s[%s] (ID %d)", op, n.Kind, n.Class, n.Key, n.ID))
	}
}

// debugMaxTreeDepth is the depth above which debug mode warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.ID)
	}
}

// debugMaxChildCount is the child count above which debug mode warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("node has too many children",
			"node", n.ID, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

package donut3d

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ErrInternalInconsistency reports a broken invariant between the tree and
// the scheduler, such as a transition whose node was disposed without being
// canceled. It always indicates a bug.
var ErrInternalInconsistency = errors.New("donut3d: internal inconsistency")

// Transition animates the scalar component of one node attribute. At most
// one transition is active per (node, attribute) pair.
type Transition struct {
	Node     *Node
	Attr     string
	From, To float64
	Start    time.Duration
	Duration time.Duration
	Curve    Curve

	tween *gween.Tween
}

// ValueAt returns the interpolated value at scheduler time now and whether
// the transition has finished. A finished transition yields exactly To.
func (tr *Transition) ValueAt(now time.Duration) (v float64, done bool) {
	elapsed := now - tr.Start
	if tr.Duration <= 0 || elapsed >= tr.Duration {
		return tr.To, true
	}
	if elapsed <= 0 {
		return tr.From, false
	}
	cur, _ := tr.tween.Set(float32(elapsed.Seconds()))
	return float64(cur), false
}

type transitionKey struct {
	node *Node
	attr string
}

// Scheduler owns the in-flight transitions of one tree and advances them on
// Tick. Time is whatever monotonic origin the host chooses; transitions
// scheduled before the first Tick are rebased onto that Tick's time.
//
// There is no global animation manager. The owner calls Tick itself.
type Scheduler struct {
	now    time.Duration
	ticked bool
	ease   ease.TweenFunc

	active map[transitionKey]*Transition
	order  []*Transition // creation order; retargets keep their slot
}

// NewScheduler creates an idle scheduler using linear easing.
func NewScheduler() *Scheduler {
	return &Scheduler{
		ease:   ease.Linear,
		active: make(map[transitionKey]*Transition),
	}
}

// SetEase sets the easing used for transitions scheduled from now on.
// nil restores ease.Linear.
func (s *Scheduler) SetEase(fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	s.ease = fn
}

// Now returns the scheduler time, i.e. the time of the last Tick.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of active transitions.
func (s *Scheduler) Len() int {
	return len(s.order)
}

// Active returns the active transition for (n, attr), or nil.
func (s *Scheduler) Active(n *Node, attr string) *Transition {
	return s.active[transitionKey{n, attr}]
}

// Schedule animates attr on n linearly (through the configured ease) from
// from to to over d. See ScheduleCurve.
func (s *Scheduler) Schedule(n *Node, attr string, from, to float64, d time.Duration) *Transition {
	return s.ScheduleCurve(n, attr, from, to, d, CurveLinear)
}

// ScheduleCurve animates attr on n from from to to over d, starting at the
// current scheduler time.
//
// If a transition is already running for (n, attr) it is retargeted: from is
// replaced by the value the running transition has at the current time, so
// the attribute never jumps. A zero (or negative) duration cancels any running
// transition and writes to immediately; nil is returned in that case.
func (s *Scheduler) ScheduleCurve(n *Node, attr string, from, to float64, d time.Duration, curve Curve) *Transition {
	k := transitionKey{n, attr}
	prev := s.active[k]
	if prev != nil {
		from, _ = prev.ValueAt(s.now)
	}

	if d <= 0 {
		if prev != nil {
			s.remove(prev)
		}
		n.setScalar(attr, to)
		return nil
	}

	tr := &Transition{
		Node:     n,
		Attr:     attr,
		From:     from,
		To:       to,
		Start:    s.now,
		Duration: d,
		Curve:    curve,
	}
	end := to
	if curve == CurveShortestArc {
		end = from + math.Remainder(to-from, 2*math.Pi)
	}
	tr.tween = gween.New(float32(from), float32(end), float32(d.Seconds()), s.ease)

	s.active[k] = tr
	if prev != nil {
		for i, p := range s.order {
			if p == prev {
				s.order[i] = tr
				break
			}
		}
	} else {
		s.order = append(s.order, tr)
	}
	return tr
}

// Tick advances every active transition to now, writes the interpolated
// values to their nodes and drops the ones that finished. Any cadence is
// fine: values are computed from absolute elapsed time, not accumulated.
func (s *Scheduler) Tick(now time.Duration) error {
	if !s.ticked {
		for _, tr := range s.order {
			tr.Start = now
		}
		s.ticked = true
	}
	s.now = now

	var errs []error
	kept := s.order[:0]
	for _, tr := range s.order {
		if tr.Node.IsDisposed() {
			delete(s.active, transitionKey{tr.Node, tr.Attr})
			errs = append(errs, fmt.Errorf("%w: transition of %q on disposed node #%d", ErrInternalInconsistency, tr.Attr, tr.Node.ID))
			continue
		}
		v, done := tr.ValueAt(now)
		tr.Node.setScalar(tr.Attr, v)
		if done {
			delete(s.active, transitionKey{tr.Node, tr.Attr})
			continue
		}
		kept = append(kept, tr)
	}
	for i := len(kept); i < len(s.order); i++ {
		s.order[i] = nil
	}
	s.order = kept
	return errors.Join(errs...)
}

// Cancel stops every transition on n without writing final values.
func (s *Scheduler) Cancel(n *Node) {
	for i := 0; i < len(s.order); {
		tr := s.order[i]
		if tr.Node == n {
			s.remove(tr)
			continue
		}
		i++
	}
}

// CancelAttr stops the transition of attr on n, if any, without writing its
// final value.
func (s *Scheduler) CancelAttr(n *Node, attr string) {
	if tr := s.active[transitionKey{n, attr}]; tr != nil {
		s.remove(tr)
	}
}

func (s *Scheduler) remove(tr *Transition) {
	delete(s.active, transitionKey{tr.Node, tr.Attr})
	for i, p := range s.order {
		if p == tr {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = nil
			s.order = s.order[:len(s.order)-1]
			return
		}
	}
}

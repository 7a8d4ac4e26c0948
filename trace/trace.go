// Package trace checks a recorded run of the table against the rules the
// acquisition protocol promises.
//
// The trace is replayed event by event. Chopstick events are recorded inside
// the ring lock, so their order is the order in which they were committed.
package trace

import (
	"fmt"

	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
)

// Rules checked by Verify.
const (
	MutualExclusion = "mutual-exclusion" // A chopstick is held by at most one philosopher.
	PairAtomicity   = "pair-atomicity"   // Chopsticks change hands in adjacent pairs.
	ReleaseSymmetry = "release-symmetry" // Only a held pair is released, by its holder.
	StateMachine    = "state-machine"    // Thinking -> Hungry -> Eating -> Thinking.
	Neighbour       = "neighbour"        // Philosopher i only uses chopsticks i and i+1.
)

// Violation is the first broken rule found in a trace.
type Violation struct {
	Seq    uint64
	Rule   string
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("event #%d violates %s: %s", v.Seq, v.Rule, v.Detail)
}

const free = -1

type actor struct {
	seen    bool
	state   philosopher.State
	holding bool
}

type replay struct {
	n      int
	holder []int
	actors []actor
}

// Verify replays events of a table of size n and returns a *Violation for
// the first event that breaks a rule, or nil.
func Verify(n int, events []observer.Event) error {
	r := &replay{
		n:      n,
		holder: make([]int, n),
		actors: make([]actor, n),
	}
	for i := range r.holder {
		r.holder[i] = free
	}
	for _, e := range events {
		var v *Violation
		switch e.Kind {
		case observer.PairChanged:
			v = r.pair(e)
		case observer.StateChanged:
			v = r.state(e)
		case observer.AcquireFailed:
			v = r.failed(e)
		}
		if v != nil {
			v.Seq = e.Seq
			return v
		}
	}
	return nil
}

func (r *replay) validActor(id int) bool { return id >= 0 && id < r.n }

func (r *replay) pair(e observer.Event) *Violation {
	if !r.validActor(e.Left) || !r.validActor(e.Right) {
		return &Violation{Rule: PairAtomicity, Detail: fmt.Sprintf("chopsticks (%d,%d) out of range", e.Left, e.Right)}
	}
	if e.Right != (e.Left+1)%r.n {
		return &Violation{Rule: PairAtomicity, Detail: fmt.Sprintf("chopsticks (%d,%d) are not adjacent", e.Left, e.Right)}
	}
	id := e.Left // Only philosopher Left picks up (Left, Left+1).
	a := &r.actors[id]

	if e.InUse {
		for _, c := range []int{e.Left, e.Right} {
			if h := r.holder[c]; h != free {
				return &Violation{Rule: MutualExclusion, Detail: fmt.Sprintf("chopstick %d taken by philosopher %d while held by philosopher %d", c, id, h)}
			}
		}
		if !a.seen || a.state != philosopher.Hungry {
			return &Violation{Rule: StateMachine, Detail: fmt.Sprintf("philosopher %d picked up chopsticks without being hungry", id)}
		}
		r.holder[e.Left], r.holder[e.Right] = id, id
		a.holding = true
		return nil
	}

	for _, c := range []int{e.Left, e.Right} {
		if h := r.holder[c]; h != id {
			return &Violation{Rule: ReleaseSymmetry, Detail: fmt.Sprintf("chopstick %d released for philosopher %d but held by %s", c, id, holderName(h))}
		}
	}
	if a.state != philosopher.Eating {
		return &Violation{Rule: StateMachine, Detail: fmt.Sprintf("philosopher %d put down chopsticks while %s", id, a.state)}
	}
	r.holder[e.Left], r.holder[e.Right] = free, free
	a.holding = false
	return nil
}

func (r *replay) state(e observer.Event) *Violation {
	if !r.validActor(e.Actor) {
		return &Violation{Rule: Neighbour, Detail: fmt.Sprintf("unknown philosopher %d", e.Actor)}
	}
	a := &r.actors[e.Actor]
	switch {
	case !a.seen && e.State != philosopher.Thinking:
		return &Violation{Rule: StateMachine, Detail: fmt.Sprintf("philosopher %d started %s, expects Thinking", e.Actor, e.State)}
	case a.seen && e.State != a.state.Next():
		return &Violation{Rule: StateMachine, Detail: fmt.Sprintf("philosopher %d went %s -> %s", e.Actor, a.state, e.State)}
	case e.State == philosopher.Eating && !a.holding:
		return &Violation{Rule: StateMachine, Detail: fmt.Sprintf("philosopher %d eating without chopsticks", e.Actor)}
	case e.State == philosopher.Thinking && a.holding:
		return &Violation{Rule: ReleaseSymmetry, Detail: fmt.Sprintf("philosopher %d thinking while holding chopsticks", e.Actor)}
	}
	a.seen = true
	a.state = e.State
	return nil
}

func (r *replay) failed(e observer.Event) *Violation {
	if !r.validActor(e.Actor) {
		return &Violation{Rule: Neighbour, Detail: fmt.Sprintf("unknown philosopher %d", e.Actor)}
	}
	a := r.actors[e.Actor]
	if a.state != philosopher.Hungry || a.holding {
		return &Violation{Rule: StateMachine, Detail: fmt.Sprintf("philosopher %d tried to pick up chopsticks while %s", e.Actor, a.state)}
	}
	return nil
}

func holderName(h int) string {
	if h == free {
		return "nobody"
	}
	return fmt.Sprintf("philosopher %d", h)
}

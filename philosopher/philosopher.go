// Package philosopher is the actor side of the dining table.
//
// A philosopher cycles Thinking -> Hungry -> Eating -> Thinking forever. When
// hungry it polls the table for both of its chopsticks at once, sleeping a
// fixed backoff after every failed attempt. There is no queue and no bound on
// the number of attempts, so a philosopher can starve if its neighbours keep
// winning the race.
package philosopher

import (
	"context"
	"math/rand"
	"time"
)

// Table is the chopstick ring as seen by a philosopher.
type Table interface {
	TryAcquirePair(left, right int) bool
	Release(left, right int)
}

// StateObserver is told about every state a philosopher enters.
type StateObserver interface {
	ActorStateChanged(id int, state State)
}

// AttemptObserver is optionally implemented by a StateObserver to be told
// about failed pair acquisitions.
type AttemptObserver interface {
	AcquireFailed(id int)
}

type nopObserver struct{}

func (nopObserver) ActorStateChanged(int, State) {}

// Philosopher is one actor at the table.
type Philosopher struct {
	ID    int
	Left  int // Own chopstick.
	Right int // Clockwise neighbour's chopstick.

	Think   Interval
	Eat     Interval
	Backoff time.Duration

	// Sleep suspends the philosopher. It returns early with an error when ctx
	// is done. Defaults to the package level Sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	table    Table
	obs      StateObserver
	attempts AttemptObserver
	rnd      *rand.Rand
}

// New creates philosopher id of a table of size n. rnd is owned by the
// philosopher from now on; nil seeds a fresh one.
func New(id, n int, table Table, obs StateObserver, rnd *rand.Rand) *Philosopher {
	if obs == nil {
		obs = nopObserver{}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	}
	p := &Philosopher{
		ID:    id,
		Left:  id,
		Right: (id + 1) % n,
		Sleep: Sleep,
		table: table,
		obs:   obs,
		rnd:   rnd,
	}
	p.attempts, _ = obs.(AttemptObserver)
	return p
}

// Run is the philosopher's life. It only returns when ctx is done, and never
// while holding chopsticks.
func (p *Philosopher) Run(ctx context.Context) error {
	for {
		p.enter(Thinking)
		if err := p.Sleep(ctx, p.Think.Sample(p.rnd)); err != nil {
			return err
		}
		p.enter(Hungry)
		if err := p.pickUp(ctx); err != nil {
			return err
		}
		p.enter(Eating)
		err := p.Sleep(ctx, p.Eat.Sample(p.rnd))
		p.table.Release(p.Left, p.Right)
		if err != nil {
			return err
		}
	}
}

// pickUp polls until both chopsticks are taken.
func (p *Philosopher) pickUp(ctx context.Context) error {
	for !p.table.TryAcquirePair(p.Left, p.Right) {
		if p.attempts != nil {
			p.attempts.AcquireFailed(p.ID)
		}
		if err := p.Sleep(ctx, p.Backoff); err != nil {
			return err
		}
	}
	return nil
}

func (p *Philosopher) enter(s State) {
	p.obs.ActorStateChanged(p.ID, s)
}

// Sleep waits for d or until ctx is done, whichever is first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

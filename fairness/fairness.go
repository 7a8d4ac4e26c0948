// Package fairness runs a fairness analysis over a recorded run, or
// incrementally over a running table.
//
// Picking up chopsticks is a polling retry with no queue and no bound on
// attempts, so nothing stops a philosopher from losing every race to its
// neighbours. The analysis measures how unequal a run was:
//
//   - meals per philosopher
//   - failed pick-up attempts, and the longest run of consecutive failures
//   - the longest time spent hungry, including a wait still going on
//
// A philosopher who never ate is reported as starved.
package fairness

import (
	"log"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
)

// Diner is the result for one philosopher.
type Diner struct {
	ID            int           `json:"id"`
	Meals         int           `json:"meals"`
	Failed        int           `json:"failed"`
	MaxFailStreak int           `json:"maxFailStreak"`
	MaxWait       time.Duration `json:"maxWait"`
	Hungry        bool          `json:"hungry"` // Still hungry at the end of the trace.
}

// Starved reports whether the philosopher never ate.
func (d Diner) Starved() bool { return d.Meals == 0 }

// Report is the fairness analysis of a trace.
type Report struct {
	Diners []Diner       `json:"diners"`
	Span   time.Duration `json:"span"`
}

type tracker struct {
	streak      int
	hungrySince time.Time
}

// tally is the running state of the analysis.
type tally struct {
	diners      []Diner
	track       []tracker
	first, last time.Time
	seen        bool
}

func newTally(n int) *tally {
	t := &tally{diners: make([]Diner, n), track: make([]tracker, n)}
	for i := range t.diners {
		t.diners[i].ID = i
	}
	return t
}

func (t *tally) add(e observer.Event) {
	if !t.seen {
		t.first, t.seen = e.Time, true
	}
	t.last = e.Time
	if e.Actor < 0 || e.Actor >= len(t.diners) {
		return
	}
	d, tr := &t.diners[e.Actor], &t.track[e.Actor]
	switch e.Kind {
	case observer.AcquireFailed:
		d.Failed++
		tr.streak++
		if tr.streak > d.MaxFailStreak {
			d.MaxFailStreak = tr.streak
		}
	case observer.StateChanged:
		switch e.State {
		case philosopher.Hungry:
			d.Hungry = true
			tr.hungrySince = e.Time
		case philosopher.Eating:
			d.Meals++
			d.Hungry = false
			tr.streak = 0
			if wait := e.Time.Sub(tr.hungrySince); wait > d.MaxWait {
				d.MaxWait = wait
			}
		}
	}
}

// report ends the analysis at end. A philosopher still hungry at end has
// been waiting since it got hungry.
func (t *tally) report(end time.Time) *Report {
	r := &Report{Diners: make([]Diner, len(t.diners))}
	copy(r.Diners, t.diners)
	if !t.seen {
		return r
	}
	r.Span = end.Sub(t.first)
	for i := range r.Diners {
		d := &r.Diners[i]
		if !d.Hungry {
			continue
		}
		if wait := end.Sub(t.track[i].hungrySince); wait > d.MaxWait {
			d.MaxWait = wait
		}
	}
	return r
}

// Check analyses the events of a table of size n.
func Check(n int, events []observer.Event) *Report {
	t := newTally(n)
	for _, e := range events {
		t.add(e)
	}
	return t.report(t.last)
}

// Accumulator is an observer that keeps the analysis up to date while the
// table runs, without keeping the events.
type Accumulator struct {
	mu    sync.Mutex
	tally *tally
	now   func() time.Time
}

// NewAccumulator creates an Accumulator for a table of size n.
func NewAccumulator(n int) *Accumulator {
	return &Accumulator{tally: newTally(n), now: time.Now}
}

func (a *Accumulator) add(e observer.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e.Time = a.now()
	a.tally.add(e)
}

func (a *Accumulator) ActorStateChanged(actorID int, state philosopher.State) {
	a.add(observer.Event{Kind: observer.StateChanged, Actor: actorID, State: state})
}

func (a *Accumulator) ResourcePairChanged(left, right int, inUse bool) {
	a.add(observer.Event{Kind: observer.PairChanged, Actor: -1, Left: left, Right: right, InUse: inUse})
}

func (a *Accumulator) AcquireFailed(actorID int) {
	a.add(observer.Event{Kind: observer.AcquireFailed, Actor: actorID, State: philosopher.Hungry})
}

// Report returns the analysis so far.
func (a *Accumulator) Report() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tally.report(a.now())
}

// Starved returns the philosophers that never ate.
func (r *Report) Starved() []int {
	var ids []int
	for _, d := range r.Diners {
		if d.Starved() {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Print writes the report, one line per philosopher.
func (r *Report) Print(logger *log.Logger) {
	for _, d := range r.Diners {
		if d.Starved() {
			logger.Println(color.RedString("❌ philosopher %d never ate (%d failed attempts, longest streak %d, waited %v)",
				d.ID, d.Failed, d.MaxFailStreak, d.MaxWait))
			continue
		}
		logger.Println(color.GreenString("✓ philosopher %d ate %d times", d.ID, d.Meals),
			color.BlueString("(%d failed attempts, longest streak %d, longest wait %v)", d.Failed, d.MaxFailStreak, d.MaxWait))
	}
	starved := len(r.Starved())
	if starved <= 0 {
		logger.Println(color.GreenString("Result: %d/%d starved over %v", starved, len(r.Diners), r.Span))
	} else {
		logger.Println(color.RedString("Result: %d/%d starved over %v", starved, len(r.Diners), r.Span))
	}
}

package observer

import (
	"sync"
	"time"

	"github.com/nickng/dinephil/philosopher"
)

// PhilosopherState is the last known activity of one philosopher.
type PhilosopherState struct {
	ID     int               `json:"id"`
	State  philosopher.State `json:"state"`
	Left   int               `json:"left"`
	Right  int               `json:"right"`
	Meals  int               `json:"meals"`
	Failed int               `json:"failed"`
}

// TableState is a point-in-time picture of the whole table.
type TableState struct {
	Philosophers []PhilosopherState `json:"philosophers"`
	Chopsticks   []bool             `json:"chopsticks"`
	Updated      time.Time          `json:"updated"`
}

// Snapshot tracks the latest state of every philosopher and chopstick.
// It is what a renderer would draw.
type Snapshot struct {
	mu    sync.Mutex
	table TableState
}

// NewSnapshot creates a Snapshot of a table of size n with everyone thinking
// and every chopstick on the table.
func NewSnapshot(n int) *Snapshot {
	s := &Snapshot{table: TableState{
		Philosophers: make([]PhilosopherState, n),
		Chopsticks:   make([]bool, n),
		Updated:      time.Now(),
	}}
	for i := range s.table.Philosophers {
		s.table.Philosophers[i] = PhilosopherState{ID: i, State: philosopher.Thinking, Left: i, Right: (i + 1) % n}
	}
	return s
}

func (s *Snapshot) ActorStateChanged(actorID int, state philosopher.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.table.Philosophers[actorID]
	p.State = state
	if state == philosopher.Eating {
		p.Meals++
	}
	s.table.Updated = time.Now()
}

func (s *Snapshot) ResourcePairChanged(left, right int, inUse bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Chopsticks[left] = inUse
	s.table.Chopsticks[right] = inUse
	s.table.Updated = time.Now()
}

func (s *Snapshot) AcquireFailed(actorID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Philosophers[actorID].Failed++
}

// Table returns a copy of the current state.
func (s *Snapshot) Table() TableState {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := TableState{
		Philosophers: make([]PhilosopherState, len(s.table.Philosophers)),
		Chopsticks:   make([]bool, len(s.table.Chopsticks)),
		Updated:      s.table.Updated,
	}
	copy(t.Philosophers, s.table.Philosophers)
	copy(t.Chopsticks, s.table.Chopsticks)
	return t
}

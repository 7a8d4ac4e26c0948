package observer

import (
	"fmt"
	"sync"
	"time"

	"github.com/nickng/dinephil/philosopher"
)

// Kind is the type of an Event.
type Kind int

const (
	StateChanged Kind = iota
	PairChanged
	AcquireFailed
)

var kindNames = [...]string{
	StateChanged:  "state",
	PairChanged:   "pair",
	AcquireFailed: "failed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshal: unknown event kind %q", text)
}

// Event is a single notification. Actor and State are set for StateChanged
// and AcquireFailed, Left, Right and InUse for PairChanged.
type Event struct {
	Seq   uint64            `json:"seq"`
	Time  time.Time         `json:"time"`
	Kind  Kind              `json:"kind"`
	Actor int               `json:"actor"`
	State philosopher.State `json:"state"`
	Left  int               `json:"left"`
	Right int               `json:"right"`
	InUse bool              `json:"inUse"`
}

func (e Event) String() string {
	switch e.Kind {
	case StateChanged:
		return fmt.Sprintf("#%d philosopher %d %s", e.Seq, e.Actor, e.State)
	case PairChanged:
		if e.InUse {
			return fmt.Sprintf("#%d chopsticks (%d,%d) taken", e.Seq, e.Left, e.Right)
		}
		return fmt.Sprintf("#%d chopsticks (%d,%d) released", e.Seq, e.Left, e.Right)
	case AcquireFailed:
		return fmt.Sprintf("#%d philosopher %d failed to pick up chopsticks", e.Seq, e.Actor)
	}
	return fmt.Sprintf("#%d %s", e.Seq, e.Kind)
}

// Recorder keeps every event in arrival order.
type Recorder struct {
	mu     sync.Mutex
	seq    uint64
	events []Event
	now    func() time.Time
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.Seq = r.seq
	e.Time = r.now()
	r.events = append(r.events, e)
}

func (r *Recorder) ActorStateChanged(actorID int, state philosopher.State) {
	r.add(Event{Kind: StateChanged, Actor: actorID, State: state})
}

func (r *Recorder) ResourcePairChanged(left, right int, inUse bool) {
	r.add(Event{Kind: PairChanged, Left: left, Right: right, InUse: inUse})
}

func (r *Recorder) AcquireFailed(actorID int) {
	r.add(Event{Kind: AcquireFailed, Actor: actorID, State: philosopher.Hungry})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

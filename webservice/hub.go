package webservice

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
)

// subscriberBuffer is the number of events a slow subscriber may lag by
// before it starts missing events.
const subscriberBuffer = 256

// Hub is an observer that broadcasts events to websocket subscribers.
//
// Notifications arrive with the ring lock held, so a subscriber that cannot
// keep up loses events instead of blocking the table.
type Hub struct {
	mu      sync.RWMutex
	seq     uint64
	subs    map[chan observer.Event]struct{}
	dropped uint64
}

// NewHub creates a Hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan observer.Event]struct{})}
}

// Subscribe returns a channel of events and a function to unsubscribe.
func (h *Hub) Subscribe() (<-chan observer.Event, func()) {
	ch := make(chan observer.Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Dropped returns the number of events lost by slow subscribers.
func (h *Hub) Dropped() uint64 { return atomic.LoadUint64(&h.dropped) }

func (h *Hub) publish(e observer.Event) {
	e.Seq = atomic.AddUint64(&h.seq, 1)
	e.Time = time.Now()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

func (h *Hub) ActorStateChanged(actorID int, state philosopher.State) {
	h.publish(observer.Event{Kind: observer.StateChanged, Actor: actorID, State: state})
}

func (h *Hub) ResourcePairChanged(left, right int, inUse bool) {
	h.publish(observer.Event{Kind: observer.PairChanged, Left: left, Right: right, InUse: inUse})
}

func (h *Hub) AcquireFailed(actorID int) {
	h.publish(observer.Event{Kind: observer.AcquireFailed, Actor: actorID, State: philosopher.Hungry})
}

// Package observer delivers state changes of the dining table to anything
// that wants to watch it: loggers, recorders, renderers.
//
// Notifications flow one way. Nothing here can influence the philosophers or
// the chopsticks.
package observer

import (
	"github.com/nickng/dinephil/philosopher"
)

// Observer receives every philosopher state change and every committed
// chopstick pair transition.
//
// ResourcePairChanged is called with the ring lock held and
// ActorStateChanged from the philosopher's own goroutine, so implementations
// must be safe for concurrent use and must not block.
type Observer interface {
	ActorStateChanged(actorID int, state philosopher.State)
	ResourcePairChanged(left, right int, inUse bool)
}

// Nop ignores everything.
type Nop struct{}

func (Nop) ActorStateChanged(int, philosopher.State) {}
func (Nop) ResourcePairChanged(int, int, bool)       {}

type multi []Observer

// Multi fans out notifications to every observer in order. The list is fixed
// at creation.
func Multi(obs ...Observer) Observer {
	m := make(multi, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) ActorStateChanged(actorID int, state philosopher.State) {
	for _, o := range m {
		o.ActorStateChanged(actorID, state)
	}
}

func (m multi) ResourcePairChanged(left, right int, inUse bool) {
	for _, o := range m {
		o.ResourcePairChanged(left, right, inUse)
	}
}

func (m multi) AcquireFailed(actorID int) {
	for _, o := range m {
		if ao, ok := o.(philosopher.AttemptObserver); ok {
			ao.AcquireFailed(actorID)
		}
	}
}

// Package protocol describes the chopstick acquisition protocol as a system
// of communicating finite state machines.
//
// The ring lock is one machine and every philosopher is another. Thinking
// and eating are internal to a philosopher and do not appear; what remains
// is the exchange with the lock:
//
//	philosopher: q0 --lock!acquire--> q1
//	             q1 --lock?denied---> q0   (back off, retry)
//	             q1 --lock?granted--> q2   (eating)
//	             q2 --lock!release--> q0
package protocol

import (
	"fmt"
	"io"

	"github.com/nickng/cfsm"
)

// Messages exchanged with the lock.
const (
	Granted = "granted"
	Denied  = "denied"
)

// Acquire is the message philosopher id sends to pick up its pair.
func Acquire(left, right int) string { return fmt.Sprintf("acquire_%d_%d", left, right) }

// Release is the message philosopher id sends to put down its pair.
func Release(left, right int) string { return fmt.Sprintf("release_%d_%d", left, right) }

// CFSMs is the CFSM system of a table.
type CFSMs struct {
	Sys          *cfsm.System
	Lock         *cfsm.CFSM
	Philosophers []*cfsm.CFSM
}

// NewCFSMs builds the system for a table of n philosophers.
func NewCFSMs(n int) *CFSMs {
	sys := &CFSMs{
		Sys:          cfsm.NewSystem(),
		Philosophers: make([]*cfsm.CFSM, n),
	}
	sys.Lock = sys.Sys.NewMachine()
	sys.Lock.Comment = "lock"
	for id := range sys.Philosophers {
		m := sys.Sys.NewMachine()
		m.Comment = fmt.Sprintf("philosopher%d", id)
		sys.Philosophers[id] = m
	}
	for id, m := range sys.Philosophers {
		sys.philosopherToMachine(id, (id+1)%n, m)
	}
	sys.lockToMachine(n)
	return sys
}

func (sys *CFSMs) philosopherToMachine(left, right int, m *cfsm.CFSM) {
	q0 := m.NewState() // hungry
	q1 := m.NewState() // waiting for reply
	q2 := m.NewState() // eating

	acquire := cfsm.NewSend(sys.Lock, Acquire(left, right))
	acquire.SetNext(q1)
	q0.AddTransition(acquire)

	denied := cfsm.NewRecv(sys.Lock, Denied)
	denied.SetNext(q0)
	q1.AddTransition(denied)

	granted := cfsm.NewRecv(sys.Lock, Granted)
	granted.SetNext(q2)
	q1.AddTransition(granted)

	release := cfsm.NewSend(sys.Lock, Release(left, right))
	release.SetNext(q0)
	q2.AddTransition(release)

	m.Start = q0
}

func (sys *CFSMs) lockToMachine(n int) {
	q0 := sys.Lock.NewState()
	for id, m := range sys.Philosophers {
		left, right := id, (id+1)%n
		// q0 -- Recv acquire --> q1
		q1 := sys.Lock.NewState()
		tr0 := cfsm.NewRecv(m, Acquire(left, right))
		tr0.SetNext(q1)
		q0.AddTransition(tr0)
		// q1 -- Send granted|denied --> q0
		for _, reply := range []string{Granted, Denied} {
			tr1 := cfsm.NewSend(m, reply)
			tr1.SetNext(q0)
			q1.AddTransition(tr1)
		}
		// q0 -- Recv release --> q0
		tr2 := cfsm.NewRecv(m, Release(left, right))
		tr2.SetNext(q0)
		q0.AddTransition(tr2)
	}
	sys.Lock.Start = q0
}

// WriteTo implements io.WriterTo.
func (sys *CFSMs) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, sys.Sys.String())
	return int64(n), err
}

// PrintSummary writes the machines of the system.
func (sys *CFSMs) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Total of %d CFSMs (1 is the lock)\n", len(sys.Philosophers)+1)
	fmt.Fprintf(w, "\t%d\t= %s\n", sys.Lock.ID, sys.Lock.Comment)
	for _, m := range sys.Philosophers {
		fmt.Fprintf(w, "\t%d\t= %s\n", m.ID, m.Comment)
	}
}

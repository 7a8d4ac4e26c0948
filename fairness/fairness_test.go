package fairness_test

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/fairness"
	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
)

func TestCheck(t *testing.T) {
	t0 := time.Unix(0, 0)
	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }
	events := []observer.Event{
		{Kind: observer.StateChanged, Actor: 0, State: philosopher.Hungry, Time: at(0)},
		{Kind: observer.StateChanged, Actor: 1, State: philosopher.Hungry, Time: at(0)},
		{Kind: observer.StateChanged, Actor: 0, State: philosopher.Eating, Time: at(1)},
		{Kind: observer.AcquireFailed, Actor: 1, Time: at(2)},
		{Kind: observer.AcquireFailed, Actor: 1, Time: at(3)},
		{Kind: observer.AcquireFailed, Actor: 1, Time: at(4)},
		{Kind: observer.StateChanged, Actor: 0, State: philosopher.Thinking, Time: at(5)},
		{Kind: observer.StateChanged, Actor: 1, State: philosopher.Eating, Time: at(6)},
		{Kind: observer.StateChanged, Actor: 1, State: philosopher.Thinking, Time: at(7)},
		{Kind: observer.StateChanged, Actor: 1, State: philosopher.Hungry, Time: at(8)},
		{Kind: observer.AcquireFailed, Actor: 1, Time: at(9)},
		{Kind: observer.StateChanged, Actor: 2, State: philosopher.Hungry, Time: at(9)},
		{Kind: observer.AcquireFailed, Actor: 2, Time: at(10)},
	}
	r := fairness.Check(3, events)

	if r.Span != 10*time.Millisecond {
		t.Errorf("span: failed (got=%v, expects=10ms)", r.Span)
	}
	d1 := r.Diners[1]
	if d1.Meals != 1 || d1.Failed != 4 || d1.MaxFailStreak != 3 || d1.MaxWait != 6*time.Millisecond || !d1.Hungry {
		t.Errorf("philosopher 1: failed (got=%+v)", d1)
	}
	if d0 := r.Diners[0]; d0.Meals != 1 || d0.Failed != 0 || d0.MaxWait != time.Millisecond {
		t.Errorf("philosopher 0: failed (got=%+v)", d0)
	}
	starved := r.Starved()
	if len(starved) != 1 || starved[0] != 2 {
		t.Errorf("starved: failed (got=%v, expects=[2])", starved)
	}
}

func TestPrint(t *testing.T) {
	color.NoColor = true
	r := fairness.Check(2, []observer.Event{
		{Kind: observer.StateChanged, Actor: 0, State: philosopher.Eating},
	})
	buf := new(bytes.Buffer)
	r.Print(log.New(buf, "fairness: ", 0))
	out := buf.String()
	if !strings.Contains(out, "philosopher 1 never ate") {
		t.Errorf("print: missing starved philosopher in %q", out)
	}
	if !strings.Contains(out, "Result: 1/2 starved") {
		t.Errorf("print: missing result line in %q", out)
	}
}

func TestCheckStillHungry(t *testing.T) {
	t0 := time.Unix(0, 0)
	r := fairness.Check(2, []observer.Event{
		{Kind: observer.StateChanged, Actor: 0, State: philosopher.Thinking, Time: t0},
		{Kind: observer.StateChanged, Actor: 1, State: philosopher.Hungry, Time: t0.Add(time.Second)},
		{Kind: observer.AcquireFailed, Actor: 1, Time: t0.Add(10 * time.Second)},
		{Kind: observer.AcquireFailed, Actor: 1, Time: t0.Add(30 * time.Second)},
	})
	d1 := r.Diners[1]
	if !d1.Starved() || !d1.Hungry || d1.Failed != 2 {
		t.Errorf("philosopher 1: failed (got=%+v)", d1)
	}
	if d1.MaxWait != 29*time.Second {
		t.Errorf("philosopher 1 wait: failed (got=%v, expects=29s)", d1.MaxWait)
	}
	if r.Span != 30*time.Second {
		t.Errorf("span: failed (got=%v, expects=30s)", r.Span)
	}
}

func TestAccumulator(t *testing.T) {
	a := fairness.NewAccumulator(3)
	if r := a.Report(); r.Span != 0 || len(r.Diners) != 3 {
		t.Errorf("empty report: failed (got=%+v)", r)
	}

	a.ActorStateChanged(0, philosopher.Thinking)
	a.ActorStateChanged(0, philosopher.Hungry)
	a.ResourcePairChanged(0, 1, true)
	a.ActorStateChanged(0, philosopher.Eating)
	a.ActorStateChanged(2, philosopher.Hungry)
	a.AcquireFailed(2)
	a.AcquireFailed(2)
	time.Sleep(20 * time.Millisecond)

	r := a.Report()
	if d0 := r.Diners[0]; d0.Meals != 1 || d0.Hungry || d0.Failed != 0 {
		t.Errorf("philosopher 0: failed (got=%+v)", d0)
	}
	d2 := r.Diners[2]
	if d2.Meals != 0 || !d2.Hungry || d2.Failed != 2 || d2.MaxFailStreak != 2 {
		t.Errorf("philosopher 2: failed (got=%+v)", d2)
	}
	if d2.MaxWait < 20*time.Millisecond {
		t.Errorf("philosopher 2 wait: failed (got=%v, expects>=20ms)", d2.MaxWait)
	}
	if r.Span < 20*time.Millisecond {
		t.Errorf("span: failed (got=%v, expects>=20ms)", r.Span)
	}
	if starved := r.Starved(); len(starved) != 2 || starved[0] != 1 || starved[1] != 2 {
		t.Errorf("starved: failed (got=%v, expects=[1 2])", starved)
	}

	// The report is a copy.
	r.Diners[0].Meals = 100
	if a.Report().Diners[0].Meals != 1 {
		t.Error("report: shares state with the accumulator")
	}
}

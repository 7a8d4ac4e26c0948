package observer_test

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
)

func TestMulti(t *testing.T) {
	r1, r2 := observer.NewRecorder(), observer.NewRecorder()
	m := observer.Multi(r1, nil, r2)
	m.ActorStateChanged(1, philosopher.Hungry)
	m.ResourcePairChanged(1, 2, true)
	m.(philosopher.AttemptObserver).AcquireFailed(4)

	for i, r := range []*observer.Recorder{r1, r2} {
		events := r.Events()
		if len(events) != 3 {
			t.Fatalf("recorder %d: failed (got=%d events, expects=3)", i, len(events))
		}
		if events[0].Kind != observer.StateChanged || events[0].Actor != 1 || events[0].State != philosopher.Hungry {
			t.Errorf("recorder %d: unexpected first event %v", i, events[0])
		}
		if events[1].Kind != observer.PairChanged || events[1].Left != 1 || events[1].Right != 2 || !events[1].InUse {
			t.Errorf("recorder %d: unexpected second event %v", i, events[1])
		}
		if events[2].Kind != observer.AcquireFailed || events[2].Actor != 4 {
			t.Errorf("recorder %d: unexpected third event %v", i, events[2])
		}
	}
}

func TestRecorderSeq(t *testing.T) {
	r := observer.NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				r.ActorStateChanged(i, philosopher.Thinking)
			}
		}(i)
	}
	wg.Wait()
	events := r.Events()
	if len(events) != 1000 || r.Len() != 1000 {
		t.Fatalf("recorder: failed (got=%d, expects=1000)", len(events))
	}
	for i, e := range events {
		if e.Seq != uint64(i+1) {
			t.Fatalf("seq: failed (got=%d, expects=%d)", e.Seq, i+1)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s := observer.NewSnapshot(5)
	s.ActorStateChanged(2, philosopher.Hungry)
	s.AcquireFailed(2)
	s.ResourcePairChanged(2, 3, true)
	s.ActorStateChanged(2, philosopher.Eating)

	tbl := s.Table()
	p := tbl.Philosophers[2]
	if p.State != philosopher.Eating || p.Meals != 1 || p.Failed != 1 {
		t.Errorf("philosopher 2: failed (got=%+v)", p)
	}
	if p.Left != 2 || p.Right != 3 {
		t.Errorf("philosopher 2 neighbours: failed (got=(%d,%d), expects=(2,3))", p.Left, p.Right)
	}
	if tbl.Philosophers[4].Right != 0 {
		t.Errorf("philosopher 4 right: failed (got=%d, expects=0)", tbl.Philosophers[4].Right)
	}
	if !tbl.Chopsticks[2] || !tbl.Chopsticks[3] || tbl.Chopsticks[1] {
		t.Errorf("chopsticks: failed (got=%v)", tbl.Chopsticks)
	}

	// The copy is detached.
	tbl.Chopsticks[0] = true
	if s.Table().Chopsticks[0] {
		t.Error("table: returned state aliases the snapshot")
	}
}

func TestLogger(t *testing.T) {
	color.NoColor = true
	buf := new(bytes.Buffer)
	l := observer.NewLogger(log.New(buf, "", 0))
	l.ActorStateChanged(0, philosopher.Eating)
	l.ResourcePairChanged(0, 1, false)
	l.AcquireFailed(3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("logger: failed (got=%d lines, expects=2): %q", len(lines), buf.String())
	}
	if lines[0] != "philosopher 0 is Eating" {
		t.Errorf("logger: unexpected line %q", lines[0])
	}
	if lines[1] != "chopsticks 0 and 1 released" {
		t.Errorf("logger: unexpected line %q", lines[1])
	}

	l.Attempts = true
	l.AcquireFailed(3)
	if !strings.Contains(buf.String(), "philosopher 3 could not pick up") {
		t.Errorf("logger: failed attempt not logged: %q", buf.String())
	}
}

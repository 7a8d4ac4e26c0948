package philosopher_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/nickng/dinephil/philosopher"
)

// scriptTable fails the first `deny` acquisitions then always succeeds.
type scriptTable struct {
	deny     int
	tries    int
	held     bool
	releases int
	pairs    [][2]int
}

func (t *scriptTable) TryAcquirePair(left, right int) bool {
	t.tries++
	t.pairs = append(t.pairs, [2]int{left, right})
	if t.tries <= t.deny {
		return false
	}
	t.held = true
	return true
}

func (t *scriptTable) Release(left, right int) {
	t.held = false
	t.releases++
}

type stateLog struct {
	states []philosopher.State
	failed int
}

func (l *stateLog) ActorStateChanged(id int, s philosopher.State) { l.states = append(l.states, s) }
func (l *stateLog) AcquireFailed(id int)                         { l.failed++ }

// sleepN returns a Sleep that cancels after n calls and records durations.
func sleepN(n int, cancel context.CancelFunc, got *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*got = append(*got, d)
		if len(*got) >= n {
			cancel()
		}
		return ctx.Err()
	}
}

func TestNeighbourIndices(t *testing.T) {
	for id := 0; id < 5; id++ {
		p := philosopher.New(id, 5, &scriptTable{}, nil, nil)
		if p.Left != id || p.Right != (id+1)%5 {
			t.Errorf("philosopher %d: failed (got=(%d,%d), expects=(%d,%d))", id, p.Left, p.Right, id, (id+1)%5)
		}
	}
}

func TestCycle(t *testing.T) {
	tbl := &scriptTable{deny: 2}
	obs := new(stateLog)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := philosopher.New(3, 5, tbl, obs, rand.New(rand.NewSource(1)))
	p.Think = philosopher.Fixed(10 * time.Millisecond)
	p.Eat = philosopher.Fixed(20 * time.Millisecond)
	p.Backoff = time.Millisecond
	var sleeps []time.Duration
	// think, backoff, backoff, eat, think(cancel)
	p.Sleep = sleepN(5, cancel, &sleeps)

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run: expects context.Canceled but got %v", err)
	}

	want := []philosopher.State{philosopher.Thinking, philosopher.Hungry, philosopher.Eating, philosopher.Thinking}
	if len(obs.states) != len(want) {
		t.Fatalf("states: failed (got=%v, expects=%v)", obs.states, want)
	}
	for i := range want {
		if obs.states[i] != want[i] {
			t.Errorf("states[%d]: failed (got=%s, expects=%s)", i, obs.states[i], want[i])
		}
	}
	wantSleeps := []time.Duration{10 * time.Millisecond, time.Millisecond, time.Millisecond, 20 * time.Millisecond, 10 * time.Millisecond}
	for i := range wantSleeps {
		if sleeps[i] != wantSleeps[i] {
			t.Errorf("sleep[%d]: failed (got=%v, expects=%v)", i, sleeps[i], wantSleeps[i])
		}
	}
	if obs.failed != 2 {
		t.Errorf("failed attempts: failed (got=%d, expects=2)", obs.failed)
	}
	if tbl.releases != 1 {
		t.Errorf("releases: failed (got=%d, expects=1)", tbl.releases)
	}
	for _, pair := range tbl.pairs {
		if pair != [2]int{3, 4} {
			t.Errorf("philosopher 3 asked for %v, expects [3 4]", pair)
		}
	}
}

func TestCancelWhileEatingReleases(t *testing.T) {
	tbl := &scriptTable{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := philosopher.New(0, 5, tbl, nil, nil)
	var sleeps []time.Duration
	p.Sleep = sleepN(2, cancel, &sleeps) // think, eat(cancel)

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run: expects context.Canceled but got %v", err)
	}
	if tbl.held || tbl.releases != 1 {
		t.Errorf("cancel while eating: chopsticks not released (held=%t, releases=%d)", tbl.held, tbl.releases)
	}
}

func TestCancelWhileHungry(t *testing.T) {
	tbl := &scriptTable{deny: 1 << 30}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := philosopher.New(1, 5, tbl, nil, nil)
	var sleeps []time.Duration
	p.Sleep = sleepN(10, cancel, &sleeps)

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run: expects context.Canceled but got %v", err)
	}
	if tbl.releases != 0 {
		t.Errorf("hungry philosopher released a pair it never held (releases=%d)", tbl.releases)
	}
	if tbl.tries != 9 {
		t.Errorf("tries: failed (got=%d, expects=9)", tbl.tries)
	}
}

func TestInterval(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	iv := philosopher.Interval{Min: time.Second, Max: 3 * time.Second}
	for i := 0; i < 1000; i++ {
		d := iv.Sample(rnd)
		if d < iv.Min || d > iv.Max {
			t.Fatalf("sample: %v out of %v", d, iv)
		}
	}
	if d := philosopher.Fixed(time.Second).Sample(nil); d != time.Second {
		t.Errorf("fixed sample: failed (got=%v, expects=1s)", d)
	}
	if err := (philosopher.Interval{Min: 2, Max: 1}).Validate(); !errors.Is(err, philosopher.ErrBadInterval) {
		t.Errorf("validate inverted: expects ErrBadInterval but got %v", err)
	}
	if err := (philosopher.Interval{Min: -1, Max: 1}).Validate(); !errors.Is(err, philosopher.ErrBadInterval) {
		t.Errorf("validate negative: expects ErrBadInterval but got %v", err)
	}
}

func TestIntervalFullRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for _, iv := range []philosopher.Interval{
		{Min: 0, Max: math.MaxInt64},
		{Min: 1, Max: math.MaxInt64},
		{Min: 0, Max: math.MaxInt64 - 1},
	} {
		if err := iv.Validate(); err != nil {
			t.Fatalf("validate %v: unexpected error %v", iv, err)
		}
		for i := 0; i < 100; i++ {
			if d := iv.Sample(rnd); d < iv.Min || d > iv.Max {
				t.Fatalf("sample: %v out of %v", d, iv)
			}
		}
	}
}

func TestStateText(t *testing.T) {
	b, err := json.Marshal(map[string]philosopher.State{"s": philosopher.Hungry})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"s":"Hungry"}` {
		t.Errorf("marshal: failed (got=%s)", b)
	}
	var s philosopher.State
	if err := s.UnmarshalText([]byte("Eating")); err != nil || s != philosopher.Eating {
		t.Errorf("unmarshal: failed (got=%s, err=%v)", s, err)
	}
	if philosopher.Eating.Next() != philosopher.Thinking {
		t.Errorf("next: Eating should be followed by Thinking")
	}
}

func TestSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := philosopher.Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleep: expects early return on cancelled context, got %v", err)
	}
	if err := philosopher.Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleep: %v", err)
	}
}

// Package table seats the philosophers around the chopstick ring and sets
// them going.
package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/nickng/dinephil/observer"
	"github.com/nickng/dinephil/philosopher"
	"github.com/nickng/dinephil/ring"
)

var (
	// ErrStarted is returned when a table is started twice.
	ErrStarted = errors.New("table: already started")
)

// Table owns the chopsticks and the philosophers.
type Table struct {
	Logger *log.Logger

	cfg          Config
	chopsticks   *ring.Chopsticks
	philosophers []*philosopher.Philosopher

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// New creates a table. Every philosopher and the chopstick ring report to
// obs, which may be nil.
func New(cfg Config, obs observer.Observer) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table config: %w", err)
	}
	if obs == nil {
		obs = observer.Nop{}
	}
	chopsticks, err := ring.New(cfg.Philosophers, obs)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t := &Table{
		Logger:       log.New(io.Discard, "table: ", log.LstdFlags),
		cfg:          cfg,
		chopsticks:   chopsticks,
		philosophers: make([]*philosopher.Philosopher, cfg.Philosophers),
	}
	for id := range t.philosophers {
		p := philosopher.New(id, cfg.Philosophers, chopsticks, obs, rand.New(rand.NewSource(seed+int64(id))))
		p.Think = cfg.Think
		p.Eat = cfg.Eat
		p.Backoff = cfg.Backoff
		t.philosophers[id] = p
	}
	return t, nil
}

// Start launches every philosopher in its own goroutine. They run until ctx
// is done.
func (t *Table) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrStarted
	}
	t.started = true

	t.Logger.Printf("Seating %s", t.cfg)
	for _, p := range t.philosophers {
		t.wg.Add(1)
		go func(p *philosopher.Philosopher) {
			defer t.wg.Done()
			err := p.Run(ctx)
			t.Logger.Printf("Philosopher %d left the table: %v", p.ID, err)
		}(p)
	}
	return nil
}

// Wait blocks until every philosopher has left.
func (t *Table) Wait() {
	t.wg.Wait()
}

// Run starts the table and waits for it. With a context that is never done
// it does not return.
func (t *Table) Run(ctx context.Context) error {
	if err := t.Start(ctx); err != nil {
		return err
	}
	t.Wait()
	return nil
}

// Size returns the number of seats.
func (t *Table) Size() int { return len(t.philosophers) }

// Config returns the table configuration.
func (t *Table) Config() Config { return t.cfg }

// Chopsticks returns the shared ring.
func (t *Table) Chopsticks() *ring.Chopsticks { return t.chopsticks }

// Philosophers returns the seated philosophers. They must not be modified
// once the table is started.
func (t *Table) Philosophers() []*philosopher.Philosopher { return t.philosophers }

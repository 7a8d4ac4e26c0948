package table

import (
	"errors"
	"fmt"
	"time"

	"github.com/nickng/dinephil/philosopher"
)

// Config describes a table.
type Config struct {
	Philosophers int                  // Number of philosophers, and of chopsticks.
	Think        philosopher.Interval // Time spent thinking per cycle.
	Eat          philosopher.Interval // Time spent eating per cycle.
	Backoff      time.Duration        // Wait after a failed pick-up.
	Seed         int64                // RNG seed, 0 for time based.
}

// DefaultConfig is the classic table: five philosophers thinking and eating
// between one and three seconds, retrying every 100ms.
func DefaultConfig() Config {
	return Config{
		Philosophers: 5,
		Think:        philosopher.Interval{Min: 1 * time.Second, Max: 3 * time.Second},
		Eat:          philosopher.Interval{Min: 1 * time.Second, Max: 3 * time.Second},
		Backoff:      100 * time.Millisecond,
	}
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Philosophers < 2 {
		errs = append(errs, fmt.Errorf("philosophers: need at least 2, got %d", c.Philosophers))
	}
	if err := c.Think.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("think: %w", err))
	}
	if err := c.Eat.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("eat: %w", err))
	}
	if c.Backoff <= 0 {
		errs = append(errs, fmt.Errorf("backoff: must be positive, got %v", c.Backoff))
	}
	return errors.Join(errs...)
}

func (c Config) String() string {
	return fmt.Sprintf("%d philosophers, think %v, eat %v, backoff %v", c.Philosophers, c.Think, c.Eat, c.Backoff)
}

package philosopher

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

var (
	// ErrBadInterval is returned by Validate for negative or inverted bounds.
	ErrBadInterval = errors.New("bad interval")
)

// Interval is a duration drawn uniformly from [Min, Max].
// Min == Max is a fixed duration.
type Interval struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns the Interval that always samples d.
func Fixed(d time.Duration) Interval {
	return Interval{Min: d, Max: d}
}

// Validate checks the bounds.
func (iv Interval) Validate() error {
	if iv.Min < 0 || iv.Max < iv.Min {
		return fmt.Errorf("%w: [%v, %v]", ErrBadInterval, iv.Min, iv.Max)
	}
	return nil
}

// Sample draws a duration. rnd may be nil for a fixed interval.
func (iv Interval) Sample(rnd *rand.Rand) time.Duration {
	if iv.Max <= iv.Min {
		return iv.Min
	}
	span := int64(iv.Max - iv.Min)
	if span == math.MaxInt64 {
		// span+1 overflows; the top 63 bits of a Uint64 cover [0, MaxInt64].
		return iv.Min + time.Duration(rnd.Uint64()>>1)
	}
	// Int63n is half-open, +1 makes Max reachable.
	return iv.Min + time.Duration(rnd.Int63n(span+1))
}

func (iv Interval) String() string {
	if iv.Min == iv.Max {
		return iv.Min.String()
	}
	return fmt.Sprintf("[%v, %v]", iv.Min, iv.Max)
}

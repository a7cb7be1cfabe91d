package tunnel

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultStep is the per-tick phase increment of the fixed clock.
const DefaultStep = 0.1

var (
	ErrInvalidStep      = errors.New("tunnel: clock step must be finite and non-negative")
	ErrClockBeforeEpoch = errors.New("tunnel: wall clock reports a time before the Unix epoch")
)

// Clock produces the animation phase. Advance is called once per update tick
// and never returns a value smaller than the previous one.
type Clock interface {
	Advance() (float64, error)
	Phase() float64
}

// FixedClock advances by a constant step per call.
type FixedClock struct {
	step  float64
	phase float64
}

// NewFixedClock returns a clock starting at phase 0.
func NewFixedClock(step float64) (*FixedClock, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step < 0 {
		return nil, fmt.Errorf("step %v: %w", step, ErrInvalidStep)
	}
	return &FixedClock{step: step}, nil
}

func (c *FixedClock) Advance() (float64, error) {
	c.phase += c.step
	return c.phase, nil
}

func (c *FixedClock) Phase() float64 { return c.phase }

// WallClock reports seconds since the Unix epoch with sub-second precision.
type WallClock struct {
	now   func() time.Time
	phase float64
}

// NewWallClock wraps now; a nil now uses time.Now.
func NewWallClock(now func() time.Time) *WallClock {
	if now == nil {
		now = time.Now
	}
	return &WallClock{now: now}
}

// Advance samples the clock source. Readings that go backwards are ignored.
func (c *WallClock) Advance() (float64, error) {
	ts := c.now()
	if ts.Before(time.Unix(0, 0)) {
		return c.phase, fmt.Errorf("reading %s: %w", ts.Format(time.RFC3339), ErrClockBeforeEpoch)
	}
	secs := float64(ts.Unix()) + float64(ts.Nanosecond())/1e9
	if secs > c.phase {
		c.phase = secs
	}
	return c.phase, nil
}

func (c *WallClock) Phase() float64 { return c.phase }

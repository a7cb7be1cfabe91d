package tunnel

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFixedClockAdvances(t *testing.T) {
	c, err := NewFixedClock(DefaultStep)
	if err != nil {
		t.Fatal(err)
	}
	if c.Phase() != 0 {
		t.Fatalf("initial phase = %v", c.Phase())
	}
	prev := 0.0
	for i := 1; i <= 50; i++ {
		p, err := c.Advance()
		if err != nil {
			t.Fatal(err)
		}
		if p < prev {
			t.Fatalf("step %d went backwards: %v < %v", i, p, prev)
		}
		if math.Abs(p-float64(i)*DefaultStep) > 1e-9 {
			t.Fatalf("step %d phase = %v", i, p)
		}
		prev = p
	}
	if c.Phase() != prev {
		t.Fatalf("Phase() = %v, want %v", c.Phase(), prev)
	}
}

func TestFixedClockZeroStep(t *testing.T) {
	c, err := NewFixedClock(0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if p, _ := c.Advance(); p != 0 {
			t.Fatalf("phase = %v, want 0", p)
		}
	}
}

func TestFixedClockRejectsBadStep(t *testing.T) {
	for _, step := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := NewFixedClock(step); !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("step %v: err = %v", step, err)
		}
	}
}

func TestWallClockSecondsSinceEpoch(t *testing.T) {
	ts := time.Unix(1700000000, 250_000_000)
	c := NewWallClock(func() time.Time { return ts })
	p, err := c.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-1700000000.25) > 1e-6 {
		t.Fatalf("phase = %v", p)
	}
}

func TestWallClockNeverGoesBackwards(t *testing.T) {
	readings := []time.Time{
		time.Unix(100, 0),
		time.Unix(90, 0),
		time.Unix(100, 500_000_000),
	}
	i := 0
	c := NewWallClock(func() time.Time {
		ts := readings[i]
		i++
		return ts
	})
	want := []float64{100, 100, 100.5}
	for n, w := range want {
		p, err := c.Advance()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(p-w) > 1e-9 {
			t.Fatalf("reading %d: phase = %v, want %v", n, p, w)
		}
	}
}

func TestWallClockBeforeEpoch(t *testing.T) {
	c := NewWallClock(func() time.Time { return time.Unix(-5, 0) })
	if _, err := c.Advance(); !errors.Is(err, ErrClockBeforeEpoch) {
		t.Fatalf("err = %v, want ErrClockBeforeEpoch", err)
	}
}

func TestWallClockDefaultSource(t *testing.T) {
	c := NewWallClock(nil)
	p, err := c.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if p <= 0 {
		t.Fatalf("phase = %v", p)
	}
}

package trailing

import "time"

// Ticker is a coalescing tick source: callers probe it as often as they
// like, elapsed time accumulates, and a tick is reported only once the
// accumulated delta exceeds the interval. Ticks missed under load are
// absorbed into the next one; it never fires twice for one interval.
type Ticker struct {
	interval time.Duration
	last     time.Time
	delta    time.Duration
	now      func() time.Time
}

// NewTicker creates a ticker over the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return newTickerAt(interval, time.Now)
}

func newTickerAt(interval time.Duration, now func() time.Time) *Ticker {
	return &Ticker{
		interval: interval,
		last:     now(),
		now:      now,
	}
}

// Tick accumulates the time since the previous probe and reports whether a
// tick is due, resetting the accumulator when it is.
func (t *Ticker) Tick() bool {
	current := t.now()
	t.delta += current.Sub(t.last)
	t.last = current

	if t.delta > t.interval {
		t.delta = 0
		return true
	}
	return false
}

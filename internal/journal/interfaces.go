package journal

import (
	"context"
	"time"
)

// EventKind classifies a monitor audit event.
type EventKind string

const (
	EventMonitorStarted EventKind = "monitor_started"
	EventPeakUpdated    EventKind = "peak_updated"
	EventTriggered      EventKind = "triggered"
	EventTerminated     EventKind = "terminated"
)

// Event is one observation from a trailing-stop monitor: a quote sample, a
// new favorable peak, a fired exit, or the monitor winding down. This is an
// audit trail, not order state; orders live only in their in-memory
// snapshots.
type Event struct {
	OrderID string
	Symbol  string
	Kind    EventKind
	Price   float64
	Peak    float64
	Note    string
	At      time.Time
}

// Journal persists monitor events. Implementations must tolerate concurrent
// use by independent monitors.
type Journal interface {
	RecordEvent(ctx context.Context, ev Event) error
}

// Nop discards everything; the default when no journal is configured.
type Nop struct{}

// RecordEvent implements Journal.
func (Nop) RecordEvent(ctx context.Context, ev Event) error { return nil }

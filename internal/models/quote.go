package models

import (
	"math"
	"strconv"
	"time"
)

// MissingPrice is the sentinel for a numeric field the venue omitted or
// returned empty. NaN propagates through arithmetic instead of silently
// pricing at zero.
var MissingPrice = math.NaN()

// HasPrice reports whether v carries a real value rather than the
// MissingPrice sentinel.
func HasPrice(v float64) bool {
	return !math.IsNaN(v)
}

// ParsePrice converts the venue's string-encoded decimal into a float64.
// Empty or unparseable input yields MissingPrice, never an error: quote
// payloads routinely omit fields outside trading hours.
func ParsePrice(raw string) float64 {
	if raw == "" {
		return MissingPrice
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return MissingPrice
	}
	return v
}

// QuoteSnapshot is a priced instrument at a point in time. Immutable once
// constructed; every fetch produces a fresh value.
type QuoteSnapshot struct {
	Symbol         string
	Bid            float64
	Ask            float64
	Mark           float64
	LastTradePrice float64
	CapturedAt     time.Time
}

// MarkPrice returns the reference price used for trailing-stop computations:
// the venue mark when present, else the last trade, else the ask.
func (q QuoteSnapshot) MarkPrice() float64 {
	switch {
	case HasPrice(q.Mark):
		return q.Mark
	case HasPrice(q.LastTradePrice):
		return q.LastTradePrice
	default:
		return q.Ask
	}
}

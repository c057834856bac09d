package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		missing bool
	}{
		{
			name: "plain decimal",
			raw:  "253.810000",
			want: 253.81,
		},
		{
			name: "crypto precision",
			raw:  "6457.583965",
			want: 6457.583965,
		},
		{
			name:    "empty string",
			raw:     "",
			missing: true,
		},
		{
			name:    "garbage",
			raw:     "None",
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if tt.missing {
				assert.False(t, HasPrice(got))
				return
			}
			assert.True(t, HasPrice(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestQuoteSnapshot_MarkPrice(t *testing.T) {
	tests := []struct {
		name  string
		quote QuoteSnapshot
		want  float64
	}{
		{
			name:  "mark preferred",
			quote: QuoteSnapshot{Mark: 100, LastTradePrice: 99, Ask: 101},
			want:  100,
		},
		{
			name:  "falls back to last trade",
			quote: QuoteSnapshot{Mark: MissingPrice, LastTradePrice: 99, Ask: 101},
			want:  99,
		},
		{
			name:  "falls back to ask",
			quote: QuoteSnapshot{Mark: MissingPrice, LastTradePrice: MissingPrice, Ask: 101},
			want:  101,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.quote.MarkPrice())
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	terminal := []OrderStatus{StatusFilled, StatusCanceled, StatusCancelled}
	open := []OrderStatus{StatusQueued, StatusUnconfirmed, StatusPending, StatusConfirmed, StatusOpen}

	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "status %s", s)
	}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "status %s", s)
	}

	assert.True(t, StatusCanceled.IsCanceled())
	assert.True(t, StatusCancelled.IsCanceled())
	assert.False(t, StatusFilled.IsCanceled())
}

func TestOrderRecord_CancelHandle(t *testing.T) {
	equity := OrderRecord{Cancel: "https://api.example.com/orders/1/cancel/"}
	crypto := OrderRecord{CancelURL: "https://nummus.example.com/orders/2/cancel/"}
	neither := OrderRecord{}

	assert.Equal(t, equity.Cancel, equity.CancelHandle())
	assert.Equal(t, crypto.CancelURL, crypto.CancelHandle())
	assert.Empty(t, neither.CancelHandle())
}

package models

import "time"

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType distinguishes market from limit execution.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// Trigger says whether an order activates immediately or once a stop
// condition is met.
type Trigger string

const (
	TriggerImmediate Trigger = "immediate"
	TriggerStop      Trigger = "stop"
)

// TimeInForce uses the venue's vocabulary: gfd cancels at end of day,
// gtc stays working until canceled.
type TimeInForce string

const (
	TimeInForceDay           TimeInForce = "gfd"
	TimeInForceUntilCanceled TimeInForce = "gtc"
)

// OrderStatus is string-backed because the venue's state vocabulary varies
// across API generations (and spells canceled both ways).
type OrderStatus string

const (
	StatusQueued      OrderStatus = "queued"
	StatusUnconfirmed OrderStatus = "unconfirmed"
	StatusPending     OrderStatus = "pending"
	StatusConfirmed   OrderStatus = "confirmed"
	StatusOpen        OrderStatus = "open"
	StatusFilled      OrderStatus = "filled"
	StatusCanceled    OrderStatus = "canceled"
	StatusCancelled   OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions can happen.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusCancelled:
		return true
	}
	return false
}

// IsCanceled covers both spellings the venue emits.
func (s OrderStatus) IsCanceled() bool {
	return s == StatusCanceled || s == StatusCancelled
}

// AssetClass selects instrument-specific rules: quantity shape and price
// precision.
type AssetClass string

const (
	AssetEquity AssetClass = "equity"
	AssetCrypto AssetClass = "crypto"
)

// PricePrecision is the number of decimal places the venue accepts for
// prices of this asset class.
func (a AssetClass) PricePrecision() int32 {
	if a == AssetCrypto {
		return 6
	}
	return 2
}

// OrderRecord is the venue's raw order payload. Equity and crypto
// generations share most fields; the ones they do not share are simply
// absent from the other's JSON. Prices and quantities arrive as strings.
type OrderRecord struct {
	ID             string      `json:"id"`
	RefID          string      `json:"ref_id"`
	AccountID      string      `json:"account_id"`
	CurrencyPairID string      `json:"currency_pair_id"`
	Symbol         string      `json:"symbol"`
	Side           Side        `json:"side"`
	Type           OrderType   `json:"type"`
	Trigger        Trigger     `json:"trigger"`
	Quantity       string      `json:"quantity"`
	Price          string      `json:"price"`
	StopPrice      string      `json:"stop_price"`
	AveragePrice   string      `json:"average_price"`
	State          OrderStatus `json:"state"`
	TimeInForce    TimeInForce `json:"time_in_force"`
	ExtendedHours  bool        `json:"extended_hours"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Cancellation handles. Equity orders carry "cancel", crypto orders
	// "cancel_url"; either may be null once the order is terminal.
	Cancel    string `json:"cancel"`
	CancelURL string `json:"cancel_url"`
}

// PriceValue parses the string-encoded price, MissingPrice when absent.
func (r OrderRecord) PriceValue() float64 { return ParsePrice(r.Price) }

// StopPriceValue parses the string-encoded stop price, MissingPrice when absent.
func (r OrderRecord) StopPriceValue() float64 { return ParsePrice(r.StopPrice) }

// QuantityValue parses the string-encoded quantity, MissingPrice when absent.
func (r OrderRecord) QuantityValue() float64 { return ParsePrice(r.Quantity) }

// CancelHandle returns whichever cancellation handle the venue supplied.
func (r OrderRecord) CancelHandle() string {
	if r.Cancel != "" {
		return r.Cancel
	}
	return r.CancelURL
}

// OrderSpecification is a validated, normalized order ready for submission.
// Transient: built per call by the Builder and handed straight to the
// transport. Zero means unset for the optional numeric fields; validation
// guarantees at most one stop mechanism is present.
type OrderSpecification struct {
	Symbol              string
	Side                Side
	Quantity            float64
	Type                OrderType
	Trigger             Trigger
	Price               float64
	StopPrice           float64
	TrailingStopPercent int
	TrailingStopAmount  float64
	TimeInForce         TimeInForce
	ExtendedHours       bool
	Asset               AssetClass
}

// IsTrailing reports whether the specification carries a trailing peg.
func (s OrderSpecification) IsTrailing() bool {
	return s.TrailingStopPercent > 0 || s.TrailingStopAmount > 0
}

package orders

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"hoodlink/internal/broker"
	"hoodlink/internal/models"
)

// OrderParams are the raw user-facing order parameters before validation.
// Zero means unset for every optional numeric field.
type OrderParams struct {
	Symbol   string
	Side     models.Side
	Quantity float64

	// Notional sizes a crypto order in dollars instead of units; the
	// quantity is derived from the current ask. Mutually exclusive with
	// Quantity, crypto only.
	Notional float64

	// Price makes the order a limit order.
	Price float64

	// At most one of the three stop mechanisms may be set.
	StopPrice           float64
	TrailingStopPercent float64
	TrailingStopAmount  float64

	TimeInForce   models.TimeInForce
	ExtendedHours bool
}

// Builder validates and normalizes raw parameters into a submittable
// specification. It performs no I/O and submits nothing; the quote is
// supplied by the caller and must be freshly fetched.
type Builder struct {
	asset models.AssetClass
}

// NewBuilder returns a builder for one asset class.
func NewBuilder(asset models.AssetClass) *Builder {
	return &Builder{asset: asset}
}

func validationErr(format string, args ...interface{}) error {
	return &broker.ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Build produces a validated OrderSpecification or a ValidationError naming
// the violated rule. Ambiguous input is rejected, never coerced.
func (b *Builder) Build(p OrderParams, quote models.QuoteSnapshot) (models.OrderSpecification, error) {
	if p.Symbol == "" {
		return models.OrderSpecification{}, validationErr("symbol is required")
	}
	if p.Side != models.SideBuy && p.Side != models.SideSell {
		return models.OrderSpecification{}, validationErr("side must be buy or sell, got %q", p.Side)
	}
	if p.Price < 0 || p.StopPrice < 0 || p.TrailingStopPercent < 0 || p.TrailingStopAmount < 0 {
		return models.OrderSpecification{}, validationErr("prices and stop values must not be negative")
	}

	quantity, err := b.resolveQuantity(p, quote)
	if err != nil {
		return models.OrderSpecification{}, err
	}

	stops := 0
	for _, set := range []bool{p.StopPrice > 0, p.TrailingStopPercent > 0, p.TrailingStopAmount > 0} {
		if set {
			stops++
		}
	}
	if stops > 1 {
		return models.OrderSpecification{}, validationErr(
			"stop_price, trailing_stop_percent and trailing_stop_amount are mutually exclusive")
	}
	// The nummus generation accepts only plain market and limit orders;
	// there is no stop trigger or trailing peg to submit to.
	if stops == 1 && b.asset == models.AssetCrypto {
		return models.OrderSpecification{}, validationErr(
			"crypto orders do not support stop or trailing triggers")
	}

	trailing := p.TrailingStopPercent > 0 || p.TrailingStopAmount > 0
	if trailing && p.Price > 0 {
		return models.OrderSpecification{}, validationErr("trailing stop orders are not compatible with a limit price")
	}

	tif, err := b.resolveTimeInForce(p.TimeInForce)
	if err != nil {
		return models.OrderSpecification{}, err
	}

	spec := models.OrderSpecification{
		Symbol:        p.Symbol,
		Side:          p.Side,
		Quantity:      quantity,
		Type:          models.OrderTypeMarket,
		Trigger:       models.TriggerImmediate,
		TimeInForce:   tif,
		ExtendedHours: p.ExtendedHours,
		Asset:         b.asset,
	}

	// Limit iff an explicit positive price was supplied.
	if p.Price > 0 {
		spec.Type = models.OrderTypeLimit
		spec.Price = b.round(p.Price)
	}
	if stops == 1 {
		spec.Trigger = models.TriggerStop
	}

	switch {
	case p.StopPrice > 0:
		spec.StopPrice = b.round(p.StopPrice)

	case p.TrailingStopAmount > 0:
		stop, err := b.trailingAmountStop(p.Side, p.TrailingStopAmount, quote)
		if err != nil {
			return models.OrderSpecification{}, err
		}
		spec.StopPrice = stop
		spec.TrailingStopAmount = b.round(p.TrailingStopAmount)

	case p.TrailingStopPercent > 0:
		pct, err := wholePercent(p.TrailingStopPercent)
		if err != nil {
			return models.OrderSpecification{}, err
		}
		stop, err := b.trailingPercentStop(p.Side, pct, quote)
		if err != nil {
			return models.OrderSpecification{}, err
		}
		spec.StopPrice = stop
		spec.TrailingStopPercent = pct
	}

	// Non-trailing orders default a missing price to the current ask so
	// the venue always receives a price hint. A sell-exit trailing order
	// is the one case the venue reprices itself.
	if spec.Price == 0 && !(trailing && p.Side == models.SideSell) {
		ref := quote.Ask
		if !models.HasPrice(ref) {
			ref = quote.MarkPrice()
		}
		if !models.HasPrice(ref) || ref <= 0 {
			return models.OrderSpecification{}, validationErr("quote for %s has no usable price to default from", p.Symbol)
		}
		spec.Price = b.round(ref)
	}

	return spec, nil
}

func (b *Builder) resolveQuantity(p OrderParams, quote models.QuoteSnapshot) (float64, error) {
	if p.Notional > 0 {
		if b.asset != models.AssetCrypto {
			return 0, validationErr("notional sizing is only supported for crypto orders")
		}
		if p.Quantity > 0 {
			return 0, validationErr("quantity and notional are mutually exclusive")
		}
		ask := quote.Ask
		if !models.HasPrice(ask) || ask <= 0 {
			return 0, validationErr("quote for %s has no ask to size a notional order", p.Symbol)
		}
		q, _ := decimal.NewFromFloat(p.Notional).
			Div(decimal.NewFromFloat(ask)).
			Round(6).Float64()
		if q <= 0 {
			return 0, validationErr("notional %v is too small at ask %v", p.Notional, ask)
		}
		return q, nil
	}

	if p.Quantity <= 0 {
		return 0, validationErr("quantity must be positive, got %v", p.Quantity)
	}
	if b.asset == models.AssetEquity && p.Quantity != math.Trunc(p.Quantity) {
		return 0, validationErr("equity quantity must be a whole number of shares, got %v", p.Quantity)
	}
	return p.Quantity, nil
}

func (b *Builder) resolveTimeInForce(tif models.TimeInForce) (models.TimeInForce, error) {
	switch tif {
	case "":
		if b.asset == models.AssetCrypto {
			return models.TimeInForceUntilCanceled, nil
		}
		return models.TimeInForceDay, nil
	case models.TimeInForceDay, models.TimeInForceUntilCanceled:
		return tif, nil
	default:
		return "", validationErr("time_in_force must be gfd or gtc, got %q", tif)
	}
}

// trailingAmountStop prices a fixed-amount trailing stop off the current
// mark: the price must move against the position by amount to trigger.
func (b *Builder) trailingAmountStop(side models.Side, amount float64, quote models.QuoteSnapshot) (float64, error) {
	mark := quote.MarkPrice()
	if !models.HasPrice(mark) || mark <= 0 {
		return 0, validationErr("quote has no mark price for trailing stop computation")
	}
	stop := mark + amount
	if side == models.SideSell {
		stop = mark - amount
	}
	if stop <= 0 {
		return 0, validationErr("trailing stop amount %v exceeds the mark price %v", amount, mark)
	}
	return b.round(stop), nil
}

// trailingPercentStop prices a percent trailing stop off the current mark:
// sell exits at mark*(1-p/100), protective buy stops at mark*(1+p/100).
func (b *Builder) trailingPercentStop(side models.Side, percent int, quote models.QuoteSnapshot) (float64, error) {
	mark := quote.MarkPrice()
	if !models.HasPrice(mark) || mark <= 0 {
		return 0, validationErr("quote has no mark price for trailing stop computation")
	}
	ratio := 1 + float64(percent)/100
	if side == models.SideSell {
		ratio = 1 - float64(percent)/100
	}
	return b.round(mark * ratio), nil
}

// wholePercent enforces the venue's rule that trailing percentages are
// whole numbers strictly between 0 and 100.
func wholePercent(p float64) (int, error) {
	if p != math.Trunc(p) {
		return 0, validationErr("trailing stop percent must be a whole number, got %v", p)
	}
	if p <= 0 || p >= 100 {
		return 0, validationErr("trailing stop percent must be between 0 and 100 exclusive, got %v", p)
	}
	return int(p), nil
}

func (b *Builder) round(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(b.asset.PricePrecision()).Float64()
	return out
}

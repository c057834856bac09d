package orders

import (
	"context"
	"errors"
	"time"

	"hoodlink/internal/broker"
	"hoodlink/internal/models"
)

// refreshFunc fetches the current venue record for an order id. The two
// API generations need different lookups, selected at construction.
type refreshFunc func(ctx context.Context, api broker.OrderAPI, id string) (models.OrderRecord, error)

func fetchByID(ctx context.Context, api broker.OrderAPI, id string) (models.OrderRecord, error) {
	return api.FetchOrder(ctx, id)
}

// fetchByScan lists all orders and scans for the id. The crypto generation
// has no dependable single-order endpoint, so every refresh pays for a full
// listing. Known inefficiency, kept visible.
func fetchByScan(ctx context.Context, api broker.OrderAPI, id string) (models.OrderRecord, error) {
	recs, err := api.ListOrders(ctx)
	if err != nil {
		return models.OrderRecord{}, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.OrderRecord{}, &broker.NotFoundError{Kind: "order", ID: id}
}

// OrderSnapshot is an order's last-known state plus lazy refresh. It is
// owned by a single caller; nothing here locks. While a trailing monitor
// watches an order it owns the snapshot exclusively.
type OrderSnapshot struct {
	api     broker.OrderAPI
	refresh refreshFunc
	rec     models.OrderRecord

	// placedAt is recorded locally at construction. The venue does not
	// preserve a session-local creation time across refetches, so refresh
	// replaces every field except this one.
	placedAt time.Time
}

// NewEquityOrder wraps a freshly submitted or listed equity order.
func NewEquityOrder(api broker.OrderAPI, rec models.OrderRecord) *OrderSnapshot {
	return &OrderSnapshot{api: api, refresh: fetchByID, rec: rec, placedAt: time.Now()}
}

// NewCryptoOrder wraps a crypto order; refreshes go through the list-and-scan
// path.
func NewCryptoOrder(api broker.OrderAPI, rec models.OrderRecord) *OrderSnapshot {
	return &OrderSnapshot{api: api, refresh: fetchByScan, rec: rec, placedAt: time.Now()}
}

// Refresh refetches the order and replaces all fields except the locally
// recorded placement time. Idempotent.
func (o *OrderSnapshot) Refresh(ctx context.Context) error {
	rec, err := o.refresh(ctx, o.api, o.rec.ID)
	if err != nil {
		return err
	}
	o.rec = rec
	return nil
}

// Status returns the order's state. Terminal states are served from cache
// without touching the network; non-terminal states trigger at most one
// refresh when refreshIfNonTerminal is set.
func (o *OrderSnapshot) Status(ctx context.Context, refreshIfNonTerminal bool) (models.OrderStatus, error) {
	status := o.rec.State
	if refreshIfNonTerminal && !status.IsTerminal() {
		if err := o.Refresh(ctx); err != nil {
			return status, err
		}
		status = o.rec.State
	}
	return status, nil
}

// IsFilled refreshes if needed and reports whether the order filled.
func (o *OrderSnapshot) IsFilled(ctx context.Context) (bool, error) {
	status, err := o.Status(ctx, true)
	if err != nil {
		return false, err
	}
	return status == models.StatusFilled, nil
}

// IsCanceled refreshes if needed and reports whether the order was canceled.
func (o *OrderSnapshot) IsCanceled(ctx context.Context) (bool, error) {
	status, err := o.Status(ctx, true)
	if err != nil {
		return false, err
	}
	return status.IsCanceled(), nil
}

// IsOpen is the exact negation of "status is terminal".
func (o *OrderSnapshot) IsOpen(ctx context.Context) (bool, error) {
	status, err := o.Status(ctx, true)
	if err != nil {
		return false, err
	}
	return !status.IsTerminal(), nil
}

// Cancel delegates to the venue using whichever cancellation handle the
// order carries. It does not check whether the order already executed.
func (o *OrderSnapshot) Cancel(ctx context.Context) error {
	handle := o.rec.CancelHandle()
	if handle == "" {
		return &broker.CancelError{OrderID: o.rec.ID, Reason: "no cancellation handle on order"}
	}
	if err := o.api.CancelOrder(ctx, handle); err != nil {
		var ce *broker.CancelError
		if errors.As(err, &ce) && ce.OrderID == "" {
			ce.OrderID = o.rec.ID
		}
		return err
	}
	return nil
}

// ID returns the venue order id.
func (o *OrderSnapshot) ID() string { return o.rec.ID }

// Symbol returns the instrument symbol.
func (o *OrderSnapshot) Symbol() string { return o.rec.Symbol }

// Side returns the order direction.
func (o *OrderSnapshot) Side() models.Side { return o.rec.Side }

// Quantity returns the ordered quantity.
func (o *OrderSnapshot) Quantity() float64 { return o.rec.QuantityValue() }

// Price returns the order's price field.
func (o *OrderSnapshot) Price() float64 { return o.rec.PriceValue() }

// StopPrice returns the order's stop price, MissingPrice when absent.
func (o *OrderSnapshot) StopPrice() float64 { return o.rec.StopPriceValue() }

// FillPrice prefers the execution average over the submitted price.
func (o *OrderSnapshot) FillPrice() float64 {
	if avg := models.ParsePrice(o.rec.AveragePrice); models.HasPrice(avg) && avg > 0 {
		return avg
	}
	return o.rec.PriceValue()
}

// PlacedAt is the locally recorded creation time, stable across refreshes.
func (o *OrderSnapshot) PlacedAt() time.Time { return o.placedAt }

// Record exposes the raw venue record (a copy).
func (o *OrderSnapshot) Record() models.OrderRecord { return o.rec }

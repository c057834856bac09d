package broker

import (
	"context"

	"hoodlink/internal/models"
)

// QuoteFetcher retrieves a fresh quote snapshot for a symbol.
type QuoteFetcher interface {
	// FetchQuote returns a point-in-time snapshot; NotFoundError for
	// unknown symbols.
	FetchQuote(ctx context.Context, symbol string) (models.QuoteSnapshot, error)
}

// OrderAPI is the venue-facing order surface for one asset class.
type OrderAPI interface {
	// SubmitOrder places a validated specification; SubmissionError on
	// rejection. Never retried here.
	SubmitOrder(ctx context.Context, spec models.OrderSpecification) (models.OrderRecord, error)

	// FetchOrder retrieves a single order by id; NotFoundError when the
	// venue does not know it.
	FetchOrder(ctx context.Context, id string) (models.OrderRecord, error)

	// ListOrders returns the account's orders, newest first. The crypto
	// generation has no reliable single-order endpoint, so per-order
	// lookups go through this.
	ListOrders(ctx context.Context) ([]models.OrderRecord, error)

	// CancelOrder hits the cancellation handle the venue returned with
	// the order; CancelError on rejection.
	CancelOrder(ctx context.Context, handle string) error
}

// Transport bundles everything the order engine needs from the venue for
// one asset class.
type Transport interface {
	QuoteFetcher
	OrderAPI
}

package orders

import (
	"context"

	"go.uber.org/zap"

	"hoodlink/internal/broker"
	"hoodlink/internal/models"
)

// Client ties the builder to a venue transport for one asset class: fetch a
// fresh quote, validate, submit, wrap the response in a snapshot with the
// right refresh strategy.
type Client struct {
	transport broker.Transport
	builder   *Builder
	asset     models.AssetClass
	logger    *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewEquityClient builds a client over the equity transport.
func NewEquityClient(t broker.Transport, opts ...ClientOption) *Client {
	return newClient(t, models.AssetEquity, opts)
}

// NewCryptoClient builds a client over the crypto transport.
func NewCryptoClient(t broker.Transport, opts ...ClientOption) *Client {
	return newClient(t, models.AssetCrypto, opts)
}

func newClient(t broker.Transport, asset models.AssetClass, opts []ClientOption) *Client {
	c := &Client{
		transport: t,
		builder:   NewBuilder(asset),
		asset:     asset,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuote fetches a fresh snapshot for a symbol. Client passes through
// as a broker.QuoteFetcher so monitors can sample quotes from it directly.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.QuoteSnapshot, error) {
	return c.transport.FetchQuote(ctx, symbol)
}

var _ broker.QuoteFetcher = (*Client)(nil)

// Buy validates and submits a buy order.
func (c *Client) Buy(ctx context.Context, p OrderParams) (*OrderSnapshot, error) {
	p.Side = models.SideBuy
	return c.Place(ctx, p)
}

// Sell validates and submits a sell order.
func (c *Client) Sell(ctx context.Context, p OrderParams) (*OrderSnapshot, error) {
	p.Side = models.SideSell
	return c.Place(ctx, p)
}

// Place runs the full pipeline: quote, build, submit, wrap. Validation
// failures never reach the venue; transport errors propagate immediately,
// unretried.
func (c *Client) Place(ctx context.Context, p OrderParams) (*OrderSnapshot, error) {
	quote, err := c.transport.FetchQuote(ctx, p.Symbol)
	if err != nil {
		return nil, err
	}

	spec, err := c.builder.Build(p, quote)
	if err != nil {
		return nil, err
	}

	rec, err := c.transport.SubmitOrder(ctx, spec)
	if err != nil {
		return nil, err
	}

	c.logger.Info("order submitted",
		zap.String("id", rec.ID),
		zap.String("symbol", spec.Symbol),
		zap.String("side", string(spec.Side)),
		zap.String("type", string(spec.Type)),
		zap.String("trigger", string(spec.Trigger)),
		zap.Float64("quantity", spec.Quantity),
	)

	return c.wrap(rec), nil
}

// SellMarket submits an immediate market sell for the full quantity. This
// is the exit path the trailing-stop monitor uses.
func (c *Client) SellMarket(ctx context.Context, symbol string, quantity float64) (string, error) {
	snap, err := c.Sell(ctx, OrderParams{Symbol: symbol, Quantity: quantity})
	if err != nil {
		return "", err
	}
	return snap.ID(), nil
}

// WrapOrder adopts an order record obtained elsewhere (order listings,
// historical lookups) into a snapshot bound to this client's transport.
func (c *Client) WrapOrder(rec models.OrderRecord) *OrderSnapshot {
	return c.wrap(rec)
}

// Orders lists the account's orders as snapshots.
func (c *Client) Orders(ctx context.Context) ([]*OrderSnapshot, error) {
	recs, err := c.transport.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	snaps := make([]*OrderSnapshot, 0, len(recs))
	for _, rec := range recs {
		snaps = append(snaps, c.wrap(rec))
	}
	return snaps, nil
}

func (c *Client) wrap(rec models.OrderRecord) *OrderSnapshot {
	if c.asset == models.AssetCrypto {
		return NewCryptoOrder(c.transport, rec)
	}
	return NewEquityOrder(c.transport, rec)
}

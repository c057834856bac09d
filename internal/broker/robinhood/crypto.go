package robinhood

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hoodlink/internal/broker"
	"hoodlink/internal/models"
)

// Crypto is the nummus-generation transport. It implements
// broker.Transport.
type Crypto struct {
	s *Session

	// accountID is resolved once per session; the nummus account does
	// not change while logged in.
	accountID string
}

var _ broker.Transport = (*Crypto)(nil)

type cryptoQuotePayload struct {
	Symbol    string `json:"symbol"`
	AskPrice  string `json:"ask_price"`
	BidPrice  string `json:"bid_price"`
	MarkPrice string `json:"mark_price"`
	HighPrice string `json:"high_price"`
	LowPrice  string `json:"low_price"`
	OpenPrice string `json:"open_price"`
}

type cryptoAccountPayload struct {
	ID string `json:"id"`
}

// FetchQuote implements broker.QuoteFetcher for crypto pairs. "BTC" and
// "BTCUSD" are both accepted.
func (c *Crypto) FetchQuote(ctx context.Context, symbol string) (models.QuoteSnapshot, error) {
	var q cryptoQuotePayload
	nf := &broker.NotFoundError{Kind: "symbol", ID: symbol}
	if err := c.s.getJSON(ctx, epCryptoQuote(symbol), &q, nf); err != nil {
		return models.QuoteSnapshot{}, err
	}
	snap := models.QuoteSnapshot{
		Symbol:         q.Symbol,
		Bid:            models.ParsePrice(q.BidPrice),
		Ask:            models.ParsePrice(q.AskPrice),
		Mark:           models.ParsePrice(q.MarkPrice),
		LastTradePrice: models.ParsePrice(q.MarkPrice),
		CapturedAt:     nowUTC(),
	}
	return snap, nil
}

// AccountID resolves and caches the nummus account id.
func (c *Crypto) AccountID(ctx context.Context) (string, error) {
	if c.accountID != "" {
		return c.accountID, nil
	}
	var page resultsPage[cryptoAccountPayload]
	if err := c.s.getJSON(ctx, epCryptoAccounts(), &page, nil); err != nil {
		return "", err
	}
	if len(page.Results) == 0 {
		return "", fmt.Errorf("no crypto account on this login")
	}
	c.accountID = page.Results[0].ID
	return c.accountID, nil
}

// SubmitOrder places a crypto order. The nummus generation accepts only
// plain market and limit orders; a specification carrying a stop trigger or
// trailing peg is rejected here rather than submitted with the trigger
// silently dropped.
func (c *Crypto) SubmitOrder(ctx context.Context, spec models.OrderSpecification) (models.OrderRecord, error) {
	if spec.Trigger == models.TriggerStop || spec.StopPrice > 0 || spec.IsTrailing() {
		return models.OrderRecord{}, &broker.ValidationError{
			Reason: "crypto orders do not support stop or trailing triggers",
		}
	}
	pair := fixCryptoSymbol(spec.Symbol)
	pairID, ok := cryptoPairIDs[pair]
	if !ok {
		return models.OrderRecord{}, &broker.NotFoundError{Kind: "symbol", ID: spec.Symbol}
	}
	accountID, err := c.AccountID(ctx)
	if err != nil {
		return models.OrderRecord{}, err
	}

	payload := map[string]interface{}{
		"account_id":       accountID,
		"currency_pair_id": pairID,
		"quantity":         formatQuantity(spec.Quantity, models.AssetCrypto),
		"side":             string(spec.Side),
		"type":             string(spec.Type),
		"ref_id":           uuid.New().String(),
		"time_in_force":    string(spec.TimeInForce),
	}
	if spec.Price > 0 {
		payload["price"] = formatPrice(spec.Price, models.AssetCrypto)
	}

	var rec models.OrderRecord
	resp, err := c.s.postJSON(ctx, epCryptoOrders(), payload, &rec)
	if err != nil {
		return models.OrderRecord{}, err
	}
	if resp.IsError() {
		return models.OrderRecord{}, &broker.SubmissionError{
			Symbol:     spec.Symbol,
			Side:       spec.Side,
			Quantity:   spec.Quantity,
			Type:       spec.Type,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}
	if rec.Symbol == "" {
		rec.Symbol = pair
	}
	return rec, nil
}

// FetchOrder retrieves a single crypto order by id. Some nummus
// generations 404 on this endpoint; callers that need reliability use
// ListOrders and scan.
func (c *Crypto) FetchOrder(ctx context.Context, id string) (models.OrderRecord, error) {
	var rec models.OrderRecord
	nf := &broker.NotFoundError{Kind: "order", ID: id}
	if err := c.s.getJSON(ctx, epCryptoOrder(id), &rec, nf); err != nil {
		return models.OrderRecord{}, err
	}
	return rec, nil
}

// ListOrders returns the account's crypto orders.
func (c *Crypto) ListOrders(ctx context.Context) ([]models.OrderRecord, error) {
	var page resultsPage[models.OrderRecord]
	if err := c.s.getJSON(ctx, epCryptoOrders(), &page, nil); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// CancelOrder hits the order's cancel_url.
func (c *Crypto) CancelOrder(ctx context.Context, handle string) error {
	resp, err := c.s.postJSON(ctx, handle, nil, nil)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &broker.CancelError{
			StatusCode: resp.StatusCode(),
			Reason:     resp.String(),
		}
	}
	return nil
}

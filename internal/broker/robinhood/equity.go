package robinhood

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hoodlink/internal/broker"
	"hoodlink/internal/models"
)

// Equity is the equity-generation transport. It implements
// broker.Transport.
type Equity struct {
	s *Session
}

var _ broker.Transport = (*Equity)(nil)

type equityQuotePayload struct {
	Symbol         string `json:"symbol"`
	AskPrice       string `json:"ask_price"`
	BidPrice       string `json:"bid_price"`
	LastTradePrice string `json:"last_trade_price"`
	UpdatedAt      string `json:"updated_at"`
}

type resultsPage[T any] struct {
	Results []T `json:"results"`
}

// InstrumentRecord identifies a tradable instrument. Orders reference
// instruments by URL, not symbol.
type InstrumentRecord struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Symbol string `json:"symbol"`
}

// AccountRecord is the slice of the account payload order placement needs.
type AccountRecord struct {
	URL           string `json:"url"`
	AccountNumber string `json:"account_number"`
}

// FetchQuote implements broker.QuoteFetcher for equities.
func (e *Equity) FetchQuote(ctx context.Context, symbol string) (models.QuoteSnapshot, error) {
	var page resultsPage[equityQuotePayload]
	nf := &broker.NotFoundError{Kind: "symbol", ID: symbol}
	if err := e.s.getJSON(ctx, epQuotes(symbol), &page, nf); err != nil {
		return models.QuoteSnapshot{}, err
	}
	if len(page.Results) == 0 {
		return models.QuoteSnapshot{}, nf
	}
	q := page.Results[0]
	snap := models.QuoteSnapshot{
		Symbol:         q.Symbol,
		Bid:            models.ParsePrice(q.BidPrice),
		Ask:            models.ParsePrice(q.AskPrice),
		Mark:           models.ParsePrice(q.LastTradePrice),
		LastTradePrice: models.ParsePrice(q.LastTradePrice),
		CapturedAt:     nowUTC(),
	}
	return snap, nil
}

// Instrument resolves a symbol to its instrument record.
func (e *Equity) Instrument(ctx context.Context, symbol string) (InstrumentRecord, error) {
	var page resultsPage[InstrumentRecord]
	url := epInstruments() + "?symbol=" + fixEquitySymbol(symbol)
	if err := e.s.getJSON(ctx, url, &page, nil); err != nil {
		return InstrumentRecord{}, err
	}
	if len(page.Results) == 0 {
		return InstrumentRecord{}, &broker.NotFoundError{Kind: "symbol", ID: symbol}
	}
	return page.Results[0], nil
}

// Account returns the user's (single) brokerage account.
func (e *Equity) Account(ctx context.Context) (AccountRecord, error) {
	var page resultsPage[AccountRecord]
	if err := e.s.getJSON(ctx, epAccounts(), &page, nil); err != nil {
		return AccountRecord{}, err
	}
	if len(page.Results) == 0 {
		return AccountRecord{}, fmt.Errorf("no brokerage account on this login")
	}
	return page.Results[0], nil
}

// Portfolio returns the first (and currently only) portfolio record.
func (e *Equity) Portfolio(ctx context.Context) (map[string]interface{}, error) {
	var page resultsPage[map[string]interface{}]
	if err := e.s.getJSON(ctx, epPortfolios(), &page, nil); err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("no portfolio on this login")
	}
	return page.Results[0], nil
}

// Positions returns raw position records.
func (e *Equity) Positions(ctx context.Context) ([]map[string]interface{}, error) {
	var page resultsPage[map[string]interface{}]
	if err := e.s.getJSON(ctx, epPositions(), &page, nil); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Fundamentals returns the raw fundamentals record for a symbol.
func (e *Equity) Fundamentals(ctx context.Context, symbol string) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	nf := &broker.NotFoundError{Kind: "symbol", ID: symbol}
	if err := e.s.getJSON(ctx, epFundamentals(symbol), &out, nf); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitOrder places an equity order built from a validated specification.
func (e *Equity) SubmitOrder(ctx context.Context, spec models.OrderSpecification) (models.OrderRecord, error) {
	instrument, err := e.Instrument(ctx, spec.Symbol)
	if err != nil {
		return models.OrderRecord{}, err
	}
	account, err := e.Account(ctx)
	if err != nil {
		return models.OrderRecord{}, err
	}

	payload := map[string]interface{}{
		"account":        account.URL,
		"instrument":     instrument.URL,
		"symbol":         instrument.Symbol,
		"quantity":       formatQuantity(spec.Quantity, models.AssetEquity),
		"side":           string(spec.Side),
		"type":           string(spec.Type),
		"trigger":        string(spec.Trigger),
		"time_in_force":  string(spec.TimeInForce),
		"extended_hours": strconv.FormatBool(spec.ExtendedHours),
	}
	if spec.Price > 0 {
		payload["price"] = formatPrice(spec.Price, models.AssetEquity)
	}
	if spec.StopPrice > 0 {
		payload["stop_price"] = formatPrice(spec.StopPrice, models.AssetEquity)
	}
	switch {
	case spec.TrailingStopAmount > 0:
		payload["trailing_peg"] = map[string]interface{}{
			"type": "price",
			"price": map[string]interface{}{
				"amount":        formatPrice(spec.TrailingStopAmount, models.AssetEquity),
				"currency_code": "USD",
			},
		}
	case spec.TrailingStopPercent > 0:
		payload["trailing_peg"] = map[string]interface{}{
			"type":       "percentage",
			"percentage": strconv.Itoa(spec.TrailingStopPercent),
		}
	}

	var rec models.OrderRecord
	resp, err := e.s.postJSON(ctx, epOrders(), payload, &rec)
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
	return rec, nil
}

// FetchOrder retrieves a single equity order by id.
func (e *Equity) FetchOrder(ctx context.Context, id string) (models.OrderRecord, error) {
	var rec models.OrderRecord
	nf := &broker.NotFoundError{Kind: "order", ID: id}
	if err := e.s.getJSON(ctx, epOrder(id), &rec, nf); err != nil {
		return models.OrderRecord{}, err
	}
	return rec, nil
}

// ListOrders returns the account's equity orders.
func (e *Equity) ListOrders(ctx context.Context) ([]models.OrderRecord, error) {
	var page resultsPage[models.OrderRecord]
	if err := e.s.getJSON(ctx, epOrders(), &page, nil); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// CancelOrder hits the order's cancellation handle.
func (e *Equity) CancelOrder(ctx context.Context, handle string) error {
	resp, err := e.s.postJSON(ctx, handle, nil, nil)
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

func fixEquitySymbol(symbol string) string {
	return strings.ToUpper(symbol)
}

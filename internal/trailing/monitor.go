package trailing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hoodlink/internal/broker"
	"hoodlink/internal/journal"
	"hoodlink/internal/models"
)

// WatchedOrder is what the monitor needs from an order snapshot. The
// monitor owns the snapshot exclusively while it runs; callers must not
// mutate it concurrently.
type WatchedOrder interface {
	ID() string
	Symbol() string
	Side() models.Side
	Quantity() float64
	FillPrice() float64
	Refresh(ctx context.Context) error
	Status(ctx context.Context, refreshIfNonTerminal bool) (models.OrderStatus, error)
}

// Seller places the market exit when the drawdown threshold is crossed.
type Seller interface {
	SellMarket(ctx context.Context, symbol string, quantity float64) (orderID string, err error)
}

// Reason explains why a monitor stopped.
type Reason string

const (
	// ReasonTriggered: the drawdown threshold was crossed and the exit
	// order was placed.
	ReasonTriggered Reason = "triggered"
	// ReasonOrderCanceled: the watched order was canceled externally.
	ReasonOrderCanceled Reason = "order_canceled"
	// ReasonStopped: the caller's context was canceled.
	ReasonStopped Reason = "stopped"
	// ReasonError: a transport error ended the monitor. Transport
	// failures are fatal to the monitor instance, never retried.
	ReasonError Reason = "error"
)

// Result summarizes a finished monitor.
type Result struct {
	OrderID     string
	Reason      Reason
	ExitOrderID string
	Peak        float64
}

// State is the monitor's working state, one per watched order. Nothing
// here is shared: each monitor owns its state for its whole life.
type State struct {
	OrderID            string
	Side               models.Side
	TrailingPercent    int
	PollInterval       time.Duration
	PeakFavorablePrice float64
	Running            bool
}

// Config parameterizes a monitor.
type Config struct {
	// Percent is the peak-relative drawdown that triggers the exit,
	// a whole number strictly between 0 and 100.
	Percent int

	// PollInterval is the cadence of refresh-then-quote work. Defaults
	// to 30 seconds.
	PollInterval time.Duration

	// ProbeInterval is how often the loop wakes to consult the
	// coalescing ticker. Defaults to 1 second; tests shrink it.
	ProbeInterval time.Duration
}

const (
	defaultPollInterval  = 30 * time.Second
	defaultProbeInterval = time.Second
)

// Monitor enforces a client-side trailing stop-loss for one buy order by
// polling quotes and tracking the favorable extreme since fill. Within one
// monitor all network calls are sequential; across monitors nothing is
// shared, so no locking exists anywhere here.
type Monitor struct {
	order   WatchedOrder
	quotes  broker.QuoteFetcher
	seller  Seller
	cfg     Config
	logger  *zap.Logger
	journal journal.Journal

	state State
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) MonitorOption {
	return func(m *Monitor) { m.logger = l }
}

// WithJournal records monitor events to an audit journal.
func WithJournal(j journal.Journal) MonitorOption {
	return func(m *Monitor) { m.journal = j }
}

// NewMonitor validates the preconditions and builds a monitor. A trailing
// stop-loss protects a long position, so the watched order must be a buy;
// anything else is an InvalidStateError.
func NewMonitor(order WatchedOrder, quotes broker.QuoteFetcher, seller Seller, cfg Config, opts ...MonitorOption) (*Monitor, error) {
	if order.Side() != models.SideBuy {
		return nil, &broker.InvalidStateError{
			Op:     "trailing stop monitor",
			Reason: "only buy orders can be watched, got side " + string(order.Side()),
		}
	}
	if cfg.Percent <= 0 || cfg.Percent >= 100 {
		return nil, &broker.ValidationError{Reason: "trailing percent must be between 0 and 100 exclusive"}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = defaultProbeInterval
	}

	m := &Monitor{
		order:   order,
		quotes:  quotes,
		seller:  seller,
		cfg:     cfg,
		logger:  zap.NewNop(),
		journal: journal.Nop{},
		state: State{
			OrderID:         order.ID(),
			Side:            order.Side(),
			TrailingPercent: cfg.Percent,
			PollInterval:    cfg.PollInterval,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State returns a copy of the monitor's working state.
func (m *Monitor) State() State {
	return m.state
}

// Run blocks until the monitor stops: exit triggered, order canceled
// externally, transport error, or context cancellation. There is no
// internal deadline; callers wanting one bound the context.
func (m *Monitor) Run(ctx context.Context) (Result, error) {
	m.state.PeakFavorablePrice = 0
	if fill := m.order.FillPrice(); models.HasPrice(fill) && fill > 0 {
		m.state.PeakFavorablePrice = fill
	}
	m.state.Running = true
	defer func() { m.state.Running = false }()

	m.logger.Info("trailing stop monitor started",
		zap.String("order_id", m.state.OrderID),
		zap.String("symbol", m.order.Symbol()),
		zap.Int("percent", m.cfg.Percent),
		zap.Duration("poll_interval", m.cfg.PollInterval),
		zap.Float64("initial_peak", m.state.PeakFavorablePrice),
	)
	m.record(ctx, journal.EventMonitorStarted, m.state.PeakFavorablePrice, "")

	tick := newTickerAt(m.cfg.PollInterval, time.Now)

	for {
		select {
		case <-ctx.Done():
			m.record(context.WithoutCancel(ctx), journal.EventTerminated, 0, "context canceled")
			return m.finish(Result{Reason: ReasonStopped}), ctx.Err()
		case <-time.After(m.cfg.ProbeInterval):
		}

		if !tick.Tick() {
			continue
		}

		result, done, err := m.step(ctx)
		if done {
			return m.finish(result), err
		}
	}
}

// step is one due tick: refresh the order, then act on its state. The
// refresh and the quote fetch are deliberately sequential so "is it filled"
// and "what is the price" never race each other.
func (m *Monitor) step(ctx context.Context) (Result, bool, error) {
	if err := m.order.Refresh(ctx); err != nil {
		m.logger.Error("order refresh failed, stopping monitor",
			zap.String("order_id", m.state.OrderID), zap.Error(err))
		m.record(ctx, journal.EventTerminated, 0, "refresh failed: "+err.Error())
		return Result{Reason: ReasonError}, true, err
	}

	status, err := m.order.Status(ctx, false)
	if err != nil {
		return Result{Reason: ReasonError}, true, err
	}

	switch {
	case status.IsCanceled():
		m.logger.Info("watched order canceled externally, stopping monitor",
			zap.String("order_id", m.state.OrderID))
		m.record(ctx, journal.EventTerminated, 0, "order canceled")
		return Result{Reason: ReasonOrderCanceled}, true, nil

	case status == models.StatusFilled:
		return m.evaluateQuote(ctx)

	default:
		// Not yet filled: keep polling, the peak only moves once
		// there is a position to protect.
		return Result{}, false, nil
	}
}

func (m *Monitor) evaluateQuote(ctx context.Context) (Result, bool, error) {
	quote, err := m.quotes.FetchQuote(ctx, m.order.Symbol())
	if err != nil {
		m.logger.Error("quote fetch failed, stopping monitor",
			zap.String("symbol", m.order.Symbol()), zap.Error(err))
		m.record(ctx, journal.EventTerminated, 0, "quote fetch failed: "+err.Error())
		return Result{Reason: ReasonError}, true, err
	}

	price := quote.MarkPrice()
	if !models.HasPrice(price) || price <= 0 {
		m.logger.Debug("quote carried no usable price, skipping tick",
			zap.String("symbol", m.order.Symbol()))
		return Result{}, false, nil
	}

	if m.state.PeakFavorablePrice <= 0 {
		m.state.PeakFavorablePrice = price
		m.record(ctx, journal.EventPeakUpdated, price, "initial peak from quote")
		return Result{}, false, nil
	}

	if price > m.state.PeakFavorablePrice {
		m.state.PeakFavorablePrice = price
		m.logger.Debug("peak updated",
			zap.String("symbol", m.order.Symbol()), zap.Float64("peak", price))
		m.record(ctx, journal.EventPeakUpdated, price, "")
		return Result{}, false, nil
	}

	threshold := m.state.PeakFavorablePrice * (1 - float64(m.cfg.Percent)/100)
	if price < threshold {
		return m.trigger(ctx, price)
	}

	return Result{}, false, nil
}

// trigger fires the one-shot market exit for the full quantity.
func (m *Monitor) trigger(ctx context.Context, price float64) (Result, bool, error) {
	exitID, err := m.seller.SellMarket(ctx, m.order.Symbol(), m.order.Quantity())
	if err != nil {
		m.logger.Error("exit order failed, stopping monitor",
			zap.String("symbol", m.order.Symbol()), zap.Error(err))
		m.record(ctx, journal.EventTerminated, price, "exit order failed: "+err.Error())
		return Result{Reason: ReasonError}, true, err
	}

	m.logger.Info("trailing stop triggered, market sell placed",
		zap.String("order_id", m.state.OrderID),
		zap.String("exit_order_id", exitID),
		zap.Float64("price", price),
		zap.Float64("peak", m.state.PeakFavorablePrice),
		zap.Int("percent", m.cfg.Percent),
	)
	m.record(ctx, journal.EventTriggered, price, "exit order "+exitID)

	return Result{Reason: ReasonTriggered, ExitOrderID: exitID}, true, nil
}

func (m *Monitor) finish(r Result) Result {
	r.OrderID = m.state.OrderID
	r.Peak = m.state.PeakFavorablePrice
	return r
}

func (m *Monitor) record(ctx context.Context, kind journal.EventKind, price float64, note string) {
	ev := journal.Event{
		OrderID: m.state.OrderID,
		Symbol:  m.order.Symbol(),
		Kind:    kind,
		Price:   price,
		Peak:    m.state.PeakFavorablePrice,
		Note:    note,
		At:      time.Now().UTC(),
	}
	if err := m.journal.RecordEvent(ctx, ev); err != nil {
		m.logger.Warn("journal write failed", zap.Error(err))
	}
}

package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoodlink/internal/broker"
	"hoodlink/internal/models"
)

// fakeAPI scripts the venue for lifecycle tests and counts every call so
// tests can assert what never touched the transport.
type fakeAPI struct {
	fetchCalls  int
	listCalls   int
	cancelCalls int
	submitCalls int

	fetchRec  models.OrderRecord
	fetchErr  error
	listRecs  []models.OrderRecord
	listErr   error
	cancelErr error

	lastCancelHandle string
}

func (f *fakeAPI) SubmitOrder(ctx context.Context, spec models.OrderSpecification) (models.OrderRecord, error) {
	f.submitCalls++
	return models.OrderRecord{ID: "submitted", Symbol: spec.Symbol, Side: spec.Side, State: models.StatusQueued}, nil
}

func (f *fakeAPI) FetchOrder(ctx context.Context, id string) (models.OrderRecord, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return models.OrderRecord{}, f.fetchErr
	}
	return f.fetchRec, nil
}

func (f *fakeAPI) ListOrders(ctx context.Context) ([]models.OrderRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listRecs, nil
}

func (f *fakeAPI) CancelOrder(ctx context.Context, handle string) error {
	f.cancelCalls++
	f.lastCancelHandle = handle
	return f.cancelErr
}

func TestOrderSnapshot_TerminalStatusNeverRefreshes(t *testing.T) {
	api := &fakeAPI{}
	snap := NewEquityOrder(api, models.OrderRecord{ID: "o1", State: models.StatusFilled})

	for i := 0; i < 3; i++ {
		status, err := snap.Status(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFilled, status)
	}
	assert.Zero(t, api.fetchCalls, "terminal status must be served from cache")
}

func TestOrderSnapshot_NonTerminalStatusRefreshesOnce(t *testing.T) {
	api := &fakeAPI{fetchRec: models.OrderRecord{ID: "o1", State: models.StatusFilled}}
	snap := NewEquityOrder(api, models.OrderRecord{ID: "o1", State: models.StatusPending})

	status, err := snap.Status(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFilled, status)
	assert.Equal(t, 1, api.fetchCalls)

	// Now terminal: further queries stay local.
	_, err = snap.Status(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, api.fetchCalls)
}

func TestOrderSnapshot_StatusWithoutRefresh(t *testing.T) {
	api := &fakeAPI{}
	snap := NewEquityOrder(api, models.OrderRecord{ID: "o1", State: models.StatusPending})

	status, err := snap.Status(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
	assert.Zero(t, api.fetchCalls)
}

func TestOrderSnapshot_IsOpenIsNegationOfTerminal(t *testing.T) {
	statuses := []models.OrderStatus{
		models.StatusQueued,
		models.StatusUnconfirmed,
		models.StatusPending,
		models.StatusConfirmed,
		models.StatusOpen,
		models.StatusFilled,
		models.StatusCanceled,
		models.StatusCancelled,
	}

	for _, s := range statuses {
		t.Run(string(s), func(t *testing.T) {
			// The refresh re-reports the same state so the derived
			// checks see a stable venue.
			api := &fakeAPI{fetchRec: models.OrderRecord{ID: "o1", State: s}}
			snap := NewEquityOrder(api, models.OrderRecord{ID: "o1", State: s})

			open, err := snap.IsOpen(context.Background())
			require.NoError(t, err)
			assert.Equal(t, !s.IsTerminal(), open)
		})
	}
}

func TestOrderSnapshot_RefreshPreservesPlacedAt(t *testing.T) {
	api := &fakeAPI{fetchRec: models.OrderRecord{ID: "o1", State: models.StatusFilled}}
	snap := NewEquityOrder(api, models.OrderRecord{ID: "o1", State: models.StatusPending})

	placed := snap.PlacedAt()
	require.NoError(t, snap.Refresh(context.Background()))
	assert.Equal(t, placed, snap.PlacedAt())
	assert.Equal(t, models.StatusFilled, snap.Record().State)
}

func TestCryptoOrder_RefreshScansListing(t *testing.T) {
	api := &fakeAPI{listRecs: []models.OrderRecord{
		{ID: "other", State: models.StatusFilled},
		{ID: "c1", State: models.StatusFilled, CancelURL: "https://nummus/orders/c1/cancel/"},
	}}
	snap := NewCryptoOrder(api, models.OrderRecord{ID: "c1", State: models.StatusUnconfirmed})

	require.NoError(t, snap.Refresh(context.Background()))
	assert.Equal(t, models.StatusFilled, snap.Record().State)
	assert.Equal(t, 1, api.listCalls)
	assert.Zero(t, api.fetchCalls, "crypto refresh must not use the by-id endpoint")
}

func TestCryptoOrder_RefreshNotFound(t *testing.T) {
	api := &fakeAPI{listRecs: []models.OrderRecord{{ID: "other"}}}
	snap := NewCryptoOrder(api, models.OrderRecord{ID: "c1", State: models.StatusUnconfirmed})

	err := snap.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, broker.IsNotFound(err))
}

func TestOrderSnapshot_CancelProbesHandles(t *testing.T) {
	t.Run("equity cancel field", func(t *testing.T) {
		api := &fakeAPI{}
		snap := NewEquityOrder(api, models.OrderRecord{ID: "o1", Cancel: "https://api/orders/o1/cancel/"})

		require.NoError(t, snap.Cancel(context.Background()))
		assert.Equal(t, "https://api/orders/o1/cancel/", api.lastCancelHandle)
	})

	t.Run("crypto cancel_url field", func(t *testing.T) {
		api := &fakeAPI{}
		snap := NewCryptoOrder(api, models.OrderRecord{ID: "c1", CancelURL: "https://nummus/orders/c1/cancel/"})

		require.NoError(t, snap.Cancel(context.Background()))
		assert.Equal(t, "https://nummus/orders/c1/cancel/", api.lastCancelHandle)
	})

	t.Run("no handle fails without touching transport", func(t *testing.T) {
		api := &fakeAPI{}
		snap := NewEquityOrder(api, models.OrderRecord{ID: "o1"})

		err := snap.Cancel(context.Background())
		require.Error(t, err)
		var ce *broker.CancelError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "o1", ce.OrderID)
		assert.Zero(t, api.cancelCalls)
	})
}

func TestOrderSnapshot_FillPrice(t *testing.T) {
	api := &fakeAPI{}

	withAvg := NewEquityOrder(api, models.OrderRecord{ID: "o1", Price: "100.00", AveragePrice: "99.80"})
	assert.Equal(t, 99.80, withAvg.FillPrice())

	withoutAvg := NewEquityOrder(api, models.OrderRecord{ID: "o2", Price: "100.00"})
	assert.Equal(t, 100.0, withoutAvg.FillPrice())
}

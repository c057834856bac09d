package robinhood

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoodlink/internal/models"
)

// TestRobinhood_Integration exercises the live venue. It needs real
// credentials and is skipped in short mode; MFA-enabled accounts must supply
// a remembered device token or the login will challenge.
func TestRobinhood_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	username := os.Getenv("ROBINHOOD_USERNAME")
	password := os.Getenv("ROBINHOOD_PASSWORD")
	if username == "" || password == "" {
		t.Skip("ROBINHOOD_USERNAME / ROBINHOOD_PASSWORD not set")
	}

	ctx := context.Background()
	session := NewSession()
	require.NoError(t, session.Login(ctx, Credentials{
		Username:    username,
		Password:    password,
		MFACode:     os.Getenv("ROBINHOOD_MFA_CODE"),
		DeviceToken: os.Getenv("ROBINHOOD_DEVICE_TOKEN"),
	}))
	defer session.Logout(ctx)

	t.Run("equity quote", func(t *testing.T) {
		quote, err := session.Equity().FetchQuote(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", quote.Symbol)
		assert.True(t, models.HasPrice(quote.MarkPrice()))
		assert.Greater(t, quote.MarkPrice(), 0.0)
	})

	t.Run("crypto quote", func(t *testing.T) {
		quote, err := session.Crypto().FetchQuote(ctx, "BTC")
		require.NoError(t, err)
		assert.Equal(t, "BTCUSD", quote.Symbol)
		assert.Greater(t, quote.MarkPrice(), 0.0)
	})

	t.Run("account", func(t *testing.T) {
		account, err := session.Equity().Account(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, account.AccountNumber)
		assert.NotEmpty(t, account.URL)
	})

	t.Run("list equity orders", func(t *testing.T) {
		recs, err := session.Equity().ListOrders(ctx)
		require.NoError(t, err)
		for _, rec := range recs {
			assert.NotEmpty(t, rec.ID)
		}
	})
}

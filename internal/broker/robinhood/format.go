package robinhood

import (
	"time"

	"github.com/shopspring/decimal"

	"hoodlink/internal/models"
)

// formatPrice renders a price at the asset class's precision, zero-padded
// the way the venue expects ("90.00", not "90").
func formatPrice(v float64, asset models.AssetClass) string {
	return decimal.NewFromFloat(v).Round(asset.PricePrecision()).StringFixed(asset.PricePrecision())
}

// formatQuantity renders a quantity: whole shares for equities, fractional
// units for crypto with trailing zeros trimmed.
func formatQuantity(q float64, asset models.AssetClass) string {
	d := decimal.NewFromFloat(q)
	if asset == models.AssetEquity {
		return d.Round(0).String()
	}
	return d.Round(8).String()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

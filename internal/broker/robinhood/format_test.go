package robinhood

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hoodlink/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		asset models.AssetClass
		want  string
	}{
		{name: "equity pads to cents", v: 90, asset: models.AssetEquity, want: "90.00"},
		{name: "equity rounds to cents", v: 32.333333, asset: models.AssetEquity, want: "32.33"},
		{name: "crypto keeps six places", v: 32.333333, asset: models.AssetCrypto, want: "32.333333"},
		{name: "crypto pads to six places", v: 6457.5, asset: models.AssetCrypto, want: "6457.500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPrice(tt.v, tt.asset))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "10", formatQuantity(10, models.AssetEquity))
	assert.Equal(t, "0.0015", formatQuantity(0.0015, models.AssetCrypto))
	assert.Equal(t, "1", formatQuantity(1.0, models.AssetCrypto))
}

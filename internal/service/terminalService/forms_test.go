package terminalService

import (
	"testing"

	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrder(t *testing.T) {
	tests := []struct {
		name    string
		draft   model.Draft
		price   string
		wantErr bool
	}{
		{"market order", model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "market", Quantity: "1"}, "", false},
		{"limit order", model.Draft{Symbol: "ETHUSDT", Side: "sell", Type: "limit", Quantity: "2,5"}, "3100.5", false},
		{"missing symbol", model.Draft{Side: "buy", Type: "market", Quantity: "1"}, "", true},
		{"unknown side", model.Draft{Symbol: "BTCUSDT", Side: "hold", Type: "market", Quantity: "1"}, "", true},
		{"unknown type", model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "stop", Quantity: "1"}, "", true},
		{"zero quantity", model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "market", Quantity: "0"}, "", true},
		{"text quantity", model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "market", Quantity: "lots"}, "", true},
		{"limit without price", model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "limit", Quantity: "1"}, "", true},
		{"negative price", model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "limit", Quantity: "1"}, "-5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildOrder(tt.draft, tt.price)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildOrder_MarketIgnoresPrice(t *testing.T) {
	order, err := BuildOrder(model.Draft{Symbol: "solusdt", Side: "Sell", Type: "MARKET", Quantity: "245"}, "12")

	require.NoError(t, err)
	assert.Equal(t, "SOLUSDT", order.Symbol)
	assert.Equal(t, "sell", order.Side)
	assert.Equal(t, "market", order.Type)
	assert.Nil(t, order.Price)
}

func TestParseTradeArgs(t *testing.T) {
	order, err := ParseTradeArgs([]string{"BTCUSDT", "buy", "limit", "0.1", "65000"})
	require.NoError(t, err)
	require.NotNil(t, order.Price)
	assert.Equal(t, "65000", order.Price.String())

	_, err = ParseTradeArgs([]string{"BTCUSDT", "buy"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = ParseTradeArgs(nil)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestValidateEmail(t *testing.T) {
	email, err := ValidateEmail("  op@desk.io ")
	require.NoError(t, err)
	assert.Equal(t, "op@desk.io", email)

	_, err = ValidateEmail("not an email")
	assert.ErrorIs(t, err, service.ErrValidation)
}

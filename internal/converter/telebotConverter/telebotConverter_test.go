package telebotConverter

import (
	"testing"

	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/tg/tgCallback"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func buttons(markup *tele.ReplyMarkup) []tele.InlineButton {
	var res []tele.InlineButton
	for _, row := range markup.InlineKeyboard {
		res = append(res, row...)
	}
	return res
}

func TestDashboard_ThemeChangesPresentationOnly(t *testing.T) {
	d := model.Dashboard{
		Portfolio: terminalModel.Portfolio{
			Positions: []terminalModel.Position{{Symbol: "BTCUSDT", Quantity: decimal.NewFromInt(1), MarketValue: decimal.NewFromInt(100), PnlPercent: decimal.RequireFromString("5.8")}},
			Summary:   terminalModel.PortfolioSummary{TotalValue: decimal.NewFromInt(100), UnrealizedPnl: decimal.NewFromInt(5), PositionCount: 1},
		},
		Allocation: []decimal.Decimal{decimal.NewFromInt(100)},
	}

	dark, _ := Dashboard(d, model.ThemeDark)
	light, _ := Dashboard(d, model.ThemeLight)

	assert.NotEqual(t, dark, light)
	for _, text := range []string{dark, light} {
		assert.Contains(t, text, "$100.00")
		assert.Contains(t, text, "+5.80%")
		assert.Contains(t, text, "share: 100%")
	}
	assert.Contains(t, dark, "▲ BTCUSDT")
	assert.Contains(t, light, "🟢 BTCUSDT")
	assert.NotContains(t, dark, "demo")
}

func TestDashboard_FallbackMarked(t *testing.T) {
	text, _ := Dashboard(model.Dashboard{Fallback: true}, model.ThemeDark)
	assert.Contains(t, text, "(demo data)")
}

func TestTrades_Buttons(t *testing.T) {
	page := terminalModel.TradesPage{
		Trades: []terminalModel.Trade{
			{ID: 1, Symbol: "BTCUSDT", Side: "buy", Type: "limit", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50000), Status: terminalModel.StatusPending},
			{ID: 2, Symbol: "ETHUSDT", Side: "sell", Type: "market", Quantity: decimal.NewFromInt(2), Status: terminalModel.StatusFilled},
		},
		Total:       25,
		Pages:       3,
		CurrentPage: 2,
	}

	text, markup := Trades(page, model.ThemeDark)

	assert.Contains(t, text, "#1 BUY BTCUSDT limit 1 @ $50000.00 [pending]")
	assert.Contains(t, text, "#2 SELL ETHUSDT market 2 @ market [filled]")
	assert.Contains(t, text, "page 2/3, total 25")

	require.NotNil(t, markup)
	btns := buttons(markup)
	require.Len(t, btns, 3)
	assert.Equal(t, tgCallback.CancelTrade, btns[0].Unique)
	assert.Equal(t, "1", btns[0].Data)
	assert.Equal(t, tgCallback.TradesPage, btns[1].Unique)
	assert.Equal(t, "1", btns[1].Data)
	assert.Equal(t, "3", btns[2].Data)
}

func TestTrades_Empty(t *testing.T) {
	text, markup := Trades(terminalModel.TradesPage{}, model.ThemeLight)

	assert.Contains(t, text, "No trades yet")
	assert.Nil(t, markup)
}

func TestWorkflows(t *testing.T) {
	text, markup := Workflows([]terminalModel.Workflow{
		{ID: 4, Name: "dca", Description: "buy the dip", IsActive: true},
		{ID: 5, Name: "hedge"},
	}, model.ThemeDark)

	assert.Contains(t, text, "#4 dca (● active)")
	assert.Contains(t, text, "buy the dip")
	assert.Contains(t, text, "#5 hedge (○ paused)")
	assert.Contains(t, text, WorkflowFallbackDescription)

	btns := buttons(markup)
	require.Len(t, btns, 4)
	assert.Equal(t, tgCallback.ToggleWorkflow, btns[0].Unique)
	assert.Equal(t, "4|true", btns[0].Data)
	assert.Equal(t, tgCallback.ExecuteWorkflow, btns[1].Unique)
	assert.Equal(t, "5|false", btns[2].Data)
}

func TestSettings(t *testing.T) {
	text, markup := Settings(model.Settings{Theme: model.ThemeLight, DigestEnabled: true, TradesPerPage: 10})

	assert.Contains(t, text, "theme: light")
	assert.Contains(t, text, "daily digest: on")
	btns := buttons(markup)
	require.Len(t, btns, 2)
	assert.Equal(t, "🎨 Switch to dark", btns[0].Text)
}

func TestPaletteOf_UnknownThemeIsDark(t *testing.T) {
	assert.Equal(t, palettes[model.ThemeDark], PaletteOf("neon"))
}

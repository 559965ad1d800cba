package terminalApi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Body        string
}

func recordingClient(t *testing.T, response string) (*SessionClient, *[]recordedRequest) {
	t.Helper()
	requests := &[]recordedRequest{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*requests = append(*requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	})
	return client.WithSession(&fakeSession{chatID: 1, token: "t"}), requests
}

func TestServices_PathTable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(c *SessionClient) error
		method string
		path   string
	}{
		{"login", func(c *SessionClient) error {
			_, err := c.Auth.Login(ctx, terminalModel.Credentials{Email: "a@b.c", Password: "secret"})
			return err
		}, http.MethodPost, "/auth/login"},
		{"register", func(c *SessionClient) error {
			_, err := c.Auth.Register(ctx, terminalModel.RegisterData{Username: "op", Email: "a@b.c", Password: "secret"})
			return err
		}, http.MethodPost, "/auth/register"},
		{"me", func(c *SessionClient) error { _, err := c.Auth.GetMe(ctx); return err }, http.MethodGet, "/auth/me"},
		{"logout", func(c *SessionClient) error { _, err := c.Auth.Logout(ctx); return err }, http.MethodPost, "/auth/logout"},
		{"trades", func(c *SessionClient) error {
			_, err := c.Trades.GetTrades(ctx, terminalModel.TradeQuery{})
			return err
		}, http.MethodGet, "/trades/"},
		{"create trade", func(c *SessionClient) error {
			_, err := c.Trades.CreateTrade(ctx, terminalModel.TradeOrder{Symbol: "BTCUSDT", Side: "buy", Type: "market", Quantity: decimal.NewFromInt(1)})
			return err
		}, http.MethodPost, "/trades/"},
		{"cancel trade", func(c *SessionClient) error { _, err := c.Trades.CancelTrade(ctx, 15); return err }, http.MethodPost, "/trades/15/cancel"},
		{"portfolio", func(c *SessionClient) error { _, err := c.Portfolio.GetPortfolio(ctx); return err }, http.MethodGet, "/portfolio/"},
		{"performance", func(c *SessionClient) error { _, err := c.Portfolio.GetPerformance(ctx); return err }, http.MethodGet, "/portfolio/performance"},
		{"workflows", func(c *SessionClient) error { _, err := c.Workflows.GetWorkflows(ctx); return err }, http.MethodGet, "/workflows/"},
		{"create workflow", func(c *SessionClient) error {
			_, err := c.Workflows.CreateWorkflow(ctx, terminalModel.WorkflowDraft{Name: "dca"})
			return err
		}, http.MethodPost, "/workflows/"},
		{"execute workflow", func(c *SessionClient) error { _, err := c.Workflows.ExecuteWorkflow(ctx, 4); return err }, http.MethodPost, "/workflows/4/execute"},
		{"toggle workflow", func(c *SessionClient) error { _, err := c.Workflows.ToggleWorkflow(ctx, 4); return err }, http.MethodPost, "/workflows/4/activate"},
		{"deactivate workflow", func(c *SessionClient) error { _, err := c.Workflows.DeactivateWorkflow(ctx, 4); return err }, http.MethodPost, "/workflows/4/deactivate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, requests := recordingClient(t, `{}`)

			require.NoError(t, tt.call(client))
			require.Len(t, *requests, 1)
			assert.Equal(t, tt.method, (*requests)[0].Method)
			assert.Equal(t, tt.path, (*requests)[0].Path)
		})
	}
}

func TestLogin_PassesCredentialsThrough(t *testing.T) {
	client, requests := recordingClient(t, `{"message":"Login successful","access_token":"jwt-1","user":{"id":5,"username":"op"}}`)

	resp, err := client.Auth.Login(context.Background(), terminalModel.Credentials{Email: "a@b.c", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "jwt-1", resp.AccessToken)
	assert.Equal(t, int64(5), resp.User.ID)
	assert.Equal(t, "application/json", (*requests)[0].ContentType)
	assert.JSONEq(t, `{"email":"a@b.c","password":"secret"}`, (*requests)[0].Body)
}

func TestGetTrades_QueryParams(t *testing.T) {
	t.Run("empty query sends nothing", func(t *testing.T) {
		client, requests := recordingClient(t, `{"trades":[]}`)

		_, err := client.Trades.GetTrades(context.Background(), terminalModel.TradeQuery{})

		require.NoError(t, err)
		assert.Empty(t, (*requests)[0].RawQuery)
	})

	t.Run("filled fields are forwarded", func(t *testing.T) {
		client, requests := recordingClient(t, `{"trades":[]}`)

		_, err := client.Trades.GetTrades(context.Background(), terminalModel.TradeQuery{Page: 2, PerPage: 10, Symbol: "ETHUSDT"})

		require.NoError(t, err)
		assert.Equal(t, "page=2&per_page=10&symbol=ETHUSDT", (*requests)[0].RawQuery)
	})
}

func TestCreateTrade_MarketOrderOmitsPrice(t *testing.T) {
	client, requests := recordingClient(t, `{"message":"ok","trade":{"id":1,"symbol":"BTCUSDT","status":"pending"}}`)

	order := terminalModel.TradeOrder{Symbol: "BTCUSDT", Side: "buy", Type: "market", Quantity: decimal.RequireFromString("0.5")}
	resp, err := client.Trades.CreateTrade(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Trade.Status)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*requests)[0].Body), &body))
	assert.NotContains(t, body, "price")
	assert.Equal(t, "BTCUSDT", body["symbol"])
}

func TestGetPortfolio_DecodesVerbatim(t *testing.T) {
	client, _ := recordingClient(t, `{
		"positions":[{"id":1,"symbol":"BTCUSDT","quantity":1.5,"market_value":60000.25,"pnl_percent":-2.3}],
		"summary":{"total_value":60000.25,"unrealized_pnl":"150.10","position_count":1}
	}`)

	portfolio, err := client.Portfolio.GetPortfolio(context.Background())

	require.NoError(t, err)
	require.Len(t, portfolio.Positions, 1)
	assert.Equal(t, "BTCUSDT", portfolio.Positions[0].Symbol)
	assert.True(t, portfolio.Positions[0].MarketValue.Equal(decimal.RequireFromString("60000.25")))
	assert.True(t, portfolio.Positions[0].PnlPercent.Equal(decimal.RequireFromString("-2.3")))
	assert.True(t, portfolio.Summary.UnrealizedPnl.Equal(decimal.RequireFromString("150.10")))
	assert.Equal(t, 1, portfolio.Summary.PositionCount)
}

package terminalModel

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	SideBuy  = "buy"
	SideSell = "sell"

	TypeMarket = "market"
	TypeLimit  = "limit"

	StatusPending         = "pending"
	StatusPartiallyFilled = "partially_filled"
	StatusFilled          = "filled"
	StatusCanceled        = "canceled"
)

type Trade struct {
	ID            int64           `json:"id"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	TradeType     string          `json:"trade_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	ExecutedPrice decimal.Decimal `json:"executed_price"`
	Status        string          `json:"status"`
	Timestamp     string          `json:"timestamp"`
}

// Kind is the order type whichever field the backend filled.
func (t Trade) Kind() string {
	if t.TradeType != "" {
		return t.TradeType
	}
	return t.Type
}

// DisplayPrice prefers the execution price over the requested one.
func (t Trade) DisplayPrice() decimal.Decimal {
	if !t.ExecutedPrice.IsZero() {
		return t.ExecutedPrice
	}
	return t.Price
}

func (t Trade) Cancelable() bool {
	return t.Status == StatusPending || t.Status == StatusPartiallyFilled
}

type TradesPage struct {
	Trades      []Trade `json:"trades"`
	Total       int     `json:"total"`
	Pages       int     `json:"pages"`
	CurrentPage int     `json:"current_page"`
}

type TradeOrder struct {
	Symbol   string           `json:"symbol"`
	Side     string           `json:"side"`
	Type     string           `json:"type"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type TradeResponse struct {
	Message string `json:"message"`
	Trade   Trade  `json:"trade"`
}

type TradeQuery struct {
	Page    int
	PerPage int
	Symbol  string
	Status  string
}

// Params drops empty fields so an empty query sends no parameters at all.
func (q TradeQuery) Params() map[string]string {
	params := make(map[string]string, 4)
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PerPage > 0 {
		params["per_page"] = strconv.Itoa(q.PerPage)
	}
	if q.Symbol != "" {
		params["symbol"] = q.Symbol
	}
	if q.Status != "" {
		params["status"] = q.Status
	}
	return params
}

type Position struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketValue  decimal.Decimal `json:"market_value"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	Pnl          decimal.Decimal `json:"pnl"`
	PnlPercent   decimal.Decimal `json:"pnl_percent"`
	UpdatedAt    string          `json:"updated_at"`
}

type PortfolioSummary struct {
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalPnl        decimal.Decimal `json:"total_pnl"`
	TotalPnlPercent decimal.Decimal `json:"total_pnl_percent"`
	UnrealizedPnl   decimal.Decimal `json:"unrealized_pnl"`
	PositionCount   int             `json:"position_count"`
}

type Portfolio struct {
	Positions []Position       `json:"positions"`
	Summary   PortfolioSummary `json:"summary"`
}

type Performance struct {
	DailyReturn   decimal.Decimal `json:"daily_return"`
	WeeklyReturn  decimal.Decimal `json:"weekly_return"`
	MonthlyReturn decimal.Decimal `json:"monthly_return"`
	YtdReturn     decimal.Decimal `json:"ytd_return"`
	TotalReturn   decimal.Decimal `json:"total_return"`
}

type Workflow struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsActive    bool            `json:"is_active"`
	Nodes       json.RawMessage `json:"nodes,omitempty"`
	Connections json.RawMessage `json:"connections,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type WorkflowsPage struct {
	Workflows   []Workflow `json:"workflows"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}

type WorkflowDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Nodes       []any  `json:"nodes"`
	Connections []any  `json:"connections"`
}

type WorkflowResponse struct {
	Message  string   `json:"message"`
	Workflow Workflow `json:"workflow"`
}

type WorkflowResult struct {
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

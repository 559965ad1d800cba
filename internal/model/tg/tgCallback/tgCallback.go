package tgCallback

// Callback buttons uniques, payload goes after "|"
const (
	CancelTrade     string = "cancel_trade"
	TradesPage      string = "trades_page"
	ToggleWorkflow  string = "toggle_workflow"
	ExecuteWorkflow string = "execute_workflow"
	ToggleTheme     string = "toggle_theme"
	ToggleDigest    string = "toggle_digest"
	TradeSide       string = "trade_side"
	TradeType       string = "trade_type"
	Dashboard       string = "dashboard"
)

package telebotConverter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/tg/tgCallback"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const WorkflowFallbackDescription = "INSTITUTIONAL_STRATEGY: Monitoring L1 liquidity anomalies and executing autonomous delta-neutral hedging protocols."

// Palette is the set of glyphs a theme renders with.
type Palette struct {
	Up      string
	Down    string
	Flat    string
	Active  string
	Paused  string
	Section string
	Bullet  string
}

var palettes = map[model.Theme]Palette{
	model.ThemeDark: {
		Up:      "▲",
		Down:    "▼",
		Flat:    "■",
		Active:  "●",
		Paused:  "○",
		Section: "━━━",
		Bullet:  "▸",
	},
	model.ThemeLight: {
		Up:      "🟢",
		Down:    "🔴",
		Flat:    "⚪",
		Active:  "✅",
		Paused:  "⏸",
		Section: "───",
		Bullet:  "•",
	},
}

func PaletteOf(theme model.Theme) Palette {
	p, ok := palettes[theme]
	if !ok {
		return palettes[model.ThemeDark]
	}
	return p
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func signedPercent(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func (p Palette) trend(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return p.Up
	case d.IsNegative():
		return p.Down
	default:
		return p.Flat
	}
}

func (p Palette) header(title string) string {
	return fmt.Sprintf("%s %s %s\n", p.Section, title, p.Section)
}

func LoginPrompt() string {
	return "🔐 Session required. Enter your email to sign in, or /register to create an account."
}

func SessionExpired() string {
	return "🔐 Sign in required. Enter your email:"
}

func Help(loggedIn bool) string {
	var sb strings.Builder
	sb.WriteString("Trading terminal\n\n")
	if !loggedIn {
		sb.WriteString("/login - sign in\n")
		sb.WriteString("/register - create an account\n")
		sb.WriteString("/help - this message\n")
		return sb.String()
	}
	sb.WriteString("/dashboard - portfolio overview\n")
	sb.WriteString("/trading [page] - trade history\n")
	sb.WriteString("/new_trade - place an order step by step\n")
	sb.WriteString("/trade SYMBOL SIDE TYPE QTY [PRICE] - place an order at once\n")
	sb.WriteString("/workflows - automation workflows\n")
	sb.WriteString("/new_workflow - create a workflow\n")
	sb.WriteString("/report - export trade history\n")
	sb.WriteString("/settings - theme and digest\n")
	sb.WriteString("/me - profile\n")
	sb.WriteString("/logout - sign out\n")
	return sb.String()
}

func Profile(user terminalModel.User, theme model.Theme) string {
	p := PaletteOf(theme)
	var sb strings.Builder
	sb.WriteString(p.header("PROFILE"))
	sb.WriteString(fmt.Sprintf("%s username: %s\n", p.Bullet, user.Username))
	sb.WriteString(fmt.Sprintf("%s email: %s\n", p.Bullet, user.Email))
	if user.CreatedAt != "" {
		sb.WriteString(fmt.Sprintf("%s member since: %s\n", p.Bullet, user.CreatedAt))
	}
	return sb.String()
}

func Dashboard(d model.Dashboard, theme model.Theme) (text string, markup *tele.ReplyMarkup) {
	p := PaletteOf(theme)
	markup = &tele.ReplyMarkup{}
	summary := d.Portfolio.Summary

	var sb strings.Builder
	sb.WriteString(p.header("DASHBOARD"))
	if d.Fallback {
		sb.WriteString("(demo data)\n")
	}
	sb.WriteString(fmt.Sprintf("💼 Total value: %s\n", money(summary.TotalValue)))
	sb.WriteString(fmt.Sprintf("%s Unrealized P&L: %s\n", p.trend(summary.UnrealizedPnl), money(summary.UnrealizedPnl)))
	sb.WriteString(fmt.Sprintf("📦 Positions: %d\n", summary.PositionCount))

	if d.Performance != nil {
		perf := d.Performance
		sb.WriteString("\n")
		sb.WriteString(p.header("PERFORMANCE"))
		sb.WriteString(fmt.Sprintf("%s day %s  week %s  month %s\n", p.Bullet, signedPercent(perf.DailyReturn), signedPercent(perf.WeeklyReturn), signedPercent(perf.MonthlyReturn)))
		sb.WriteString(fmt.Sprintf("%s ytd %s  total %s\n", p.Bullet, signedPercent(perf.YtdReturn), signedPercent(perf.TotalReturn)))
	}

	sb.WriteString("\n")
	sb.WriteString(p.header("POSITIONS"))
	for i, position := range d.Portfolio.Positions {
		sb.WriteString(fmt.Sprintf("%s %s\n", p.trend(position.PnlPercent), position.Symbol))
		sb.WriteString(fmt.Sprintf("   %s qty: %s\n", p.Bullet, position.Quantity.String()))
		sb.WriteString(fmt.Sprintf("   %s value: %s\n", p.Bullet, money(position.MarketValue)))
		sb.WriteString(fmt.Sprintf("   %s P&L: %s\n", p.Bullet, signedPercent(position.PnlPercent)))
		if i < len(d.Allocation) {
			sb.WriteString(fmt.Sprintf("   %s share: %s%%\n", p.Bullet, d.Allocation[i].String()))
		}
	}

	markup.Inline(
		markup.Row(
			markup.Data("🔄 Refresh", tgCallback.Dashboard),
			markup.Data("📜 Trades", tgCallback.TradesPage, "1"),
		),
	)

	return sb.String(), markup
}

func tradeLine(p Palette, trade terminalModel.Trade) string {
	side := p.Up
	if trade.Side == terminalModel.SideSell {
		side = p.Down
	}
	price := "market"
	if dp := trade.DisplayPrice(); !dp.IsZero() {
		price = money(dp)
	}
	return fmt.Sprintf(
		"%s #%d %s %s %s %s @ %s [%s]\n",
		side, trade.ID, strings.ToUpper(trade.Side), trade.Symbol, trade.Kind(), trade.Quantity.String(), price, trade.Status,
	)
}

// Trades renders one page of history with cancel buttons for open orders and page navigation.
func Trades(page terminalModel.TradesPage, theme model.Theme) (text string, markup *tele.ReplyMarkup) {
	p := PaletteOf(theme)
	markup = &tele.ReplyMarkup{}

	current := page.CurrentPage
	if current < 1 {
		current = 1
	}

	var sb strings.Builder
	sb.WriteString(p.header("TRADES"))

	if len(page.Trades) == 0 {
		sb.WriteString("No trades yet. Use /new_trade to place one.\n")
		return sb.String(), nil
	}

	cancelRows := make([]tele.Row, 0)
	for _, trade := range page.Trades {
		sb.WriteString(tradeLine(p, trade))
		if trade.Cancelable() {
			id := strconv.FormatInt(trade.ID, 10)
			cancelRows = append(cancelRows, markup.Row(markup.Data("✖ Cancel #"+id, tgCallback.CancelTrade, id)))
		}
	}

	if page.Pages > 0 {
		sb.WriteString(fmt.Sprintf("\npage %d/%d, total %d\n", current, page.Pages, page.Total))
	}

	paginationBtns := make([]tele.Btn, 0, 2)
	if current > 1 {
		paginationBtns = append(paginationBtns, markup.Data("◀ prev", tgCallback.TradesPage, strconv.Itoa(current-1)))
	}
	if current < page.Pages {
		paginationBtns = append(paginationBtns, markup.Data("next ▶", tgCallback.TradesPage, strconv.Itoa(current+1)))
	}

	rows := cancelRows
	if len(paginationBtns) > 0 {
		rows = append(rows, markup.Row(paginationBtns...))
	}
	if len(rows) == 0 {
		return sb.String(), nil
	}
	markup.Inline(rows...)

	return sb.String(), markup
}

func TradePlaced(trade terminalModel.Trade, theme model.Theme) string {
	return "Order accepted\n" + tradeLine(PaletteOf(theme), trade)
}

func TradeCanceled(trade terminalModel.Trade, theme model.Theme) string {
	return "Order canceled\n" + tradeLine(PaletteOf(theme), trade)
}

func SideMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("BUY", tgCallback.TradeSide, terminalModel.SideBuy),
		markup.Data("SELL", tgCallback.TradeSide, terminalModel.SideSell),
	))
	return markup
}

func TypeMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("MARKET", tgCallback.TradeType, terminalModel.TypeMarket),
		markup.Data("LIMIT", tgCallback.TradeType, terminalModel.TypeLimit),
	))
	return markup
}

// Workflows lists workflows with toggle and execute buttons. The toggle payload carries the state it was rendered with.
func Workflows(workflows []terminalModel.Workflow, theme model.Theme) (text string, markup *tele.ReplyMarkup) {
	p := PaletteOf(theme)
	markup = &tele.ReplyMarkup{}

	var sb strings.Builder
	sb.WriteString(p.header("WORKFLOWS"))

	if len(workflows) == 0 {
		sb.WriteString("No workflows yet. Use /new_workflow to create one.\n")
		return sb.String(), nil
	}

	rows := make([]tele.Row, 0, len(workflows))
	for _, wf := range workflows {
		id := strconv.FormatInt(wf.ID, 10)
		status, toggleText := p.Paused+" paused", "▶ Activate"
		if wf.IsActive {
			status, toggleText = p.Active+" active", "⏸ Deactivate"
		}

		description := wf.Description
		if strings.TrimSpace(description) == "" {
			description = WorkflowFallbackDescription
		}

		sb.WriteString(fmt.Sprintf("#%s %s (%s)\n", id, wf.Name, status))
		sb.WriteString(fmt.Sprintf("   %s %s\n", p.Bullet, description))

		rows = append(rows, markup.Row(
			markup.Data(toggleText+" #"+id, tgCallback.ToggleWorkflow, id, strconv.FormatBool(wf.IsActive)),
			markup.Data("⚡ Run #"+id, tgCallback.ExecuteWorkflow, id),
		))
	}
	markup.Inline(rows...)

	return sb.String(), markup
}

func WorkflowCreated(wf terminalModel.Workflow) string {
	return fmt.Sprintf("Workflow #%d %q created", wf.ID, wf.Name)
}

func WorkflowToggled(wf terminalModel.Workflow, theme model.Theme) string {
	p := PaletteOf(theme)
	if wf.IsActive {
		return fmt.Sprintf("%s Workflow #%d activated", p.Active, wf.ID)
	}
	return fmt.Sprintf("%s Workflow #%d deactivated", p.Paused, wf.ID)
}

func WorkflowExecuted(workflowID int64, result terminalModel.WorkflowResult) string {
	if result.Message != "" {
		return fmt.Sprintf("⚡ Workflow #%d: %s", workflowID, result.Message)
	}
	return fmt.Sprintf("⚡ Workflow #%d executed", workflowID)
}

func Settings(settings model.Settings) (text string, markup *tele.ReplyMarkup) {
	p := PaletteOf(settings.Theme)
	markup = &tele.ReplyMarkup{}

	digest := "off"
	if settings.DigestEnabled {
		digest = "on"
	}

	var sb strings.Builder
	sb.WriteString(p.header("SETTINGS"))
	sb.WriteString(fmt.Sprintf("%s theme: %s\n", p.Bullet, settings.Theme))
	sb.WriteString(fmt.Sprintf("%s daily digest: %s\n", p.Bullet, digest))
	sb.WriteString(fmt.Sprintf("%s trades per page: %d\n", p.Bullet, settings.TradesPerPage))

	markup.Inline(
		markup.Row(markup.Data("🎨 Switch to "+string(settings.Theme.Toggle()), tgCallback.ToggleTheme)),
		markup.Row(markup.Data("📬 Toggle digest", tgCallback.ToggleDigest)),
	)

	return sb.String(), markup
}

func Digest(performance terminalModel.Performance, theme model.Theme) string {
	p := PaletteOf(theme)
	var sb strings.Builder
	sb.WriteString(p.header("DAILY DIGEST"))
	sb.WriteString(fmt.Sprintf("%s day %s\n", p.trend(performance.DailyReturn), signedPercent(performance.DailyReturn)))
	sb.WriteString(fmt.Sprintf("%s week %s\n", p.trend(performance.WeeklyReturn), signedPercent(performance.WeeklyReturn)))
	sb.WriteString(fmt.Sprintf("%s month %s\n", p.trend(performance.MonthlyReturn), signedPercent(performance.MonthlyReturn)))
	sb.WriteString(fmt.Sprintf("%s total %s\n", p.trend(performance.TotalReturn), signedPercent(performance.TotalReturn)))
	return sb.String()
}

func ReportLink(link string) string {
	return "📎 The report is too large for telegram, download it here:\n" + link
}

package telegram

import (
	"bytes"
	"strconv"

	"github.com/KotFed0t/trading_terminal_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/service/terminalService"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Dashboard(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	dashboard, err := ctrl.terminalService.Dashboard(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Dashboard", err)
	}
	text, markup := telebotConverter.Dashboard(dashboard, ctrl.theme(ctx, c.Chat().ID))
	return send(c, text, markup)
}

// RefreshDashboard is the dashboard button: same page, edited in place.
func (ctrl *Controller) RefreshDashboard(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	dashboard, err := ctrl.terminalService.Dashboard(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.RefreshDashboard", err)
	}

	text, markup := telebotConverter.Dashboard(dashboard, ctrl.theme(ctx, c.Chat().ID))
	return edit(c, text, markup)
}

// Trading shows /trading [page].
func (ctrl *Controller) Trading(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	page := 1
	if args := c.Args(); len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			return c.Send("⚠ page must be a positive number")
		}
		page = p
	}

	trades, err := ctrl.terminalService.Trades(ctx, c.Chat().ID, page)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Trading", err)
	}

	text, markup := telebotConverter.Trades(trades, ctrl.theme(ctx, c.Chat().ID))
	return send(c, text, markup)
}

func (ctrl *Controller) TradesPage(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	page, err := strconv.Atoi(c.Data())
	if err != nil || page < 1 {
		page = 1
	}

	trades, err := ctrl.terminalService.Trades(ctx, c.Chat().ID, page)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.TradesPage", err)
	}

	text, markup := telebotConverter.Trades(trades, ctrl.theme(ctx, c.Chat().ID))
	return edit(c, text, markup)
}

func (ctrl *Controller) CancelTrade(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	tradeID, err := strconv.ParseInt(c.Data(), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "unknown trade"})
	}

	trade, err := ctrl.terminalService.CancelTrade(ctx, c.Chat().ID, tradeID)
	if err != nil {
		_ = c.Respond()
		return ctrl.handleErr(ctx, c, "Controller.CancelTrade", err)
	}

	_ = c.Respond(&tele.CallbackResponse{Text: "canceled"})
	return c.Send(telebotConverter.TradeCanceled(trade, ctrl.theme(ctx, c.Chat().ID)))
}

// Trade places an order in one command: /trade SYMBOL SIDE TYPE QTY [PRICE].
func (ctrl *Controller) Trade(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	op := "Controller.Trade"

	order, err := terminalService.ParseTradeArgs(c.Args())
	if err != nil {
		_ = ctrl.handleErr(ctx, c, op, err)
		return c.Send("usage: /trade SYMBOL buy|sell market|limit QTY [PRICE]")
	}

	trade, err := ctrl.terminalService.CreateTrade(ctx, c.Chat().ID, order)
	if err != nil {
		return ctrl.handleErr(ctx, c, op, err)
	}

	return c.Send(telebotConverter.TradePlaced(trade, ctrl.theme(ctx, c.Chat().ID)))
}

// NewTrade starts the order form: symbol, side, type, quantity and, for limit orders, price.
func (ctrl *Controller) NewTrade(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.Session{State: model.ExpectingTradeSymbol}); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Enter the symbol, e.g. BTCUSDT:")
}

func (ctrl *Controller) ProcessTradeSymbol(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	symbol, err := terminalService.ValidateSymbol(c.Text())
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessTradeSymbol", err)
	}

	chatSession.State = model.ExpectingTradeSide
	chatSession.Draft.Symbol = symbol
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send(symbol+": buy or sell?", telebotConverter.SideMarkup())
}

// ProcessTradeSide accepts both the button and a typed answer.
func (ctrl *Controller) ProcessTradeSide(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if c.Callback() != nil {
		_ = c.Respond()
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if chatSession.State != model.ExpectingTradeSide {
		return c.Send(unknownStepMsg)
	}

	side, err := terminalService.ValidateSide(answer(c))
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessTradeSide", err)
	}

	chatSession.State = model.ExpectingTradeType
	chatSession.Draft.Side = side
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Order type?", telebotConverter.TypeMarkup())
}

func (ctrl *Controller) ProcessTradeType(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if c.Callback() != nil {
		_ = c.Respond()
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if chatSession.State != model.ExpectingTradeType {
		return c.Send(unknownStepMsg)
	}

	orderType, err := terminalService.ValidateOrderType(answer(c))
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessTradeType", err)
	}

	chatSession.State = model.ExpectingTradeQuantity
	chatSession.Draft.Type = orderType
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter the quantity:")
}

func (ctrl *Controller) ProcessTradeQuantity(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	quantity, err := terminalService.ValidateQuantity(c.Text())
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessTradeQuantity", err)
	}
	chatSession.Draft.Quantity = quantity.String()

	if chatSession.Draft.Type == terminalModel.TypeLimit {
		chatSession.State = model.ExpectingTradePrice
		if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
			return c.Send(internalErrMsg)
		}
		return c.Send("Enter the limit price:")
	}

	return ctrl.placeTrade(c, chatSession.Draft, "")
}

func (ctrl *Controller) ProcessTradePrice(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	if _, err = terminalService.ValidatePrice(c.Text()); err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessTradePrice", err)
	}

	return ctrl.placeTrade(c, chatSession.Draft, c.Text())
}

func (ctrl *Controller) placeTrade(c tele.Context, draft model.Draft, price string) error {
	ctx := utils.CreateCtxWithRqID(c)

	// the form is finished whatever the backend answers
	_ = ctrl.setState(ctx, c.Chat().ID, model.Session{})

	trade, err := ctrl.terminalService.PlaceTrade(ctx, c.Chat().ID, draft, price)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.placeTrade", err)
	}

	return c.Send(telebotConverter.TradePlaced(trade, ctrl.theme(ctx, c.Chat().ID)))
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	_ = c.Notify(tele.UploadingDocument)

	report, err := ctrl.terminalService.TradesReport(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Report", err)
	}

	if report.Link != "" {
		return c.Send(telebotConverter.ReportLink(report.Link))
	}

	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(report.Content)),
		FileName: report.FileName,
		Caption:  "Trade history",
	})
}

// answer is the callback payload or the typed text.
func answer(c tele.Context) string {
	if c.Callback() != nil {
		return c.Data()
	}
	return c.Text()
}

package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/trading_terminal_bot/data/session"
	"github.com/KotFed0t/trading_terminal_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/service"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "something went wrong, try again later"
	unknownStepMsg = "send one of the commands first, /help lists them"
)

type TerminalService interface {
	HasSession(ctx context.Context, chatID int64) bool
	Login(ctx context.Context, chatID int64, credentials terminalModel.Credentials) (terminalModel.User, error)
	Register(ctx context.Context, chatID int64, data terminalModel.RegisterData) (terminalModel.User, error)
	Logout(ctx context.Context, chatID int64) error
	Me(ctx context.Context, chatID int64) (terminalModel.User, error)
	Dashboard(ctx context.Context, chatID int64) (model.Dashboard, error)
	Trades(ctx context.Context, chatID int64, page int) (terminalModel.TradesPage, error)
	PlaceTrade(ctx context.Context, chatID int64, draft model.Draft, price string) (terminalModel.Trade, error)
	CreateTrade(ctx context.Context, chatID int64, order terminalModel.TradeOrder) (terminalModel.Trade, error)
	CancelTrade(ctx context.Context, chatID int64, tradeID int64) (terminalModel.Trade, error)
	Workflows(ctx context.Context, chatID int64) ([]terminalModel.Workflow, error)
	CreateWorkflow(ctx context.Context, chatID int64, name, description string) (terminalModel.Workflow, error)
	ExecuteWorkflow(ctx context.Context, chatID int64, workflowID int64) (terminalModel.WorkflowResult, error)
	ToggleWorkflow(ctx context.Context, chatID int64, workflowID int64, active bool) (terminalModel.Workflow, error)
	Settings(ctx context.Context, chatID int64) (model.Settings, error)
	ToggleTheme(ctx context.Context, chatID int64) (model.Settings, error)
	ToggleDigest(ctx context.Context, chatID int64) (model.Settings, error)
	TradesReport(ctx context.Context, chatID int64) (model.Report, error)
}

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
}

type Controller struct {
	terminalService TerminalService
	session         Session
}

func NewController(terminalService TerminalService, session Session) *Controller {
	return &Controller{
		terminalService: terminalService,
		session:         session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if ctrl.terminalService.HasSession(ctx, c.Chat().ID) {
		return c.Send("Welcome back!\n\n" + telebotConverter.Help(true))
	}
	return ctrl.RequireLogin(c)
}

func (ctrl *Controller) Help(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	return c.Send(telebotConverter.Help(ctrl.terminalService.HasSession(ctx, c.Chat().ID)))
}

// Cancel drops the dialog in progress.
func (ctrl *Controller) Cancel(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.Session{}); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Canceled.")
}

// RequireLogin is what a guarded page shows to a chat without a session.
func (ctrl *Controller) RequireLogin(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.EnterLogin(ctx, c.Chat().ID); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.LoginPrompt())
}

// EnterLogin puts the chat on the first step of the login dialog.
func (ctrl *Controller) EnterLogin(ctx context.Context, chatID int64) error {
	return ctrl.setState(ctx, chatID, model.Session{State: model.ExpectingLoginEmail})
}

func (ctrl *Controller) getSession(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, c.Chat().ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.Session{}, nil
		}
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, err
	}
	return chatSession, nil
}

func (ctrl *Controller) setState(ctx context.Context, chatID int64, chatSession model.Session) error {
	err := ctrl.session.SetSession(ctx, chatID, chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
	return err
}

func (ctrl *Controller) theme(ctx context.Context, chatID int64) model.Theme {
	settings, err := ctrl.terminalService.Settings(ctx, chatID)
	if err != nil {
		return model.ThemeDark
	}
	return settings.Theme
}

// handleErr turns a service error into what the user sees. A rejected session shows nothing here:
// the navigator already queued the login screen.
func (ctrl *Controller) handleErr(ctx context.Context, c tele.Context, op string, err error) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	var statusErr *externalApi.StatusError
	switch {
	case errors.Is(err, externalApi.ErrUnauthenticated):
		slog.Info("session rejected by backend", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	case errors.Is(err, service.ErrValidation):
		return c.Send("⚠ " + strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "))
	case errors.Is(err, service.ErrNoTrades):
		return c.Send("There are no trades to export yet.")
	case errors.As(err, &statusErr):
		slog.Warn("terminal api error", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		if statusErr.Message != "" {
			return c.Send("⚠ " + statusErr.Message)
		}
		return c.Send(internalErrMsg)
	default:
		slog.Error("got error", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}
}

// send attaches the markup only when there is one.
func send(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return c.Send(text)
	}
	return c.Send(text, markup)
}

func edit(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return c.Edit(text)
	}
	return c.Edit(text, markup)
}

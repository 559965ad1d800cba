package tgbot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/data/session"
	"github.com/KotFed0t/trading_terminal_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/trading_terminal_bot/internal/transport/telegram"
	customMW "github.com/KotFed0t/trading_terminal_bot/internal/transport/telegram/middleware"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
}

type Settings interface {
	Settings(ctx context.Context, chatID int64) (model.Settings, error)
	HasSession(ctx context.Context, chatID int64) bool
}

type TGBot struct {
	bot      *tele.Bot
	ctrl     *telegram.Controller
	session  Session
	settings Settings
}

func New(cfg *config.Config, ctrl *telegram.Controller, session Session, settings Settings) *TGBot {
	botSettings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
		OnError: func(err error, c tele.Context) {
			slog.Error("telebot handler error", slog.String("err", err.Error()))
		},
	}

	b, err := tele.NewBot(botSettings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, session: session, settings: settings}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	// public pages
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Help)
	b.bot.Handle("/cancel", b.ctrl.Cancel)
	b.bot.Handle("/login", b.ctrl.Login)
	b.bot.Handle("/register", b.ctrl.Register)
	b.bot.Handle(tele.OnText, b.dispatchText)

	// guarded pages
	private := b.bot.Group()
	private.Use(customMW.RequireSession(b.settings, b.ctrl.RequireLogin))

	private.Handle("/logout", b.ctrl.Logout)
	private.Handle("/me", b.ctrl.Me)
	private.Handle("/dashboard", b.ctrl.Dashboard)
	private.Handle("/trading", b.ctrl.Trading)
	private.Handle("/trade", b.ctrl.Trade)
	private.Handle("/new_trade", b.ctrl.NewTrade)
	private.Handle("/workflows", b.ctrl.Workflows)
	private.Handle("/new_workflow", b.ctrl.NewWorkflow)
	private.Handle("/settings", b.ctrl.Settings)
	private.Handle("/report", b.ctrl.Report)

	private.Handle(&tele.Btn{Unique: tgCallback.Dashboard}, b.ctrl.RefreshDashboard)
	private.Handle(&tele.Btn{Unique: tgCallback.TradesPage}, b.ctrl.TradesPage)
	private.Handle(&tele.Btn{Unique: tgCallback.CancelTrade}, b.ctrl.CancelTrade)
	private.Handle(&tele.Btn{Unique: tgCallback.TradeSide}, b.ctrl.ProcessTradeSide)
	private.Handle(&tele.Btn{Unique: tgCallback.TradeType}, b.ctrl.ProcessTradeType)
	private.Handle(&tele.Btn{Unique: tgCallback.ToggleWorkflow}, b.ctrl.ToggleWorkflow)
	private.Handle(&tele.Btn{Unique: tgCallback.ExecuteWorkflow}, b.ctrl.ExecuteWorkflow)
	private.Handle(&tele.Btn{Unique: tgCallback.ToggleTheme}, b.ctrl.ToggleTheme)
	private.Handle(&tele.Btn{Unique: tgCallback.ToggleDigest}, b.ctrl.ToggleDigest)
}

// dispatchText picks the dialog step from the stored chat session. Steps of the trading
// and workflow forms are guarded the same way the commands are.
func (b *TGBot) dispatchText(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := b.session.GetSession(ctx, c.Chat().ID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("something went wrong, try again later")
	}

	c.Set("session", chatSession)

	if !chatSession.State.Public() && !b.settings.HasSession(ctx, c.Chat().ID) {
		return b.ctrl.RequireLogin(c)
	}

	switch chatSession.State {
	case model.ExpectingLoginEmail:
		return b.ctrl.ProcessLoginEmail(c)
	case model.ExpectingLoginPassword:
		return b.ctrl.ProcessLoginPassword(c)
	case model.ExpectingRegisterUsername:
		return b.ctrl.ProcessRegisterUsername(c)
	case model.ExpectingRegisterEmail:
		return b.ctrl.ProcessRegisterEmail(c)
	case model.ExpectingRegisterPassword:
		return b.ctrl.ProcessRegisterPassword(c)
	case model.ExpectingTradeSymbol:
		return b.ctrl.ProcessTradeSymbol(c)
	case model.ExpectingTradeSide:
		return b.ctrl.ProcessTradeSide(c)
	case model.ExpectingTradeType:
		return b.ctrl.ProcessTradeType(c)
	case model.ExpectingTradeQuantity:
		return b.ctrl.ProcessTradeQuantity(c)
	case model.ExpectingTradePrice:
		return b.ctrl.ProcessTradePrice(c)
	case model.ExpectingWorkflowName:
		return b.ctrl.ProcessWorkflowName(c)
	case model.ExpectingWorkflowDescription:
		return b.ctrl.ProcessWorkflowDescription(c)
	default:
		slog.Debug("text outside of a dialog", slog.String("rqID", rqID), slog.Any("state", chatSession.State))
		return c.Send("send one of the commands first, /help lists them")
	}
}

// ShowLogin is the navigator screen for a chat whose session the backend rejected.
func (b *TGBot) ShowLogin(ctx context.Context, chatID int64) error {
	if err := b.ctrl.EnterLogin(ctx, chatID); err != nil {
		return err
	}
	_, err := b.bot.Send(tele.ChatID(chatID), telebotConverter.SessionExpired())
	return err
}

// SendDigest delivers one performance digest, rendered in the chat theme.
func (b *TGBot) SendDigest(ctx context.Context, chatID int64, performance terminalModel.Performance) error {
	theme := model.ThemeDark
	if settings, err := b.settings.Settings(ctx, chatID); err == nil {
		theme = settings.Theme
	}

	_, err := b.bot.Send(tele.ChatID(chatID), telebotConverter.Digest(performance, theme))
	return err
}

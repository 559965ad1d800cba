package telegram

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/trading_terminal_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/service/terminalService"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Login(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if ctrl.terminalService.HasSession(ctx, c.Chat().ID) {
		return c.Send("You are already signed in. /logout first to switch accounts.")
	}
	if err := ctrl.EnterLogin(ctx, c.Chat().ID); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Enter your email:")
}

func (ctrl *Controller) ProcessLoginEmail(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	email, err := terminalService.ValidateEmail(c.Text())
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessLoginEmail", err)
	}

	chatSession.State = model.ExpectingLoginPassword
	chatSession.Draft.Email = email
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter your password:")
}

// ProcessLoginPassword deletes the password message before anything else.
func (ctrl *Controller) ProcessLoginPassword(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Controller.ProcessLoginPassword"

	if err := c.Delete(); err != nil {
		slog.Warn("can't delete password message", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	credentials := terminalModel.Credentials{Email: chatSession.Draft.Email, Password: c.Text()}
	user, err := ctrl.terminalService.Login(ctx, c.Chat().ID, credentials)
	if err != nil {
		if errors.Is(err, externalApi.ErrUnauthenticated) {
			// the navigator resets the dialog to the email step
			return c.Send("Invalid email or password.")
		}
		return ctrl.handleErr(ctx, c, op, err)
	}

	if err = ctrl.setState(ctx, c.Chat().ID, model.Session{}); err != nil {
		return c.Send(internalErrMsg)
	}

	if err = c.Send(fmt.Sprintf("Welcome, %s!\n\n%s", user.Username, telebotConverter.Help(true))); err != nil {
		return err
	}

	return ctrl.Dashboard(c)
}

func (ctrl *Controller) Register(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setState(ctx, c.Chat().ID, model.Session{State: model.ExpectingRegisterUsername}); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Choose a username:")
}

func (ctrl *Controller) ProcessRegisterUsername(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	username, err := terminalService.ValidateUsername(c.Text())
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessRegisterUsername", err)
	}

	chatSession.State = model.ExpectingRegisterEmail
	chatSession.Draft.Username = username
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter your email:")
}

func (ctrl *Controller) ProcessRegisterEmail(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	email, err := terminalService.ValidateEmail(c.Text())
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ProcessRegisterEmail", err)
	}

	chatSession.State = model.ExpectingRegisterPassword
	chatSession.Draft.Email = email
	if err = ctrl.setState(ctx, c.Chat().ID, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Choose a password:")
}

// ProcessRegisterPassword creates the account and continues to the password step of the login.
func (ctrl *Controller) ProcessRegisterPassword(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Controller.ProcessRegisterPassword"

	if err := c.Delete(); err != nil {
		slog.Warn("can't delete password message", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	chatSession, err := ctrl.getSession(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	data := terminalModel.RegisterData{Username: chatSession.Draft.Username, Email: chatSession.Draft.Email, Password: c.Text()}
	if _, err = ctrl.terminalService.Register(ctx, c.Chat().ID, data); err != nil {
		return ctrl.handleErr(ctx, c, op, err)
	}

	next := model.Session{State: model.ExpectingLoginPassword, Draft: model.Draft{Email: data.Email}}
	if err = ctrl.setState(ctx, c.Chat().ID, next); err != nil {
		return c.Send(internalErrMsg)
	}

	return c.Send("Account created. Enter your password again to sign in:")
}

func (ctrl *Controller) Logout(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.terminalService.Logout(ctx, c.Chat().ID); err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Logout", err)
	}
	_ = ctrl.setState(ctx, c.Chat().ID, model.Session{})
	return c.Send("Signed out. /login to sign in again.")
}

func (ctrl *Controller) Me(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	user, err := ctrl.terminalService.Me(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Me", err)
	}
	return c.Send(telebotConverter.Profile(user, ctrl.theme(ctx, c.Chat().ID)))
}

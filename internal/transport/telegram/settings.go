package telegram

import (
	"github.com/KotFed0t/trading_terminal_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Settings(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	settings, err := ctrl.terminalService.Settings(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.Settings", err)
	}

	text, markup := telebotConverter.Settings(settings)
	return send(c, text, markup)
}

func (ctrl *Controller) ToggleTheme(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	settings, err := ctrl.terminalService.ToggleTheme(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ToggleTheme", err)
	}

	text, markup := telebotConverter.Settings(settings)
	return edit(c, text, markup)
}

func (ctrl *Controller) ToggleDigest(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	settings, err := ctrl.terminalService.ToggleDigest(ctx, c.Chat().ID)
	if err != nil {
		return ctrl.handleErr(ctx, c, "Controller.ToggleDigest", err)
	}

	text, markup := telebotConverter.Settings(settings)
	return edit(c, text, markup)
}

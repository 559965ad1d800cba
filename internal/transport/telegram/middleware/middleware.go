package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/trading_terminal_bot/utils"
	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"
)

func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			now := time.Now()

			rqID := uuid.NewString()
			c.Set("rqID", rqID)

			var chatID int64
			if chat := c.Chat(); chat != nil {
				chatID = chat.ID
			}

			slog.Info(
				"start request",
				slog.String("rqID", rqID),
				slog.Int64("chatID", chatID),
			)

			defer func() {
				slog.Info(
					"request finished",
					slog.String("rqID", rqID),
					slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
				)
			}()

			return next(c)
		}
	}
}

type SessionChecker interface {
	HasSession(ctx context.Context, chatID int64) bool
}

// RequireSession is the route guard: without a token the protected handler never runs
// and the chat gets the login screen instead.
func RequireSession(checker SessionChecker, onDenied tele.HandlerFunc) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := utils.CreateCtxWithRqID(c)
			chat := c.Chat()

			if chat == nil || !checker.HasSession(ctx, chat.ID) {
				slog.Info("no session, redirecting to login", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)))
				if c.Callback() != nil {
					_ = c.Respond()
				}
				return onDenied(c)
			}

			return next(c)
		}
	}
}

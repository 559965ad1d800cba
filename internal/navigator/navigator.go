package navigator

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trading_terminal_bot/utils"
)

// Screens moves a chat to a screen. The telegram controller implements it.
type Screens interface {
	ShowLogin(ctx context.Context, chatID int64) error
}

// Navigator decouples the http layer from the chat: the api client only reports that a
// chat lost its session, the navigator decides what the user sees.
type Navigator struct {
	events  chan int64
	screens Screens
}

func New(buffer int) *Navigator {
	if buffer <= 0 {
		buffer = 1
	}
	return &Navigator{events: make(chan int64, buffer)}
}

// SetScreens must be called before Run. The controller depends on the api client which
// depends on the navigator, so the screens are attached after construction.
func (n *Navigator) SetScreens(screens Screens) {
	n.screens = screens
}

// Unauthenticated never blocks the request path. When the buffer is full the signal is dropped:
// the token is already cleared, so the next guarded command shows the login screen anyway.
func (n *Navigator) Unauthenticated(chatID int64) {
	select {
	case n.events <- chatID:
	default:
		slog.Warn("navigator buffer is full, dropping unauthenticated signal", slog.Int64("chatID", chatID))
	}
}

// Run delivers one ShowLogin per signal until ctx is done.
func (n *Navigator) Run(ctx context.Context) {
	slog.Info("navigator started")
	defer slog.Info("navigator stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case chatID := <-n.events:
			n.showLogin(ctx, chatID)
		}
	}
}

func (n *Navigator) showLogin(ctx context.Context, chatID int64) {
	jobCtx := utils.CreateJobCtx(context.WithoutCancel(ctx))
	rqID := utils.GetRequestIDFromCtx(jobCtx)

	if n.screens == nil {
		slog.Error("navigator has no screens attached", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
		return
	}

	if err := n.screens.ShowLogin(jobCtx, chatID); err != nil {
		slog.Error("failed on screens.ShowLogin", slog.String("rqID", rqID), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
		return
	}

	slog.Info("chat navigated to login", slog.String("rqID", rqID), slog.Int64("chatID", chatID))
}

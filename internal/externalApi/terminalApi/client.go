package terminalApi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	"github.com/go-resty/resty/v2"
)

// Session is the token slot of one chat.
type Session interface {
	ChatID() int64
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Notifier receives the "unauthenticated" signal after a 401 cleared the chat token.
type Notifier interface {
	Unauthenticated(chatID int64)
}

type sessionKey struct{}

type Client struct {
	client   *resty.Client
	notifier Notifier
}

func New(cfg *config.Config, notifier Notifier) *Client {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.TerminalApi.Timeout).
		SetBaseURL(cfg.API.TerminalApi.Url).
		SetHeader("Content-Type", "application/json")

	c := &Client{client: client, notifier: notifier}

	client.OnBeforeRequest(c.onRequest)
	client.OnAfterResponse(c.onResponse)

	return c
}

// WithSession binds the client to one chat token slot. The returned client is cheap and
// shares the underlying transport.
func (c *Client) WithSession(session Session) *SessionClient {
	sc := &SessionClient{api: c, session: session}
	sc.Auth = &AuthService{c: sc}
	sc.Trades = &TradeService{c: sc}
	sc.Portfolio = &PortfolioService{c: sc}
	sc.Workflows = &WorkflowService{c: sc}
	return sc
}

func (c *Client) onRequest(_ *resty.Client, r *resty.Request) error {
	ctx := r.Context()
	session, ok := ctx.Value(sessionKey{}).(Session)
	if !ok {
		return nil
	}

	token, err := session.Token(ctx)
	if err != nil {
		// storage failure counts as "no session", the request still goes out
		slog.Warn(
			"can't read session token, sending request without it",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("chatID", session.ChatID()),
			slog.String("err", err.Error()),
		)
		return nil
	}

	if token != "" {
		r.SetHeader("Authorization", "Bearer "+token)
	}

	return nil
}

func (c *Client) onResponse(_ *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.logout(resp.Request.Context())
		return externalApi.ErrUnauthenticated
	}

	return &externalApi.StatusError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
}

func (c *Client) logout(ctx context.Context) {
	session, ok := ctx.Value(sessionKey{}).(Session)
	if !ok {
		return
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Info("backend rejected session, clearing token", slog.String("rqID", rqID), slog.Int64("chatID", session.ChatID()))

	if err := session.ClearToken(ctx); err != nil {
		slog.Error("failed on session.ClearToken", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	if c.notifier != nil {
		c.notifier.Unauthenticated(session.ChatID())
	}
}

func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

type SessionClient struct {
	api     *Client
	session Session

	Auth      *AuthService
	Trades    *TradeService
	Portfolio *PortfolioService
	Workflows *WorkflowService
}

func (s *SessionClient) r(ctx context.Context) *resty.Request {
	return s.api.client.R().
		SetContext(context.WithValue(ctx, sessionKey{}, s.session)).
		SetHeader("Accept", "application/json")
}

func decode[T any](ctx context.Context, op string, resp *resty.Response, err error) (T, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	var res T

	if err != nil {
		if errors.Is(err, externalApi.ErrUnauthenticated) {
			slog.Warn("terminal api rejected session", slog.String("rqID", rqID), slog.String("op", op))
		} else {
			slog.Error("error while calling terminal api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return res, err
	}

	if len(resp.Body()) == 0 {
		return res, nil
	}

	if err = json.Unmarshal(resp.Body(), &res); err != nil {
		slog.Error("can't unmarshall terminal api response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return res, err
	}

	slog.Debug("terminal api request complete", slog.String("rqID", rqID), slog.String("op", op))

	return res, nil
}

package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/KotFed0t/trading_terminal_bot/data/session"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

const testChatID int64 = 7

type fakeContext struct {
	tele.Context
	text     string
	data     string
	args     []string
	callback *tele.Callback
	store    map[string]any
	sent     []any
	edited   []any
	deleted  bool
}

func newFakeContext(text string) *fakeContext {
	return &fakeContext{text: text, store: map[string]any{}}
}

func (c *fakeContext) Chat() *tele.Chat { return &tele.Chat{ID: testChatID} }
func (c *fakeContext) Text() string { return c.text }
func (c *fakeContext) Data() string { return c.data }
func (c *fakeContext) Args() []string { return c.args }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }
func (c *fakeContext) Get(key string) any { return c.store[key] }
func (c *fakeContext) Set(key string, val any) { c.store[key] = val }
func (c *fakeContext) Delete() error {
	c.deleted = true
	return nil
}
func (c *fakeContext) Notify(tele.ChatAction) error { return nil }
func (c *fakeContext) Respond(...*tele.CallbackResponse) error { return nil }

func (c *fakeContext) Send(what any, _ ...any) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) Edit(what any, _ ...any) error {
	c.edited = append(c.edited, what)
	return nil
}

func (c *fakeContext) lastSent() string {
	if len(c.sent) == 0 {
		return ""
	}
	return fmt.Sprint(c.sent[len(c.sent)-1])
}

type fakeSessions struct {
	sessions map[int64]model.Session
}

func (s *fakeSessions) GetSession(_ context.Context, chatID int64) (model.Session, error) {
	chatSession, ok := s.sessions[chatID]
	if !ok {
		return model.Session{}, session.ErrNotFound
	}
	return chatSession, nil
}

func (s *fakeSessions) SetSession(_ context.Context, chatID int64, chatSession model.Session) error {
	s.sessions[chatID] = chatSession
	return nil
}

type fakeService struct {
	TerminalService

	loggedIn    bool
	credentials terminalModel.Credentials
	loginErr    error
	placed      []model.Draft
	placeErr    error
	toggled     []bool
}

func (f *fakeService) HasSession(context.Context, int64) bool { return f.loggedIn }

func (f *fakeService) Settings(_ context.Context, chatID int64) (model.Settings, error) {
	return model.DefaultSettings(chatID, 10), nil
}

func (f *fakeService) Login(_ context.Context, _ int64, credentials terminalModel.Credentials) (terminalModel.User, error) {
	f.credentials = credentials
	if f.loginErr != nil {
		return terminalModel.User{}, f.loginErr
	}
	f.loggedIn = true
	return terminalModel.User{ID: 1, Username: "op"}, nil
}

func (f *fakeService) PlaceTrade(_ context.Context, _ int64, draft model.Draft, price string) (terminalModel.Trade, error) {
	f.placed = append(f.placed, draft)
	if f.placeErr != nil {
		return terminalModel.Trade{}, f.placeErr
	}
	return terminalModel.Trade{ID: 11, Symbol: draft.Symbol, Side: draft.Side, Type: draft.Type, Quantity: decimal.RequireFromString(draft.Quantity), Status: "pending"}, nil
}

func (f *fakeService) ToggleWorkflow(_ context.Context, _ int64, workflowID int64, active bool) (terminalModel.Workflow, error) {
	f.toggled = append(f.toggled, active)
	return terminalModel.Workflow{ID: workflowID, IsActive: !active}, nil
}

func (f *fakeService) Dashboard(context.Context, int64) (model.Dashboard, error) {
	return model.Dashboard{Fallback: true}, nil
}

func (f *fakeService) Workflows(context.Context, int64) ([]terminalModel.Workflow, error) {
	return []terminalModel.Workflow{{ID: 3, Name: "dca"}}, nil
}

func newTestController() (*Controller, *fakeService, *fakeSessions) {
	svc := &fakeService{}
	sessions := &fakeSessions{sessions: map[int64]model.Session{}}
	return NewController(svc, sessions), svc, sessions
}

func TestLoginDialog(t *testing.T) {
	ctrl, svc, sessions := newTestController()

	require.NoError(t, ctrl.Login(newFakeContext("/login")))
	assert.Equal(t, model.ExpectingLoginEmail, sessions.sessions[testChatID].State)

	require.NoError(t, ctrl.ProcessLoginEmail(newFakeContext("op@desk.io")))
	assert.Equal(t, model.ExpectingLoginPassword, sessions.sessions[testChatID].State)
	assert.Equal(t, "op@desk.io", sessions.sessions[testChatID].Draft.Email)

	c := newFakeContext("secret")
	require.NoError(t, ctrl.ProcessLoginPassword(c))

	assert.True(t, c.deleted, "password message must be deleted")
	assert.Equal(t, terminalModel.Credentials{Email: "op@desk.io", Password: "secret"}, svc.credentials)
	assert.Equal(t, model.DefaultState, sessions.sessions[testChatID].State)
	require.Len(t, c.sent, 2)
	assert.Contains(t, fmt.Sprint(c.sent[0]), "Welcome, op!")
	assert.Contains(t, c.lastSent(), "DASHBOARD")
}

func TestLoginDialog_InvalidEmailStaysOnStep(t *testing.T) {
	ctrl, _, sessions := newTestController()
	sessions.sessions[testChatID] = model.Session{State: model.ExpectingLoginEmail}

	c := newFakeContext("not-an-email")
	require.NoError(t, ctrl.ProcessLoginEmail(c))

	assert.Equal(t, model.ExpectingLoginEmail, sessions.sessions[testChatID].State)
	assert.Equal(t, "⚠ email is not valid", c.lastSent())
}

func TestLoginDialog_RejectedCredentials(t *testing.T) {
	ctrl, svc, sessions := newTestController()
	svc.loginErr = externalApi.ErrUnauthenticated
	sessions.sessions[testChatID] = model.Session{State: model.ExpectingLoginPassword, Draft: model.Draft{Email: "op@desk.io"}}

	c := newFakeContext("bad")
	require.NoError(t, ctrl.ProcessLoginPassword(c))

	assert.True(t, c.deleted)
	assert.Equal(t, "Invalid email or password.", c.lastSent())
}

func TestTradeDialog_LimitOrder(t *testing.T) {
	ctrl, svc, sessions := newTestController()
	svc.loggedIn = true

	require.NoError(t, ctrl.NewTrade(newFakeContext("/new_trade")))
	require.NoError(t, ctrl.ProcessTradeSymbol(newFakeContext("ethusdt")))

	side := newFakeContext("")
	side.callback = &tele.Callback{}
	side.data = "sell"
	require.NoError(t, ctrl.ProcessTradeSide(side))

	orderType := newFakeContext("limit")
	require.NoError(t, ctrl.ProcessTradeType(orderType))
	assert.Equal(t, model.ExpectingTradeQuantity, sessions.sessions[testChatID].State)

	require.NoError(t, ctrl.ProcessTradeQuantity(newFakeContext("2")))
	assert.Equal(t, model.ExpectingTradePrice, sessions.sessions[testChatID].State)
	assert.Empty(t, svc.placed)

	c := newFakeContext("3100")
	require.NoError(t, ctrl.ProcessTradePrice(c))

	require.Len(t, svc.placed, 1)
	assert.Equal(t, model.Draft{Symbol: "ETHUSDT", Side: "sell", Type: "limit", Quantity: "2"}, svc.placed[0])
	assert.Equal(t, model.Session{}, sessions.sessions[testChatID])
	assert.True(t, strings.HasPrefix(c.lastSent(), "Order accepted"))
}

func TestTradeDialog_BackendErrorMessage(t *testing.T) {
	ctrl, svc, sessions := newTestController()
	svc.placeErr = &externalApi.StatusError{StatusCode: 400, Message: "Insufficient balance"}
	sessions.sessions[testChatID] = model.Session{
		State: model.ExpectingTradeQuantity,
		Draft: model.Draft{Symbol: "BTCUSDT", Side: "buy", Type: "market"},
	}

	c := newFakeContext("1")
	require.NoError(t, ctrl.ProcessTradeQuantity(c))

	assert.Equal(t, "⚠ Insufficient balance", c.lastSent())
}

func TestHandleErr(t *testing.T) {
	ctrl, _, _ := newTestController()
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthenticated shows nothing", externalApi.ErrUnauthenticated, ""},
		{"validation", fmt.Errorf("%w: side must be buy or sell", service.ErrValidation), "⚠ side must be buy or sell"},
		{"status with message", &externalApi.StatusError{StatusCode: 403, Message: "Forbidden"}, "⚠ Forbidden"},
		{"status without message", &externalApi.StatusError{StatusCode: 500}, internalErrMsg},
		{"no trades", service.ErrNoTrades, "There are no trades to export yet."},
		{"anything else", fmt.Errorf("dial tcp: refused"), internalErrMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeContext("")
			require.NoError(t, ctrl.handleErr(ctx, c, "test", tt.err))
			assert.Equal(t, tt.want, c.lastSent())
		})
	}
}

func TestToggleWorkflow_UsesRenderedState(t *testing.T) {
	ctrl, svc, _ := newTestController()

	c := newFakeContext("")
	c.callback = &tele.Callback{}
	c.args = []string{"3", "true"}
	require.NoError(t, ctrl.ToggleWorkflow(c))

	assert.Equal(t, []bool{true}, svc.toggled)
	assert.Contains(t, c.lastSent(), "Workflow #3 deactivated")
	require.Len(t, c.edited, 1)
}

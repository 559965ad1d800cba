package terminalService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/data/repository"
	"github.com/KotFed0t/trading_terminal_bot/data/session"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi/terminalApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/service"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	"github.com/shopspring/decimal"
)

const (
	reportPageSize = 100
	reportMaxPages = 50
)

type TerminalApi interface {
	WithSession(session terminalApi.Session) *terminalApi.SessionClient
}

type Sessions interface {
	ForChat(chatID int64) *session.ChatSlot
	HasToken(ctx context.Context, chatID int64) bool
}

type Repository interface {
	GetSettings(ctx context.Context, chatID int64) (model.Settings, error)
	UpdateSettings(ctx context.Context, chatID int64, updateFn func(settings *model.Settings)) (model.Settings, error)
	GetDigestChats(ctx context.Context) ([]int64, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, trades []terminalModel.Trade) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

// DigestSender delivers one performance digest to a chat.
type DigestSender func(ctx context.Context, chatID int64, performance terminalModel.Performance) error

type TerminalService struct {
	cfg             *config.Config
	api             TerminalApi
	sessions        Sessions
	repo            Repository
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage
}

func New(
	cfg *config.Config,
	api TerminalApi,
	sessions Sessions,
	repo Repository,
	reportGenerator ReportGenerator,
	cloudStorage CloudStorage,
) *TerminalService {
	return &TerminalService{
		cfg:             cfg,
		api:             api,
		sessions:        sessions,
		repo:            repo,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
	}
}

func (s *TerminalService) client(chatID int64) *terminalApi.SessionClient {
	return s.api.WithSession(s.sessions.ForChat(chatID))
}

func (s *TerminalService) HasSession(ctx context.Context, chatID int64) bool {
	return s.sessions.HasToken(ctx, chatID)
}

// Login creates the session token from a successful login response.
func (s *TerminalService) Login(ctx context.Context, chatID int64, credentials terminalModel.Credentials) (terminalModel.User, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.Login"

	slog.Debug("Login start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("Login finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	var err error
	if credentials.Email, err = ValidateEmail(credentials.Email); err != nil {
		return terminalModel.User{}, err
	}
	if credentials.Password, err = ValidatePassword(credentials.Password); err != nil {
		return terminalModel.User{}, err
	}

	slot := s.sessions.ForChat(chatID)
	resp, err := s.api.WithSession(slot).Auth.Login(ctx, credentials)
	if err != nil {
		return terminalModel.User{}, err
	}

	if resp.AccessToken == "" {
		slog.Error("login response without access_token", slog.String("rqID", rqID), slog.String("op", op))
		return terminalModel.User{}, service.ErrNoToken
	}

	if err = slot.SetToken(ctx, resp.AccessToken); err != nil {
		return terminalModel.User{}, err
	}

	slog.Info("chat logged in", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.Int64("userID", resp.User.ID))

	return resp.User, nil
}

func (s *TerminalService) Register(ctx context.Context, chatID int64, data terminalModel.RegisterData) (terminalModel.User, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.Register"

	slog.Debug("Register start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))

	var err error
	if data.Username, err = ValidateUsername(data.Username); err != nil {
		return terminalModel.User{}, err
	}
	if data.Email, err = ValidateEmail(data.Email); err != nil {
		return terminalModel.User{}, err
	}
	if data.Password, err = ValidatePassword(data.Password); err != nil {
		return terminalModel.User{}, err
	}

	resp, err := s.client(chatID).Auth.Register(ctx, data)
	if err != nil {
		return terminalModel.User{}, err
	}

	return resp.User, nil
}

// Logout tells the backend (best effort) and always clears the local slot.
func (s *TerminalService) Logout(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.Logout"

	slot := s.sessions.ForChat(chatID)

	if s.sessions.HasToken(ctx, chatID) {
		_, err := s.api.WithSession(slot).Auth.Logout(ctx)
		if err != nil && !errors.Is(err, externalApi.ErrUnauthenticated) {
			slog.Warn("backend logout failed, clearing token anyway", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	return slot.ClearToken(ctx)
}

func (s *TerminalService) Me(ctx context.Context, chatID int64) (terminalModel.User, error) {
	return s.client(chatID).Auth.GetMe(ctx)
}

// Dashboard renders backend numbers when there are any and demo literals otherwise.
// An expired session is not masked by the fallback.
func (s *TerminalService) Dashboard(ctx context.Context, chatID int64) (model.Dashboard, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.Dashboard"

	slog.Debug("Dashboard start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))

	client := s.client(chatID)

	portfolio, err := client.Portfolio.GetPortfolio(ctx)
	if err != nil {
		if errors.Is(err, externalApi.ErrUnauthenticated) {
			return model.Dashboard{}, err
		}
		slog.Warn("portfolio fetch failed, using fallback", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return FallbackDashboard(), nil
	}

	if len(portfolio.Positions) == 0 {
		return FallbackDashboard(), nil
	}

	dashboard := model.Dashboard{Portfolio: portfolio, Allocation: allocation(portfolio)}

	performance, err := client.Portfolio.GetPerformance(ctx)
	if err != nil {
		if errors.Is(err, externalApi.ErrUnauthenticated) {
			return model.Dashboard{}, err
		}
		slog.Warn("performance fetch failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	} else {
		dashboard.Performance = &performance
	}

	return dashboard, nil
}

func FallbackDashboard() model.Dashboard {
	d := decimal.RequireFromString
	return model.Dashboard{
		Fallback:   true,
		Allocation: []decimal.Decimal{d("45"), d("35"), d("20")},
		Portfolio: terminalModel.Portfolio{
			Positions: []terminalModel.Position{
				{Symbol: "BTCUSDT", Quantity: d("1.24"), MarketValue: d("54120"), PnlPercent: d("5.8")},
				{Symbol: "ETHUSDT", Quantity: d("18.5"), MarketValue: d("42100"), PnlPercent: d("-2.3")},
				{Symbol: "SOLUSDT", Quantity: d("245"), MarketValue: d("12400"), PnlPercent: d("1.2")},
			},
			Summary: terminalModel.PortfolioSummary{
				TotalValue:    d("131000.42"),
				UnrealizedPnl: d("12450.00"),
				PositionCount: 12,
			},
		},
	}
}

func allocation(portfolio terminalModel.Portfolio) []decimal.Decimal {
	total := portfolio.Summary.TotalValue
	if total.IsZero() {
		for _, p := range portfolio.Positions {
			total = total.Add(p.MarketValue)
		}
	}

	shares := make([]decimal.Decimal, len(portfolio.Positions))
	if total.IsZero() {
		return shares
	}
	for i, p := range portfolio.Positions {
		shares[i] = p.MarketValue.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return shares
}

func (s *TerminalService) Trades(ctx context.Context, chatID int64, page int) (terminalModel.TradesPage, error) {
	settings, err := s.Settings(ctx, chatID)
	if err != nil {
		return terminalModel.TradesPage{}, err
	}

	if page < 1 {
		page = 1
	}

	return s.client(chatID).Trades.GetTrades(ctx, terminalModel.TradeQuery{Page: page, PerPage: settings.TradesPerPage})
}

// PlaceTrade validates the order before any request is issued.
func (s *TerminalService) PlaceTrade(ctx context.Context, chatID int64, draft model.Draft, price string) (terminalModel.Trade, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.PlaceTrade"

	order, err := BuildOrder(draft, price)
	if err != nil {
		slog.Debug("trade form rejected", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return terminalModel.Trade{}, err
	}

	return s.CreateTrade(ctx, chatID, order)
}

func (s *TerminalService) CreateTrade(ctx context.Context, chatID int64, order terminalModel.TradeOrder) (terminalModel.Trade, error) {
	resp, err := s.client(chatID).Trades.CreateTrade(ctx, order)
	if err != nil {
		return terminalModel.Trade{}, err
	}
	return resp.Trade, nil
}

func (s *TerminalService) CancelTrade(ctx context.Context, chatID int64, tradeID int64) (terminalModel.Trade, error) {
	resp, err := s.client(chatID).Trades.CancelTrade(ctx, tradeID)
	if err != nil {
		return terminalModel.Trade{}, err
	}
	return resp.Trade, nil
}

func (s *TerminalService) Workflows(ctx context.Context, chatID int64) ([]terminalModel.Workflow, error) {
	page, err := s.client(chatID).Workflows.GetWorkflows(ctx)
	if err != nil {
		return nil, err
	}
	return page.Workflows, nil
}

func (s *TerminalService) CreateWorkflow(ctx context.Context, chatID int64, name, description string) (terminalModel.Workflow, error) {
	name, err := required("name", name)
	if err != nil {
		return terminalModel.Workflow{}, err
	}

	draft := terminalModel.WorkflowDraft{Name: name, Description: description, Nodes: []any{}, Connections: []any{}}
	resp, err := s.client(chatID).Workflows.CreateWorkflow(ctx, draft)
	if err != nil {
		return terminalModel.Workflow{}, err
	}
	return resp.Workflow, nil
}

func (s *TerminalService) ExecuteWorkflow(ctx context.Context, chatID int64, workflowID int64) (terminalModel.WorkflowResult, error) {
	return s.client(chatID).Workflows.ExecuteWorkflow(ctx, workflowID)
}

// ToggleWorkflow flips the workflow state the button was rendered with.
func (s *TerminalService) ToggleWorkflow(ctx context.Context, chatID int64, workflowID int64, active bool) (terminalModel.Workflow, error) {
	workflows := s.client(chatID).Workflows

	var (
		resp terminalModel.WorkflowResponse
		err  error
	)
	if active {
		resp, err = workflows.DeactivateWorkflow(ctx, workflowID)
	} else {
		resp, err = workflows.ToggleWorkflow(ctx, workflowID)
	}
	if err != nil {
		return terminalModel.Workflow{}, err
	}
	return resp.Workflow, nil
}

func (s *TerminalService) Settings(ctx context.Context, chatID int64) (model.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DefaultSettings(chatID, s.cfg.TradesPerPage), nil
		}
		return model.Settings{}, err
	}
	if settings.TradesPerPage <= 0 {
		settings.TradesPerPage = s.cfg.TradesPerPage
	}
	return settings, nil
}

func (s *TerminalService) ToggleTheme(ctx context.Context, chatID int64) (model.Settings, error) {
	return s.repo.UpdateSettings(ctx, chatID, func(settings *model.Settings) {
		settings.Theme = settings.Theme.Toggle()
	})
}

func (s *TerminalService) ToggleDigest(ctx context.Context, chatID int64) (model.Settings, error) {
	return s.repo.UpdateSettings(ctx, chatID, func(settings *model.Settings) {
		settings.DigestEnabled = !settings.DigestEnabled
	})
}

// TradesReport exports the trade history. Files above the telegram limit go to cloud storage.
func (s *TerminalService) TradesReport(ctx context.Context, chatID int64) (model.Report, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.TradesReport"

	slog.Debug("TradesReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("TradesReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	trades, err := s.allTrades(ctx, chatID)
	if err != nil {
		return model.Report{}, err
	}
	if len(trades) == 0 {
		return model.Report{}, service.ErrNoTrades
	}

	fileBytes, ext, err := s.reportGenerator.Generate(ctx, trades)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}

	report := model.Report{FileName: fmt.Sprintf("trades_%s%s", time.Now().Format("2006-01-02_15-04"), ext)}

	if len(fileBytes) <= s.cfg.Telegram.FileLimitInBytes {
		report.Content = fileBytes
		return report, nil
	}

	slog.Info("report exceeds telegram file limit, uploading", slog.String("rqID", rqID), slog.String("op", op), slog.Int("size", len(fileBytes)))

	report.Link, err = s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), report.FileName)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}

	return report, nil
}

func (s *TerminalService) allTrades(ctx context.Context, chatID int64) ([]terminalModel.Trade, error) {
	client := s.client(chatID)
	trades := make([]terminalModel.Trade, 0, reportPageSize)

	for page := 1; page <= reportMaxPages; page++ {
		res, err := client.Trades.GetTrades(ctx, terminalModel.TradeQuery{Page: page, PerPage: reportPageSize})
		if err != nil {
			return nil, err
		}
		trades = append(trades, res.Trades...)

		if len(res.Trades) == 0 || page >= res.Pages {
			break
		}
	}

	return trades, nil
}

// PerformanceDigest pushes performance to every chat that enabled the digest and still has a session.
func (s *TerminalService) PerformanceDigest(ctx context.Context, send DigestSender) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.PerformanceDigest"

	chatIDs, err := s.repo.GetDigestChats(ctx)
	if err != nil {
		return err
	}

	sent := 0
	for _, chatID := range chatIDs {
		if !s.sessions.HasToken(ctx, chatID) {
			continue
		}

		performance, err := s.client(chatID).Portfolio.GetPerformance(ctx)
		if err != nil {
			// 401 already cleared the token and queued the login screen
			slog.Warn("can't get performance for digest", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
			continue
		}

		if err = send(ctx, chatID, performance); err != nil {
			slog.Error("can't send digest", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
			continue
		}
		sent++
	}

	slog.Info("performance digest done", slog.String("rqID", rqID), slog.Int("chats", len(chatIDs)), slog.Int("sent", sent))

	return nil
}

func (s *TerminalService) DeleteOldReports(ctx context.Context) error {
	return s.cloudStorage.DeleteOldFiles(ctx)
}

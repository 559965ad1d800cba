package terminalApi

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/utils"
)

type PortfolioService struct {
	c *SessionClient
}

func (s *PortfolioService) GetPortfolio(ctx context.Context) (terminalModel.Portfolio, error) {
	op := "PortfolioService.GetPortfolio"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).Get("/portfolio/")
	return decode[terminalModel.Portfolio](ctx, op, resp, err)
}

func (s *PortfolioService) GetPerformance(ctx context.Context) (terminalModel.Performance, error) {
	op := "PortfolioService.GetPerformance"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).Get("/portfolio/performance")
	return decode[terminalModel.Performance](ctx, op, resp, err)
}

package terminalApi

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/utils"
)

type TradeService struct {
	c *SessionClient
}

func (s *TradeService) GetTrades(ctx context.Context, query terminalModel.TradeQuery) (terminalModel.TradesPage, error) {
	op := "TradeService.GetTrades"
	params := query.Params()
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op), slog.Any("params", params))

	resp, err := s.c.r(ctx).SetQueryParams(params).Get("/trades/")
	return decode[terminalModel.TradesPage](ctx, op, resp, err)
}

func (s *TradeService) CreateTrade(ctx context.Context, order terminalModel.TradeOrder) (terminalModel.TradeResponse, error) {
	op := "TradeService.CreateTrade"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op), slog.Any("order", order))

	resp, err := s.c.r(ctx).SetBody(order).Post("/trades/")
	return decode[terminalModel.TradeResponse](ctx, op, resp, err)
}

func (s *TradeService) CancelTrade(ctx context.Context, id int64) (terminalModel.TradeResponse, error) {
	op := "TradeService.CancelTrade"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op), slog.Int64("tradeID", id))

	resp, err := s.c.r(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Post("/trades/{id}/cancel")
	return decode[terminalModel.TradeResponse](ctx, op, resp, err)
}

package terminalApi

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/utils"
)

type AuthService struct {
	c *SessionClient
}

func (s *AuthService) Login(ctx context.Context, credentials terminalModel.Credentials) (terminalModel.LoginResponse, error) {
	op := "AuthService.Login"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).SetBody(credentials).Post("/auth/login")
	return decode[terminalModel.LoginResponse](ctx, op, resp, err)
}

func (s *AuthService) Register(ctx context.Context, userData terminalModel.RegisterData) (terminalModel.RegisterResponse, error) {
	op := "AuthService.Register"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).SetBody(userData).Post("/auth/register")
	return decode[terminalModel.RegisterResponse](ctx, op, resp, err)
}

func (s *AuthService) GetMe(ctx context.Context) (terminalModel.User, error) {
	op := "AuthService.GetMe"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).Get("/auth/me")
	return decode[terminalModel.User](ctx, op, resp, err)
}

func (s *AuthService) Logout(ctx context.Context) (terminalModel.MessageResponse, error) {
	op := "AuthService.Logout"
	slog.Debug("start terminal api request", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", op))

	resp, err := s.c.r(ctx).Post("/auth/logout")
	return decode[terminalModel.MessageResponse](ctx, op, resp, err)
}

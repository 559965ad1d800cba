package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/data"
	"github.com/KotFed0t/trading_terminal_bot/data/repository/postgres"
	"github.com/KotFed0t/trading_terminal_bot/data/session"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/externalApi/terminalApi"
	"github.com/KotFed0t/trading_terminal_bot/internal/navigator"
	"github.com/KotFed0t/trading_terminal_bot/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/trading_terminal_bot/internal/scheduler"
	"github.com/KotFed0t/trading_terminal_bot/internal/service/terminalService"
	"github.com/KotFed0t/trading_terminal_bot/internal/tgbot"
	"github.com/KotFed0t/trading_terminal_bot/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.String("terminalApi", cfg.API.TerminalApi.Url), slog.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisSession := session.NewRedisSession(redisClient, cfg)

	nav := navigator.New(cfg.Navigator.Buffer)

	terminalApiClient := terminalApi.New(cfg, nav)

	reportGenerator := xslsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	terminalSrv := terminalService.New(cfg, terminalApiClient, redisSession, pgRepo, reportGenerator, googleCloudStorage)

	tgController := telegram.NewController(terminalSrv, redisSession)

	tgBot := tgbot.New(cfg, tgController, redisSession, terminalSrv)

	nav.SetScreens(tgBot)
	go nav.Run(ctx)

	sched := scheduler.New()
	sched.NewCrontabJob("performance digest", func(ctx context.Context) error {
		return terminalSrv.PerformanceDigest(ctx, tgBot.SendDigest)
	}, cfg.Jobs.DigestCrontab, false)
	sched.NewIntervalJob("delete old reports", terminalSrv.DeleteOldReports, cfg.Jobs.DeleteOldReportsInterval, true)
	sched.Start()
	defer sched.Stop()

	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}

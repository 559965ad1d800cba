package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/trading_terminal_bot/data/repository"
	"github.com/KotFed0t/trading_terminal_bot/internal/converter/dbConverter"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/dbModel"
	"github.com/KotFed0t/trading_terminal_bot/utils"
)

func (r *Postgres) GetSettings(ctx context.Context, chatID int64) (settings model.Settings, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetSettings"
	query := `
		SELECT chat_id, theme, digest_enabled, trades_per_page, updated_at
		FROM chat_settings
		WHERE chat_id = $1
		`

	slog.Debug("GetSettings start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetSettings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSettings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	return r.getSettings(ctx, query, chatID)
}

func (r *Postgres) getSettings(ctx context.Context, query string, chatID int64) (model.Settings, error) {
	dbSettings := dbModel.ChatSettings{}
	err := r.txOrDb(ctx).GetContext(ctx, &dbSettings, query, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Settings{}, repository.ErrNotFound
		}
		return model.Settings{}, err
	}
	return dbConverter.ConvertSettings(dbSettings), nil
}

func (r *Postgres) UpsertSettings(ctx context.Context, settings model.Settings) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpsertSettings"
	query := `
		INSERT INTO chat_settings (chat_id, theme, digest_enabled, trades_per_page, updated_at)
		VALUES (:chat_id, :theme, :digest_enabled, :trades_per_page, now())
		ON CONFLICT (chat_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			digest_enabled = EXCLUDED.digest_enabled,
			trades_per_page = EXCLUDED.trades_per_page,
			updated_at = now()
		`

	slog.Debug("UpsertSettings start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("settings", settings))
	defer func() {
		if err != nil {
			slog.Error("UpsertSettings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertSettings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.ConvertSettingsToDB(settings))
	return err
}

// UpdateSettings is a locked read-modify-write. A chat without a row starts from defaults.
func (r *Postgres) UpdateSettings(ctx context.Context, chatID int64, updateFn func(settings *model.Settings)) (settings model.Settings, err error) {
	query := `
		SELECT chat_id, theme, digest_enabled, trades_per_page, updated_at
		FROM chat_settings
		WHERE chat_id = $1
		FOR UPDATE
		`

	err = r.WithinTransaction(ctx, func(ctx context.Context) error {
		current, getErr := r.getSettings(ctx, query, chatID)
		if getErr != nil {
			if !errors.Is(getErr, repository.ErrNotFound) {
				return getErr
			}
			current = model.DefaultSettings(chatID, r.cfg.TradesPerPage)
		}

		updateFn(&current)
		settings = current

		return r.UpsertSettings(ctx, current)
	})
	if err != nil {
		return model.Settings{}, err
	}

	return settings, nil
}

func (r *Postgres) GetDigestChats(ctx context.Context) (chatIDs []int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetDigestChats"
	query := `SELECT chat_id FROM chat_settings WHERE digest_enabled ORDER BY chat_id`

	slog.Debug("GetDigestChats start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetDigestChats failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetDigestChats completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("chats", len(chatIDs)))
		}
	}()

	err = r.txOrDb(ctx).SelectContext(ctx, &chatIDs, query)
	if err != nil {
		return nil, err
	}

	return chatIDs, nil
}

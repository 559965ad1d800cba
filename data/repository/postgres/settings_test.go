package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/data/repository"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settingsColumns = []string{"chat_id", "theme", "digest_enabled", "trades_per_page", "updated_at"}

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{TradesPerPage: 10}
	return NewPostgres(cfg, sqlx.NewDb(db, "pgx")), mock
}

func TestGetSettings(t *testing.T) {
	repo, mock := newMockPostgres(t)
	now := time.Now()

	mock.ExpectQuery("FROM chat_settings").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(settingsColumns).AddRow(int64(7), "light", true, 25, now))

	settings, err := repo.GetSettings(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, settings.Theme)
	assert.True(t, settings.DigestEnabled)
	assert.Equal(t, 25, settings.TradesPerPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSettings_NotFound(t *testing.T) {
	repo, mock := newMockPostgres(t)

	mock.ExpectQuery("FROM chat_settings").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(settingsColumns))

	_, err := repo.GetSettings(context.Background(), 8)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSettings_StartsFromDefaults(t *testing.T) {
	repo, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(settingsColumns))
	mock.ExpectExec("INSERT INTO chat_settings").
		WithArgs(int64(3), "light", false, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	settings, err := repo.UpdateSettings(context.Background(), 3, func(s *model.Settings) {
		s.Theme = s.Theme.Toggle()
	})

	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, settings.Theme)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSettings_RollsBackOnError(t *testing.T) {
	repo, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(settingsColumns).AddRow(int64(3), "dark", false, 10, time.Now()))
	mock.ExpectExec("INSERT INTO chat_settings").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.UpdateSettings(context.Background(), 3, func(s *model.Settings) {
		s.DigestEnabled = true
	})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDigestChats(t *testing.T) {
	repo, mock := newMockPostgres(t)

	mock.ExpectQuery("WHERE digest_enabled").
		WillReturnRows(sqlmock.NewRows([]string{"chat_id"}).AddRow(int64(1)).AddRow(int64(5)))

	chats, err := repo.GetDigestChats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5}, chats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

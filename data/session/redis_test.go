package session

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*RedisSession, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.Session.StateTTL = time.Minute
	return NewRedisSession(client, cfg), mr
}

func TestTokenSlot_Lifecycle(t *testing.T) {
	store, _ := newTestSession(t)
	ctx := context.Background()

	token, err := store.GetToken(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, store.HasToken(ctx, 100))

	require.NoError(t, store.SetToken(ctx, 100, "jwt"))
	assert.True(t, store.HasToken(ctx, 100))
	assert.False(t, store.HasToken(ctx, 200), "slots are per chat")

	require.NoError(t, store.ClearToken(ctx, 100))
	assert.False(t, store.HasToken(ctx, 100))
}

func TestTokenSlot_TTL(t *testing.T) {
	store, mr := newTestSession(t)
	store.cfg.Session.TokenTTL = time.Hour
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, 1, "jwt"))
	assert.Equal(t, time.Hour, mr.TTL("token:1"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, store.HasToken(ctx, 1))
}

func TestHasToken_StorageFailureIsNoSession(t *testing.T) {
	store, mr := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, 1, "jwt"))

	mr.Close()

	assert.False(t, store.HasToken(ctx, 1))
}

func TestChatSlot(t *testing.T) {
	store, _ := newTestSession(t)
	ctx := context.Background()
	slot := store.ForChat(55)

	assert.Equal(t, int64(55), slot.ChatID())
	require.NoError(t, slot.SetToken(ctx, "jwt"))

	token, err := slot.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)

	require.NoError(t, slot.ClearToken(ctx))
	token, err = store.GetToken(ctx, 55)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestDialogSession(t *testing.T) {
	store, mr := newTestSession(t)
	ctx := context.Background()

	_, err := store.GetSession(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)

	chatSession := model.Session{State: model.ExpectingTradeQuantity, Draft: model.Draft{Symbol: "BTCUSDT", Side: "buy"}}
	require.NoError(t, store.SetSession(ctx, 9, chatSession))
	assert.Equal(t, time.Minute, mr.TTL("session:9"))

	got, err := store.GetSession(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, chatSession, got)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/KotFed0t/trading_terminal_bot/config"
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("error not found")

const (
	tokenKeyPrefix   = "token:"
	sessionKeyPrefix = "session:"
)

// RedisSession keeps two things per chat: the bearer token slot and the dialog state.
type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func tokenKey(chatID int64) string {
	return tokenKeyPrefix + strconv.FormatInt(chatID, 10)
}

func sessionKey(chatID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(chatID, 10)
}

// GetToken returns "" without error when the slot is empty.
func (r *RedisSession) GetToken(ctx context.Context, chatID int64) (string, error) {
	token, err := r.redis.Get(ctx, tokenKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		slog.Error(
			"failed on redis.Get token",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("chatID", chatID),
			slog.String("err", err.Error()),
		)
		return "", err
	}
	return token, nil
}

func (r *RedisSession) SetToken(ctx context.Context, chatID int64, token string) error {
	err := r.redis.Set(ctx, tokenKey(chatID), token, r.cfg.Session.TokenTTL).Err()
	if err != nil {
		slog.Error(
			"failed on redis.Set token",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("chatID", chatID),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

func (r *RedisSession) ClearToken(ctx context.Context, chatID int64) error {
	err := r.redis.Del(ctx, tokenKey(chatID)).Err()
	if err != nil {
		slog.Error(
			"failed on redis.Del token",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("chatID", chatID),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

// HasToken is the route guard predicate. A storage error is reported as "no session".
func (r *RedisSession) HasToken(ctx context.Context, chatID int64) bool {
	token, err := r.GetToken(ctx, chatID)
	return err == nil && token != ""
}

func (r *RedisSession) GetSession(ctx context.Context, chatID int64) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, sessionKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get session", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("chatID", chatID))
		return model.Session{}, err
	}

	chatSession := model.Session{}
	err = json.Unmarshal([]byte(res), &chatSession)
	if err != nil {
		slog.Error(
			"can't unmarshall session",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.Session{}, fmt.Errorf("can't unmarshall session: %w", err)
	}

	return chatSession, nil
}

func (r *RedisSession) SetSession(ctx context.Context, chatID int64, chatSession model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	sessionJson, err := json.Marshal(chatSession)
	if err != nil {
		slog.Error("can't marshall session", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return fmt.Errorf("can't marshall session: %w", err)
	}

	err = r.redis.Set(ctx, sessionKey(chatID), sessionJson, r.cfg.Session.StateTTL).Err()
	if err != nil {
		slog.Error("failed on redis.Set session", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Int64("chatID", chatID))
		return err
	}

	return nil
}

// ForChat returns the token slot of one chat in the shape the terminal api client expects.
func (r *RedisSession) ForChat(chatID int64) *ChatSlot {
	return &ChatSlot{store: r, chatID: chatID}
}

type ChatSlot struct {
	store  *RedisSession
	chatID int64
}

func (s *ChatSlot) ChatID() int64 {
	return s.chatID
}

func (s *ChatSlot) Token(ctx context.Context) (string, error) {
	return s.store.GetToken(ctx, s.chatID)
}

func (s *ChatSlot) SetToken(ctx context.Context, token string) error {
	return s.store.SetToken(ctx, s.chatID, token)
}

func (s *ChatSlot) ClearToken(ctx context.Context) error {
	return s.store.ClearToken(ctx, s.chatID)
}

package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Chat prompt context per session: chat:history:{session_id} (list)
	KeyChatHistory = "chat:history:"

	HistoryLen = 10
)

var TTLChatHistory = 30 * time.Minute

// New returns nil when addr is empty; callers treat a nil cache as disabled
// and fall back to the database.
func New(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

// PushTurn appends one conversation turn ("role: text") and trims the list.
func PushTurn(ctx context.Context, rdb *redis.Client, sessionID, turn string) error {
	if rdb == nil {
		return nil
	}
	key := KeyChatHistory + sessionID
	pipe := rdb.TxPipeline()
	pipe.RPush(ctx, key, turn)
	pipe.LTrim(ctx, key, -HistoryLen, -1)
	pipe.Expire(ctx, key, TTLChatHistory)
	_, err := pipe.Exec(ctx)
	return err
}

// Turns returns the cached conversation turns, oldest first.
func Turns(ctx context.Context, rdb *redis.Client, sessionID string) ([]string, error) {
	if rdb == nil {
		return nil, nil
	}
	return rdb.LRange(ctx, KeyChatHistory+sessionID, 0, -1).Result()
}

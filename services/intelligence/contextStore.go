package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bookingagent/models"

	"github.com/go-redis/redis/v8"
)

const (
	contextPrefix     = "booking:ctx:"
	DefaultContextTTL = 30 * time.Minute
	scanBatch         = 100
)

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*models.Context, error) {
	key := contextPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load context %s: %w", sessionID, err)
	}

	var c models.Context
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("decode context %s: %w", sessionID, err)
	}
	return &c, nil
}

func (s *RedisContextStore) Set(ctx context.Context, c *models.Context) error {
	key := contextPrefix + c.SessionID
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode context %s: %w", c.SessionID, err)
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	key := contextPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}

// List returns the ids of all live sessions.
func (s *RedisContextStore) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	iter := s.client.Scan(ctx, 0, contextPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), contextPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan contexts: %w", err)
	}
	return ids, nil
}

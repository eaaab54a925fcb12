// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"bookingagent/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// ContextCacheClient holds the conversation contexts.
var ContextCacheClient *redis.Client

// InitContextCache connects to the redis DB used for conversation contexts.
func InitContextCache(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisContextDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis (context cache) at %s: %w", config.AppConfig.RedisAddr, err)
	}

	ContextCacheClient = client
	return client, nil
}

// QueueRedisOpt points asynq at the reminder queue DB.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

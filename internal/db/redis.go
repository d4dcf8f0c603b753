package db

import (
	"context" // Ping deadline
	"fmt"     // Error wrapping
	"time"    // Timeouts

	"cafe_ordering/internal/config" // Configuration

	"github.com/redis/go-redis/v9" // Redis client
)

// OpenRedis connects to the cache and checks it answers within a few seconds.
// On failure the client is closed and nil is returned with the error.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("db.OpenRedis: %w", err)
	}
	return rdb, nil
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/student-mental-health-api/pkg/config"
)

// Lookups run inside chart renders; a timeout is treated as a cache miss.
const (
	pingTimeout  = 3 * time.Second
	dialTimeout  = time.Second
	ioTimeout    = 250 * time.Millisecond
	clientName   = "mental-health-dashboard"
	maxRetries   = 1
	minIdleConns = 1
	poolSize     = 16
)

// Options builds the client options for the chart cache.
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		MaxRetries:   maxRetries,
		MinIdleConns: minIdleConns,
		PoolSize:     poolSize,
	}
}

// NewRedis returns a client for the chart cache after a successful ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := Options(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return client, nil
}

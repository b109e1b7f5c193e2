package client

import (
	"context"
	"fmt"
	"time"

	"coursework/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
	log    *logger.Logger
}

func NewRedisClient(log *logger.Logger, addr string, connTimeout time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: connTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", addr, err)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	return &RedisClient{Client: client, log: log}, nil
}

func (c *RedisClient) Close() error {
	if err := c.Client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	c.log.Info("Redis connection closed")
	return nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist holds revoked tokens until they would have expired anyway.
type Blacklist interface {
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) bool
}

// TokenBlacklist is the global instance, nil when Redis is not configured.
// Without it logout still succeeds, tokens just expire naturally.
var TokenBlacklist Blacklist

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// NewTokenBlacklist connects to Redis and verifies the connection.
func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenBlacklist{Client: client}, nil
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// Blacklist marks a token as revoked for the given remaining lifetime.
func (tb *RedisTokenBlacklist) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return tb.Client.Set(ctx, blacklistKey(token), "revoked", ttl).Err()
}

func (tb *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, token string) bool {
	n, err := tb.Client.Exists(ctx, blacklistKey(token)).Result()
	return err == nil && n > 0
}

// IsTokenBlacklisted checks the global blacklist, treating an unconfigured
// blacklist as empty.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if TokenBlacklist == nil {
		return false
	}
	return TokenBlacklist.IsBlacklisted(ctx, token)
}

// BlacklistToken revokes a token through the global blacklist.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if TokenBlacklist == nil {
		return nil
	}
	return TokenBlacklist.Blacklist(ctx, token, ttl)
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/messreview-backend/config"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "messreview:blacklist:"

// TokenStore records revoked access tokens until they would have expired.
type TokenStore struct {
	client *redis.Client
}

// Connect opens a client and verifies it with PING.
func Connect(cfg *config.RedisConfig) (*TokenStore, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return &TokenStore{client: client}, nil
}

// NewTokenStore wraps an existing client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Close() error {
	logger.Info("Closing Redis connection")
	return s.client.Close()
}

func blacklistKey(tokenID string) string {
	return blacklistPrefix + tokenID
}

// Revoke blacklists tokenID for ttl. A non-positive ttl is a no-op: the
// token has already expired.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(tokenID), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	logger.Debug("Token blacklisted", map[string]interface{}{
		"expiry": ttl.String(),
	})
	return nil
}

// IsRevoked reports whether tokenID was blacklisted.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return n > 0, nil
}

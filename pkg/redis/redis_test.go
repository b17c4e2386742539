package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestBlacklistKey(t *testing.T) {
	assert.Equal(t, "messreview:blacklist:abc-123", blacklistKey("abc-123"))
}

func TestTokenStore_RevokeExpiredIsNoop(t *testing.T) {
	// Points at a port nothing listens on: the call must return before dialing.
	store := NewTokenStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	defer store.client.Close()

	assert.NoError(t, store.Revoke(context.Background(), "jti", 0))
	assert.NoError(t, store.Revoke(context.Background(), "jti", -time.Second))
}

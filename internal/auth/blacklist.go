package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "unimanage:token_blacklist:"

// Blacklist records revoked refresh tokens until they would have
// expired anyway. A nil Redis client degrades to an always-empty
// blacklist, which keeps local development working without Redis.
type Blacklist struct {
	redis *redis.Client
	now   func() time.Time
}

// NewBlacklist constructs a Redis-backed token blacklist.
func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{redis: client, now: time.Now}
}

// Revoke stores the token ID with a TTL equal to the token's
// remaining lifetime. Already-expired tokens are ignored.
func (b *Blacklist) Revoke(ctx context.Context, claims *Claims) error {
	if b.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	return b.redis.Set(ctx, blacklistKeyPrefix+claims.ID, b.now().Unix(), remaining).Err()
}

// Contains reports whether the token ID has been revoked.
func (b *Blacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	if b.redis == nil || tokenID == "" {
		return false, nil
	}

	if err := b.redis.Get(ctx, blacklistKeyPrefix+tokenID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

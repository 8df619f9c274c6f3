package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testClaims(ttl time.Duration) *Claims {
	return &Claims{
		UserID:    1,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "token-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func TestBlacklistRevokeAndContains(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	blacklist := NewBlacklist(client)
	ctx := context.Background()

	revoked, err := blacklist.Contains(ctx, "token-id")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, testClaims(time.Hour)))

	revoked, err = blacklist.Contains(ctx, "token-id")
	require.NoError(t, err)
	require.True(t, revoked)

	server.FastForward(2 * time.Hour)

	revoked, err = blacklist.Contains(ctx, "token-id")
	require.NoError(t, err)
	require.False(t, revoked, "entry should expire with the token")
}

func TestBlacklistIgnoresExpiredClaims(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	blacklist := NewBlacklist(client)
	require.NoError(t, blacklist.Revoke(context.Background(), testClaims(-time.Minute)))

	revoked, err := blacklist.Contains(context.Background(), "token-id")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestBlacklistWithoutRedis(t *testing.T) {
	blacklist := NewBlacklist(nil)
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, testClaims(time.Hour)))

	revoked, err := blacklist.Contains(ctx, "token-id")
	require.NoError(t, err)
	require.False(t, revoked)
}

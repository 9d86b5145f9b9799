// AngelaMos | 2026
// revocation_test.go

package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

func TestRedisRevocations(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	r := core.NewRedisFromClient(client, "test:"+uuid.NewString()[:8]+":")
	revocations := NewRedisRevocations(r)
	ctx := context.Background()

	jti := uuid.NewString()
	revoked, err := revocations.IsRevoked(ctx, jti)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, revocations.Revoke(ctx, jti, time.Now().Add(time.Minute)))
	revoked, err = revocations.IsRevoked(ctx, jti)
	require.NoError(t, err)
	require.True(t, revoked)

	ttl, err := client.TTL(ctx, r.Key("revoked", jti)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 50*time.Second)

	// Already expired tokens are not stored.
	stale := uuid.NewString()
	require.NoError(t, revocations.Revoke(ctx, stale, time.Now().Add(-time.Second)))
	revoked, err = revocations.IsRevoked(ctx, stale)
	require.NoError(t, err)
	require.False(t, revoked)
}

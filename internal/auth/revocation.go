// AngelaMos | 2026
// revocation.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

// Revocations remembers logged-out access tokens by jti until they would
// have expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevocations struct {
	redis *core.Redis
}

func NewRedisRevocations(r *core.Redis) Revocations {
	return &redisRevocations{redis: r}
}

func (r *redisRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	if err := r.redis.Client.Set(ctx, r.redis.Key("revoked", jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (r *redisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.redis.Client.Exists(ctx, r.redis.Key("revoked", jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked access token: %w", err)
	}
	return n > 0, nil
}

// AngelaMos | 2026
// blacklist.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const blacklistPrefix = "blacklist:"

// Blacklist remembers access tokens revoked by logout until they expire.
type Blacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type redisBlacklist struct {
	client redis.Cmdable
	prefix string
}

// NewRedisBlacklist stores entries under prefix + "blacklist:".
func NewRedisBlacklist(client redis.Cmdable, prefix string) Blacklist {
	return &redisBlacklist{client: client, prefix: prefix + blacklistPrefix}
}

func (b *redisBlacklist) Revoke(
	ctx context.Context,
	token string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	key := b.prefix + core.HashToken(token)
	if err := b.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (b *redisBlacklist) IsRevoked(
	ctx context.Context,
	token string,
) (bool, error) {
	key := b.prefix + core.HashToken(token)

	exists, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

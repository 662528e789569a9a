// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{URL: "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestNewRedisFailsFastWhenUnreachable(t *testing.T) {
	start := time.Now()
	_, err := NewRedis(context.Background(), config.RedisConfig{
		URL:         "redis://127.0.0.1:1/0",
		PoolSize:    1,
		DialTimeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRedisWithoutClient(t *testing.T) {
	assert.NoError(t, (&Redis{}).Close())
	assert.Equal(t, "storefront:", (&Redis{prefix: "storefront:"}).Prefix())
}

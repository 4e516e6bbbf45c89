package cache_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/config"
	"github.com/contacerta/backend/internal/infra/cache"
)

func TestNewRedisClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := cache.NewRedisClient(&config.RedisConfig{URL: "redis://" + server.Addr() + "/0", DB: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 2, client.Options().DB)
	assert.True(t, cache.HealthCheck(client)())
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := cache.NewRedisClient(&config.RedisConfig{URL: "not-a-url"})
	assert.Error(t, err)
}

func TestHealthCheck_NilClient(t *testing.T) {
	assert.False(t, cache.HealthCheck(nil)())
}

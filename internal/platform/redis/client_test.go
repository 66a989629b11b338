package redis

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/internal/platform/config"
)

func TestNewWithoutURLDisablesCache(t *testing.T) {
	c, err := New(t.Context(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestOptions(t *testing.T) {
	opts, err := Options(config.RedisConfig{
		URL:          "redis://:secret@cache:6380/2",
		PoolSize:     7,
		MinIdleConns: 1,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, "census", opts.ClientName)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.ReadTimeout)

	_, err = Options(config.RedisConfig{URL: "http://cache"})
	assert.Error(t, err)
}

func TestRegisterPoolMetrics(t *testing.T) {
	c := &Client{Client: goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})}
	t.Cleanup(func() { _ = c.Close() })

	reg := prometheus.NewRegistry()
	require.NoError(t, c.RegisterPoolMetrics(reg))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)

	assert.Error(t, c.RegisterPoolMetrics(reg), "second registration collides")
}

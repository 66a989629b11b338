package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMap(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := FromMap(map[string]string{"CENSUS_DATABASE_URL": "postgres://localhost/census"})
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, StoragePostgres, cfg.Storage)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, int64(64<<20), cfg.MaxBodyBytes)
		assert.Equal(t, 20, cfg.Database.MaxOpenConns)
		assert.True(t, cfg.Database.Migrate)
		assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
		assert.False(t, cfg.CacheEnabled())
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := FromMap(map[string]string{
			"CENSUS_STORAGE":         "memory",
			"CENSUS_ADDR":            ":9000",
			"CENSUS_REDIS_URL":       "redis://localhost:6379/0",
			"CENSUS_CACHE_TTL":       "1m",
			"CENSUS_MIGRATE":         "false",
			"CENSUS_REQUEST_TIMEOUT": "2s",
		})
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.True(t, cfg.CacheEnabled())
		assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
		assert.False(t, cfg.Database.Migrate)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("postgres storage requires a database url", func(t *testing.T) {
		_, err := FromMap(map[string]string{})
		assert.ErrorContains(t, err, "CENSUS_DATABASE_URL")
	})

	t.Run("unknown storage", func(t *testing.T) {
		_, err := FromMap(map[string]string{"CENSUS_STORAGE": "sqlite"})
		assert.ErrorContains(t, err, "unknown storage")
	})

	t.Run("malformed duration", func(t *testing.T) {
		_, err := FromMap(map[string]string{"CENSUS_STORAGE": "memory", "CENSUS_CACHE_TTL": "soon"})
		assert.Error(t, err)
	})
}

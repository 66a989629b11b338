// Package cache keeps computed aggregate views of an import in Redis.
//
// All views of one import live in a single hash. Every field name starts
// with the import version the view was computed from, so a field is written
// once and never goes stale: after a patch readers ask for the next version
// and old fields only wait for the TTL or an Invalidate. Age percentiles
// depend on the current date and carry the day in the field as well.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"census/internal/citizen/models"
)

const (
	keyPrefix      = "census:import:"
	fieldBirthdays = "birthdays"
	fieldAges      = "ages"
)

// DefaultTTL bounds how long an untouched import's views are kept.
const DefaultTTL = 5 * time.Minute

// RedisViewCache implements ports.ViewCache on Redis.
type RedisViewCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// Option configures a RedisViewCache.
type Option func(*RedisViewCache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisViewCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedis builds a cache on an existing client. The client lifecycle is
// managed by the caller.
func NewRedis(client redis.UniversalClient, opts ...Option) *RedisViewCache {
	c := &RedisViewCache{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func importKey(importID models.ImportID) string {
	return fmt.Sprintf("%s%d", keyPrefix, importID)
}

func birthdaysField(version models.ImportVersion) string {
	return fmt.Sprintf("v%d:%s", version, fieldBirthdays)
}

func agesField(version models.ImportVersion, day models.Date) string {
	return fmt.Sprintf("v%d:%s:%s", version, fieldAges, day.ISO())
}

func (c *RedisViewCache) GetBirthdays(ctx context.Context, importID models.ImportID, version models.ImportVersion) (models.BirthdayStats, bool, error) {
	var stats models.BirthdayStats
	ok, err := c.get(ctx, importID, birthdaysField(version), &stats)
	return stats, ok, err
}

func (c *RedisViewCache) SetBirthdays(ctx context.Context, importID models.ImportID, version models.ImportVersion, stats models.BirthdayStats) error {
	return c.set(ctx, importID, birthdaysField(version), stats)
}

func (c *RedisViewCache) GetTownAges(ctx context.Context, importID models.ImportID, version models.ImportVersion, day models.Date) ([]models.TownAgeStat, bool, error) {
	var stats []models.TownAgeStat
	ok, err := c.get(ctx, importID, agesField(version, day), &stats)
	return stats, ok, err
}

func (c *RedisViewCache) SetTownAges(ctx context.Context, importID models.ImportID, version models.ImportVersion, day models.Date, stats []models.TownAgeStat) error {
	return c.set(ctx, importID, agesField(version, day), stats)
}

// Invalidate drops every cached view of the import. Readers never depend on
// it for freshness; it only frees memory held by superseded versions.
func (c *RedisViewCache) Invalidate(ctx context.Context, importID models.ImportID) error {
	if err := c.client.Del(ctx, importKey(importID)).Err(); err != nil {
		return fmt.Errorf("invalidate import %d: %w", importID, err)
	}
	return nil
}

func (c *RedisViewCache) get(ctx context.Context, importID models.ImportID, field string, dst any) (bool, error) {
	raw, err := c.client.HGet(ctx, importKey(importID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s view: %w", field, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s view: %w", field, err)
	}
	return true, nil
}

func (c *RedisViewCache) set(ctx context.Context, importID models.ImportID, field string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s view: %w", field, err)
	}
	key := importKey(importID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, field, raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write %s view: %w", field, err)
	}
	return nil
}

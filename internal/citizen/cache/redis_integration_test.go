//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"census/internal/citizen/cache"
	"census/internal/citizen/models"
	"census/pkg/testutil/containers"
)

type RedisViewCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisViewCache
}

func TestRedisViewCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisViewCacheSuite))
}

func (s *RedisViewCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, cache.WithTTL(time.Minute))
}

func (s *RedisViewCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisViewCacheSuite) TestBirthdaysRoundTrip() {
	ctx := context.Background()

	_, ok, err := s.cache.GetBirthdays(ctx, 1, 0)
	s.Require().NoError(err)
	s.False(ok)

	stats := models.NewBirthdayStats()
	stats.Add(time.April, models.PresentCount{CitizenID: 2, Presents: 1})
	s.Require().NoError(s.cache.SetBirthdays(ctx, 1, 0, stats))

	got, ok, err := s.cache.GetBirthdays(ctx, 1, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]models.PresentCount{{CitizenID: 2, Presents: 1}}, got.Month(time.April))
	s.Empty(got.Month(time.May))
}

func (s *RedisViewCacheSuite) TestTownAgesKeyedByDay() {
	ctx := context.Background()
	day := models.NewDate(2019, time.August, 20)
	stats := []models.TownAgeStat{{Town: "Москва", P50: 32.5, P75: 32.75, P99: 32.99}}
	s.Require().NoError(s.cache.SetTownAges(ctx, 1, 0, day, stats))

	got, ok, err := s.cache.GetTownAges(ctx, 1, 0, day)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(stats, got)

	_, ok, err = s.cache.GetTownAges(ctx, 1, 0, models.NewDate(2019, time.August, 21))
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisViewCacheSuite) TestInvalidateDropsAllViews() {
	ctx := context.Background()
	day := models.NewDate(2019, time.August, 20)
	s.Require().NoError(s.cache.SetBirthdays(ctx, 1, 0, models.NewBirthdayStats()))
	s.Require().NoError(s.cache.SetTownAges(ctx, 1, 0, day, []models.TownAgeStat{}))
	s.Require().NoError(s.cache.SetBirthdays(ctx, 2, 0, models.NewBirthdayStats()))

	keys, err := s.redis.Keys(ctx, "census:import:*")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"census:import:1", "census:import:2"}, keys)

	s.Require().NoError(s.cache.Invalidate(ctx, 1))

	_, ok, err := s.cache.GetBirthdays(ctx, 1, 0)
	s.Require().NoError(err)
	s.False(ok)
	_, ok, err = s.cache.GetTownAges(ctx, 1, 0, day)
	s.Require().NoError(err)
	s.False(ok)

	_, ok, err = s.cache.GetBirthdays(ctx, 2, 0)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *RedisViewCacheSuite) TestTTLApplied() {
	ctx := context.Background()
	s.Require().NoError(s.cache.SetBirthdays(ctx, 7, 0, models.NewBirthdayStats()))

	ttl, err := s.redis.Client.TTL(ctx, "census:import:7").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisViewCacheSuite) TestOlderVersionIsNeverServed() {
	ctx := context.Background()
	day := models.NewDate(2019, time.August, 20)
	stale := models.NewBirthdayStats()
	stale.Add(time.April, models.PresentCount{CitizenID: 1, Presents: 1})

	// a reader that computed version 0 finishes writing after the patch
	s.Require().NoError(s.cache.SetBirthdays(ctx, 1, 0, stale))
	s.Require().NoError(s.cache.SetTownAges(ctx, 1, 0, day, []models.TownAgeStat{{Town: "Москва", P50: 1}}))

	_, ok, err := s.cache.GetBirthdays(ctx, 1, 1)
	s.Require().NoError(err)
	s.False(ok)
	_, ok, err = s.cache.GetTownAges(ctx, 1, 1, day)
	s.Require().NoError(err)
	s.False(ok)

	fresh := models.NewBirthdayStats()
	s.Require().NoError(s.cache.SetBirthdays(ctx, 1, 1, fresh))
	got, ok, err := s.cache.GetBirthdays(ctx, 1, 1)
	s.Require().NoError(err)
	s.True(ok)
	s.Empty(got.Month(time.April))
}

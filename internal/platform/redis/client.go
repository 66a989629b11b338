// Package redis bootstraps the go-redis client backing the view cache.
package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"census/internal/platform/config"
)

const clientName = "census"

// Client is a connected go-redis client. A nil *Client means caching is off.
type Client struct {
	*redis.Client
}

// Options translates cfg into go-redis options.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.ClientName = clientName
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// New connects to cfg.URL and pings it. It returns nil, nil when no URL is
// configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health: %w", err)
	}
	return nil
}

// RegisterPoolMetrics exposes connection pool gauges on reg.
func (c *Client) RegisterPoolMetrics(reg prometheus.Registerer) error {
	gauges := map[string]func(*redis.PoolStats) uint32{
		"redis_pool_total_conns": func(s *redis.PoolStats) uint32 { return s.TotalConns },
		"redis_pool_idle_conns":  func(s *redis.PoolStats) uint32 { return s.IdleConns },
		"redis_pool_timeouts":    func(s *redis.PoolStats) uint32 { return s.Timeouts },
	}
	for name, read := range gauges {
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: name,
			Help: "go-redis pool statistic " + name + ".",
		}, func() float64 { return float64(read(c.PoolStats())) })
		if err := reg.Register(g); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}

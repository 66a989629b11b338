package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "CENSUS_"

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Server captures process level configuration.
type Server struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Storage         string        `env:"STORAGE" envDefault:"postgres"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"67108864"`

	Database DatabaseConfig
	Redis    RedisConfig
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	Migrate         bool          `env:"MIGRATE" envDefault:"true"`
}

// RedisConfig configures the optional aggregate view cache. An empty URL
// disables caching.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// FromEnv builds a Server config from the process environment so main stays lean.
func FromEnv() (Server, error) {
	return parse(env.Options{Prefix: EnvPrefix})
}

// FromMap builds a Server config from an explicit environment, for tests.
func FromMap(environ map[string]string) (Server, error) {
	return parse(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(opts env.Options) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks combinations the tags cannot express.
func (c Server) Validate() error {
	var errs []error
	switch c.Storage {
	case StoragePostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New(EnvPrefix+"DATABASE_URL is required for postgres storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New(EnvPrefix+"MAX_BODY_BYTES must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New(EnvPrefix+"REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// CacheEnabled reports whether a Redis URL was configured.
func (c Server) CacheEnabled() bool {
	return c.Redis.URL != ""
}

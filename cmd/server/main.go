package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"census/internal/citizen/cache"
	citizenHandler "census/internal/citizen/handler"
	citizenMetrics "census/internal/citizen/metrics"
	citizenService "census/internal/citizen/service"
	"census/internal/platform/config"
	"census/internal/platform/httpserver"
	"census/internal/platform/logger"
	"census/internal/platform/metrics"
	"census/internal/platform/redis"
	"census/pkg/platform/httputil"
)

const healthCheckTimeout = 2 * time.Second

// main wires dependencies and runs the HTTP server until SIGINT or SIGTERM.
// Business logic lives in internal/citizen.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "census: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		if err := redisClient.RegisterPoolMetrics(prometheus.DefaultRegisterer); err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis", "error", err)
			}
		}()
	}

	svcOpts := []citizenService.Option{
		citizenService.WithLogger(log),
		citizenService.WithMetrics(citizenMetrics.New(prometheus.DefaultRegisterer)),
	}
	if cfg.CacheEnabled() {
		svcOpts = append(svcOpts, citizenService.WithViewCache(cache.NewRedis(redisClient.Client, cache.WithTTL(cfg.Redis.CacheTTL))))
		log.Info("aggregate view cache enabled", "ttl", cfg.Redis.CacheTTL)
	}
	svc := citizenService.New(st.tx, svcOpts...)

	handler := citizenHandler.New(svc, log, metrics.New(prometheus.DefaultRegisterer),
		citizenHandler.WithRequestTimeout(cfg.RequestTimeout),
		citizenHandler.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(log, st, redisClient))
	handler.Register(r)

	srv := httpserver.New(cfg.Addr, r, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting census", "addr", cfg.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Redis    string `json:"redis,omitempty"`
}

// healthHandler reports 503 when a configured backend does not answer.
func healthHandler(log *slog.Logger, st *storage, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if st.db != nil {
			resp.Database = "ok"
			if err := st.ping(ctx); err != nil {
				resp.Database = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			resp.Redis = "ok"
			if err := redisClient.Health(ctx); err != nil {
				resp.Redis = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		if status != http.StatusOK {
			resp.Status = "degraded"
			log.Warn("health check failed", "database", resp.Database, "redis", resp.Redis)
		}
		httputil.WriteJSON(w, status, resp)
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"census/internal/citizen/ports"
	"census/internal/citizen/store"
	"census/internal/platform/config"
	"census/internal/platform/postgres"
)

// storage is the transactor the service runs on plus what main has to
// release on shutdown.
type storage struct {
	tx ports.Transactor
	db *sql.DB
}

func (s *storage) ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func (s *storage) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func openStorage(ctx context.Context, cfg config.Server, logger *slog.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return &storage{tx: store.NewInMemoryTx()}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return &storage{tx: store.NewPostgresTx(db, store.WithTxTimeout(cfg.RequestTimeout)), db: db}, nil
}

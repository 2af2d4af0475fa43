// Package repository opens the configured preference store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"tripmitra/internal/config"
	"tripmitra/internal/domain/repositories"
	"tripmitra/internal/repository/memory"
	"tripmitra/internal/repository/mongodb"
	"tripmitra/internal/repository/postgres"
)

// Store is an open preference store
type Store struct {
	Preferences repositories.PreferenceRepository
	Driver      string
	close       func(context.Context) error
}

// Close releases the store's connections. Safe to call more than once.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// Open connects the store selected by STORE_DRIVER and prepares its schema.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case "mongo", "mongodb":
		handle, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.DatabaseName, mongodb.DefaultConnectionOptions(cfg.Environment), logger)
		if err != nil {
			return nil, err
		}
		repo := mongodb.NewPreferenceRepository(handle, cfg.CollectionName, logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			// Existing duplicate user_id documents block the unique index
			logger.Warn("preference indexes not created", "error", err)
		}
		logger.Info("mongodb connected",
			"database", cfg.DatabaseName,
			"collection", cfg.CollectionName,
		)
		return &Store{Preferences: repo, Driver: "mongo", close: handle.Close}, nil

	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected", "table", tables.Preferences)
		repo := postgres.NewPreferenceRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		return &Store{
			Preferences: repo,
			Driver:      "postgres",
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case "memory":
		logger.Warn("using in-memory preference store; data is lost on restart")
		return &Store{
			Preferences: memory.NewPreferenceRepository(logger),
			Driver:      "memory",
			close:       func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (mongo, postgres, memory)", cfg.StoreDriver)
	}
}

// Package repository selects and opens the configured document store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"assistant/internal/config"
	"assistant/internal/domain/repositories"
	"assistant/internal/metrics"
	"assistant/internal/repository/memory"
	"assistant/internal/repository/mongo"
)

// Open returns the store selected by STORE_DRIVER
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(logger, m), nil

	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, mongo.Config{
			Host:           cfg.MongoHost,
			Port:           cfg.MongoPort,
			User:           cfg.MongoUser,
			Password:       cfg.MongoPassword,
			Database:       cfg.MongoDB,
			ConnectTimeout: cfg.MongoTimeout,
			MaxPoolSize:    50,
		})
		if err != nil {
			return nil, err
		}

		logger.Info("database connected",
			"host", cfg.MongoHost,
			"port", cfg.MongoPort,
			"database", cfg.MongoDB,
		)
		return mongo.NewStore(client, cfg.MongoDB, logger, m), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// EnsureDefaultIndexes creates the uniqueness indexes and logs the report
func EnsureDefaultIndexes(ctx context.Context, store repositories.IndexManager, names *repositories.CollectionNames, logger *slog.Logger) repositories.IndexReport {
	report := store.EnsureIndexes(ctx, repositories.DefaultIndexes(names))
	if report.Healthy() {
		logger.Info("indexes ensured", "count", len(report))
	} else {
		logger.Error("some indexes could not be ensured, uniqueness is not enforced for them", "report", report)
	}
	return report
}

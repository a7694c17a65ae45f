package pkg

import (
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/challenge-service/internal/config"
	"github.com/SAP-F-2025/challenge-service/internal/store"
)

// NewStore opens the attempt store selected by STORE_DRIVER.
func NewStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("Using in-memory attempt store, progress is lost on exit")
		return store.NewMemoryStore(), nil
	case config.StoreSQLite:
		logger.Info("Opening sqlite attempt store", "path", cfg.SQLitePath())
		return store.NewSQLiteStore(cfg.SQLitePath())
	case config.StoreRedis:
		logger.Info("Connecting redis attempt store", "profile", cfg.Profile)
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, cfg.Profile), nil
	case config.StorePostgres:
		logger.Info("Connecting postgres attempt store", "profile", cfg.Profile)
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db, cfg.Profile)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

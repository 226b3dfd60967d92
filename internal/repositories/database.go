package repository

import (
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/storage"
	"github.com/aaravmahajanofficial/storefront/internal/storage/postgres"
)

// NewStore opens the storage backend selected by storage.driver.
func NewStore(cfg *config.Config) (storage.Store, error) {

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		slog.Info("Using in-memory storage; data is lost on restart")
		return storage.NewMemoryStore(), nil

	case config.DriverRedis:
		client, err := storage.NewRedisClient(&cfg.RedisConnect)
		if err != nil {
			return nil, err
		}

		return storage.NewRedisStore(client), nil

	case config.DriverPostgres:
		store, err := postgres.Open(&cfg.Database)
		if err != nil {
			return nil, err
		}

		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

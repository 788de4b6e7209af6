package repository

import (
	"context"
	"fmt"
	"log"

	"chorechampions/internal/config"
	"chorechampions/internal/database"
)

// OpenStore connects to the backend selected by STORE_TYPE. SQL stores are
// migrated before they are returned.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreType {
	case config.StoreSQL:
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewSQLStore(db), nil

	case config.StoreRedis:
		store, err := NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Println("Redis connection established")
		return store, nil

	case config.StoreMemory:
		log.Println("Using in-memory store, state will not survive a restart")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.StoreType)
	}
}

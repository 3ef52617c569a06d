package repositories

import (
	"context"
	"fmt"

	"tiyende/internal/config"

	"go.uber.org/zap"
)

// Open returns the Store selected by cfg.Type. Relational stores are migrated before use.
func Open(ctx context.Context, cfg config.DatabaseConfig, lg *zap.Logger) (Store, error) {
	if cfg.Type == "memory" {
		lg.Info("using in-memory store")
		return NewMemoryStore(), nil
	}
	db, err := config.ConnectDB(cfg, lg)
	if err != nil {
		return nil, err
	}
	store := NewGormStore(db)
	if err := store.Migrate(ctx); err != nil {
		config.CloseDB(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

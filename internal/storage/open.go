package storage

import (
	"context"
	"fmt"

	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/logger"
)

// Open builds the Store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverBadger:
		return NewBadgerStore(BadgerConfig{Path: cfg.Storage.Path, SyncWrites: true}, log)
	case config.DriverMongo:
		return NewMongoStore(cfg.Database.URI, cfg.Database.Name, cfg.Database.Collection)
	case config.DriverS3:
		return NewS3Store(ctx, cfg.S3)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

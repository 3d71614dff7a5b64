package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"interiorai/internal/infra"
)

// Open builds the store selected by cfg.StoreDriver. The returned close
// function releases any connection the store holds and is never nil.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (KV, func() error, error) {
	noop := func() error { return nil }
	logger = logger.With().Str("component", "storage").Str("driver", cfg.StoreDriver).Logger()

	switch cfg.StoreDriver {
	case infra.StoreDriverMemory:
		return NewMemoryStore(), noop, nil
	case infra.StoreDriverFile:
		store, err := NewFileStore(cfg.StoragePath)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug().Str("path", store.BasePath()).Msg("file store ready")
		return store, noop, nil
	case infra.StoreDriverSQLite:
		store, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return store, store.Close, nil
	case infra.StoreDriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		if err := MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		closeFn := func() error {
			pool.Close()
			return nil
		}
		return NewPostgresStore(infra.NewSQLRunner(pool, logger)), closeFn, nil
	case infra.StoreDriverRedis:
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(client, DefaultRedisHash), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("storage: unsupported driver %q", cfg.StoreDriver)
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"reviewhub/internal/cache"
	"reviewhub/internal/reviews"
	"reviewhub/internal/server"
	"reviewhub/pkg/database"
	"reviewhub/pkg/utils"
)

// Backend is the configured review store plus what it needs at shutdown
// and for readiness probes.
type Backend struct {
	Store   reviews.Store
	Checks  map[string]server.Check
	closers []func() error
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// OpenStore builds the store selected by cfg: SQL (sqlite3/pgx) or a
// PostgREST endpoint, optionally fronted by the Redis list cache.
func OpenStore(ctx context.Context, cfg utils.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{Checks: make(map[string]server.Check)}

	switch cfg.Store.Backend {
	case utils.StoreSQL:
		db, err := database.Open(cfg.Store.Database)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if err := database.EnsureSchema(ctx, db); err != nil {
			b.Close()
			return nil, err
		}
		b.Store = reviews.NewRepo(db)
		b.Checks["store"] = db.PingContext
		logger.Info("review store ready", "backend", "sql", "driver", cfg.Store.Database.Driver)

	case utils.StoreREST:
		repo := reviews.NewRESTRepo(cfg.Store.REST.URL, cfg.Store.REST.Key, cfg.Store.REST.Table)
		b.Store = repo
		b.Checks["store"] = repo.Ping
		logger.Info("review store ready", "backend", "rest", "url", cfg.Store.REST.URL, "table", cfg.Store.REST.Table)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Cache.Enabled() {
		rc, err := cache.NewRedis(ctx, cache.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, rc.Close)
		b.Store = reviews.NewCachedStore(b.Store, rc, cfg.Cache.TTL, logger)
		b.Checks["cache"] = rc.Ping
		logger.Info("review list cache enabled", "redis", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
	}

	return b, nil
}

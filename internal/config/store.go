package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/adapters/file"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/memory"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/redis"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/sqlite"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/framework"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/persistence/middleware"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Backend is an opened store stack plus whatever must be released with it.
type Backend struct {
	Store   ports.FrameworkStore
	Locker  ports.DistributedLocker
	Metrics *middleware.Metrics

	closers []func() error
}

// Close releases connections held by the store.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// ServiceOptions returns the framework.Service options implied by the backend and cfg.
func (b *Backend) ServiceOptions(cfg Config) []framework.Option {
	opts := []framework.Option{framework.WithLockTTL(cfg.Lock.TTL)}
	if b.Locker != nil {
		opts = append(opts, framework.WithLocker(b.Locker))
	}
	return opts
}

// OpenStore builds the configured adapter wrapped in logging and, when enabled,
// metrics middleware. Metrics are registered on reg; a nil reg keeps them unregistered.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*Backend, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{}
	var base ports.FrameworkStore

	switch cfg.Store.Driver {
	case DriverMemory:
		base = memory.NewStore()
	case DriverFile:
		base = file.New(cfg.Store.Path)
	case DriverSQLite:
		store, err := sqlite.Open(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, store.Close)
		base = store
	case DriverRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix))
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
		}
		b.closers = append(b.closers, store.Close)
		if rc.Lock {
			b.Locker = redis.NewLocker(store.Client(), rc.Prefix)
		}
		base = store
	}

	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if cfg.Metrics.Enabled {
		b.Metrics = middleware.NewMetrics(reg)
		mws = append(mws, middleware.NewMetricsMiddleware(b.Metrics))
	}
	b.Store = middleware.Chain(base, mws...)

	logger.Debug("framework store opened", "driver", cfg.Store.Driver, "metrics", cfg.Metrics.Enabled, "distributed_lock", b.Locker != nil)
	return b, nil
}

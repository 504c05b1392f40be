package framework

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/defaults"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
)

// LockKey is the distributed lock key guarding the current framework.
const LockKey = "framework"

// DefaultLockTTL bounds how long a crashed replica can hold the distributed lock.
// Lockers that do not renew their lease need a TTL above the worst-case Persist time,
// otherwise another replica may acquire the lock while a write is still running.
const DefaultLockTTL = 30 * time.Second

// Service orchestrates access to the current framework.
// Save, Reset and the lazy initialization in Get are mutually exclusive.
type Service struct {
	store ports.FrameworkStore

	mu sync.Mutex // Serializes every mutation of the current framework

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	defaults func() domain.Framework
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithLockTTL sets the lease of the distributed lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// WithDefaults overrides the source of the default framework.
// The function must return a fresh copy on every call.
func WithDefaults(fn func() domain.Framework) Option {
	return func(s *Service) {
		s.defaults = fn
	}
}

// NewService creates a new framework Service with the given persistence store.
func NewService(store ports.FrameworkStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		lockTTL:  DefaultLockTTL,
		defaults: defaults.Default,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current framework, initializing the store from the default on first access.
// The result always holds exactly the known categories.
func (s *Service) Get(ctx context.Context) (domain.Framework, error) {
	fw, err := s.store.Load(ctx)
	if err == nil {
		return s.complete(ctx, fw), nil
	}
	if !errors.Is(err, domain.ErrFrameworkAbsent) {
		return nil, storageError(err)
	}

	err = s.WithLock(ctx, func(ctx context.Context) error {
		// Another caller may have initialized while we waited for the lock.
		fw, err = s.store.Load(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrFrameworkAbsent) {
			return storageError(err)
		}

		fw = s.defaults()
		if err := s.store.Persist(context.WithoutCancel(ctx), fw); err != nil {
			return storageError(err)
		}
		s.logger.InfoContext(ctx, "framework initialized from defaults", "templates", fw.Total())
		s.emit(ctx, domain.EventInitialized, nil, fw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, fw), nil
}

// Save validates candidate, normalizes it and replaces the current framework with it.
// Categories absent from candidate are cleared. The persisted framework is returned.
func (s *Service) Save(ctx context.Context, candidate any) (domain.Framework, error) {
	decoded, err := Decode(candidate)
	if err != nil {
		s.logger.WarnContext(ctx, "framework save rejected", "err", err)
		return nil, err
	}
	return s.replace(ctx, domain.EventSaved, Normalize(decoded))
}

// Reset replaces the current framework with a fresh copy of the default.
func (s *Service) Reset(ctx context.Context) (domain.Framework, error) {
	return s.replace(ctx, domain.EventReset, s.defaults().Complete())
}

func (s *Service) replace(ctx context.Context, kind domain.EventType, next domain.Framework) (domain.Framework, error) {
	var prev domain.Framework
	err := s.WithLock(ctx, func(ctx context.Context) error {
		// Best effort: the previous document only feeds the change event.
		if loaded, err := s.store.Load(ctx); err == nil {
			prev = loaded
		}
		if err := s.store.Persist(context.WithoutCancel(ctx), next); err != nil {
			return storageError(err)
		}
		s.logger.InfoContext(ctx, "framework "+string(kind), "counts", next.Counts())
		// Emitted under the lock so events reach subscribers in persist order.
		s.emit(ctx, kind, prev, next)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "framework write failed", "event", kind, "err", err)
		return nil, err
	}
	return next.Clone(), nil
}

// WithLock executes fn while holding the framework mutation lock.
// The distributed lock, when configured, is taken after the process-local one.
func (s *Service) WithLock(ctx context.Context, fn func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, LockKey, s.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", LockKey,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Store returns the underlying framework store.
func (s *Service) Store() ports.FrameworkStore {
	return s.store
}

func (s *Service) complete(ctx context.Context, fw domain.Framework) domain.Framework {
	if missing := fw.Missing(); len(missing) > 0 {
		s.logger.WarnContext(ctx, "stored framework is missing categories, back-filling", "missing", missing)
	}
	return fw.Complete()
}

func (s *Service) emit(ctx context.Context, kind domain.EventType, prev, next domain.Framework) {
	if s.hooks.OnChange == nil {
		return
	}
	s.hooks.OnChange(ctx, &domain.FrameworkEvent{
		Timestamp: time.Now(),
		Type:      kind,
		Diff:      domain.Diff(prev, next),
	})
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

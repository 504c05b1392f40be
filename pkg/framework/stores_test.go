package framework_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
)

var errDiskFull = errors.New("disk full")

// SlowStore simulates latency to provoke race conditions if locking is missing.
// Persist fills a shared staging document category by category and publishes it at
// the end, so two unserialized writers would publish an interleaving of both payloads.
type SlowStore struct {
	mu       sync.Mutex
	data     domain.Framework
	staging  domain.Framework
	persists atomic.Int32
	delay    time.Duration
}

func (s *SlowStore) Load(ctx context.Context) (domain.Framework, error) {
	time.Sleep(s.delay) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, domain.ErrFrameworkAbsent
	}
	return s.data.Clone(), nil
}

func (s *SlowStore) Persist(ctx context.Context, fw domain.Framework) error {
	s.persists.Add(1)
	s.mu.Lock()
	s.staging = domain.Framework{}
	staging := s.staging
	s.mu.Unlock()

	for c, templates := range fw {
		time.Sleep(s.delay / 5)
		s.mu.Lock()
		s.staging[c] = append([]string(nil), templates...)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.data = staging.Clone()
	s.mu.Unlock()
	return nil
}

// FailingStore returns errDiskFull for the operations switched on.
type FailingStore struct {
	ports.FrameworkStore
	FailLoad    bool
	FailPersist bool
}

func (s *FailingStore) Load(ctx context.Context) (domain.Framework, error) {
	if s.FailLoad {
		return nil, errDiskFull
	}
	return s.FrameworkStore.Load(ctx)
}

func (s *FailingStore) Persist(ctx context.Context, fw domain.Framework) error {
	if s.FailPersist {
		return errDiskFull
	}
	return s.FrameworkStore.Persist(ctx, fw)
}

// CtxRecordingStore records whether Persist saw a canceled context.
type CtxRecordingStore struct {
	ports.FrameworkStore
	sawCanceled atomic.Bool
}

func (s *CtxRecordingStore) Persist(ctx context.Context, fw domain.Framework) error {
	if ctx.Err() != nil {
		s.sawCanceled.Store(true)
	}
	return s.FrameworkStore.Persist(ctx, fw)
}

// MockLocker counts lock acquisitions and releases.
type MockLocker struct {
	locks   atomic.Int32
	unlocks atomic.Int32
	err     error
}

func (l *MockLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locks.Add(1)
	return func(ctx context.Context) error {
		l.unlocks.Add(1)
		return nil
	}, nil
}

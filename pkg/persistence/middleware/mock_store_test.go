package middleware_test

import (
	"context"
	"errors"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

var errDiskFull = errors.New("disk full")

// MockStore is a simple single-slot store for testing middleware.
type MockStore struct {
	data       domain.Framework
	failLoad   bool
	failWrites bool
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (s *MockStore) Load(ctx context.Context) (domain.Framework, error) {
	if s.failLoad {
		return nil, errDiskFull
	}
	if s.data == nil {
		return nil, domain.ErrFrameworkAbsent
	}
	return s.data.Clone(), nil
}

func (s *MockStore) Persist(ctx context.Context, fw domain.Framework) error {
	if s.failWrites {
		return errDiskFull
	}
	s.data = fw.Clone()
	return nil
}

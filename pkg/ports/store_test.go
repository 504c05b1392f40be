package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
)

// MockStore is an in-memory implementation of FrameworkStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data domain.Framework
}

func (m *MockStore) Load(ctx context.Context) (domain.Framework, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, domain.ErrFrameworkAbsent
	}
	return m.data.Clone(), nil
}

func (m *MockStore) Persist(ctx context.Context, fw domain.Framework) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Deep copy to simulate serialization
	m.data = fw.Clone()
	return nil
}

func TestFrameworkStore_Contract(t *testing.T) {
	// This test verifies that the MockStore complies with the FrameworkStore logic.
	// It serves as a contract test for future implementations (Adapters).
	ports.RunFrameworkStoreContract(t, &MockStore{})
}

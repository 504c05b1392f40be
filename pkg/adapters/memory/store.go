package memory

import (
	"context"
	"sync"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

// Store implements ports.FrameworkStore in memory.
// Safe for concurrent use. State does not survive a restart.
type Store struct {
	data domain.Framework
	mu   sync.RWMutex
}

// NewStore creates a new, uninitialized in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Persist replaces the stored framework.
func (s *Store) Persist(ctx context.Context, fw domain.Framework) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := fw.Clone()
	if copied == nil {
		copied = domain.Framework{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = copied
	return nil
}

// Load retrieves the framework from memory.
func (s *Store) Load(ctx context.Context) (domain.Framework, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, domain.ErrFrameworkAbsent
	}

	// Create a copy on read so caller can't mutate store state directly
	return s.data.Clone(), nil
}

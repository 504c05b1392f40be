package ports

import (
	"context"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

// FrameworkStore defines the interface for persisting the current framework.
// Implementations perform no validation and no retries.
type FrameworkStore interface {
	// Load retrieves the current framework.
	// Returns domain.ErrFrameworkAbsent if nothing was ever persisted.
	Load(ctx context.Context) (domain.Framework, error)

	// Persist atomically overwrites the durable framework.
	// A concurrent Load observes either the previous or the new document, never a mix.
	Persist(ctx context.Context, fw domain.Framework) error
}

// FrameworkReader is the read-only view handed to consumers such as the Script Composer.
type FrameworkReader interface {
	Get(ctx context.Context) (domain.Framework, error)
}

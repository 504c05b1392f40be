package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFrameworkAbsent is returned by a FrameworkStore when no framework was ever persisted.
// The service resolves it by lazily initializing the default; it never reaches callers.
var ErrFrameworkAbsent = errors.New("framework not initialized")

// ErrValidation marks a rejected save payload. Nothing was written.
var ErrValidation = errors.New("invalid framework")

// ErrStorage marks a durable I/O failure reported by the store.
var ErrStorage = errors.New("framework storage failure")

// ValidationError describes why a save payload was rejected.
type ValidationError struct {
	// Keys lists the offending category keys, sorted. Empty for shape errors.
	Keys   []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Reason, strings.Join(e.Keys, ", "))
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

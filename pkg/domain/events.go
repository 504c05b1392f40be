package domain

import (
	"context"
	"time"
)

// EventType defines the kind of change applied to the current framework.
type EventType string

const (
	EventInitialized EventType = "initialized"
	EventSaved       EventType = "saved"
	EventReset       EventType = "reset"
)

// FrameworkEvent is emitted after a change to the current framework was persisted.
type FrameworkEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Diff      *FrameworkDiff `json:"diff,omitempty"`
}

// LifecycleHooks defines callbacks for framework observability.
// Hooks run synchronously after the write succeeded, while the mutation lock is still held.
// They must not block for long and must not call back into the service.
type LifecycleHooks struct {
	OnChange func(context.Context, *FrameworkEvent)
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

// subscriberBuffer bounds the per-client backlog; slow clients lose messages.
const subscriberBuffer = 10

type subscriber struct {
	ch    chan string
	watch []domain.Category
}

// wants reports whether the event touches one of the watched categories.
// An empty watch list receives everything.
func (sub *subscriber) wants(event *domain.FrameworkEvent) bool {
	if len(sub.watch) == 0 {
		return true
	}
	if event.Diff.IsEmpty() {
		return false
	}
	for _, c := range sub.watch {
		if _, ok := event.Diff.Changed[c]; ok {
			return true
		}
	}
	return false
}

// StreamManager fans framework events out to active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client. The returned function unregisters it and closes the channel.
func (sm *StreamManager) Subscribe(watch []domain.Category) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sub := &subscriber{ch: make(chan string, subscriberBuffer), watch: watch}
	sm.subscribers[sub] = struct{}{}

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, sub)
			close(sub.ch)
		})
	}
}

// Len returns the number of connected subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast serializes the event once and delivers it to every interested subscriber.
func (sm *StreamManager) Broadcast(event *domain.FrameworkEvent) {
	if event == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		sm.logger.Error("StreamManager: encode event failed", "error", err)
		return
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: broadcasting", "type", event.Type, "payload_size", len(payload), "subscribers", len(sm.subscribers))
	for sub := range sm.subscribers {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.ch <- string(payload):
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "type", event.Type)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every framework change.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: func(_ context.Context, event *domain.FrameworkEvent) {
			sm.Broadcast(event)
		},
	}
}

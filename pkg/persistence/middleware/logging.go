package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.FrameworkStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs store calls at Debug and failures at Error.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.FrameworkStore) ports.FrameworkStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Load(ctx context.Context) (domain.Framework, error) {
	start := time.Now()
	fw, err := m.next.Load(ctx)
	switch {
	case err == nil:
		m.logger.DebugContext(ctx, "framework loaded", "templates", fw.Total(), "duration", time.Since(start))
	case errors.Is(err, domain.ErrFrameworkAbsent):
		m.logger.DebugContext(ctx, "framework absent", "duration", time.Since(start))
	default:
		m.logger.ErrorContext(ctx, "framework load failed", "err", err)
	}
	return fw, err
}

func (m *loggingMiddleware) Persist(ctx context.Context, fw domain.Framework) error {
	start := time.Now()
	err := m.next.Persist(ctx, fw)
	if err != nil {
		m.logger.ErrorContext(ctx, "framework persist failed", "err", err)
		return err
	}
	m.logger.DebugContext(ctx, "framework persisted", "templates", fw.Total(), "duration", time.Since(start))
	return nil
}

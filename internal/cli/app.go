package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/config"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	httpAdapter "github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/http"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/composer"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/framework"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App bundles everything a command needs: the opened store, the service on top of
// it and the consumers fed by its change events.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Backend  *config.Backend
	Service  *framework.Service
	Composer *composer.Composer
	Streams  *httpAdapter.StreamManager
	Registry *prometheus.Registry
}

// NewApp opens the configured store and builds the service with CLI conventions:
// change events go to the SSE stream manager and to the debug log.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	backend, err := config.OpenStore(ctx, cfg, logger, reg)
	if err != nil {
		return nil, fmt.Errorf("error opening framework store: %w", err)
	}

	streams := httpAdapter.NewStreamManager(logger)
	opts := append(backend.ServiceOptions(cfg),
		framework.WithLogger(logger),
		framework.WithLifecycleHooks(combineHooks(streams.Hooks(), createDebugHooks(logger))),
	)
	svc := framework.NewService(backend.Store, opts...)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Backend:  backend,
		Service:  svc,
		Composer: composer.New(svc),
		Streams:  streams,
		Registry: reg,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Backend.Close()
}

// CreateLogger builds the stderr logger for the configured level.
func CreateLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: func(ctx context.Context, e *domain.FrameworkEvent) {
			var changed []string
			if !e.Diff.IsEmpty() {
				for _, c := range domain.AllCategories() {
					if _, ok := e.Diff.Changed[c]; ok {
						changed = append(changed, string(c))
					}
				}
			}
			logger.Debug("Framework Changed", "type", e.Type, "categories", strings.Join(changed, ","))
		},
	}
}

func combineHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: func(ctx context.Context, e *domain.FrameworkEvent) {
			for _, h := range all {
				if h.OnChange != nil {
					h.OnChange(ctx, e)
				}
			}
		},
	}
}

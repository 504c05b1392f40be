package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// Handler builds the HTTP handler for app, with /metrics when metrics are enabled.
func (a *App) Handler() (http.Handler, error) {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithStreams(a.Streams),
		httpAdapter.WithComposer(a.Composer),
	}
	if a.Config.Metrics.Enabled {
		opts = append(opts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	}
	return httpAdapter.NewHandler(a.Service, opts...)
}

// Serve listens on addr and serves the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, app *App, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeListener(ctx, app, ln)
}

// ServeListener serves the HTTP API on ln until ctx is cancelled, then shuts down gracefully.
// Open event streams end with ctx.
func ServeListener(ctx context.Context, app *App, ln net.Listener) error {
	handler, err := app.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Logger.Info("Content Machine server listening", "address", ln.Addr().String(), "driver", app.Config.Store.Driver)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		app.Logger.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", ShutdownTimeout, err)
		}
		return nil
	})

	return g.Wait()
}

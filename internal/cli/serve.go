package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/lcm"
	httpAdapter "github.com/aretw0/lcm/pkg/adapters/http"
	"github.com/aretw0/lcm/pkg/adapters/mcp"
	"github.com/aretw0/lcm/pkg/metrics"
)

// shutdownTimeout is how long in-flight requests get once ctx is done.
const shutdownTimeout = 5 * time.Second

// NewServeHandler builds the HTTP API with metrics and the event stream wired
// into the engine's hooks. Reports are discarded: runs are returned as JSON.
func NewServeHandler(opts Options) (http.Handler, *App, error) {
	collector, err := metrics.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	opts.JSON = true
	opts.Serialize = true
	logger := createLogger(opts.Debug)
	streams := httpAdapter.NewStreamManager(logger)

	app, err := NewApp(opts, io.Discard, collector.Hooks(), streams.Hooks())
	if err != nil {
		return nil, nil, err
	}

	handler := httpAdapter.NewHandler(app.Engine.Runner(),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithMetrics(collector.Handler()),
		httpAdapter.WithVersion(lcm.Version),
		httpAdapter.WithLogger(app.Logger),
	)
	return handler, app, nil
}

// Serve runs the HTTP API on addr until ctx is done.
func Serve(ctx context.Context, opts Options, addr string) error {
	handler, app, err := NewServeHandler(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Logger.Info("HTTP server listening", "address", addr, "store", opts.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		app.Logger.Info("HTTP server stopped")
		return nil
	})
	return g.Wait()
}

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the engine as an MCP server over the given transport.
func ServeMCP(ctx context.Context, opts Options, transport, addr, baseURL string) error {
	opts.JSON = true
	opts.Serialize = true
	app, err := NewApp(opts, io.Discard)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := mcp.NewServer(app.Engine.Runner(), lcm.Version, mcp.WithLogger(app.Logger))

	switch transport {
	case TransportStdio:
		app.Logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		return srv.ServeSSE(ctx, addr, baseURL)
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}

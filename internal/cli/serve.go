package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/parley"
	httpAdapter "github.com/aretw0/parley/pkg/adapters/http"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/aretw0/parley/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Options
	// Addr overrides the configured listen address.
	Addr string
}

// RunServe exposes the dialogues over HTTP until ctx is cancelled, then
// shuts the server down gracefully.
func RunServe(ctx context.Context, opts ServeOptions, out io.Writer) error {
	logger := createLogger(opts.Options, false)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	engine, err := createEngine(opts.Options, logger, metrics.Hooks())
	if err != nil {
		return err
	}

	p := setupPersistence(opts.Options, engine.Memory(), logger)
	defer p.Close()
	if err := p.Syncer.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore history: %w", err)
	}

	managerOpts := []session.Option{session.WithLogger(logger), session.WithLockTTL(opts.Config.LockTTL)}
	if p.Locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(p.Locker))
	}

	server := httpAdapter.NewServer(engine,
		httpAdapter.WithManager(session.NewManager(managerOpts...)),
		httpAdapter.WithSyncer(p.Syncer),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithVersion(parley.Version),
	)

	addr := opts.Addr
	if addr == "" {
		addr = opts.Config.HTTPAddr
	}
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Starting Parley server on %s", srv.Addr)
		printSystemMessage(out, "Serving dialogues from: %s", opts.Dir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(out, "Shutting down...")
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		if err := p.Syncer.Flush(shutdownCtx); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		printSystemMessage(out, "Server stopped.")
		return nil
	}
}

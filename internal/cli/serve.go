package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/outliner"
	"github.com/aretw0/outliner/internal/config"
	httpAdapter "github.com/aretw0/outliner/pkg/adapters/http"
	"github.com/aretw0/outliner/pkg/adapters/memory"
	"github.com/aretw0/outliner/pkg/adapters/redis"
	"github.com/aretw0/outliner/pkg/highlight"
	"github.com/aretw0/outliner/pkg/observability"
	"github.com/aretw0/outliner/pkg/persistence/middleware"
	"github.com/aretw0/outliner/pkg/ports"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	Config config.Config
	// Fixtures, when set, are served at /ui and /startup and their startup payload
	// is rendered by a local UI whose highlights and exports the server exposes.
	Fixtures string

	Output io.Writer
}

// RunServe starts the HTTP server and blocks until SIGINT or SIGTERM.
func RunServe(opts ServeOptions) error {
	logger, err := createLogger(opts.Config)
	if err != nil {
		return err
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	blobs, closeBlobs, err := createBlobStore(opts.Config, logger)
	if err != nil {
		return err
	}
	defer closeBlobs()

	ledger := highlight.NewLedger()
	metrics := observability.NewMetrics()
	serverOpts := []httpAdapter.ServerOption{
		httpAdapter.WithBlobs(blobs),
		httpAdapter.WithHighlights(ledger),
		httpAdapter.WithMetrics(metrics.Handler()),
		httpAdapter.WithServerLogger(logger),
	}

	if opts.Fixtures != "" {
		fixtures, err := LoadFixtures(opts.Fixtures)
		if err != nil {
			return err
		}
		evaluator := fixtures.Evaluator()
		serverOpts = append(serverOpts,
			httpAdapter.WithEvaluator(evaluator),
			httpAdapter.WithStartup(fixtures.Startup),
		)

		o, err := createOutliner(sigCtx, opts.Config, logger,
			outliner.WithEvaluator(evaluator),
			outliner.WithLedger(ledger),
			outliner.WithBlobStore(blobs, opts.Config.Server.BlobPrefix),
			outliner.WithLifecycleHooks(createHooks(logger, metrics)),
		)
		if err != nil {
			return err
		}
		defer o.Close()
		if err := o.Start(sigCtx, fixtures.Startup); err != nil {
			logger.Warn("Startup rendered with errors", "err", err)
		}
		// The UI is only driven from here on.
		go func() {
			if err := o.Run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("UI stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    opts.Config.Server.Addr,
		Handler: httpAdapter.NewHandler(serverOpts...),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Output, "Starting outliner server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		printSystemMessage(opts.Output, "Start shutdown... Signal: %v", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		timeout := opts.Config.Server.ShutdownTimeout
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", timeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		printSystemMessage(opts.Output, "Outliner server stopped gracefully")
		return nil
	}
}

// createBlobStore returns the Redis store when an address is configured, and an
// in-memory one otherwise, wrapped in the configured redaction and encryption.
func createBlobStore(cfg config.Config, logger *slog.Logger) (ports.BlobStore, func(), error) {
	mws, err := exportMiddlewares(cfg.Exports)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Redis.Addr == "" {
		return middleware.Chain(memory.NewBlobStore(), mws...), func() {}, nil
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithPrefix(cfg.Redis.Prefix),
		redis.WithTTL(cfg.Redis.TTL),
	)
	logger.Info("Using redis export store", "addr", cfg.Redis.Addr, "encrypted", cfg.Exports.EncryptionKey != "")
	return middleware.Chain(store, mws...), func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close redis", "err", err)
		}
	}, nil
}

// exportMiddlewares redacts before it encrypts.
func exportMiddlewares(cfg config.ExportsConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		redact, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
	}
	active, fallback, err := cfg.Keys()
	if err != nil || active == nil {
		return mws, err
	}
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
	if err != nil {
		return nil, err
	}
	return append(mws, enc), nil
}

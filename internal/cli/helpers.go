// Package cli implements the commands of the outliner binary on top of the library
// and its adapters.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/outliner"
	"github.com/aretw0/outliner/internal/config"
	"github.com/aretw0/outliner/internal/logging"
	httpAdapter "github.com/aretw0/outliner/pkg/adapters/http"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/observability"
	"github.com/aretw0/outliner/pkg/style"
)

// ErrInterrupted is returned by reads cancelled by a signal.
var ErrInterrupted = errors.New("interrupted")

// SignalContext is cancelled by SIGINT or SIGTERM and remembers which one arrived.
type SignalContext struct {
	context.Context
	Cancel func()

	mu     sync.Mutex
	signal os.Signal
}

// NewSignalContext starts watching for signals until parent is done or Cancel is
// called. Unlike signal.NotifyContext it keeps the signal that was received.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			sc.mu.Lock()
			sc.signal = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.signal
}

// InterruptibleReader fails reads with ErrInterrupted once done is closed, so a
// shell blocked on stdin stops at the next line after a signal.
type InterruptibleReader struct {
	r    io.Reader
	done <-chan struct{}
}

// NewInterruptibleReader wraps r.
func NewInterruptibleReader(r io.Reader, done <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{r: r, done: done}
}

func (ir *InterruptibleReader) Read(p []byte) (int, error) {
	if ir.interrupted() {
		return 0, ErrInterrupted
	}
	n, err := ir.r.Read(p)
	if ir.interrupted() {
		return 0, ErrInterrupted
	}
	return n, err
}

func (ir *InterruptibleReader) interrupted() bool {
	select {
	case <-ir.done:
		return true
	default:
		return false
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

// printSystemMessage prints a standardized system message to w.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// createLogger configures the application logger from the configured level.
// Logs go to stderr so they stay out of rendered output.
func createLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// createOutliner initializes an Outliner with the CLI conventions: the configured
// style table, tile URL and root feature, debug hooks on the logger, and the HTTP
// evaluator unless opts supply another one.
func createOutliner(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...outliner.Option) (*outliner.Outliner, error) {
	root, err := cfg.RootFeature()
	if err != nil {
		return nil, err
	}
	styles := style.Default()
	if cfg.Map.Styles != "" {
		if styles, err = style.Load(cfg.Map.Styles); err != nil {
			return nil, fmt.Errorf("failed to load styles: %w", err)
		}
	}

	client := httpAdapter.NewClient(cfg.Evaluator.URL,
		httpAdapter.WithHTTPClient(&http.Client{Timeout: cfg.Evaluator.Timeout}),
		httpAdapter.WithClientLogger(logger),
	)
	base := []outliner.Option{
		outliner.WithEvaluator(client),
		outliner.WithLogger(logger),
		outliner.WithStyles(styles),
		outliner.WithTileURL(cfg.Map.TileURL),
		outliner.WithRoot(root),
	}
	o, err := outliner.New(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing outliner: %w", err)
	}
	return o, nil
}

// createHooks logs the rendering lifecycle at debug level and, when metrics is
// set, counts it.
func createHooks(logger *slog.Logger, metrics *observability.Metrics) domain.LifecycleHooks {
	if metrics == nil {
		return observability.LogHooks(logger)
	}
	return observability.Chain(observability.LogHooks(logger), metrics.Hooks())
}

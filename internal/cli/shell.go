package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/outliner"
	"github.com/aretw0/outliner/internal/config"
	"github.com/aretw0/outliner/internal/presentation/tui"
	"github.com/aretw0/outliner/internal/runtime"
	"github.com/aretw0/outliner/pkg/adapters/bolt"
	"github.com/aretw0/outliner/pkg/adapters/redis"
	"github.com/aretw0/outliner/pkg/ports"
)

// ShellOptions configures the shell command.
type ShellOptions struct {
	Config   config.Config
	Headless bool
	// NoBoot skips fetching the startup payload.
	NoBoot bool

	Input  io.Reader
	Output io.Writer
}

// RunShell evaluates expressions read from the input against the configured
// evaluator, printing each result.
func RunShell(opts ShellOptions) error {
	logger, err := createLogger(opts.Config)
	if err != nil {
		return err
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	interactive := !opts.Headless && isTerminal(opts.Input)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	history, closeHistory, err := createHistoryStore(opts.Config, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	o, err := createOutliner(sigCtx, opts.Config, logger,
		outliner.WithHistoryStore(history),
		outliner.WithLifecycleHooks(createHooks(logger, nil)),
	)
	if err != nil {
		return err
	}
	defer o.Close()

	if interactive {
		tui.PrintBanner(opts.Output, termenv.ColorProfile())
	}
	runner := outliner.NewRunner()
	runner.Input = NewInterruptibleReader(opts.Input, sigCtx.Done())
	runner.Output = opts.Output
	runner.Headless = !interactive
	if interactive {
		width, _, _ := term.GetSize(int(os.Stdout.Fd()))
		render, err := tui.NewRenderer(width)
		if err != nil {
			logger.Warn("Failed to create markdown renderer", "err", err)
		} else {
			runner.Renderer = render
		}
	}

	if !opts.NoBoot {
		if err := boot(sigCtx, o, runner); err != nil {
			logger.Warn("Failed to start session", "err", err)
		}
	}

	runErr := runner.Run(sigCtx, o)
	if sigCtx.Signal() != nil && interactive {
		fmt.Fprintln(opts.Output)
		printSystemMessage(opts.Output, "Interrupted.")
	}
	return handleExecutionError(runErr)
}

// boot applies the startup payload and prints the featured stack it produces.
func boot(ctx context.Context, o *outliner.Outliner, runner *outliner.Runner) error {
	s, err := o.Boot(ctx)
	if s == nil {
		return err
	}
	switch {
	case s.Error != "":
		if stack, ok := o.UI().Stack(runtime.Featured); ok {
			return errors.Join(err, runner.Print(stack))
		}
	case s.Expression != "":
		return errors.Join(err, runner.Await(ctx, o))
	}
	return err
}

// createHistoryStore persists history in bbolt when a path is configured, in Redis
// when an address is, and not at all otherwise.
func createHistoryStore(cfg config.Config, logger *slog.Logger) (ports.HistoryStore, func(), error) {
	switch {
	case cfg.History.Path != "":
		store, err := bolt.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case cfg.Redis.Addr != "":
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		return store, func() { _ = store.Close() }, nil
	}
	logger.Debug("shell history is not persisted")
	return nil, func() {}, nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

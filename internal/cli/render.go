package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/aretw0/outliner"
	"github.com/aretw0/outliner/internal/config"
	"github.com/aretw0/outliner/internal/presentation/graph"
	"github.com/aretw0/outliner/internal/presentation/tui"
	"github.com/aretw0/outliner/pkg/adapters/memory"
	"github.com/aretw0/outliner/pkg/view"
)

// Output formats of the render command.
const (
	FormatTree     = "tree"
	FormatMarkdown = "markdown"
	FormatMermaid  = "mermaid"
)

// RenderOptions configures the render command.
type RenderOptions struct {
	Config config.Config
	// Path of the response to render; "-" or empty reads the input.
	Path   string
	Format string
	// Color decorates tree output for the terminal.
	Color bool

	Input  io.Reader
	Output io.Writer
}

// RunRender renders one response into the featured stack, offline, and writes the
// resulting view.
func RunRender(opts RenderOptions) error {
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

	in := opts.Input
	if opts.Path != "" && opts.Path != "-" {
		f, err := os.Open(opts.Path)
		if err != nil {
			return fmt.Errorf("failed to open response: %w", err)
		}
		defer f.Close()
		in = f
	}
	resp, err := readResponse(in)
	if err != nil {
		return err
	}

	ctx := context.Background()
	m := memory.NewMap()
	o, err := createOutliner(ctx, opts.Config, logger,
		outliner.WithEvaluator(memory.NewEvaluator()),
		outliner.WithMap(m),
		outliner.WithBlobStore(memory.NewBlobStore(), opts.Config.Server.BlobPrefix),
		outliner.WithLifecycleHooks(createHooks(logger, nil)),
	)
	if err != nil {
		return err
	}
	defer o.Close()

	rr, err := o.Featured(ctx, resp)
	if err != nil {
		logger.Warn("Response rendered with errors", "err", err)
	}
	logger.Debug("response rendered",
		"highlights", len(rr.Highlights()), "layers", len(m.Layers()), "export", rr.ExportURL())

	switch opts.Format {
	case "", FormatTree:
		dumpOpts := []view.DumpOption{view.WithPositions()}
		if opts.Color {
			dumpOpts = append(dumpOpts, view.WithDecorator(tui.Selector(termenv.ColorProfile())))
		}
		return view.Dump(opts.Output, rr.Root(), dumpOpts...)
	case FormatMarkdown:
		runner := outliner.NewRunner()
		runner.Output = opts.Output
		return runner.Print(rr.Root())
	case FormatMermaid:
		_, err := fmt.Fprint(opts.Output, graph.GenerateMermaid(rr.Root(), &graph.Overlay{Current: rr.Root().ID()}))
		return err
	}
	return fmt.Errorf("unknown format %q (want %s, %s or %s)", opts.Format, FormatTree, FormatMarkdown, FormatMermaid)
}

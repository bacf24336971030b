package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/outliner/internal/validator"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	// Path of a response, or of a fixture file when Fixtures is set.
	Path     string
	Fixtures bool

	Input  io.Reader
	Output io.Writer
}

// RunValidate checks a response, or every response of a fixture file, against the
// protocol and the default renderers.
func RunValidate(opts ValidateOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fixtures {
		f, err := LoadFixtures(opts.Path)
		if err != nil {
			return err
		}
		if f.Startup != nil {
			if err := validator.ValidateStartup(f.Startup, nil); err != nil {
				return fmt.Errorf("startup: %w", err)
			}
		}
		for expression, r := range f.Expressions {
			if err := validator.ValidateResponse(r, nil); err != nil {
				return fmt.Errorf("expression %q: %w", expression, err)
			}
		}
		printSystemMessage(opts.Output, "%d responses are valid.", len(f.Expressions))
		return nil
	}

	in := opts.Input
	if opts.Path != "" && opts.Path != "-" {
		file, err := os.Open(opts.Path)
		if err != nil {
			return fmt.Errorf("failed to open response: %w", err)
		}
		defer file.Close()
		in = file
	}
	if in == nil {
		in = os.Stdin
	}
	r, err := readResponse(in)
	if err != nil {
		return err
	}
	if err := validator.ValidateResponse(r, nil); err != nil {
		return err
	}
	printSystemMessage(opts.Output, "Response is valid.")
	return nil
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/outliner/internal/cli"
)

var renderCmd = &cobra.Command{
	Use:   "render [response.json]",
	Short: "Render a response offline",
	Long: `Renders one response, read from a file or from stdin, into the featured stack and
prints the resulting view as a tree, as markdown or as a Mermaid diagram.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		return cli.RunRender(cli.RenderOptions{
			Config: cfg,
			Path:   path,
			Format: format,
			Color:  term.IsTerminal(int(os.Stdout.Fd())),
			Input:  cmd.InOrStdin(),
			Output: cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("format", "f", cli.FormatTree, "Output format: tree, markdown or mermaid")
}

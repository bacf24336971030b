package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/outliner/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [response.json]",
	Short: "Check a response against the protocol",
	Long: `Reports malformed lines and atoms, variants no renderer handles and invalid
embedded GeoJSON. With --fixtures the argument is a fixture file and every response
in it is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, _ := cmd.Flags().GetBool("fixtures")
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		return cli.RunValidate(cli.ValidateOptions{
			Path:     path,
			Fixtures: fixtures,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("fixtures", false, "Treat the argument as a fixture file")
}

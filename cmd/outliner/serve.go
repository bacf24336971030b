package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/outliner/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves exported GeoJSON, the highlight ledger and Prometheus metrics. With
--fixtures it also answers evaluations from a fixture file and renders its startup
payload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, _ := cmd.Flags().GetString("fixtures")
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		return cli.RunServe(cli.ServeOptions{
			Config:   cfg,
			Fixtures: fixtures,
			Output:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config)")
	serveCmd.Flags().String("fixtures", "", "YAML or JSON file of canned responses")
}

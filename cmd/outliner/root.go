package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/outliner/internal/config"
)

// cfg is loaded before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "outliner",
	Short: "Outliner renders evaluation results as interactive stacks on a map",
	Long: `Outliner binds response trees from an evaluation server to stacks of lines,
keeping highlights, map layers and exports in step with what is shown.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("evaluator") {
			loaded.Evaluator.URL, _ = cmd.Flags().GetString("evaluator")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("evaluator", "", "Base URL of the evaluation server")
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/outliner/internal/cli"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Evaluate expressions interactively",
	Long: `Starts a session against the evaluation server and evaluates each line typed
into the console, printing the featured stack it produces.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		noBoot, _ := cmd.Flags().GetBool("no-startup")
		if path, _ := cmd.Flags().GetString("history"); path != "" {
			cfg.History.Path = path
		}
		return cli.RunShell(cli.ShellOptions{
			Config:   cfg,
			Headless: headless,
			NoBoot:   noBoot,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().Bool("headless", false, "No banner, prompts or styling")
	shellCmd.Flags().Bool("no-startup", false, "Do not fetch the startup payload")
	shellCmd.Flags().String("history", "", "Path of the history database")

	// Make 'shell' the default if no command is provided.
	rootCmd.RunE = shellCmd.RunE
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/outliner"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of outliner",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "outliner version %s\n", strings.TrimSpace(outliner.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

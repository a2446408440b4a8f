package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sectionkit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sectionkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sectionkit version %s\n", strings.TrimSpace(sectionkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

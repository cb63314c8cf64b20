package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lcm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lcm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lcm version %s\n", strings.TrimSpace(lcm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

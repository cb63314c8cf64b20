package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lcm/internal/cli"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List available modes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		opts.Store = cli.StoreMemory
		opts.JSON, _ = cmd.Flags().GetBool("json")

		app, err := cli.NewApp(opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer app.Close()

		_, err = app.Engine.Perform(cmd.Context(), "modes", nil)
		return err
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
	modesCmd.Flags().Bool("json", false, "Report as JSON Lines instead of a table")
}

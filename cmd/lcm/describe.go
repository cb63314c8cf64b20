package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/lcm/internal/cli"
)

var describeCmd = &cobra.Command{
	Use:   "describe <mode>",
	Short: "Describe a mode's bricks and their parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		opts.Store = cli.StoreMemory
		plain, _ := cmd.Flags().GetBool("plain")

		app, err := cli.NewApp(opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer app.Close()

		styled := !plain && term.IsTerminal(int(os.Stdout.Fd()))
		return cli.Describe(cmd.OutOrStdout(), app.Engine.Registry(), args[0], styled)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("plain", false, "Print raw markdown")
}

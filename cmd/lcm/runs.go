package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lcm/internal/cli"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded runs",
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return cli.ListRuns(cmd.Context(), cmd.OutOrStdout(), app.Store)
		})
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return cli.InspectRun(cmd.Context(), cmd.OutOrStdout(), app.Store, args[0])
		})
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove recorded runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return cli.RemoveRuns(cmd.Context(), cmd.OutOrStdout(), app.Store, args)
		})
	},
}

func withApp(cmd *cobra.Command, fn func(*cli.App) error) error {
	app, err := cli.NewApp(optionsFromFlags(cmd), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd, runsInspectCmd, runsRmCmd)
}

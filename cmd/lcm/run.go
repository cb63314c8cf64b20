package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/lcm"
	"github.com/aretw0/lcm/internal/cli"
	"github.com/aretw0/lcm/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <mode>",
	Short: "Run a mode",
	Long: `Runs every brick of the mode in order, threading the parameter context
through them. Each brick's records are printed as it finishes and again in the
final summary. The run is recorded in the run store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Lock, _ = cmd.Flags().GetBool("lock")
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
		paramsPath, _ := cmd.Flags().GetString("params")
		inline, _ := cmd.Flags().GetString("params-json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		params, err := cli.LoadParams(paramsPath, inline)
		if err != nil {
			return err
		}

		app, err := cli.NewApp(opts, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer app.Close()

		if !quiet && !opts.JSON && term.IsTerminal(int(os.Stderr.Fd())) {
			tui.PrintBanner(os.Stderr, lcm.Version, term.IsTerminal(int(os.Stdout.Fd())))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.RunMode(ctx, app, args[0], params, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("params", "", "Params file (.json, .yaml or .hcl)")
	runCmd.Flags().String("params-json", "", "Inline params as a JSON object; keys override --params")
	runCmd.Flags().Bool("json", false, "Report as JSON Lines instead of tables")
	runCmd.Flags().Duration("timeout", 0, "Cancel the run after this duration (0 disables)")
	runCmd.Flags().Bool("lock", false, "Hold a distributed lock on the mode while running (needs --store redis)")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/lcm/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes modes and runs as a JSON API over HTTP, with Prometheus metrics on
/metrics and lifecycle events as Server-Sent Events on /events.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		opts.Lock, _ = cmd.Flags().GetBool("lock")
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
		addr, _ := cmd.Flags().GetString("addr")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, opts, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Duration("timeout", 0, "Cancel each run after this duration (0 disables)")
	serveCmd.Flags().Bool("lock", false, "Serialize runs of a mode with a distributed lock (needs --store redis)")
}

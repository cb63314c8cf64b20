package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lcm/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "lcm",
	Short: "lcm runs lifecycle management pipelines",
	Long: `lcm executes named modes: ordered pipelines of bricks that share a
parameter context. Platform bricks are bound to local commands in a bricks file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	defaults := cli.DefaultOptions()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("bricks", defaults.BricksPath, "Bricks file binding platform bricks to commands")
	rootCmd.PersistentFlags().String("store", defaults.Store, "Run store: file, memory or redis")
	rootCmd.PersistentFlags().String("store-path", defaults.StorePath, "Directory of the file run store")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for --store redis (or "+cli.EnvRedisURL+")")
	rootCmd.PersistentFlags().StringSlice("redact", defaults.Redact, "Patterns of param names masked in stored runs")
}

// optionsFromFlags reads the persistent flags into cli.Options.
func optionsFromFlags(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	opts := cli.DefaultOptions()
	opts.Debug, _ = flags.GetBool("debug")
	opts.BricksPath, _ = flags.GetString("bricks")
	opts.Store, _ = flags.GetString("store")
	opts.StorePath, _ = flags.GetString("store-path")
	opts.RedisURL, _ = flags.GetString("redis-url")
	opts.Redact, _ = flags.GetStringSlice("redact")
	return opts
}

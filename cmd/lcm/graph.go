package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lcm/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <mode>",
	Short: "Export the mode pipeline visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the mode's bricks in execution order.
With --run, the bricks completed by that run are highlighted, and the brick it
failed on is marked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run")

		app, err := cli.NewApp(optionsFromFlags(cmd), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.Graph(cmd.Context(), cmd.OutOrStdout(), app.Engine.Registry(), app.Store, args[0], runID)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("run", "", "Overlay the progress of this stored run")
}

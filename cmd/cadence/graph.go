package main

import (
	"fmt"

	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <trigger>",
	Short: "Export a trigger's transitions as a Mermaid diagram",
	Long: `Reads a trigger definition and outputs a Mermaid flowchart (graph LR) with one node per state
and one edge per state pair each transition matches.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.NewSession(options(cmd, ""))
		if err != nil {
			return err
		}
		loader := s.Engine.Loader()
		if loader == nil {
			return cli.ErrNoDefinitions
		}
		def, err := loader.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if def.Trigger == nil {
			return fmt.Errorf("%s is not a trigger definition", args[0])
		}

		var overlay *graph.GraphOverlay
		visited, _ := cmd.Flags().GetStringSlice("visited")
		current, _ := cmd.Flags().GetString("current")
		if len(visited) > 0 || current != "" {
			overlay = &graph.GraphOverlay{VisitedStates: visited, CurrentState: current}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(def.Trigger, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("visited", nil, "States to highlight as visited")
	graphCmd.Flags().String("current", "", "State to highlight as current")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/itnav/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the decision tree visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the committed tree, or its vertices and
edges as JSON. Missing targets are drawn as their own highlighted vertices.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(context.Background(), cmd)
		if err != nil {
			return fmt.Errorf("failed to init guide: %w", err)
		}
		defer a.Close()

		categoryID, _ := cmd.Flags().GetString("category")
		format, _ := cmd.Flags().GetString("format")
		state := a.guide.Committed()

		switch format {
		case "mermaid":
			fmt.Print(graph.Mermaid(state, categoryID, nil))
		case "json":
			data, err := json.MarshalIndent(graph.Build(state, categoryID), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal graph: %w", err)
			}
			fmt.Println(string(data))
		default:
			return fmt.Errorf("unknown format: %s. Supported: mermaid, json", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("category", "c", "", "Only draw the nodes reachable from this category")
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: 'mermaid' or 'json'")
}

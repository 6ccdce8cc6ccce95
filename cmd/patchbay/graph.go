package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexislab/patchbay/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <name>",
	Short: "Export a graph visualization",
	Long:  `Loads the named definition and outputs a Mermaid diagram (graph TD) of its wiring, or the raw topology as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		opts := cli.GraphOptions{
			Options: globalOptions(cmd),
			Name:    args[0],
			JSON:    jsonMode,
		}
		if err := cli.Graph(cmd.Context(), opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Bool("json", false, "Output the topology as JSON instead of Mermaid")
}

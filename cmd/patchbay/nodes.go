package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexislab/patchbay/internal/cli"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the built-in node kinds",
	Long:  `Prints every registered node kind with its input and output ports, grouped by module.`,
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		if err := cli.Nodes(cli.NodesOptions{JSON: jsonMode}); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)

	nodesCmd.Flags().Bool("json", false, "Output the catalog as JSON")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexislab/patchbay/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Instantiate a graph and drive execution passes",
	Long: `Compiles the named definition, creates an instance and runs it. Use
--mark to dirty a node before each pass, or --event to broadcast an
event instead of marking. Prints an execution summary at the end.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		passes, _ := cmd.Flags().GetInt("passes")
		mark, _ := cmd.Flags().GetString("mark")
		event, _ := cmd.Flags().GetString("event")

		opts := cli.RunOptions{
			Options: globalOptions(cmd),
			Name:    args[0],
			Passes:  passes,
			Mark:    mark,
			Event:   event,
		}
		if opts.LogLevel == "" {
			opts.LogLevel = "info"
		}
		if err := cli.Run(cmd.Context(), opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("passes", "n", 1, "Number of execution passes to run")
	runCmd.Flags().String("mark", "", "Node to mark dirty before each pass")
	runCmd.Flags().String("event", "", "Broadcast this event instead of marking a node")
}

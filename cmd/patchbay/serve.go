package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexislab/patchbay/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the graph inspection server",
	Long: `Starts the HTTP server exposing the definition source as a JSON API:
graph listings, topologies, Mermaid exports and execution stats. The
source is watched for changes where the backend supports it.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")

		opts := cli.ServeOptions{
			Options: globalOptions(cmd),
			Addr:    addr,
		}
		if opts.LogLevel == "" {
			opts.LogLevel = "info"
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, opts); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}

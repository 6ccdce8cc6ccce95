package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexislab/patchbay/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "patchbay",
	Short: "Patchbay is a node graph execution engine",
	Long: `Patchbay compiles graph definitions into executable instances and
re-evaluates only the nodes whose inputs changed. Definitions are read
from a directory of YAML or HCL files, or from a Redis database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands), with PATCHBAY_*
	// environment fallbacks
	rootCmd.PersistentFlags().String("dir", envOr("PATCHBAY_DIR", "."), "Directory containing the graph definitions")
	rootCmd.PersistentFlags().String("format", envOr("PATCHBAY_FORMAT", "yaml"), "Definition file format (yaml or hcl)")
	rootCmd.PersistentFlags().String("redis", os.Getenv("PATCHBAY_REDIS"), "Redis address to load definitions from instead of --dir")
	rootCmd.PersistentFlags().String("log-level", os.Getenv("PATCHBAY_LOG_LEVEL"), "Log level (debug, info, warn, error)")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// globalOptions collects the persistent flag values for the command flows.
func globalOptions(cmd *cobra.Command) cli.Options {
	dir, _ := cmd.Flags().GetString("dir")
	format, _ := cmd.Flags().GetString("format")
	redis, _ := cmd.Flags().GetString("redis")
	level, _ := cmd.Flags().GetString("log-level")
	return cli.Options{Dir: dir, Format: format, Redis: redis, LogLevel: level}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexislab/patchbay/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Check graph definitions for consistency",
	Long: `Compiles every definition in the source (or just the named one) and
reports unknown kinds, bad wires and type mismatches.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.ValidateOptions{Options: globalOptions(cmd)}
		if len(args) > 0 {
			opts.Name = args[0]
		}
		if err := cli.Validate(cmd.Context(), opts); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

package cli

import (
	"context"
	"fmt"

	"github.com/hexislab/patchbay/internal/presentation/tui"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	Options
	Name string // empty validates every stored definition
}

// Validate checks definitions against the built-in kinds and prints one
// result line per definition. It returns an error when any fail.
func Validate(ctx context.Context, opts ValidateOptions) error {
	log, err := CreateLogger(opts.LogLevel, false)
	if err != nil {
		return err
	}
	eng, err := NewEngine(opts.Options, log)
	if err != nil {
		return err
	}
	defer closeAny(eng.Source(), log)

	names := []string{opts.Name}
	if opts.Name == "" {
		names, err = eng.Source().List(ctx)
		if err != nil {
			return fmt.Errorf("listing definitions: %w", err)
		}
		if len(names) == 0 {
			printSystemMessage("No definitions found.")
			return nil
		}
	}

	styles := tui.NewStyles()
	failed := 0
	for _, name := range names {
		if err := eng.Validate(ctx, name); err != nil {
			failed++
			fmt.Printf("%s  %s\n", styles.Failure("FAIL"), name)
			fmt.Printf("      %s\n", styles.Dim(err.Error()))
			continue
		}
		fmt.Printf("%s    %s\n", styles.Success("ok"), name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d definitions failed validation", failed, len(names))
	}
	printSystemMessage("All %d definitions are valid.", len(names))
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hexislab/patchbay/internal/dto"
	presentation "github.com/hexislab/patchbay/internal/presentation/graph"
)

// GraphOptions configures the graph command.
type GraphOptions struct {
	Options
	Name string
	JSON bool
}

// Graph prints the named definition's topology to stdout: a Mermaid
// flowchart by default, the wire DTO with --json.
func Graph(ctx context.Context, opts GraphOptions) error {
	log, err := CreateLogger(opts.LogLevel, false)
	if err != nil {
		return err
	}
	source, err := NewSource(opts.Options)
	if err != nil {
		return err
	}
	defer closeAny(source, log)

	def, err := source.Load(ctx, opts.Name)
	if err != nil {
		return fmt.Errorf("loading %q: %w", opts.Name, err)
	}

	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.FromDefinition(def))
	}
	fmt.Print(presentation.Mermaid(def))
	return nil
}

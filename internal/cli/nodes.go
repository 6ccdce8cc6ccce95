package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hexislab/patchbay"
	"github.com/hexislab/patchbay/internal/dto"
	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/internal/presentation/tui"
	"github.com/hexislab/patchbay/pkg/graph"
)

// NodesOptions configures the nodes command.
type NodesOptions struct {
	JSON bool
}

// Nodes prints the catalog of built-in node kinds grouped by module.
func Nodes(opts NodesOptions) error {
	eng, err := patchbay.New(
		patchbay.WithStdNodes(),
		patchbay.WithLogger(logging.NewNop()),
	)
	if err != nil {
		return err
	}

	if opts.JSON {
		var kinds []dto.Kind
		for _, mod := range eng.Modules() {
			for _, sig := range mod.Signatures() {
				kinds = append(kinds, dto.FromSignature(sig))
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(kinds)
	}

	styles := tui.NewStyles()
	for _, mod := range eng.Modules() {
		fmt.Println(styles.Heading(mod.Name()))
		for _, sig := range mod.Signatures() {
			fmt.Printf("  %s%s\n", sig.Name(), styles.Dim(describePorts(sig)))
		}
		fmt.Println()
	}
	return nil
}

// describePorts renders a signature's ports as a compact one-liner, e.g.
// "(a int, b int) -> (result bool)".
func describePorts(sig *graph.Signature) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(joinPorts(sig.Inputs()))
	sb.WriteString(")")
	if outs := sig.Outputs(); len(outs) > 0 {
		sb.WriteString(" -> (")
		sb.WriteString(joinPorts(outs))
		sb.WriteString(")")
	}
	for _, l := range sig.Listeners() {
		fmt.Fprintf(&sb, " listens %s", l.Event.Name())
	}
	return sb.String()
}

func joinPorts(ports []graph.Port) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		if p.Name == "" {
			parts[i] = p.Type.Name()
			continue
		}
		parts[i] = p.Name + " " + p.Type.Name()
	}
	return strings.Join(parts, ", ")
}

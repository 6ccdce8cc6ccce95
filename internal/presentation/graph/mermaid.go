package graph

import (
	"fmt"
	"strings"

	"github.com/hexislab/patchbay/pkg/graphdef"
)

// Mermaid renders a definition as a Mermaid flowchart.
// Shapes follow the node's role in the topology:
// - Source (no wired inputs): ((Circle))
// - Sink (no consumer): [[Subroutine]]
// - Default: [Rectangle]
// Wired inputs draw arrows labeled with the source output name when the
// definition names one.
func Mermaid(def *graphdef.Definition) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	consumed := make(map[string]bool)
	for _, n := range def.Nodes {
		for _, in := range n.Inputs {
			if in.Node != "" {
				consumed[in.Node] = true
			}
		}
	}

	for _, n := range def.Nodes {
		safeID := sanitizeMermaidID(n.Name)

		opener, closer := "[", "]"
		switch {
		case !hasWiredInput(n):
			opener, closer = "((", "))"
		case !consumed[n.Name]:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", safeID, opener, n.Name, n.Kind, closer))

		for _, in := range n.Inputs {
			if in.Node == "" {
				continue
			}
			arrow := "-->"
			if in.Output != "" {
				// Escape double quotes in the output name for Mermaid labels
				safeOutput := strings.ReplaceAll(in.Output, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", safeOutput)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(in.Node), arrow, safeID))
		}
	}

	return sb.String()
}

func hasWiredInput(n graphdef.NodeDef) bool {
	for _, in := range n.Inputs {
		if in.Node != "" {
			return true
		}
	}
	return false
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

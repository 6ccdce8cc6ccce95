package graphdef

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the definition's structure: names present and unique,
// kinds well-formed, every input entry in exactly one form, and every
// referenced node defined. It accumulates and reports all defects at
// once. Port existence and edge types are checked later, at compile time,
// against the node registry.
func (d *Definition) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("definition has no name"))
	}
	if len(d.Nodes) == 0 {
		errs = append(errs, errors.New("definition has no nodes"))
	}

	names := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		where := fmt.Sprintf("node %q", n.Name)
		if n.Name == "" {
			where = fmt.Sprintf("node #%d", i)
			errs = append(errs, fmt.Errorf("%s has no name", where))
		} else if names[n.Name] {
			errs = append(errs, fmt.Errorf("%s defined twice", where))
		}
		names[n.Name] = true

		if n.Kind == "" {
			errs = append(errs, fmt.Errorf("%s has no kind", where))
		} else if !strings.Contains(n.Kind, ".") {
			errs = append(errs, fmt.Errorf("%s kind %q is not of the form \"module.node\"", where, n.Kind))
		}
	}

	for _, n := range d.Nodes {
		for i, in := range n.Inputs {
			where := fmt.Sprintf("node %q input %d", n.Name, i)
			switch {
			case in.Node != "" && in.Value != nil:
				errs = append(errs, fmt.Errorf("%s has both a source node and a value", where))
			case in.Node == "" && in.Output != "":
				errs = append(errs, fmt.Errorf("%s names an output without a source node", where))
			case in.Node != "" && !names[in.Node]:
				errs = append(errs, fmt.Errorf("%s refers to undefined node %q", where, in.Node))
			case in.Value != nil && *in.Value == nil:
				errs = append(errs, fmt.Errorf("%s has a null value", where))
			}
		}
	}

	return errors.Join(errs...)
}

// Package cli holds the command flows behind cmd/patchbay: engine
// assembly from the global flags, and one function per subcommand.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hexislab/patchbay"
	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/adapters/hclfile"
	"github.com/hexislab/patchbay/pkg/adapters/redisdef"
	"github.com/hexislab/patchbay/pkg/adapters/yamlfile"
	"github.com/hexislab/patchbay/pkg/ports"
)

// Options carries the global flag values every command shares.
type Options struct {
	Dir      string
	Format   string
	Redis    string
	LogLevel string
}

// CreateLogger configures the application logger from --log-level.
// Interactive commands get the text handler on stderr; pass server for
// JSON lines.
func CreateLogger(level string, server bool) (*slog.Logger, error) {
	lv, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if server {
		return logging.NewJSON(lv), nil
	}
	return logging.New(lv), nil
}

// NewSource selects the definition source: a Redis address wins over the
// directory formats.
func NewSource(opts Options) (ports.Source, error) {
	if opts.Redis != "" {
		return redisdef.New(opts.Redis, "", 0), nil
	}
	switch opts.Format {
	case "", "yaml":
		return yamlfile.New(opts.Dir), nil
	case "hcl":
		return hclfile.New(opts.Dir), nil
	default:
		return nil, fmt.Errorf("unknown definition format %q (want yaml or hcl)", opts.Format)
	}
}

// NewEngine assembles the standard CLI engine: the built-in kinds
// installed over the source the flags select.
func NewEngine(opts Options, log *slog.Logger) (*patchbay.Engine, error) {
	source, err := NewSource(opts)
	if err != nil {
		return nil, err
	}
	return patchbay.New(
		patchbay.WithLogger(log),
		patchbay.WithStdNodes(),
		patchbay.WithSource(source),
	)
}

// closeAny releases a definition source when it holds connections.
func closeAny(source ports.Source, log *slog.Logger) {
	if c, ok := source.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn("source close failed", "err", err)
		}
	}
}

// Package yamlfile stores graph definitions as YAML files in a directory.
// The file name stem is the definition name: counter.yaml holds "counter".
package yamlfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
)

var extensions = []string{".yaml", ".yml"}

// Store implements ports.Source, ports.Publisher and ports.Watcher over a
// directory of YAML files. Watching polls the directory, which keeps the
// adapter dependency-free and is plenty for dev-mode reload.
type Store struct {
	dir      string
	log      *slog.Logger
	interval time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes watch-loop diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithPollInterval sets how often Watch scans the directory.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a store over dir. The directory must exist for loads to
// succeed; Publish creates files inside it.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:      dir,
		log:      logging.NewNop(),
		interval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and decodes the definition stored under name.
func (s *Store) Load(ctx context.Context, name string) (*graphdef.Definition, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	for _, ext := range extensions {
		data, err := os.ReadFile(filepath.Join(s.dir, name+ext))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("yamlfile: read %q: %w", name, err)
		}

		var def graphdef.Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("yamlfile: parse %q: %w", name, err)
		}
		if def.Name == "" {
			def.Name = name
		} else if def.Name != name {
			return nil, fmt.Errorf("yamlfile: file %q declares name %q", name+ext, def.Name)
		}
		return &def, nil
	}
	return nil, fmt.Errorf("yamlfile: %q: %w", name, ports.ErrDefinitionNotFound)
}

// List returns the definition names present in the directory, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("yamlfile: list %q: %w", s.dir, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Publish writes def to <dir>/<name>.yaml, replacing any previous file.
func (s *Store) Publish(ctx context.Context, def *graphdef.Definition) error {
	if err := checkName(def.Name); err != nil {
		return err
	}

	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("yamlfile: encode %q: %w", def.Name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, def.Name+".yaml"), data, 0o644); err != nil {
		return fmt.Errorf("yamlfile: write %q: %w", def.Name, err)
	}
	return nil
}

// Remove deletes the file holding name.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.dir, name+ext))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("yamlfile: remove %q: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("yamlfile: %q: %w", name, ports.ErrDefinitionNotFound)
}

// Watch polls the directory and signals whenever a definition file is
// added, removed, or modified. The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	last, err := s.fingerprint()
	if err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			next, err := s.fingerprint()
			if err != nil {
				s.log.Warn("definition directory scan failed", "dir", s.dir, "err", err)
				continue
			}
			if changed(last, next) {
				last = next
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

// fingerprint captures each definition file's size and mtime.
func (s *Store) fingerprint() (map[string]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("yamlfile: scan %q: %w", s.dir, err)
	}

	fp := make(map[string]string)
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		fp[e.Name()] = fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano())
	}
	return fp, nil
}

func changed(a, b map[string]string) bool {
	if len(a) != len(b) {
		return true
	}
	for k, v := range a {
		if b[k] != v {
			return true
		}
	}
	return false
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("yamlfile: empty definition name")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("yamlfile: definition name %q must not contain path elements", name)
	}
	return nil
}

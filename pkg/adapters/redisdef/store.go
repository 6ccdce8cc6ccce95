// Package redisdef stores graph definitions in Redis as JSON values with a
// membership set for listing and a pub/sub channel for change notification.
// Payloads can optionally be sealed with AES-GCM before they leave the
// process.
package redisdef

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	backend "github.com/redis/go-redis/v9"

	"github.com/hexislab/patchbay/internal/logging"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/ports"
)

// Store implements ports.Source, ports.Publisher and ports.Watcher on a
// Redis client.
type Store struct {
	client *backend.Client
	prefix string
	log    *slog.Logger

	cipherKey    []byte
	fallbackKeys [][]byte
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for definitions. Default "patchbay:def:".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLogger routes notification diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithCipherKey seals stored payloads with AES-256-GCM. The key must be
// 32 bytes. Previous keys may be supplied so definitions sealed before a
// rotation still load; new writes always use the active key.
func WithCipherKey(key []byte, previous ...[]byte) Option {
	if len(key) != 32 {
		panic("redisdef: cipher key must be 32 bytes (AES-256)")
	}
	for _, p := range previous {
		if len(p) != 32 {
			panic("redisdef: fallback cipher key must be 32 bytes (AES-256)")
		}
	}
	return func(s *Store) {
		s.cipherKey = key
		s.fallbackKeys = previous
	}
}

// New creates a store with its own Redis client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "patchbay:def:",
		log:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) channel() string {
	return s.prefix + "events"
}

// Load retrieves and decodes the definition stored under name.
func (s *Store) Load(ctx context.Context, name string) (*graphdef.Definition, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err == backend.Nil {
		return nil, fmt.Errorf("redisdef: %q: %w", name, ports.ErrDefinitionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redisdef: get %q: %w", name, err)
	}

	data, err := s.open([]byte(val))
	if err != nil {
		return nil, fmt.Errorf("redisdef: %q: %w", name, err)
	}

	var def graphdef.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("redisdef: decode %q: %w", name, err)
	}
	return &def, nil
}

// List returns the names in the membership set, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redisdef: list: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Publish stores def and announces the change on the pub/sub channel.
func (s *Store) Publish(ctx context.Context, def *graphdef.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("redisdef: empty definition name")
	}

	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("redisdef: encode %q: %w", def.Name, err)
	}
	payload, err := s.seal(data)
	if err != nil {
		return fmt.Errorf("redisdef: seal %q: %w", def.Name, err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(def.Name), payload, 0)
	pipe.SAdd(ctx, s.indexKey(), def.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisdef: store %q: %w", def.Name, err)
	}

	s.announce(ctx, def.Name)
	return nil
}

// Remove deletes the definition stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	del := pipe.Del(ctx, s.key(name))
	pipe.SRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisdef: remove %q: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("redisdef: %q: %w", name, ports.ErrDefinitionNotFound)
	}

	s.announce(ctx, name)
	return nil
}

// Watch subscribes to the change channel and signals on every publish or
// removal, from this store or any other process sharing the prefix. The
// channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("redisdef: subscribe: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// announce is best effort: the write already succeeded, a missed
// notification only delays watchers until their next reload.
func (s *Store) announce(ctx context.Context, name string) {
	if err := s.client.Publish(ctx, s.channel(), name).Err(); err != nil {
		s.log.Warn("definition change notification failed", "definition", name, "err", err)
	}
}

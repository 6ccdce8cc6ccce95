package redisdef_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexislab/patchbay/pkg/adapters/redisdef"
	"github.com/hexislab/patchbay/pkg/ports/tests"
)

func newTestStore(t *testing.T, opts ...redisdef.Option) (*redisdef.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redisdef.NewFromClient(client, opts...)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStoreContract(t *testing.T) {
	store, _ := newTestStore(t)
	tests.RunSourceContract(t, store, store)
}

func TestStorePrefix(t *testing.T) {
	store, mr := newTestStore(t, redisdef.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Publish(ctx, tests.ContractDefinition("counter")))

	assert.True(t, mr.Exists("custom:app:counter"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "counter")
}

func TestStoreWatch(t *testing.T) {
	store, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Publish(ctx, tests.ContractDefinition("watched")))

	select {
	case _, ok := <-ch:
		require.True(t, ok, "watch channel closed before reporting the change")
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not report the published definition")
	}

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel did not close after cancellation")
	}
}

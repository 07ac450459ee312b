package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "state.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Get(ctx, "products")
			require.NoError(t, err)
			require.False(t, found, "expected absent key")

			require.NoError(t, store.Set(ctx, "products", `[{"id":"1"}]`))

			value, found, err := store.Get(ctx, "products")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, `[{"id":"1"}]`, value)

			require.NoError(t, store.Set(ctx, "products", `[]`))
			value, found, err = store.Get(ctx, "products")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, `[]`, value, "set must overwrite")

			require.NoError(t, store.Delete(ctx, "products"))
			_, found, err = store.Get(ctx, "products")
			require.NoError(t, err)
			require.False(t, found, "expected deleted key to be absent")

			require.NoError(t, store.Delete(ctx, "products"), "deleting an absent key is a no-op")
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeySession, `{"id":"1"}`))

	second, err := OpenFile(path)
	require.NoError(t, err)

	value, found, err := second.Get(ctx, KeySession)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `{"id":"1"}`, value)
}

func TestFileStoreStartsEmptyOnGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := OpenFile(path)
	require.NoError(t, err)

	_, found, err := store.Get(context.Background(), KeyUsers)
	require.NoError(t, err)
	require.False(t, found)
}

func TestCartKey(t *testing.T) {
	require.Equal(t, "cart_42", CartKey("42"))
}

func TestRedisNamespacedKey(t *testing.T) {
	require.Equal(t, "sorvetes:products", NamespacedKey("products"))
}

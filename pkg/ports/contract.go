package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/itnav/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract. Stores implementing Lister are
// checked for it too.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		value := []byte(`{"categories":[],"nodes":{}}`)
		require.NoError(t, store.Save(ctx, key, value), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, value, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, []byte("first")))
		require.NoError(t, store.Save(ctx, key, []byte("second")))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", string(loaded))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, []byte("x")))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")

		assert.NoError(t, store.Delete(ctx, key), "deleting twice is not an error")
	})

	lister, ok := store.(Lister)
	if !ok {
		return
	}

	t.Run("List", func(t *testing.T) {
		k1 := "walk:" + key + "-1"
		k2 := "walk:" + key + "-2"
		require.NoError(t, store.Save(ctx, k1, []byte("1")))
		require.NoError(t, store.Save(ctx, k2, []byte("2")))
		require.NoError(t, store.Save(ctx, "other:"+key, []byte("3")))

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
			_ = store.Delete(ctx, "other:"+key)
		}()

		keys, err := lister.List(ctx, "walk:"+key)
		require.NoError(t, err)
		assert.Equal(t, []string{k1, k2}, keys)
	})
}

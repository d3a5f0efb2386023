package file_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/itnav/internal/adapters/file"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "walk:a/b", []byte("x")))
	_, err := os.Stat(filepath.Join(dir, "walk%3Aa%2Fb.json"))
	assert.NoError(t, err)

	keys, err := store.List(ctx, "walk:")
	require.NoError(t, err)
	assert.Equal(t, []string{"walk:a/b"}, keys)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	keys, err := file.New(filepath.Join(t.TempDir(), "nope")).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStore_EmptyKey(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()
	assert.Error(t, store.Save(ctx, "", nil))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, ""))
}

func TestFileStore_Watch(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	// A write from another process.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coop_it_nav_app_state_v3.json"), []byte("{}"), 0644))

	select {
	case key := <-ch:
		assert.Equal(t, "coop_it_nav_app_state_v3", key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}
}

func TestFileStore_OverwriteKeepsKeyReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("overwrite removes the destination first on windows")
	}
	store := file.New(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "state", []byte("v0")))

	done := make(chan struct{})
	var misses int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, err := store.Load(ctx, "state"); errors.Is(err, domain.ErrNotFound) {
				misses++
			}
		}
	}()

	for i := 1; i <= 200; i++ {
		require.NoError(t, store.Save(ctx, "state", []byte(fmt.Sprintf("v%d", i))))
	}
	close(done)
	wg.Wait()

	assert.Zero(t, misses, "readers must never see the key missing during an overwrite")
	got, err := store.Load(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "v200", string(got))
}

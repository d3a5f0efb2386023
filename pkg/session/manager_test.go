package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/itnav/pkg/adapters/memory"
	"github.com/aretw0/itnav/pkg/adapters/redis"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency so a missing lock would lose updates.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, key)
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	manager := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(w domain.Walk) (domain.Walk, error) {
				w.History = append(w.History, "n")
				return w, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	w, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, w.History, 10)
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Load(ctx, "fresh")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	w, err := manager.LoadOrStart(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, w.IsIdle())

	require.NoError(t, manager.Save(ctx, "fresh", domain.Walk{CategoryID: "c1", History: []string{"n1"}}))
	w, err = manager.LoadOrStart(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "n1", w.Tip())

	rec, err := manager.Inspect(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", rec.ID)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestManager_ListAndDelete(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "coop_it_nav_admin_pw", []byte("0000")))
	require.NoError(t, manager.Save(ctx, "b", domain.Walk{}))
	require.NoError(t, manager.Save(ctx, "a", domain.Walk{}))

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, manager.Delete(ctx, "a"))
	ids, err = manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestManager_UpdateErrorDoesNotSave(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Update(ctx, "x", func(w domain.Walk) (domain.Walk, error) {
		return w, domain.ErrIllegalAction
	})
	assert.ErrorIs(t, err, domain.ErrIllegalAction)

	_, err = manager.Load(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DistributedLocker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)
	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, "test:")),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, "s1", domain.Walk{CategoryID: "c1", History: []string{"n1"}}))
	w, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "n1", w.Tip())
	assert.False(t, mr.Exists("test:lock:walk:s1"), "lock must be released")
}

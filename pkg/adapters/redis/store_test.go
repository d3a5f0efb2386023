package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/itnav/pkg/adapters/redis"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))

	require.NoError(t, store.Save(context.Background(), "coop_it_nav_admin_pw", []byte("0000")))
	assert.True(t, mr.Exists("test:coop_it_nav_admin_pw"))

	got, err := mr.Get("test:coop_it_nav_admin_pw")
	require.NoError(t, err)
	assert.Equal(t, "0000", got)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "walk:abc", []byte(`{"history":["n1"]}`)))

	keys, err := store.List(ctx, "walk:")
	require.NoError(t, err)
	assert.Equal(t, []string{"walk:abc"}, keys)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "walk:abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_Watch(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "coop_it_nav_app_state_v3", []byte("{}")))

	select {
	case key := <-ch:
		assert.Equal(t, "coop_it_nav_app_state_v3", key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
}

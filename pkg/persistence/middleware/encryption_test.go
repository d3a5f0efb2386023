package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/aretw0/itnav/pkg/adapters/memory"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/persistence/middleware"
	"github.com/aretw0/itnav/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	require.NoError(t, secureStore.Save(ctx, "admin_pw", []byte("my-secret-sauce")))

	// The underlying store only holds the envelope.
	raw, err := underlyingStore.Load(ctx, "admin_pw")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "my-secret-sauce")
	assert.Contains(t, string(raw), "__encrypted__")

	loaded, err := secureStore.Load(ctx, "admin_pw")
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", string(loaded))

	_, err = secureStore.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	// Save with OLD key
	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	require.NoError(t, secureStoreOld.Save(ctx, "state", []byte("encrypted-with-old-key")))

	// Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "encrypted-with-old-key", string(loaded))

	// Save again: now sealed with the NEW key only
	require.NoError(t, secureStoreNew.Save(ctx, "state", []byte("encrypted-with-new-key")))
	_, err = secureStoreOld.Load(ctx, "state")
	assert.ErrorIs(t, err, middleware.ErrDecrypt)
}

func TestEncryptionMiddleware_PlainValueRejected(t *testing.T) {
	underlyingStore := memory.NewStoreWith(map[string][]byte{"state": []byte(`{"nodes":{}}`)})
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	_, err := secureStore.Load(context.Background(), "state")
	assert.ErrorIs(t, err, middleware.ErrMissingEnvelope)
}

func TestEncryptionMiddleware_KeepsCapabilities(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	_, ok := mw(memory.NewStore()).(ports.Watchable)
	assert.True(t, ok, "watchable store should stay watchable")

	plain := mw(struct{ ports.Store }{memory.NewStore()})
	_, ok = plain.(ports.Watchable)
	assert.False(t, ok)
	_, err := plain.(ports.Lister).List(context.Background(), "walk:")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKeys(t *testing.T) {
	active := base64.StdEncoding.EncodeToString(generateKey(t))
	old := base64.StdEncoding.EncodeToString(generateKey(t))

	cfg, err := middleware.ParseKeys(active, old)
	require.NoError(t, err)
	assert.Len(t, cfg.ActiveKey, middleware.KeySize)
	assert.Len(t, cfg.FallbackKeys, 1)

	_, err = middleware.ParseKeys(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
	_, err = middleware.ParseKeys(active, "not base64!")
	assert.Error(t, err)
}

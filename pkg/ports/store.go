package ports

import (
	"context"
)

// Store is a key/value blob store. The guide keeps its whole State under
// one key and the admin secret under another; walks use "walk:<id>" keys.
type Store interface {
	// Load returns the value stored under key.
	// Returns domain.ErrNotFound if the key does not exist.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// List returns every stored key with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Watchable is implemented by stores that can report changes made by
// other processes.
type Watchable interface {
	// Watch emits the key of every change until ctx is done.
	// The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan string, error)
}

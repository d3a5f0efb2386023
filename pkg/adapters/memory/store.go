// Package memory provides an in-process ports.Store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/itnav/pkg/domain"
)

// Store implements ports.Store, ports.Lister and ports.Watchable in memory.
// Safe for concurrent use.
type Store struct {
	data     map[string][]byte
	watchers map[chan string]struct{}
	mu       sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data:     make(map[string][]byte),
		watchers: make(map[chan string]struct{}),
	}
}

// NewStoreWith creates a store pre-filled with seed.
func NewStoreWith(seed map[string][]byte) *Store {
	s := NewStore()
	for k, v := range seed {
		s.data[k] = append([]byte(nil), v...)
	}
	return s
}

// Save stores a copy of value.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	s.notify(key)
	return nil
}

// Load returns a copy of the stored value.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()
	if existed {
		s.notify(key)
	}
	return nil
}

// List returns the keys with prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch emits every changed key until ctx is done.
// Slow receivers miss events rather than block writers.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 16)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}

func (s *Store) notify(key string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.watchers {
		select {
		case ch <- key:
		default:
		}
	}
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/ports"
)

// KeyPrefix namespaces walk records in the store.
const KeyPrefix = "walk:"

// Record is a persisted walk.
type Record struct {
	ID        string      `json:"id"`
	Walk      domain.Walk `json:"walk"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to persisted walks, serializing operations on
// the same session ID. Unused locks are garbage collected by reference counting.
type Manager struct {
	store ports.Store

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock is held at most.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) read(ctx context.Context, sessionID string) (Record, error) {
	raw, err := m.store.Load(ctx, KeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Record{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return Record{}, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	rec.ID = sessionID
	return rec, nil
}

func (m *Manager) write(ctx context.Context, sessionID string, w domain.Walk) (Record, error) {
	rec := Record{ID: sessionID, Walk: w.Clone(), UpdatedAt: m.now()}
	raw, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	if err := m.store.Save(ctx, KeyPrefix+sessionID, raw); err != nil {
		return Record{}, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return rec, nil
}

// Load retrieves an existing walk. Returns domain.ErrSessionNotFound if absent.
func (m *Manager) Load(ctx context.Context, sessionID string) (domain.Walk, error) {
	rec, err := m.Inspect(ctx, sessionID)
	return rec.Walk, err
}

// Inspect returns the full record of a walk.
func (m *Manager) Inspect(ctx context.Context, sessionID string) (Record, error) {
	var rec Record
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		rec, err = m.read(ctx, sessionID)
		return err
	})
	return rec, err
}

// LoadOrStart loads a walk, creating an idle one if it does not exist.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (domain.Walk, error) {
	var w domain.Walk
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		rec, err := m.read(ctx, sessionID)
		if err == nil {
			w = rec.Walk
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		// Persist immediately to reserve the ID.
		_, err = m.write(ctx, sessionID, domain.Walk{})
		return err
	})
	return w, err
}

// Save persists the walk.
func (m *Manager) Save(ctx context.Context, sessionID string, w domain.Walk) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.write(ctx, sessionID, w)
		return err
	})
}

// Update applies fn to the stored walk and saves the result, all under the
// session lock. A missing session starts idle.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(domain.Walk) (domain.Walk, error)) (domain.Walk, error) {
	var next domain.Walk
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		rec, err := m.read(ctx, sessionID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		next, err = fn(rec.Walk)
		if err != nil {
			return err
		}
		_, err = m.write(ctx, sessionID, next)
		return err
	})
	return next, err
}

// Delete removes the walk from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, KeyPrefix+sessionID)
	})
}

// List returns the IDs of the stored walks. The store must implement ports.Lister.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	lister, ok := m.store.(ports.Lister)
	if !ok {
		return nil, fmt.Errorf("store %T cannot list sessions", m.store)
	}
	keys, err := lister.List(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, KeyPrefix))
	}
	return ids, nil
}

// Store returns the underlying store.
func (m *Manager) Store() ports.Store {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, KeyPrefix+sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

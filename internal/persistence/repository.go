// Package persistence reads and writes the committed State and the admin
// secret through a ports.Store.
//
// Loads are best-effort: a missing, unreadable or malformed value falls back
// to the built-in dataset or the default secret, with a warning logged.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/internal/config"
	"github.com/aretw0/itnav/internal/dataset"
	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/ports"
)

// DefaultSecret is the admin secret used until one is stored.
const DefaultSecret = "0000"

// Source tells where a loaded value came from.
type Source string

const (
	SourceStore   Source = "store"
	SourceDefault Source = "default"
)

// Repository binds a Store to the two well-known keys.
type Repository struct {
	store     ports.Store
	stateKey  string
	secretKey string
	decoder   *codec.Decoder
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithKeys overrides the storage keys. Empty values keep the defaults.
func WithKeys(stateKey, secretKey string) Option {
	return func(r *Repository) {
		if stateKey != "" {
			r.stateKey = stateKey
		}
		if secretKey != "" {
			r.secretKey = secretKey
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source used to date the built-in dataset.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New creates a Repository over store.
func New(store ports.Store, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		stateKey:  config.DefaultStateKey,
		secretKey: config.DefaultSecretKey,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.decoder = codec.NewDecoder(codec.WithLogger(r.logger))
	return r
}

// StateKey returns the key the State is stored under.
func (r *Repository) StateKey() string { return r.stateKey }

// SecretKey returns the key the admin secret is stored under.
func (r *Repository) SecretKey() string { return r.secretKey }

// Store returns the underlying store.
func (r *Repository) Store() ports.Store { return r.store }

// Default returns the built-in State.
func (r *Repository) Default() domain.State {
	return dataset.Default(r.now())
}

// LoadState returns the stored State, or the built-in one when none can be read.
func (r *Repository) LoadState(ctx context.Context) (domain.State, Source) {
	raw, err := r.store.Load(ctx, r.stateKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.StorageErrors.WithLabelValues("load").Inc()
			r.logger.Warn("failed to load state, using built-in dataset", "key", r.stateKey, "error", err)
		}
		return r.Default(), SourceDefault
	}
	s, err := r.decoder.Decode(raw)
	if err != nil {
		r.logger.Warn("stored state is malformed, using built-in dataset", "key", r.stateKey, "error", err)
		return r.Default(), SourceDefault
	}
	return s, SourceStore
}

// SaveState writes s under the state key.
func (r *Repository) SaveState(ctx context.Context, s domain.State) error {
	raw, err := codec.Encode(s)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, r.stateKey, raw); err != nil {
		metrics.StorageErrors.WithLabelValues("save").Inc()
		r.logger.Error("failed to save state", "key", r.stateKey, "error", err)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// LoadSecret returns the stored admin secret, or DefaultSecret.
func (r *Repository) LoadSecret(ctx context.Context) (string, Source) {
	raw, err := r.store.Load(ctx, r.secretKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.StorageErrors.WithLabelValues("load").Inc()
			r.logger.Warn("failed to load admin secret, using default", "key", r.secretKey, "error", err)
		}
		return DefaultSecret, SourceDefault
	}
	if len(raw) == 0 {
		return DefaultSecret, SourceDefault
	}
	return string(raw), SourceStore
}

// SaveSecret writes the admin secret.
func (r *Repository) SaveSecret(ctx context.Context, secret string) error {
	if err := r.store.Save(ctx, r.secretKey, []byte(secret)); err != nil {
		metrics.StorageErrors.WithLabelValues("save").Inc()
		r.logger.Error("failed to save admin secret", "key", r.secretKey, "error", err)
		return fmt.Errorf("failed to save admin secret: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/itnav"
	"github.com/aretw0/itnav/internal/adapters/file"
	"github.com/aretw0/itnav/internal/config"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/adapters/loam"
	"github.com/aretw0/itnav/pkg/adapters/memory"
	"github.com/aretw0/itnav/pkg/adapters/redis"
	"github.com/aretw0/itnav/pkg/persistence/middleware"
	"github.com/aretw0/itnav/pkg/ports"
	"github.com/aretw0/itnav/pkg/session"
)

// ConfigFileName is looked up in the project directory when no --config is given.
const ConfigFileName = "itnav.yaml"

// Backend bundles the stores opened for a configuration.
type Backend struct {
	// State holds the committed State and the admin secret.
	State ports.Store
	// Sessions holds persisted walks.
	Sessions ports.Store
	// Locker, when set, serializes walk updates across processes.
	Locker ports.DistributedLocker

	closers []func() error
}

// Close releases connections held by the stores.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// LoadConfig reads path, or <dir>/itnav.yaml when path is empty and that file exists.
func LoadConfig(path, dir string) (config.Config, error) {
	if path == "" {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// storagePath resolves the storage directory against the project directory.
func storagePath(cfg config.Config, dir string) string {
	if filepath.IsAbs(cfg.Storage.Path) {
		return cfg.Storage.Path
	}
	return filepath.Join(dir, cfg.Storage.Path)
}

// OpenBackend opens the stores selected by cfg.Storage.Backend, sealing
// them when an encryption key is configured.
func OpenBackend(cfg config.Config, dir string) (*Backend, error) {
	b, err := openStores(cfg, dir)
	if err != nil || cfg.Storage.EncryptionKey == "" {
		return b, err
	}
	keys, err := middleware.ParseKeys(cfg.Storage.EncryptionKey, cfg.Storage.FallbackKeys...)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	seal := middleware.NewEncryptionMiddleware(keys)
	b.State = seal(b.State)
	b.Sessions = seal(b.Sessions)
	return b, nil
}

func openStores(cfg config.Config, dir string) (*Backend, error) {
	base := storagePath(cfg, dir)

	switch cfg.Storage.Backend {
	case "memory":
		store := memory.NewStore()
		return &Backend{State: store, Sessions: store}, nil

	case "file":
		return &Backend{
			State:    file.New(filepath.Join(base, "data")),
			Sessions: file.New(filepath.Join(base, "sessions")),
		}, nil

	case "redis":
		rc := cfg.Storage.Redis
		state := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix))
		sessions := redis.NewFromClient(state.Client(),
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(cfg.Sessions.TTL),
		)
		return &Backend{
			State:    state,
			Sessions: sessions,
			Locker:   redis.NewLocker(state.Client(), rc.Prefix),
			closers:  []func() error{state.Close},
		}, nil

	case "loam":
		state, err := loam.Open(filepath.Join(base, "repo"), cfg.Storage.Versioned)
		if err != nil {
			return nil, err
		}
		return &Backend{
			State:    state,
			Sessions: file.New(filepath.Join(base, "sessions")),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// SessionManager builds the walk session manager over the backend.
func (b *Backend) SessionManager(cfg config.Config, logger *slog.Logger) *session.Manager {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.Sessions.LockTTL),
	}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Sessions, opts...)
}

// OpenGuide builds a Guide over the backend's state store.
func OpenGuide(ctx context.Context, cfg config.Config, b *Backend, logger *slog.Logger, debug bool) (*itnav.Guide, error) {
	opts := []itnav.Option{
		itnav.WithLogger(logger),
		itnav.WithLocale(validator.ParseLocale(cfg.Locale)),
		itnav.WithKeys(cfg.Storage.StateKey, cfg.Storage.SecretKey),
	}
	if debug {
		opts = append(opts, itnav.WithLifecycleHooks(createDebugHooks(logger)))
	}
	guide, err := itnav.New(ctx, b.State, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing guide: %w", err)
	}
	return guide, nil
}

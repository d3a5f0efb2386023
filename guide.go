package itnav

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/internal/persistence"
	"github.com/aretw0/itnav/internal/runtime"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/console"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/ports"
)

// Version is the release of this module.
const Version = "0.4.0"

// ErrWatchUnsupported is returned by Watch when the store cannot report changes.
var ErrWatchUnsupported = errors.New("store does not support watching")

// Guide is the high-level entry point. It owns the committed State and the
// admin secret, serves end-user navigation over them and opens admin consoles.
// A Guide is safe for concurrent use.
type Guide struct {
	mu     sync.RWMutex
	state  domain.State
	secret string

	repo   *persistence.Repository
	store  ports.Store
	engine *runtime.Engine

	hooks     domain.LifecycleHooks
	locale    validator.Locale
	logger    *slog.Logger
	now       func() time.Time
	stateKey  string
	secretKey string
}

// Option defines a functional option for configuring the Guide.
type Option func(*Guide)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guide) {
		g.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks for navigation.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Guide) {
		g.hooks = hooks
	}
}

// WithLocale selects the language of validator messages.
func WithLocale(l validator.Locale) Option {
	return func(g *Guide) {
		g.locale = l
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Guide) {
		g.now = now
	}
}

// WithKeys overrides the storage keys of the State and the admin secret.
func WithKeys(stateKey, secretKey string) Option {
	return func(g *Guide) {
		g.stateKey = stateKey
		g.secretKey = secretKey
	}
}

// New loads the committed State and the admin secret from store.
// Missing or unreadable values fall back to the built-in dataset and the
// default secret, so New only fails on a nil store.
func New(ctx context.Context, store ports.Store, opts ...Option) (*Guide, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	g := &Guide{
		store:  store,
		locale: validator.LocaleEnglish,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}

	g.repo = persistence.New(store,
		persistence.WithKeys(g.stateKey, g.secretKey),
		persistence.WithLogger(g.logger),
		persistence.WithClock(g.now),
	)
	g.engine = runtime.NewEngine(
		runtime.WithLogger(g.logger),
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithClock(g.now),
	)

	g.Reload(ctx)
	return g, nil
}

// Reload re-reads the State and the secret from storage.
func (g *Guide) Reload(ctx context.Context) {
	state, stateSrc := g.repo.LoadState(ctx)
	secret, secretSrc := g.repo.LoadSecret(ctx)

	g.mu.Lock()
	g.state = state
	g.secret = secret
	g.mu.Unlock()

	g.logger.Debug("state loaded",
		"state", stateSrc,
		"secret", secretSrc,
		"categories", len(state.Categories),
		"nodes", state.Nodes.Len(),
	)
}

// snapshot returns the committed State without copying its collections.
// Committed values are never mutated in place, so the result is safe to read.
func (g *Guide) snapshot() domain.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Categories lists the categories in display order.
func (g *Guide) Categories() []domain.Category {
	return append([]domain.Category(nil), g.snapshot().Categories...)
}

// PublishedNews lists the published news items, newest first.
func (g *Guide) PublishedNews() []domain.NewsItem {
	return g.snapshot().PublishedNews()
}

// News returns a published news item.
func (g *Guide) News(id string) (domain.NewsItem, bool) {
	n, ok := g.snapshot().NewsItem(id)
	if !ok || !n.IsPublished {
		return domain.NewsItem{}, false
	}
	return n, true
}

// Issues validates the committed State.
func (g *Guide) Issues() []domain.Issue {
	s := g.snapshot()
	issues := validator.Validate(&s, validator.WithLocale(g.locale))
	validator.Record(issues)
	return issues
}

// Select starts a walk at the category's start node.
func (g *Guide) Select(ctx context.Context, categoryID string) (domain.Walk, error) {
	s := g.snapshot()
	return g.engine.Select(ctx, &s, categoryID)
}

// Choose applies a user action to w.
func (g *Guide) Choose(ctx context.Context, w domain.Walk, action domain.Action) (domain.Walk, error) {
	s := g.snapshot()
	return g.engine.Choose(ctx, &s, w, action)
}

// Back drops the last step of w.
func (g *Guide) Back(w domain.Walk) domain.Walk {
	return g.engine.Back(w)
}

// Reset returns the idle walk.
func (g *Guide) Reset() domain.Walk {
	return g.engine.Reset()
}

// Render resolves w against the committed State.
func (g *Guide) Render(ctx context.Context, w domain.Walk) domain.View {
	s := g.snapshot()
	return g.engine.Render(ctx, &s, w)
}

// Authenticate reports whether secret is the admin secret.
func (g *Guide) Authenticate(secret string) bool {
	return g.CheckSecret(secret)
}

// OpenConsole starts an admin editing session.
func (g *Guide) OpenConsole(secret string, opts ...console.Option) (*console.Session, error) {
	base := []console.Option{
		console.WithLocale(g.locale),
		console.WithLogger(g.logger),
		console.WithClock(g.now),
	}
	return console.Open(g, secret, append(base, opts...)...)
}

// Committed returns a deep copy of the committed State.
func (g *Guide) Committed() domain.State {
	return g.snapshot().Clone()
}

// Commit publishes draft, then persists it. Persisting is best-effort: a
// failed save is logged and counted but the published State stays promoted.
func (g *Guide) Commit(ctx context.Context, draft domain.State) (domain.State, error) {
	next := draft.Clone()
	g.mu.Lock()
	g.state = next
	g.mu.Unlock()
	if err := g.repo.SaveState(ctx, next); err != nil {
		g.logger.Warn("commit published but not persisted", "key", g.repo.StateKey(), "error", err)
	}
	return next.Clone(), nil
}

// CheckSecret compares secret with the admin secret.
func (g *Guide) CheckSecret(secret string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return subtle.ConstantTimeCompare([]byte(secret), []byte(g.secret)) == 1
}

// SetSecret persists and adopts a new admin secret.
func (g *Guide) SetSecret(ctx context.Context, secret string) error {
	if err := g.repo.SaveSecret(ctx, secret); err != nil {
		return err
	}
	g.mu.Lock()
	g.secret = secret
	g.mu.Unlock()
	return nil
}

// StorageKey names the key the State is persisted under.
func (g *Guide) StorageKey() string {
	return g.repo.StateKey()
}

// Store returns the underlying store.
func (g *Guide) Store() ports.Store {
	return g.store
}

// Watch reloads the Guide whenever the State or the secret changes in the
// store, and reports the changed key on the returned channel. The channel
// is closed when ctx is done.
func (g *Guide) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := g.store.(ports.Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan string, 1)
	go func() {
		defer close(out)
		for key := range changes {
			if key != g.repo.StateKey() && key != g.repo.SecretKey() {
				continue
			}
			g.Reload(ctx)
			g.logger.Info("state reloaded", "key", key)
			select {
			case out <- key:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

var _ console.Committer = (*Guide)(nil)

package console

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/internal/dataset"
	"github.com/aretw0/itnav/internal/editor"
	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/oklog/ulid/v2"
)

// NewsIDPrefix starts generated news item IDs.
const NewsIDPrefix = "news_"

// Committer owns the committed State and the admin secret.
type Committer interface {
	// Committed returns a copy of the published State.
	Committed() domain.State
	// Commit publishes draft and persists it best-effort, returning the
	// published value.
	Commit(ctx context.Context, draft domain.State) (domain.State, error)
	// CheckSecret reports whether secret matches the admin secret.
	CheckSecret(secret string) bool
	// SetSecret replaces and persists the admin secret.
	SetSecret(ctx context.Context, secret string) error
	// StorageKey names where the State is persisted.
	StorageKey() string
}

// Session is an open admin editing session. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	committer Committer
	draft     domain.State
	locale    validator.Locale
	decoder   *codec.Decoder
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLocale selects the language of validator messages.
func WithLocale(l validator.Locale) Option {
	return func(s *Session) {
		s.locale = l
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for commits and exports.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Open checks secret and starts a session whose draft is the committed State.
// Any mismatch returns domain.ErrInvalidSecret; retries are unlimited.
func Open(c Committer, secret string, opts ...Option) (*Session, error) {
	if !c.CheckSecret(secret) {
		metrics.AuthFailures.Inc()
		return nil, domain.ErrInvalidSecret
	}
	s := &Session{
		committer: c,
		draft:     c.Committed(),
		locale:    validator.LocaleEnglish,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.decoder = codec.NewDecoder(codec.WithLogger(s.logger))
	return s, nil
}

// Draft returns a copy of the working State.
func (s *Session) Draft() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// UpsertNode sets the node at id in the draft.
func (s *Session) UpsertNode(id string, node domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = editor.UpsertNode(s.draft, id, node)
}

// DeleteNode removes id from the draft unless a current error names it.
func (s *Session) DeleteNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := editor.DeleteNode(s.draft, id)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// UpsertCategory sets a category in the draft.
func (s *Session) UpsertCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = editor.UpsertCategory(s.draft, c)
}

// UpsertNewsItem sets a news item in the draft. An item without an ID gets
// a generated one. The stored item is returned.
func (s *Session) UpsertNewsItem(n domain.NewsItem) domain.NewsItem {
	if n.ID == "" {
		n.ID = NewNewsID()
	}
	if n.Date == "" {
		n.Date = s.now().Format(domain.DateLayout)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = editor.UpsertNewsItem(s.draft, n)
	return n
}

// DeleteNewsItem removes a news item from the draft.
func (s *Session) DeleteNewsItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = editor.DeleteNewsItem(s.draft, id)
}

// Replace swaps the draft for next.
func (s *Session) Replace(next domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := editor.Replace(s.draft, next)
	if err != nil {
		return err
	}
	s.draft = out
	return nil
}

// Import replaces the draft with a JSON State document.
// The draft is left untouched on failure.
func (s *Session) Import(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := editor.Import(s.draft, raw, s.decoder)
	if err != nil {
		s.logger.Warn("import rejected", "error", err)
		return err
	}
	s.draft = next
	return nil
}

// Export returns the draft as a pretty-printed document and its filename.
func (s *Session) Export() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return editor.Export(s.draft, s.now())
}

// Issues validates the draft.
func (s *Session) Issues() []domain.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	issues := validator.Validate(&s.draft, validator.WithLocale(s.locale))
	validator.Record(issues)
	return issues
}

// Diff lists what Save would change.
func (s *Session) Diff() domain.StateDiff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Diff(s.committer.Committed(), s.draft)
}

// Dirty reports whether the draft differs from the committed State.
func (s *Session) Dirty() bool {
	return !s.Diff().IsEmpty()
}

// Save commits the draft. Outstanding issues do not block it.
func (s *Session) Save(ctx context.Context) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	committed, err := s.committer.Commit(ctx, editor.Commit(s.draft, s.now()))
	if err != nil {
		return domain.State{}, fmt.Errorf("failed to commit draft: %w", err)
	}
	metrics.Commits.Inc()
	s.draft = committed.Clone()
	s.logger.Info("draft committed", "nodes", committed.Nodes.Len(), "lastSavedAt", committed.LastSavedAt)
	return committed, nil
}

// Discard drops all unsaved changes.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.committer.Committed()
}

// ResetToDefault replaces the draft with the built-in dataset.
func (s *Session) ResetToDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = dataset.Default(s.now())
}

// ChangeSecret replaces the admin secret. current must match the stored
// secret, next must be non-empty and equal to confirm.
func (s *Session) ChangeSecret(ctx context.Context, current, next, confirm string) error {
	if !s.committer.CheckSecret(current) {
		metrics.AuthFailures.Inc()
		return domain.ErrInvalidSecret
	}
	if next == "" || subtle.ConstantTimeCompare([]byte(next), []byte(confirm)) != 1 {
		return domain.ErrSecretMismatch
	}
	return s.committer.SetSecret(ctx, next)
}

// Stats summarises the draft.
type Stats struct {
	Categories  int               `json:"categories"`
	Nodes       int               `json:"nodes"`
	News        int               `json:"news"`
	Published   int               `json:"published"`
	Issues      validator.Summary `json:"issues"`
	LastSavedAt time.Time         `json:"lastSavedAt"`
	Version     string            `json:"version"`
	StorageKey  string            `json:"storageKey"`
	Dirty       bool              `json:"dirty"`
}

// Stats returns counts and metadata for the draft.
func (s *Session) Stats() Stats {
	dirty := s.Dirty()
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Categories:  len(s.draft.Categories),
		Nodes:       s.draft.Nodes.Len(),
		News:        len(s.draft.News),
		Published:   len(s.draft.PublishedNews()),
		Issues:      validator.Summarize(validator.Validate(&s.draft, validator.WithLocale(s.locale))),
		LastSavedAt: s.draft.LastSavedAt,
		Version:     s.draft.Version,
		StorageKey:  s.committer.StorageKey(),
		Dirty:       dirty,
	}
}

// NewNewsID returns a fresh news item ID.
func NewNewsID() string {
	return NewsIDPrefix + ulid.Make().String()
}

// Package loam keeps the guide's blobs as documents in a Loam repository,
// so a versioned repository records every save as a commit.
package loam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

// Store implements ports.Store over a core.Repository.
// Each key becomes one Markdown document whose body is the stored value.
type Store struct {
	repo core.Repository
}

// New wraps an initialized repository.
func New(repo core.Repository) *Store {
	return &Store{repo: repo}
}

// Open initializes a repository at path. versioned turns on Loam's git history.
func Open(path string, versioned bool) (*Store, error) {
	repo, err := loam.Init(path, loam.WithVersioning(versioned))
	if err != nil {
		return nil, fmt.Errorf("failed to init loam repository at %s: %w", path, err)
	}
	return New(repo), nil
}

func docID(key string) string {
	return url.QueryEscape(key)
}

// Save writes value as the body of the key's document.
// A change reason already on ctx is kept; otherwise one naming the key is set.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if _, ok := ctx.Value(core.ChangeReasonKey).(string); !ok {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, "itnav: save "+key)
	}
	doc := core.Document{
		ID:       docID(key) + ".md",
		Content:  string(value),
		Metadata: core.Metadata{"key": key},
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("loam save failed for %s: %w", key, err)
	}
	return nil
}

// Load returns the document body for key. Surrounding whitespace added by
// the document format is trimmed.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}
	doc, err := s.repo.Get(ctx, docID(key))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", key, err)
	}
	return []byte(strings.TrimSpace(doc.Content)), nil
}

// Delete removes the key's document.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if _, ok := ctx.Value(core.ChangeReasonKey).(string); !ok {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, "itnav: delete "+key)
	}
	if err := s.repo.Delete(ctx, docID(key)); err != nil && !isNotFound(err) {
		return fmt.Errorf("loam delete failed for %s: %w", key, err)
	}
	return nil
}

// isNotFound recognizes a missing document. Loam wraps the filesystem error
// for plain repositories but only reports a message for some adapters.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || strings.Contains(strings.ToLower(err.Error()), "not found")
}

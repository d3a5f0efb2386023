// Package editor holds the mutations an administrator applies to a draft State.
//
// Every function returns a new State and leaves its input untouched, so a
// caller can keep the previous value around to discard changes.
package editor

import (
	"fmt"
	"time"

	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/domain"
)

// exportPrefix starts every export filename.
const exportPrefix = "coop_it_nav_state_"

// UpsertNode inserts or replaces the node at id. Nothing is validated.
func UpsertNode(s domain.State, id string, node domain.Node) domain.State {
	out := s.Clone()
	out.Nodes = out.Nodes.With(id, node.Clone())
	return out
}

// DeleteNode removes id from the node mapping.
//
// The delete is refused with domain.ErrNodeReferenced, and s returned
// unchanged, when an error-class issue of the current state names id as
// its target. Only the current issues are consulted: references that would
// start dangling after the delete do not block it.
func DeleteNode(s domain.State, id string) (domain.State, error) {
	blocking := validator.Blocking(validator.Validate(&s), id)
	if len(blocking) > 0 {
		return s, fmt.Errorf("%w: %s is named by %d error(s)", domain.ErrNodeReferenced, id, len(blocking))
	}
	out := s.Clone()
	out.Nodes = out.Nodes.Without(id)
	return out, nil
}

// UpsertCategory replaces the category with the same ID in place,
// or appends it when the ID is new.
func UpsertCategory(s domain.State, c domain.Category) domain.State {
	return s.WithCategory(c)
}

// UpsertNewsItem replaces the item with the same ID in place,
// or prepends it when the ID is new.
func UpsertNewsItem(s domain.State, n domain.NewsItem) domain.State {
	return s.WithNewsItem(n)
}

// DeleteNewsItem removes the item keyed by id, if any.
func DeleteNewsItem(s domain.State, id string) domain.State {
	return s.WithoutNewsItem(id)
}

// Replace swaps the whole state for next. next must carry a node mapping;
// otherwise current is returned with domain.ErrMalformedImport.
func Replace(current, next domain.State) (domain.State, error) {
	if !next.Nodes.IsPresent() {
		return current, fmt.Errorf("%w: missing \"nodes\"", domain.ErrMalformedImport)
	}
	if next.Categories == nil {
		return current, fmt.Errorf("%w: missing \"categories\"", domain.ErrMalformedImport)
	}
	return next.Clone(), nil
}

// Import parses raw as a State document and replaces current with it.
// On any failure current is returned unchanged.
func Import(current domain.State, raw []byte, dec *codec.Decoder) (domain.State, error) {
	if dec == nil {
		dec = codec.NewDecoder()
	}
	next, err := dec.Decode(raw)
	if err != nil {
		return current, err
	}
	return Replace(current, next)
}

// Export returns the pretty-printed document and its download filename.
func Export(s domain.State, now time.Time) ([]byte, string, error) {
	out, err := codec.Encode(s)
	if err != nil {
		return nil, "", err
	}
	return out, ExportFilename(now), nil
}

// ExportFilename names an export made at now.
func ExportFilename(now time.Time) string {
	return exportPrefix + now.Format(domain.DateLayout) + ".json"
}

// Commit stamps draft with now, producing the next committed state.
// It never validates: a state with outstanding issues can be committed.
func Commit(draft domain.State, now time.Time) domain.State {
	out := draft.Clone()
	out.LastSavedAt = now
	return out
}

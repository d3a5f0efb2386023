// Package codec reads and writes the JSON form of a State.
//
// Decoding is best-effort: the document must carry a "categories" array and
// a "nodes" object, and every entry inside them is decoded on its own. An
// entry that cannot be decoded is skipped and logged; it never fails the
// whole document.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/pkg/domain"
)

// Decoder turns raw JSON into a State.
type Decoder struct {
	logger *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger that receives skipped-entry warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses a State document. It fails with domain.ErrMalformedImport
// when the input is not a JSON object or lacks categories or nodes.
func Decode(raw []byte) (domain.State, error) {
	return NewDecoder().Decode(raw)
}

// Decode parses a State document.
func (d *Decoder) Decode(raw []byte) (domain.State, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return domain.State{}, fmt.Errorf("%w: %v", domain.ErrMalformedImport, err)
	}
	if isNull(top["categories"]) {
		return domain.State{}, fmt.Errorf("%w: missing \"categories\"", domain.ErrMalformedImport)
	}
	if isNull(top["nodes"]) {
		return domain.State{}, fmt.Errorf("%w: missing \"nodes\"", domain.ErrMalformedImport)
	}

	var rawCats []json.RawMessage
	if err := json.Unmarshal(top["categories"], &rawCats); err != nil {
		return domain.State{}, fmt.Errorf("%w: \"categories\" is not an array", domain.ErrMalformedImport)
	}
	rawNodes := orderedmap.New[string, json.RawMessage]()
	if err := rawNodes.UnmarshalJSON(top["nodes"]); err != nil {
		return domain.State{}, fmt.Errorf("%w: \"nodes\" is not an object", domain.ErrMalformedImport)
	}

	state := domain.State{
		Categories: make([]domain.Category, 0, len(rawCats)),
		Nodes:      domain.NewNodes(),
		News:       []domain.NewsItem{},
	}

	for i, rc := range rawCats {
		var c domain.Category
		if err := decodeEntry(rc, &c); err != nil {
			d.logger.Warn("skipping category", "index", i, "error", err)
			continue
		}
		state.Categories = append(state.Categories, c)
	}

	for pair := rawNodes.Oldest(); pair != nil; pair = pair.Next() {
		var n domain.Node
		if err := decodeEntry(pair.Value, &n); err != nil {
			d.logger.Warn("skipping node", "id", pair.Key, "error", err)
			continue
		}
		state.Nodes = state.Nodes.With(pair.Key, n)
	}

	if !isNull(top["news"]) {
		var rawNews []json.RawMessage
		if err := json.Unmarshal(top["news"], &rawNews); err != nil {
			d.logger.Warn("ignoring news", "error", err)
		}
		for i, rn := range rawNews {
			var n domain.NewsItem
			if err := decodeEntry(rn, &n); err != nil {
				d.logger.Warn("skipping news item", "index", i, "error", err)
				continue
			}
			state.News = append(state.News, n)
		}
	}

	if v, ok := top["version"]; ok {
		_ = json.Unmarshal(v, &state.Version)
	}
	if v, ok := top["lastSavedAt"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				state.LastSavedAt = t
			}
		}
	}
	return state, nil
}

// Encode writes state pretty-printed with a two-space indent.
func Encode(state domain.State) ([]byte, error) {
	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return out, nil
}

func decodeEntry(raw json.RawMessage, target any) error {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("not an object: %w", err)
	}
	if m == nil {
		return fmt.Errorf("entry is null")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

package domain

import (
	"encoding/json"
	"time"
)

// DefaultVersion is the dataset version stamped on the built-in state.
const DefaultVersion = "2.7.0"

// State is the whole persisted dataset: categories, the node graph and news.
// States are treated as immutable values; mutations build a new State.
type State struct {
	Categories  []Category `json:"categories"`
	Nodes       Nodes      `json:"nodes"`
	News        []NewsItem `json:"news"`
	LastSavedAt time.Time  `json:"lastSavedAt"`
	Version     string     `json:"version"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Nodes = s.Nodes.Clone()
	if s.Categories != nil {
		out.Categories = append([]Category(nil), s.Categories...)
	}
	if s.News != nil {
		out.News = make([]NewsItem, len(s.News))
		for i, n := range s.News {
			out.News[i] = n.Clone()
		}
	}
	return out
}

// Node looks up a node by ID.
func (s State) Node(id string) (Node, bool) {
	return s.Nodes.Get(id)
}

// Category looks up a category by ID.
func (s State) Category(id string) (Category, bool) {
	if i := s.categoryIndex(id); i >= 0 {
		return s.Categories[i], true
	}
	return Category{}, false
}

// NewsItem looks up a news item by ID.
func (s State) NewsItem(id string) (NewsItem, bool) {
	if i := s.newsIndex(id); i >= 0 {
		return s.News[i], true
	}
	return NewsItem{}, false
}

// PublishedNews returns the published items in stored order.
func (s State) PublishedNews() []NewsItem {
	out := make([]NewsItem, 0, len(s.News))
	for _, n := range s.News {
		if n.IsPublished {
			out = append(out, n)
		}
	}
	return out
}

func (s State) categoryIndex(id string) int {
	for i, c := range s.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s State) newsIndex(id string) int {
	for i, n := range s.News {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// WithCategory returns a copy of s where the category with the same ID is
// replaced in place, or c is appended when the ID is new.
func (s State) WithCategory(c Category) State {
	out := s.Clone()
	if i := out.categoryIndex(c.ID); i >= 0 {
		out.Categories[i] = c
		return out
	}
	out.Categories = append(out.Categories, c)
	return out
}

// WithNewsItem returns a copy of s where the item with the same ID is
// replaced in place, or n is prepended when the ID is new.
func (s State) WithNewsItem(n NewsItem) State {
	out := s.Clone()
	if i := out.newsIndex(n.ID); i >= 0 {
		out.News[i] = n.Clone()
		return out
	}
	out.News = append([]NewsItem{n.Clone()}, out.News...)
	return out
}

// WithoutNewsItem returns a copy of s without the item keyed by id.
func (s State) WithoutNewsItem(id string) State {
	out := s.Clone()
	if i := out.newsIndex(id); i >= 0 {
		out.News = append(out.News[:i], out.News[i+1:]...)
	}
	return out
}

type stateWire struct {
	Categories  []Category `json:"categories"`
	Nodes       Nodes      `json:"nodes"`
	News        []NewsItem `json:"news"`
	LastSavedAt string     `json:"lastSavedAt"`
	Version     string     `json:"version"`
}

// MarshalJSON writes the state in its persisted shape. Empty collections are
// written as [] and {}, and a zero LastSavedAt as "".
func (s State) MarshalJSON() ([]byte, error) {
	w := stateWire{
		Categories: s.Categories,
		Nodes:      s.Nodes,
		News:       s.News,
		Version:    s.Version,
	}
	if w.Categories == nil {
		w.Categories = []Category{}
	}
	if !w.Nodes.IsPresent() {
		w.Nodes = NewNodes()
	}
	if w.News == nil {
		w.News = []NewsItem{}
	}
	if !s.LastSavedAt.IsZero() {
		w.LastSavedAt = s.LastSavedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the persisted shape. An empty or unparseable
// lastSavedAt leaves LastSavedAt zero.
func (s *State) UnmarshalJSON(data []byte) error {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = State{
		Categories: w.Categories,
		Nodes:      w.Nodes,
		News:       w.News,
		Version:    w.Version,
	}
	if t, err := time.Parse(time.RFC3339Nano, w.LastSavedAt); err == nil {
		s.LastSavedAt = t
	}
	return nil
}

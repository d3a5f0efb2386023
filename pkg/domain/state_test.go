package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Upserts(t *testing.T) {
	s := State{
		Categories: []Category{{ID: "c1"}, {ID: "c2"}},
		Nodes:      NewNodes(),
		News:       []NewsItem{{ID: "old", IsPublished: true}},
	}

	replaced := s.WithCategory(Category{ID: "c1", Name: "renamed"})
	assert.Equal(t, "renamed", replaced.Categories[0].Name)
	assert.Len(t, replaced.Categories, 2)
	assert.Empty(t, s.Categories[0].Name)

	appended := s.WithCategory(Category{ID: "c3"})
	assert.Equal(t, "c3", appended.Categories[2].ID)

	prepended := s.WithNewsItem(NewsItem{ID: "new"})
	assert.Equal(t, []string{"new", "old"}, []string{prepended.News[0].ID, prepended.News[1].ID})
	assert.Len(t, s.News, 1)

	assert.Empty(t, prepended.WithoutNewsItem("new").WithoutNewsItem("old").News)
	assert.Len(t, prepended.WithoutNewsItem("missing").News, 2)
	assert.Len(t, prepended.PublishedNews(), 1)

	_, ok := s.Category("c2")
	assert.True(t, ok)
	_, ok = s.NewsItem("nope")
	assert.False(t, ok)
}

func TestNewsItem_IsRecent(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		want bool
	}{
		{"2024-05-10", true},
		{"2024-05-04", true},
		{"2024-05-01", false},
		{"2024-05-12", true},
		{"", false},
		{"not a date", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, NewsItem{Date: tt.date}.IsRecent(now))
		})
	}
}

func TestIssue_String(t *testing.T) {
	i := Issue{Type: IssueError, Location: LocationNode, ID: "n1", Message: "broken"}
	assert.Equal(t, "[ERROR] node#n1: broken", i.String())
}

func TestState_JSON(t *testing.T) {
	empty, err := json.Marshal(State{Version: DefaultVersion})
	require.NoError(t, err)
	assert.JSONEq(t, `{"categories":[],"nodes":{},"news":[],"lastSavedAt":"","version":"2.7.0"}`, string(empty))

	saved := time.Date(2024, 5, 10, 1, 2, 3, 0, time.UTC)
	s := State{
		Categories:  []Category{{ID: "c1", StartNodeID: "b"}},
		Nodes:       NewNodes().With("b", Node{Type: NodeTypeEnd}).With("a", Node{Type: NodeTypeEnd}),
		LastSavedAt: saved,
		Version:     "x",
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lastSavedAt":"2024-05-10T01:02:03Z"`)

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, saved.Equal(back.LastSavedAt))
	assert.Equal(t, []string{"b", "a"}, back.Nodes.IDs())
	assert.Equal(t, s.Categories, back.Categories)

	var blank State
	require.NoError(t, json.Unmarshal([]byte(`{"categories":[],"nodes":{},"lastSavedAt":""}`), &blank))
	assert.True(t, blank.LastSavedAt.IsZero())
}

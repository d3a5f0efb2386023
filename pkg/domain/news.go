package domain

import (
	"time"
)

// DateLayout is the calendar date format used by NewsItem.Date.
const DateLayout = "2006-01-02"

// RecentWindow is how long a news item is flagged as new after its date.
const RecentWindow = 7 * 24 * time.Hour

// NewsItem is an announcement shown on the landing page.
// It has no references into the node graph.
type NewsItem struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Date        string   `json:"date" mapstructure:"date"`
	Summary     string   `json:"summary" mapstructure:"summary"`
	Content     string   `json:"content" mapstructure:"content"`
	URL         string   `json:"url,omitempty" mapstructure:"url"`
	Tags        []string `json:"tags,omitempty" mapstructure:"tags"`
	IsPublished bool     `json:"isPublished" mapstructure:"isPublished"`
}

// IsRecent reports whether the item's date lies within RecentWindow of now,
// in either direction. Unparseable dates are never recent.
func (n NewsItem) IsRecent(now time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, n.Date, now.Location())
	if err != nil {
		return false
	}
	diff := now.Sub(d)
	if diff < 0 {
		diff = -diff
	}
	return diff <= RecentWindow
}

// Clone returns a deep copy of the item.
func (n NewsItem) Clone() NewsItem {
	out := n
	if n.Tags != nil {
		out.Tags = append([]string(nil), n.Tags...)
	}
	return out
}

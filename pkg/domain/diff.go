package domain

import (
	"reflect"
)

// StateDiff lists the entities that differ between two states.
// The admin console uses it to show what an unsaved draft would change.
type StateDiff struct {
	Categories ChangeSet `json:"categories"`
	Nodes      ChangeSet `json:"nodes"`
	News       ChangeSet `json:"news"`
}

// ChangeSet holds entity IDs grouped by kind of change, each in the order
// the entities appear in the newer (or, for removals, older) state.
type ChangeSet struct {
	Added   []string `json:"added,omitempty"`
	Changed []string `json:"changed,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// IsEmpty reports whether the set records no change.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// Diff compares oldState with newState. Metadata (lastSavedAt, version) is ignored.
func Diff(oldState, newState State) StateDiff {
	return StateDiff{
		Categories: diffCategories(oldState.Categories, newState.Categories),
		Nodes:      diffNodes(oldState.Nodes, newState.Nodes),
		News:       diffNews(oldState.News, newState.News),
	}
}

// IsEmpty checks if the diff contains any change.
func (d StateDiff) IsEmpty() bool {
	return d.Categories.IsEmpty() && d.Nodes.IsEmpty() && d.News.IsEmpty()
}

func diffNodes(old, new Nodes) ChangeSet {
	var cs ChangeSet
	new.Each(func(id string, n Node) bool {
		prev, ok := old.Get(id)
		switch {
		case !ok:
			cs.Added = append(cs.Added, id)
		case !reflect.DeepEqual(prev, n):
			cs.Changed = append(cs.Changed, id)
		}
		return true
	})
	old.Each(func(id string, _ Node) bool {
		if !new.Has(id) {
			cs.Removed = append(cs.Removed, id)
		}
		return true
	})
	return cs
}

func diffCategories(old, new []Category) ChangeSet {
	oldByID := make(map[string]Category, len(old))
	for _, c := range old {
		oldByID[c.ID] = c
	}
	newIDs := make(map[string]bool, len(new))
	var cs ChangeSet
	for _, c := range new {
		newIDs[c.ID] = true
		prev, ok := oldByID[c.ID]
		switch {
		case !ok:
			cs.Added = append(cs.Added, c.ID)
		case prev != c:
			cs.Changed = append(cs.Changed, c.ID)
		}
	}
	for _, c := range old {
		if !newIDs[c.ID] {
			cs.Removed = append(cs.Removed, c.ID)
		}
	}
	return cs
}

func diffNews(old, new []NewsItem) ChangeSet {
	oldByID := make(map[string]NewsItem, len(old))
	for _, n := range old {
		oldByID[n.ID] = n
	}
	newIDs := make(map[string]bool, len(new))
	var cs ChangeSet
	for _, n := range new {
		newIDs[n.ID] = true
		prev, ok := oldByID[n.ID]
		switch {
		case !ok:
			cs.Added = append(cs.Added, n.ID)
		case !reflect.DeepEqual(prev, n):
			cs.Changed = append(cs.Changed, n.ID)
		}
	}
	for _, n := range old {
		if !newIDs[n.ID] {
			cs.Removed = append(cs.Removed, n.ID)
		}
	}
	return cs
}

package domain

import (
	"fmt"
	"strings"
)

// IssueType is the severity of a validation finding.
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
)

// Location names the kind of entity an Issue is attached to.
type Location string

const (
	LocationCategory Location = "category"
	LocationNode     Location = "node"
	LocationNews     Location = "news"
)

// Issue is a single finding reported by the validator.
type Issue struct {
	// ID is the owning entity: a category ID for category issues, a node ID otherwise.
	ID       string    `json:"id"`
	Type     IssueType `json:"type"`
	Location Location  `json:"location"`
	Message  string    `json:"message"`
	// Target is the node ID the finding is about. For broken references it is
	// the missing ID (possibly ""); for self-loops and orphans it equals ID.
	Target string `json:"target"`
}

// String renders the issue as "[TYPE] location#id: message".
func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s#%s: %s", strings.ToUpper(string(i.Type)), i.Location, i.ID, i.Message)
}

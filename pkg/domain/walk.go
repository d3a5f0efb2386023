package domain

// Walk is one end user's position in the tree.
// A Walk with no history is Idle; otherwise the last element is the current node.
type Walk struct {
	CategoryID string   `json:"categoryId,omitempty"`
	History    []string `json:"history"`
}

// IsIdle reports whether no category is selected.
func (w Walk) IsIdle() bool {
	return len(w.History) == 0
}

// Tip returns the current node ID, or "" when idle.
func (w Walk) Tip() string {
	if w.IsIdle() {
		return ""
	}
	return w.History[len(w.History)-1]
}

// Clone returns a copy that shares no memory with w.
func (w Walk) Clone() Walk {
	out := w
	if w.History != nil {
		out.History = append([]string(nil), w.History...)
	}
	return out
}

// Action is a user choice offered by a View.
type Action string

const (
	ActionYes         Action = "yes"
	ActionNo          Action = "no"
	ActionResolved    Action = "resolved"
	ActionNotResolved Action = "not_resolved"
	ActionBack        Action = "back"
	ActionReset       Action = "reset"
)

// ViewStatus tells a renderer what kind of screen to draw.
type ViewStatus string

const (
	ViewIdle       ViewStatus = "idle"
	ViewNode       ViewStatus = "node"
	ViewUnresolved ViewStatus = "unresolved"
)

// View is the rendered position of a Walk against a State.
type View struct {
	Status     ViewStatus `json:"status"`
	CategoryID string     `json:"categoryId,omitempty"`
	Category   *Category  `json:"category,omitempty"`
	NodeID     string     `json:"nodeId,omitempty"`
	Node       *Node      `json:"node,omitempty"`
	Actions    []Action   `json:"actions"`
	Depth      int        `json:"depth"`
}

// Allows reports whether a is one of the view's actions.
func (v View) Allows(a Action) bool {
	for _, x := range v.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the view only offers a reset.
func (v View) IsTerminal() bool {
	return v.Status == ViewUnresolved || (v.Node != nil && v.Node.Type == NodeTypeEnd)
}

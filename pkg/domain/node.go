package domain

// NodeType discriminates which fields of a Node are meaningful.
type NodeType string

const (
	// NodeTypeQuestion asks a yes/no question and branches through Yes/No.
	NodeTypeQuestion NodeType = "question"
	// NodeTypeAction lists steps to try and branches through ResolvedYes/ResolvedNo.
	NodeTypeAction NodeType = "action"
	// NodeTypeEnd is terminal. It carries no outgoing references.
	NodeTypeEnd NodeType = "end"
)

// Urgency is the escalation level suggested by a TicketPreset.
type Urgency string

const (
	UrgencyHigh   Urgency = "高"
	UrgencyMedium Urgency = "中"
	UrgencyLow    Urgency = "低"
)

// Source is a reference link attached to a node.
type Source struct {
	Title string `json:"title" mapstructure:"title"`
	URL   string `json:"url" mapstructure:"url"`
}

// TicketPreset pre-fills the escalation form shown on end nodes that hand
// the issue over to the IT desk. It is opaque to the engine.
type TicketPreset struct {
	Category       string   `json:"category" mapstructure:"category"`
	Urgency        Urgency  `json:"urgency" mapstructure:"urgency"`
	Notes          string   `json:"notes" mapstructure:"notes"`
	RequiredFields []string `json:"requiredFields,omitempty" mapstructure:"requiredFields"`
}

// Node is a unit of the decision tree.
// Its identity is the key it is stored under in State.Nodes; all references
// to other nodes are plain IDs resolved against that mapping at read time.
type Node struct {
	Type  NodeType `json:"type" mapstructure:"type"`
	Title string   `json:"title" mapstructure:"title"`
	Body  string   `json:"body" mapstructure:"body"`

	// Steps is only meaningful for action nodes.
	Steps   []string `json:"steps,omitempty" mapstructure:"steps"`
	Sources []Source `json:"sources,omitempty" mapstructure:"sources"`

	// Question branches.
	Yes string `json:"yes,omitempty" mapstructure:"yes"`
	No  string `json:"no,omitempty" mapstructure:"no"`

	// Action branches.
	ResolvedYes string `json:"resolvedYes,omitempty" mapstructure:"resolvedYes"`
	ResolvedNo  string `json:"resolvedNo,omitempty" mapstructure:"resolvedNo"`

	TicketPreset *TicketPreset `json:"ticketPreset,omitempty" mapstructure:"ticketPreset"`
}

// Targets returns every non-empty outgoing reference in the fixed order
// yes, no, resolvedYes, resolvedNo. The node type is not consulted.
func (n Node) Targets() []string {
	targets := make([]string, 0, 4)
	for _, t := range []string{n.Yes, n.No, n.ResolvedYes, n.ResolvedNo} {
		if t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Steps != nil {
		out.Steps = append([]string(nil), n.Steps...)
	}
	if n.Sources != nil {
		out.Sources = append([]Source(nil), n.Sources...)
	}
	if n.TicketPreset != nil {
		tp := *n.TicketPreset
		if tp.RequiredFields != nil {
			tp.RequiredFields = append([]string(nil), tp.RequiredFields...)
		}
		out.TicketPreset = &tp
	}
	return out
}

package dsl

import "github.com/aretw0/itnav/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Question marks the node as a yes/no question.
func (n *NodeBuilder) Question(title string) *NodeBuilder {
	n.node.Type = domain.NodeTypeQuestion
	n.node.Title = title
	return n
}

// Action marks the node as a list of steps for the user to try.
func (n *NodeBuilder) Action(title string) *NodeBuilder {
	n.node.Type = domain.NodeTypeAction
	n.node.Title = title
	return n
}

// End marks the node as terminal and drops any outgoing references.
func (n *NodeBuilder) End(title string) *NodeBuilder {
	n.node.Type = domain.NodeTypeEnd
	n.node.Title = title
	n.node.Yes, n.node.No = "", ""
	n.node.ResolvedYes, n.node.ResolvedNo = "", ""
	return n
}

// Body sets the explanatory text.
func (n *NodeBuilder) Body(body string) *NodeBuilder {
	n.node.Body = body
	return n
}

// Steps appends steps to an action node.
func (n *NodeBuilder) Steps(steps ...string) *NodeBuilder {
	n.node.Steps = append(n.node.Steps, steps...)
	return n
}

// Source attaches a reference link.
func (n *NodeBuilder) Source(title, url string) *NodeBuilder {
	n.node.Sources = append(n.node.Sources, domain.Source{Title: title, URL: url})
	return n
}

// Yes sets the target of a "yes" answer.
func (n *NodeBuilder) Yes(target string) *NodeBuilder {
	n.node.Yes = target
	return n
}

// No sets the target of a "no" answer.
func (n *NodeBuilder) No(target string) *NodeBuilder {
	n.node.No = target
	return n
}

// Resolved sets the target when the action fixed the problem.
func (n *NodeBuilder) Resolved(target string) *NodeBuilder {
	n.node.ResolvedYes = target
	return n
}

// NotResolved sets the target when the action did not help.
func (n *NodeBuilder) NotResolved(target string) *NodeBuilder {
	n.node.ResolvedNo = target
	return n
}

// Ticket attaches an escalation preset.
func (n *NodeBuilder) Ticket(category string, urgency domain.Urgency, notes string, requiredFields ...string) *NodeBuilder {
	n.node.TicketPreset = &domain.TicketPreset{
		Category:       category,
		Urgency:        urgency,
		Notes:          notes,
		RequiredFields: requiredFields,
	}
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node.Clone()
}

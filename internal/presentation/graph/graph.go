// Package graph turns a decision tree into a drawable graph.
package graph

import (
	"github.com/aretw0/itnav/pkg/domain"
)

// Edge labels, one per transition field.
const (
	LabelYes         = "yes"
	LabelNo          = "no"
	LabelResolved    = "resolved"
	LabelNotResolved = "not resolved"
	LabelEntry       = "start"
)

// Vertex is a node of the drawn graph. Category entry points and missing
// targets are vertices too.
type Vertex struct {
	ID       string          `json:"id"`
	Type     domain.NodeType `json:"type,omitempty"`
	Title    string          `json:"title"`
	Category bool            `json:"category,omitempty"`
	Missing  bool            `json:"missing,omitempty"`
}

// Edge is a labeled transition between two vertices.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// Graph is the drawable form of a State.
type Graph struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`
}

// CategoryVertexID is the vertex ID of a category entry point.
func CategoryVertexID(categoryID string) string {
	return "cat:" + categoryID
}

// Build converts s into a Graph. When categoryID is non-empty only that
// category and the nodes reachable from its start node are included.
func Build(s domain.State, categoryID string) Graph {
	g := Graph{Vertices: []Vertex{}, Edges: []Edge{}}
	include := func(string) bool { return true }
	if categoryID != "" {
		reach := reachable(s, categoryID)
		include = func(id string) bool { return reach[id] }
	}

	missing := make(map[string]bool)
	var missingOrder []string
	addEdge := func(from, to, label string) {
		if to == "" {
			return
		}
		g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label})
		if !s.Nodes.Has(to) && !missing[to] {
			missing[to] = true
			missingOrder = append(missingOrder, to)
		}
	}

	for _, c := range s.Categories {
		if categoryID != "" && c.ID != categoryID {
			continue
		}
		id := CategoryVertexID(c.ID)
		g.Vertices = append(g.Vertices, Vertex{ID: id, Title: c.Name, Category: true})
		addEdge(id, c.StartNodeID, LabelEntry)
	}

	s.Nodes.Each(func(id string, n domain.Node) bool {
		if !include(id) {
			return true
		}
		g.Vertices = append(g.Vertices, Vertex{ID: id, Type: n.Type, Title: n.Title})
		addEdge(id, n.Yes, LabelYes)
		addEdge(id, n.No, LabelNo)
		addEdge(id, n.ResolvedYes, LabelResolved)
		addEdge(id, n.ResolvedNo, LabelNotResolved)
		return true
	})

	for _, id := range missingOrder {
		g.Vertices = append(g.Vertices, Vertex{ID: id, Title: id, Missing: true})
	}
	return g
}

// reachable collects the node IDs that can be reached from the category's start.
func reachable(s domain.State, categoryID string) map[string]bool {
	seen := make(map[string]bool)
	c, ok := s.Category(categoryID)
	if !ok {
		return seen
	}
	queue := []string{c.StartNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == "" || seen[id] {
			continue
		}
		n, ok := s.Node(id)
		if !ok {
			continue
		}
		seen[id] = true
		queue = append(queue, n.Targets()...)
	}
	return seen
}

package domain

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Nodes is the insertion-ordered mapping from node ID to Node.
//
// The zero value is an absent mapping (it marshals to null and IsPresent
// reports false), which is how a State missing its "nodes" key is told
// apart from one with an empty tree. Use NewNodes for a present mapping.
type Nodes struct {
	m *orderedmap.OrderedMap[string, Node]
}

// NewNodes returns a present, empty mapping.
func NewNodes() Nodes {
	return Nodes{m: orderedmap.New[string, Node]()}
}

// IsPresent reports whether the mapping exists at all.
func (n Nodes) IsPresent() bool {
	return n.m != nil
}

// Len returns the number of nodes.
func (n Nodes) Len() int {
	if n.m == nil {
		return 0
	}
	return n.m.Len()
}

// Get returns the node stored under id.
func (n Nodes) Get(id string) (Node, bool) {
	if n.m == nil {
		return Node{}, false
	}
	return n.m.Get(id)
}

// Has reports whether id keys an existing node.
func (n Nodes) Has(id string) bool {
	_, ok := n.Get(id)
	return ok
}

// IDs returns the node IDs in mapping order.
func (n Nodes) IDs() []string {
	if n.m == nil {
		return nil
	}
	ids := make([]string, 0, n.m.Len())
	for pair := n.m.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Each calls fn for every node in mapping order until fn returns false.
func (n Nodes) Each(fn func(id string, node Node) bool) {
	if n.m == nil {
		return
	}
	for pair := n.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// With returns a copy of the mapping with id set to node.
// Replacing an existing ID keeps its position; new IDs are appended.
func (n Nodes) With(id string, node Node) Nodes {
	out := n.Clone()
	if out.m == nil {
		out.m = orderedmap.New[string, Node]()
	}
	out.m.Set(id, node)
	return out
}

// Without returns a copy of the mapping with id removed.
func (n Nodes) Without(id string) Nodes {
	out := n.Clone()
	if out.m != nil {
		out.m.Delete(id)
	}
	return out
}

// Clone returns a deep copy. Cloning an absent mapping yields an absent one.
func (n Nodes) Clone() Nodes {
	if n.m == nil {
		return Nodes{}
	}
	out := orderedmap.New[string, Node](n.m.Len())
	for pair := n.m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Clone())
	}
	return Nodes{m: out}
}

// MarshalJSON writes the nodes as a JSON object in mapping order.
func (n Nodes) MarshalJSON() ([]byte, error) {
	if n.m == nil {
		return []byte("null"), nil
	}
	return n.m.MarshalJSON()
}

// UnmarshalJSON reads a JSON object, keeping its key order.
func (n *Nodes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.m = nil
		return nil
	}
	m := orderedmap.New[string, Node]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	n.m = m
	return nil
}

var (
	_ json.Marshaler   = Nodes{}
	_ json.Unmarshaler = (*Nodes)(nil)
)

package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodes_ZeroValueIsAbsent(t *testing.T) {
	var n Nodes
	assert.False(t, n.IsPresent())
	assert.Equal(t, 0, n.Len())
	assert.False(t, n.Has("x"))
	assert.Nil(t, n.IDs())

	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.True(t, NewNodes().IsPresent())
}

func TestNodes_JSONKeepsOrder(t *testing.T) {
	raw := `{"z":{"type":"end","title":"Z"},"a":{"type":"question","title":"A","yes":"z"},"m":{"type":"end","title":"M"}}`

	var n Nodes
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	assert.Equal(t, []string{"z", "a", "m"}, n.IDs())

	a, ok := n.Get("a")
	require.True(t, ok)
	assert.Equal(t, "z", a.Yes)

	out, err := json.Marshal(n)
	require.NoError(t, err)

	var again Nodes
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, n.IDs(), again.IDs())
}

func TestNodes_CopyOnWrite(t *testing.T) {
	orig := NewNodes().With("n1", Node{Type: NodeTypeAction, Steps: []string{"one"}})

	next := orig.With("n1", Node{Type: NodeTypeEnd}).With("n2", Node{Type: NodeTypeEnd})
	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, []string{"n1", "n2"}, next.IDs())

	n1, _ := orig.Get("n1")
	assert.Equal(t, NodeTypeAction, n1.Type)

	removed := next.Without("n1")
	assert.Equal(t, []string{"n2"}, removed.IDs())
	assert.True(t, next.Has("n1"))

	clone := orig.Clone()
	c1, _ := clone.Get("n1")
	c1.Steps[0] = "changed"
	o1, _ := orig.Get("n1")
	assert.Equal(t, "one", o1.Steps[0])
}

func TestNode_Targets(t *testing.T) {
	n := Node{Type: NodeTypeAction, Yes: "a", ResolvedYes: "b", ResolvedNo: "a"}
	assert.Equal(t, []string{"a", "b", "a"}, n.Targets())
	assert.Empty(t, Node{Type: NodeTypeEnd}.Targets())
}

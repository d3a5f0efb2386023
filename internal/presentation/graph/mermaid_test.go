package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/itnav/internal/presentation/graph"
	"github.com/aretw0/itnav/internal/testutils"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	state := testutils.PrinterState()
	state.Nodes = state.Nodes.
		With("q-x", domain.Node{Type: domain.NodeTypeQuestion, Title: `Say "hi"`, Yes: "ghost"})

	got := graph.Mermaid(state, "", nil)

	tests := []struct {
		name string
		want string
	}{
		{"Category Shape", `cat__print(("Printer"))`},
		{"Entry Edge", `cat__print -.-> p_1`},
		{"Question Shape", `p_1{"p_1<br/>Is the printer on?"}`},
		{"Action Shape", `p_2[["p_2<br/>Clear the queue"]]`},
		{"End Shape", `p_ok(["p_ok<br/>Resolved"])`},
		{"Labeled Edges", `p_1 -- "yes" --> p_2`},
		{"Not Resolved Edge", `p_2 -- "not resolved" --> p_ng`},
		{"ID Sanitization And Escaping", `q_x{"q-x<br/>Say #quot;hi#quot;"}`},
		{"Missing Target", `ghost["ghost (missing)"]`},
		{"Missing Style", `class ghost missing;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(got, tt.want) {
				t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, tt.want)
			}
		})
	}
	assert.NotContains(t, got, "Overlay Styles")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	w := domain.Walk{CategoryID: "print", History: []string{"p_1", "p_2"}}
	got := graph.Mermaid(testutils.PrinterState(), "", graph.OverlayFor(w))

	assert.Contains(t, got, "class p_1 visited;")
	assert.Contains(t, got, "class p_2 current;")
	assert.Nil(t, graph.OverlayFor(domain.Walk{}))
}

func TestBuild_Category(t *testing.T) {
	state := testutils.PrinterState()
	state = state.WithCategory(domain.Category{ID: "mail", Name: "Mail", StartNodeID: "m_1"})
	state.Nodes = state.Nodes.With("m_1", domain.Node{Type: domain.NodeTypeEnd, Title: "Mail"})

	g := graph.Build(state, "mail")
	ids := make([]string, len(g.Vertices))
	for i, v := range g.Vertices {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"cat:mail", "m_1"}, ids)
	assert.Equal(t, []graph.Edge{{From: "cat:mail", To: "m_1", Label: graph.LabelEntry}}, g.Edges)

	full := graph.Build(state, "")
	assert.Len(t, full.Vertices, 2+5)
}

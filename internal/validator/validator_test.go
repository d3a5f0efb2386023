package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/pkg/domain"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func state(cats []domain.Category, nodes ...any) *domain.State {
	n := domain.NewNodes()
	for i := 0; i+1 < len(nodes); i += 2 {
		n = n.With(nodes[i].(string), nodes[i+1].(domain.Node))
	}
	return &domain.State{Categories: cats, Nodes: n}
}

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		state *domain.State
		want  []domain.Issue
	}{
		{
			name: "Valid Single End Node",
			state: state([]domain.Category{{ID: "c1", StartNodeID: "n1"}},
				"n1", domain.Node{Type: domain.NodeTypeEnd, Title: "t"}),
			want: []domain.Issue{},
		},
		{
			name: "Missing Start Node",
			state: state([]domain.Category{{ID: "c1", StartNodeID: "missing"}}),
			want: []domain.Issue{
				{ID: "c1", Type: domain.IssueError, Location: domain.LocationCategory, Target: "missing"},
			},
		},
		{
			name:  "Self Loop Is Its Own Reference",
			state: state(nil, "n1", domain.Node{Type: domain.NodeTypeQuestion, Yes: "n1"}),
			want: []domain.Issue{
				{ID: "n1", Type: domain.IssueWarning, Location: domain.LocationNode, Target: "n1"},
			},
		},
		{
			name: "Orphan",
			state: state([]domain.Category{{ID: "c1", StartNodeID: "n1"}},
				"n1", domain.Node{Type: domain.NodeTypeEnd},
				"n2", domain.Node{Type: domain.NodeTypeEnd}),
			want: []domain.Issue{
				{ID: "n2", Type: domain.IssueWarning, Location: domain.LocationNode, Target: "n2"},
			},
		},
		{
			name: "Dangling Transition",
			state: state([]domain.Category{{ID: "c1", StartNodeID: "n1"}},
				"n1", domain.Node{Type: domain.NodeTypeAction, ResolvedYes: "ghost", ResolvedNo: "n2"},
				"n2", domain.Node{Type: domain.NodeTypeEnd}),
			want: []domain.Issue{
				{ID: "n1", Type: domain.IssueError, Location: domain.LocationNode, Target: "ghost"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.state)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.NotEmpty(t, got[i].Message)
				got[i].Message = ""
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_SelfLoopWithReachability(t *testing.T) {
	// n1 loops on itself from two fields but is referenced by its category.
	s := state([]domain.Category{{ID: "c1", StartNodeID: "n1"}},
		"n1", domain.Node{Type: domain.NodeTypeAction, ResolvedYes: "n1", ResolvedNo: "n1", Yes: "n1"})

	issues := Validate(s)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueWarning, issues[0].Type)
	assert.Equal(t, "n1", issues[0].ID)
}

func TestValidate_DanglingStartStillCountsAsReference(t *testing.T) {
	// c2 points nowhere. n1 is referenced by c1 and its own targets dangle.
	s := state([]domain.Category{{ID: "c1", StartNodeID: "n1"}, {ID: "c2", StartNodeID: "gone"}},
		"n1", domain.Node{Type: domain.NodeTypeQuestion, Yes: "x", No: "y"})

	issues := Validate(s)
	require.Len(t, issues, 3)
	assert.Equal(t, domain.LocationCategory, issues[0].Location)
	assert.Equal(t, "c2", issues[0].ID)
	assert.Equal(t, "x", issues[1].Target)
	assert.Equal(t, "y", issues[2].Target)
	for _, i := range issues {
		assert.Equal(t, domain.IssueError, i.Type)
	}
}

func TestValidate_EmptyStartNodeNeverMatchesEmptyKey(t *testing.T) {
	s := state([]domain.Category{{ID: "c1", StartNodeID: ""}},
		"", domain.Node{Type: domain.NodeTypeEnd})

	issues := Validate(s)
	require.Len(t, issues, 2)
	assert.Equal(t, domain.LocationCategory, issues[0].Location)
	assert.Equal(t, domain.IssueWarning, issues[1].Type, "the empty-keyed node must remain an orphan")
	assert.Equal(t, "", issues[1].ID)
}

func TestValidate_GroupedByPass(t *testing.T) {
	s := state([]domain.Category{{ID: "c1", StartNodeID: "a"}, {ID: "c2", StartNodeID: "nope"}},
		"a", domain.Node{Type: domain.NodeTypeQuestion, Yes: "a", No: "ghost"},
		"orphan1", domain.Node{Type: domain.NodeTypeEnd},
		"b", domain.Node{Type: domain.NodeTypeQuestion, Yes: "missing"},
		"orphan2", domain.Node{Type: domain.NodeTypeEnd})

	issues := Validate(s)
	var got []string
	for _, i := range issues {
		got = append(got, string(i.Location)+":"+i.ID+":"+string(i.Type))
	}
	assert.Equal(t, []string{
		"category:c2:error",
		"node:a:error",
		"node:a:warning",
		"node:b:error",
		"node:orphan1:warning",
		"node:b:warning",
		"node:orphan2:warning",
	}, got)
}

func TestValidate_Deterministic(t *testing.T) {
	s := state([]domain.Category{{ID: "c1", StartNodeID: "q"}},
		"q", domain.Node{Type: domain.NodeTypeQuestion, Yes: "q", No: "z"},
		"o", domain.Node{Type: domain.NodeTypeEnd})

	assert.Equal(t, Validate(s), Validate(s))
}

func TestValidate_NilAndAbsentNodes(t *testing.T) {
	assert.Empty(t, Validate(nil))

	issues := Validate(&domain.State{Categories: []domain.Category{{ID: "c1", StartNodeID: "x"}}})
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueError, issues[0].Type)
}

func TestValidate_Locale(t *testing.T) {
	s := state([]domain.Category{{ID: "c1", StartNodeID: "missing"}})

	en := Validate(s)
	ja := Validate(s, WithLocale(LocaleJapanese))
	assert.Equal(t, `start node "missing" does not exist.`, en[0].Message)
	assert.Equal(t, `開始ノード "missing" が存在しません。`, ja[0].Message)

	fallback := Validate(s, WithLocale("fr"))
	assert.Equal(t, en[0].Message, fallback[0].Message)
}

func TestHelpers(t *testing.T) {
	issues := []domain.Issue{
		{ID: "c1", Type: domain.IssueError, Location: domain.LocationCategory, Message: "a", Target: "n1"},
		{ID: "n2", Type: domain.IssueWarning, Location: domain.LocationNode, Message: "b", Target: "n2"},
		{ID: "n3", Type: domain.IssueError, Location: domain.LocationNode, Message: "c", Target: "n10"},
	}

	assert.Equal(t, Summary{Errors: 2, Warnings: 1}, Summarize(issues))
	assert.Len(t, Errors(issues), 2)
	assert.Len(t, Blocking(issues, "n1"), 1)
	assert.Empty(t, Blocking(issues, "n2"), "warnings never block")

	lines := strings.Split(Format(issues), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[ERROR] category#c1: a", lines[0])
	assert.Equal(t, "[WARNING] node#n2: b", lines[1])
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, label string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, metrics.ValidationIssues.WithLabelValues(label).Write(m))
	return m.GetGauge().GetValue()
}

func TestValidate_LeavesMetricsAlone(t *testing.T) {
	broken := state([]domain.Category{{ID: "c1", StartNodeID: "missing"}})
	Record([]domain.Issue{})
	before := counterValue(t, metrics.ValidationRuns)

	issues := Validate(broken)
	require.NotEmpty(t, issues)
	assert.Equal(t, before, counterValue(t, metrics.ValidationRuns))
	assert.Zero(t, gaugeValue(t, string(domain.IssueError)), "internal checks must not move the gauge")

	Record(issues)
	assert.Equal(t, before+1, counterValue(t, metrics.ValidationRuns))
	assert.Equal(t, float64(Summarize(issues).Errors), gaugeValue(t, string(domain.IssueError)))
}

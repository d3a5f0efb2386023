// Package testutils holds fixtures shared by the test suites.
package testutils

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// PrinterState returns a small, issue-free tree:
//
//	print -> p_1 (question) -yes-> p_2 (action) -resolved-> p_ok (end)
//	                        -no--> p_ng (end)     -not resolved-> p_ng
func PrinterState() domain.State {
	return domain.State{
		Categories: []domain.Category{
			{ID: "print", Name: "Printer", Description: "Printing problems", StartNodeID: "p_1"},
		},
		Nodes: domain.NewNodes().
			With("p_1", domain.Node{Type: domain.NodeTypeQuestion, Title: "Is the printer on?", Yes: "p_2", No: "p_ng"}).
			With("p_2", domain.Node{Type: domain.NodeTypeAction, Title: "Clear the queue", Steps: []string{"Open the queue", "Cancel all jobs"}, ResolvedYes: "p_ok", ResolvedNo: "p_ng"}).
			With("p_ok", domain.Node{Type: domain.NodeTypeEnd, Title: "Resolved"}).
			With("p_ng", domain.Node{Type: domain.NodeTypeEnd, Title: "Contact the IT desk", TicketPreset: &domain.TicketPreset{Category: "Printer", Urgency: domain.UrgencyMedium}}),
		News: []domain.NewsItem{
			{ID: "n1", Title: "Maintenance", Date: "2024-05-01", Summary: "Planned outage", IsPublished: true},
			{ID: "n2", Title: "Draft", Date: "2024-05-02", IsPublished: false},
		},
		Version: domain.DefaultVersion,
	}
}

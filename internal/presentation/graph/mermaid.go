package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/itnav/pkg/domain"
)

// Overlay contains walk data to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFor highlights the history of w.
func OverlayFor(w domain.Walk) *Overlay {
	if w.IsIdle() {
		return nil
	}
	return &Overlay{VisitedNodes: w.History, CurrentNode: w.Tip()}
}

// GenerateMermaid produces a Mermaid flowchart from g.
// It applies semantic styling:
// - Category: ((Circle))
// - Question: {Rhombus}
// - Action: [[Subroutine]]
// - End: ([Stadium])
// - Missing target: dashed red rectangle
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var missing []string
	for _, v := range g.Vertices {
		safeID := sanitizeMermaidID(v.ID)

		opener, closer := "[", "]"
		switch {
		case v.Category:
			opener, closer = "((", "))"
		case v.Missing:
			missing = append(missing, safeID)
		case v.Type == domain.NodeTypeQuestion:
			opener, closer = "{", "}"
		case v.Type == domain.NodeTypeAction:
			opener, closer = "[[", "]]"
		case v.Type == domain.NodeTypeEnd:
			opener, closer = "([", "])"
		}

		label := escapeLabel(v.Title)
		if !v.Category && !v.Missing {
			label = fmt.Sprintf("%s<br/>%s", escapeLabel(v.ID), label)
		}
		if v.Missing {
			label = fmt.Sprintf("%s (missing)", escapeLabel(v.ID))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	for _, e := range g.Edges {
		arrow := fmt.Sprintf("-- \"%s\" -->", e.Label)
		if e.Label == LabelEntry {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To)))
	}

	if len(missing) > 0 {
		sb.WriteString("\n    classDef missing fill:#ffebee,stroke:#c62828,stroke-width:2px,stroke-dasharray:5 5,color:#000;\n")
		for _, id := range missing {
			sb.WriteString(fmt.Sprintf("    class %s missing;\n", id))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// Mermaid builds and renders s in one step.
func Mermaid(s domain.State, categoryID string, overlay *Overlay) string {
	return GenerateMermaid(Build(s, categoryID), overlay)
}

var idReplacer = strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "__", " ", "_")

func sanitizeMermaidID(id string) string {
	return idReplacer.Replace(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

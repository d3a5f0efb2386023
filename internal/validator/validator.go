// Package validator reports structural defects in a decision tree:
// dangling start nodes and transitions, self-loops and orphans.
package validator

import (
	"strings"

	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/pkg/domain"
)

// Option configures a validator run.
type Option func(*options)

type options struct {
	locale Locale
}

// WithLocale selects the language of issue messages.
func WithLocale(l Locale) Option {
	return func(o *options) {
		o.locale = ParseLocale(string(l))
	}
}

// Validate inspects state and returns its issues grouped by pass:
// category issues, then per-node issues in node order, then orphan warnings.
// It never fails; absent fields are skipped.
func Validate(state *domain.State, opts ...Option) []domain.Issue {
	o := options{locale: LocaleEnglish}
	for _, opt := range opts {
		opt(&o)
	}
	msg := catalogs[o.locale]

	issues := []domain.Issue{}
	if state == nil {
		return issues
	}
	nodes := state.Nodes
	referenced := make(map[string]bool)

	for _, cat := range state.Categories {
		if cat.StartNodeID == "" || !nodes.Has(cat.StartNodeID) {
			issues = append(issues, domain.Issue{
				ID:       cat.ID,
				Type:     domain.IssueError,
				Location: domain.LocationCategory,
				Message:  msg.missingStart(cat.StartNodeID),
				Target:   cat.StartNodeID,
			})
		}
		// A dangling start still counts as a reference. An empty one never does.
		if cat.StartNodeID != "" {
			referenced[cat.StartNodeID] = true
		}
	}

	nodes.Each(func(id string, node domain.Node) bool {
		selfLoop := false
		for _, target := range node.Targets() {
			if !nodes.Has(target) {
				issues = append(issues, domain.Issue{
					ID:       id,
					Type:     domain.IssueError,
					Location: domain.LocationNode,
					Message:  msg.missingTarget(target),
					Target:   target,
				})
			}
			referenced[target] = true
			if target == id {
				selfLoop = true
			}
		}
		if selfLoop {
			issues = append(issues, domain.Issue{
				ID:       id,
				Type:     domain.IssueWarning,
				Location: domain.LocationNode,
				Message:  msg.selfLoop,
				Target:   id,
			})
		}
		return true
	})

	nodes.Each(func(id string, _ domain.Node) bool {
		if !referenced[id] {
			issues = append(issues, domain.Issue{
				ID:       id,
				Type:     domain.IssueWarning,
				Location: domain.LocationNode,
				Message:  msg.orphan,
				Target:   id,
			})
		}
		return true
	})

	return issues
}

// Record publishes the validation gauges for one reported run. Callers that
// validate internally, such as edit guards, skip it.
func Record(issues []domain.Issue) {
	s := Summarize(issues)
	metrics.ValidationRuns.Inc()
	metrics.ValidationIssues.WithLabelValues(string(domain.IssueError)).Set(float64(s.Errors))
	metrics.ValidationIssues.WithLabelValues(string(domain.IssueWarning)).Set(float64(s.Warnings))
}

// Summary counts issues by type.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summarize counts the issues by type.
func Summarize(issues []domain.Issue) Summary {
	var s Summary
	for _, i := range issues {
		switch i.Type {
		case domain.IssueError:
			s.Errors++
		case domain.IssueWarning:
			s.Warnings++
		}
	}
	return s
}

// Errors returns only the error-class issues, preserving order.
func Errors(issues []domain.Issue) []domain.Issue {
	var out []domain.Issue
	for _, i := range issues {
		if i.Type == domain.IssueError {
			out = append(out, i)
		}
	}
	return out
}

// Blocking returns the error-class issues that name id as their target.
func Blocking(issues []domain.Issue, id string) []domain.Issue {
	var out []domain.Issue
	for _, i := range Errors(issues) {
		if i.Target == id {
			out = append(out, i)
		}
	}
	return out
}

// Format renders issues one per line, ready to paste into a ticket.
func Format(issues []domain.Issue) string {
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

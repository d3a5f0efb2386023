package runtime

import (
	"context"

	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/pkg/domain"
)

var (
	questionActions = []domain.Action{domain.ActionYes, domain.ActionNo, domain.ActionBack, domain.ActionReset}
	actionActions   = []domain.Action{domain.ActionResolved, domain.ActionNotResolved, domain.ActionBack, domain.ActionReset}
	terminalActions = []domain.Action{domain.ActionReset}
)

// Render computes what the end user sees for w.
func (e *Engine) Render(ctx context.Context, state *domain.State, w domain.Walk) domain.View {
	if w.IsIdle() {
		return domain.View{Status: domain.ViewIdle, Actions: []domain.Action{}}
	}

	v := domain.View{
		CategoryID: w.CategoryID,
		NodeID:     w.Tip(),
		Depth:      len(w.History),
	}
	if cat, ok := state.Category(w.CategoryID); ok {
		v.Category = &cat
	}

	node, ok := state.Node(w.Tip())
	if !ok {
		e.logger.Warn("walk is on a missing node", "category", w.CategoryID, "node", w.Tip())
		metrics.UnresolvedTips.Inc()
		e.emit(ctx, e.hooks.OnUnresolved, domain.EventUnresolved, state, w)
		v.Status = domain.ViewUnresolved
		v.Actions = append([]domain.Action(nil), terminalActions...)
		return v
	}

	v.Status = domain.ViewNode
	v.Node = &node
	switch node.Type {
	case domain.NodeTypeQuestion:
		v.Actions = append([]domain.Action(nil), questionActions...)
	case domain.NodeTypeAction:
		v.Actions = append([]domain.Action(nil), actionActions...)
	default:
		v.Actions = append([]domain.Action(nil), terminalActions...)
	}
	return v
}

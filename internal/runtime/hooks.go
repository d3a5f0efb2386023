package runtime

import (
	"context"

	"github.com/aretw0/itnav/pkg/domain"
)

func (e *Engine) emitNodeEnter(ctx context.Context, state *domain.State, w domain.Walk) {
	e.emit(ctx, e.hooks.OnNodeEnter, domain.EventNodeEnter, state, w)
}

func (e *Engine) emitNodeLeave(ctx context.Context, state *domain.State, w domain.Walk) {
	e.emit(ctx, e.hooks.OnNodeLeave, domain.EventNodeLeave, state, w)
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.NodeEvent), typ domain.EventType, state *domain.State, w domain.Walk) {
	if hook == nil {
		return
	}
	ev := &domain.NodeEvent{
		EventBase:  domain.EventBase{Timestamp: e.now(), Type: typ},
		CategoryID: w.CategoryID,
		NodeID:     w.Tip(),
		Depth:      len(w.History),
	}
	if state == nil {
		hook(ctx, ev)
		return
	}
	if node, ok := state.Node(w.Tip()); ok {
		ev.NodeType = node.Type
	}
	hook(ctx, ev)
}

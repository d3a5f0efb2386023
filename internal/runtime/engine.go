// Package runtime drives an end user's walk through the committed tree.
//
// Walks are immutable values. Every operation takes a Walk and returns a new
// one; the caller decides where to keep it.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/internal/metrics"
	"github.com/aretw0/itnav/pkg/domain"
)

// Engine is the navigation state machine. It holds no walk state itself.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a navigation engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select enters a category, starting a fresh walk at its start node.
// The start node is not checked for existence; Render reports it if missing.
func (e *Engine) Select(ctx context.Context, state *domain.State, categoryID string) (domain.Walk, error) {
	cat, ok := state.Category(categoryID)
	if !ok {
		return domain.Walk{}, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, categoryID)
	}
	w := domain.Walk{CategoryID: cat.ID, History: []string{cat.StartNodeID}}
	e.logger.Debug("walk started", "category", cat.ID, "node", cat.StartNodeID)
	metrics.NavigationMoves.WithLabelValues("select").Inc()
	e.emitNodeEnter(ctx, state, w)
	return w, nil
}

// Advance appends target to the history. Empty targets leave the walk unchanged.
// The target is not checked against any state.
func (e *Engine) Advance(w domain.Walk, target string) domain.Walk {
	if target == "" {
		return w
	}
	next := w.Clone()
	next.History = append(next.History, target)
	return next
}

// Back pops the current node. Popping the last node returns to Idle.
func (e *Engine) Back(w domain.Walk) domain.Walk {
	if len(w.History) <= 1 {
		return domain.Walk{}
	}
	next := w.Clone()
	next.History = next.History[:len(next.History)-1]
	return next
}

// Reset returns to Idle from anywhere.
func (e *Engine) Reset() domain.Walk {
	return domain.Walk{}
}

// Choose applies a user action to the walk.
//
// Yes and No route through question nodes, Resolved and NotResolved through
// action nodes. Back and Reset are accepted in any in-flow position. Anything
// else fails with ErrIllegalAction, or ErrUnresolvableNode when the current
// node does not exist.
func (e *Engine) Choose(ctx context.Context, state *domain.State, w domain.Walk, action domain.Action) (domain.Walk, error) {
	switch action {
	case domain.ActionReset:
		metrics.NavigationMoves.WithLabelValues(string(action)).Inc()
		e.emit(ctx, e.hooks.OnReset, domain.EventReset, state, w)
		return e.Reset(), nil
	case domain.ActionBack:
		if w.IsIdle() {
			return w, fmt.Errorf("%w: %s while idle", domain.ErrIllegalAction, action)
		}
		metrics.NavigationMoves.WithLabelValues(string(action)).Inc()
		e.emitNodeLeave(ctx, state, w)
		next := e.Back(w)
		if !next.IsIdle() {
			e.emitNodeEnter(ctx, state, next)
		}
		return next, nil
	}

	if w.IsIdle() {
		return w, fmt.Errorf("%w: %s while idle", domain.ErrIllegalAction, action)
	}
	node, ok := state.Node(w.Tip())
	if !ok {
		return w, fmt.Errorf("%w: %s", domain.ErrUnresolvableNode, w.Tip())
	}

	target, ok := route(node, action)
	if !ok {
		return w, fmt.Errorf("%w: %s on %s node %s", domain.ErrIllegalAction, action, node.Type, w.Tip())
	}

	if target == "" {
		e.logger.Debug("branch has no target, staying", "node", w.Tip(), "action", action)
		return w, nil
	}

	metrics.NavigationMoves.WithLabelValues(string(action)).Inc()
	e.logger.Debug("walk advanced", "from", w.Tip(), "action", action, "to", target)
	e.emitNodeLeave(ctx, state, w)
	next := e.Advance(w, target)
	e.emitNodeEnter(ctx, state, next)
	return next, nil
}

func route(node domain.Node, action domain.Action) (string, bool) {
	switch node.Type {
	case domain.NodeTypeQuestion:
		switch action {
		case domain.ActionYes:
			return node.Yes, true
		case domain.ActionNo:
			return node.No, true
		}
	case domain.NodeTypeAction:
		switch action {
		case domain.ActionResolved:
			return node.ResolvedYes, true
		case domain.ActionNotResolved:
			return node.ResolvedNo, true
		}
	}
	return "", false
}

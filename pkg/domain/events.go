package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter  EventType = "node_enter"
	EventNodeLeave  EventType = "node_leave"
	EventReset      EventType = "reset"
	EventUnresolved EventType = "unresolved"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent reports movement through the tree during a walk.
type NodeEvent struct {
	EventBase
	CategoryID string   `json:"category_id"`
	NodeID     string   `json:"node_id"`
	NodeType   NodeType `json:"node_type,omitempty"`
	Depth      int      `json:"depth"`
}

// LifecycleHooks defines callbacks for navigation observability.
type LifecycleHooks struct {
	OnNodeEnter  func(context.Context, *NodeEvent)
	OnNodeLeave  func(context.Context, *NodeEvent)
	OnReset      func(context.Context, *NodeEvent)
	OnUnresolved func(context.Context, *NodeEvent)
}

package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventProcessStart  EventType = "process_start"
	EventProcessExit   EventType = "process_exit"
	EventProcessFailed EventType = "process_failed"
)

// ProcessEvent describes a change in a launched process.
type ProcessEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	RunID     string        `json:"run_id"`
	Process   ProcessRecord `json:"process"`
}

// LifecycleHooks defines callbacks for launch observability.
// Hooks run on the supervisor's goroutines and must not block.
type LifecycleHooks struct {
	OnProcessStart  func(context.Context, *ProcessEvent)
	OnProcessFailed func(context.Context, *ProcessEvent)
	OnProcessExit   func(context.Context, *ProcessEvent)
}

// Fire dispatches an event to the matching hook, if any.
func (h LifecycleHooks) Fire(ctx context.Context, e *ProcessEvent) {
	switch e.Type {
	case EventProcessStart:
		if h.OnProcessStart != nil {
			h.OnProcessStart(ctx, e)
		}
	case EventProcessFailed:
		if h.OnProcessFailed != nil {
			h.OnProcessFailed(ctx, e)
		}
	case EventProcessExit:
		if h.OnProcessExit != nil {
			h.OnProcessExit(ctx, e)
		}
	}
}

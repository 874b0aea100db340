package trace

import "github.com/google/uuid"

// TraceContext is an immutable snapshot of trace linkage that can be exported
// from one Tracer and imported into another, propagating lineage across
// process or task boundaries without sharing mutable state.
type TraceContext struct {
	TraceID     uuid.UUID  `json:"trace_id"`
	ParentRunID *uuid.UUID `json:"parent_run_id,omitempty"`
	DottedOrder string     `json:"dotted_order,omitempty"`
	ThreadID    string     `json:"thread_id,omitempty"`
	SessionName string     `json:"session_name,omitempty"`
}

// NewContext creates a context for the given trace.
func NewContext(traceID uuid.UUID) TraceContext {
	return TraceContext{TraceID: traceID}
}

// WithParent returns a copy carrying the parent run id.
func (c TraceContext) WithParent(parentRunID uuid.UUID) TraceContext {
	c.ParentRunID = &parentRunID
	return c
}

// WithDottedOrder returns a copy carrying the dotted order.
func (c TraceContext) WithDottedOrder(key string) TraceContext {
	c.DottedOrder = key
	return c
}

// WithThreadID returns a copy carrying the thread id.
func (c TraceContext) WithThreadID(threadID string) TraceContext {
	c.ThreadID = threadID
	return c
}

// WithSessionName returns a copy carrying the session name.
func (c TraceContext) WithSessionName(name string) TraceContext {
	c.SessionName = name
	return c
}

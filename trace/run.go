package trace

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunType classifies a traced unit of work.
type RunType string

// Fixed run types understood by the collector.
const (
	TypeChain     RunType = "chain"
	TypeLLM       RunType = "llm"
	TypeTool      RunType = "tool"
	TypeRetriever RunType = "retriever"
	TypeEmbedding RunType = "embedding"
	TypePrompt    RunType = "prompt"
	TypeRunnable  RunType = "runnable"
)

// CustomType returns an open-ended run type outside the fixed set.
func CustomType(kind string) RunType { return RunType(kind) }

var (
	// ErrAlreadyFinished is returned when a run is finalized a second time.
	ErrAlreadyFinished = errors.New("run already finished")

	// ErrInvalidRun is returned when a run fails validation before transmission.
	ErrInvalidRun = errors.New("invalid run")
)

// dottedOrderSep joins parent and child dotted-order segments.
const dottedOrderSep = "."

// Run is one recorded unit of traced execution. A Run is owned exclusively by
// the Tracer that created it and is not safe for concurrent mutation.
type Run struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Type        RunType        `json:"run_type"`
	Inputs      map[string]any `json:"inputs"`
	Outputs     map[string]any `json:"outputs,omitempty"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	ParentRunID *uuid.UUID     `json:"parent_run_id,omitempty"`
	TraceID     *uuid.UUID     `json:"trace_id,omitempty"`
	DottedOrder string         `json:"dotted_order,omitempty"`
	SessionName string         `json:"session_name,omitempty"`
	ThreadID    string         `json:"thread_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	Metrics
}

// NewRun creates a pending run with a fresh id and the given start time.
// It carries no parent or trace linkage until attached to a hierarchy.
func NewRun(name string, kind RunType, inputs map[string]any, start time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		Name:      name,
		Type:      kind,
		Inputs:    inputs,
		StartTime: start.UTC(),
	}
}

// DeriveDottedOrder computes the run's dotted order given the parent's key.
// An empty parent key yields a root segment. Pure: the result depends only on
// the run's start time, its id, and the parent key.
func (r *Run) DeriveDottedOrder(parentKey string) string {
	start := r.StartTime.UTC()
	segment := fmt.Sprintf("%s%06dZ%s",
		start.Format("20060102T150405"),
		start.Nanosecond()/1000,
		r.ID)
	if parentKey == "" {
		return segment
	}
	return parentKey + dottedOrderSep + segment
}

// End finalizes the run with outputs. Outputs and end time are set together,
// exactly once; a second finalization returns ErrAlreadyFinished.
func (r *Run) End(outputs map[string]any, now time.Time) error {
	if r.EndTime != nil {
		return ErrAlreadyFinished
	}
	end := now.UTC()
	r.Outputs = outputs
	r.EndTime = &end
	return nil
}

// Fail finalizes the run with a terminal error message and no outputs.
func (r *Run) Fail(message string, now time.Time) error {
	if r.EndTime != nil {
		return ErrAlreadyFinished
	}
	end := now.UTC()
	r.Error = message
	r.EndTime = &end
	return nil
}

// SetError records a failure message without finalizing the run. It can be
// combined with End to finalize a partially failed run with outputs.
func (r *Run) SetError(message string) {
	r.Error = message
}

// Validate enforces the invariants required before transmission.
func (r *Run) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidRun)
	}
	if r.Inputs == nil {
		return fmt.Errorf("%w: inputs must be an object", ErrInvalidRun)
	}
	return nil
}

// RunUpdate is the terminal PATCH payload for an existing run: outputs, end
// time, error, and token/cost metrics only.
type RunUpdate struct {
	Outputs map[string]any `json:"outputs,omitempty"`
	EndTime *time.Time     `json:"end_time,omitempty"`
	Error   string         `json:"error,omitempty"`
	Metrics
}

// Update builds the terminal PATCH payload from the run's current state.
func (r *Run) Update() RunUpdate {
	return RunUpdate{
		Outputs: r.Outputs,
		EndTime: r.EndTime,
		Error:   r.Error,
		Metrics: r.Metrics,
	}
}

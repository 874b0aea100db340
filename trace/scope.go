package trace

import (
	"context"
	"errors"

	"github.com/runsmith/runsmith-go/serialize"
)

// ErrScopeEnded is returned when a RunScope is used after finalization.
var ErrScopeEnded = errors.New("run scope already ended")

// RunScope wraps a Tracer with "post at most once, end exactly once"
// semantics and payload normalization. After End or Fail the scope is
// consumed: every further call returns ErrScopeEnded.
type RunScope struct {
	tracer *Tracer
	posted bool
	ended  bool
}

// NewScope creates a root scope, normalizing the input payload.
func NewScope(name string, kind RunType, input any, opts ...Option) (*RunScope, error) {
	inputs, err := serialize.Inputs(input)
	if err != nil {
		return nil, err
	}
	return &RunScope{tracer: NewTracer(name, kind, inputs, opts...)}, nil
}

// NewScopeValue creates a root scope from an already-normalized payload.
func NewScopeValue(name string, kind RunType, inputs map[string]any, opts ...Option) *RunScope {
	return &RunScope{tracer: NewTracer(name, kind, inputs, opts...)}
}

// Tracer exposes the wrapped tracer.
func (s *RunScope) Tracer() *Tracer { return s.tracer }

// Child derives a scope for a new run parented under this one.
func (s *RunScope) Child(name string, kind RunType, input any) (*RunScope, error) {
	if s.ended {
		return nil, ErrScopeEnded
	}
	inputs, err := serialize.Inputs(input)
	if err != nil {
		return nil, err
	}
	return &RunScope{tracer: s.tracer.CreateChild(name, kind, inputs)}, nil
}

// Start posts the run start. Safe to call repeatedly; only the first call
// transmits.
func (s *RunScope) Start(ctx context.Context) error {
	if s.ended {
		return ErrScopeEnded
	}
	if s.posted {
		return nil
	}
	s.tracer.SaveStart(ctx)
	s.posted = true
	return nil
}

// End finalizes the run with the normalized output payload and consumes the
// scope.
func (s *RunScope) End(ctx context.Context, output any) error {
	if s.ended {
		return ErrScopeEnded
	}
	outputs, err := serialize.Outputs(output)
	if err != nil {
		return err
	}
	s.ended = true
	return s.tracer.SaveEnd(ctx, outputs)
}

// Fail finalizes the run with a terminal error message and consumes the
// scope.
func (s *RunScope) Fail(ctx context.Context, message string) error {
	if s.ended {
		return ErrScopeEnded
	}
	s.ended = true
	return s.tracer.SaveError(ctx, message)
}

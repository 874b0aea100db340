package trace

import (
	"context"

	"github.com/runsmith/runsmith-go/serialize"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Recorder is the entry point for instrumentation: it holds the shared
// transport handle, the project runs are recorded under, and the enabled
// switch. A nil Recorder or a Recorder without a transport is disabled and
// adds zero overhead to wrapped work.
type Recorder struct {
	transport Transport
	log       *zap.Logger
	clock     clockz.Clock
	project   string
	enabled   bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger inherited by tracers the recorder
// creates.
func WithRecorderLogger(log *zap.Logger) RecorderOption {
	return func(r *Recorder) { r.log = log }
}

// WithRecorderClock injects the time source inherited by tracers the
// recorder creates.
func WithRecorderClock(clock clockz.Clock) RecorderOption {
	return func(r *Recorder) { r.clock = clock }
}

// WithProject sets the session name stamped on every run.
func WithProject(name string) RecorderOption {
	return func(r *Recorder) { r.project = name }
}

// Disabled turns the recorder off regardless of transport.
func Disabled() RecorderOption {
	return func(r *Recorder) { r.enabled = false }
}

// NewRecorder creates a recorder around a shared transport handle. Passing a
// nil transport yields a disabled recorder.
func NewRecorder(transport Transport, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		transport: transport,
		log:       zap.NewNop(),
		clock:     clockz.RealClock,
		enabled:   transport != nil,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether wrapped work should be traced at all.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled && r.transport != nil
}

// NewTracer creates a tracer carrying the recorder's transport, logger,
// clock, and project.
func (r *Recorder) NewTracer(name string, kind RunType, inputs map[string]any, opts ...Option) *Tracer {
	base := []Option{
		WithTransport(r.transport),
		WithLogger(r.log),
		WithClock(r.clock),
	}
	if r.project != "" {
		base = append(base, WithSessionName(r.project))
	}
	return NewTracer(name, kind, inputs, append(base, opts...)...)
}

// NewScope creates a root RunScope carrying the recorder's state.
func (r *Recorder) NewScope(name string, kind RunType, input any, opts ...Option) (*RunScope, error) {
	inputs, err := serialize.Inputs(input)
	if err != nil {
		return nil, err
	}
	return &RunScope{tracer: r.NewTracer(name, kind, inputs, opts...)}, nil
}

// Traced wraps one unit of work in a traced run. When the recorder is
// disabled the function runs directly, with no run allocated and no
// transport touched. Otherwise the input is normalized, a run is posted, the
// work executes, and the run is finalized with the serialized output or the
// work's error message.
//
// The wrapped work's own success or failure is the only thing the caller
// observes: tracing-transport failures are logged and swallowed, and a work
// error is returned unchanged. Serialization failures of the input or output
// indicate a bug in the caller's types and are surfaced.
func Traced[I, O any](ctx context.Context, rec *Recorder, name string, kind RunType, input I, fn func(context.Context, I) (O, error)) (O, error) {
	if !rec.Enabled() {
		return fn(ctx, input)
	}

	inputs, err := serialize.Inputs(input)
	if err != nil {
		var zero O
		return zero, err
	}

	tracer := rec.NewTracer(name, kind, inputs)
	tracer.SaveStart(ctx)

	output, err := fn(ctx, input)
	if err != nil {
		if saveErr := tracer.SaveError(ctx, err.Error()); saveErr != nil {
			rec.log.Warn("run finalize failed", zap.Error(saveErr))
		}
		return output, err
	}

	outputs, serErr := serialize.Outputs(output)
	if serErr != nil {
		_ = tracer.SaveError(ctx, serErr.Error())
		return output, serErr
	}
	if saveErr := tracer.SaveEnd(ctx, outputs); saveErr != nil {
		rec.log.Warn("run finalize failed", zap.Error(saveErr))
	}
	return output, nil
}

package trace

import (
	"context"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Tracer owns exactly one Run and drives its two-phase save lifecycle against
// a Transport. Children derived from a Tracer are independent objects sharing
// only the transport handle and copied identifier values, so a parent and its
// descendants never alias mutable state.
type Tracer struct {
	run       *Run
	transport Transport
	log       *zap.Logger
	clock     clockz.Clock
}

// Option configures a Tracer at construction time.
type Option func(*Tracer)

// WithTransport attaches the transport used by the save calls. A Tracer
// without a transport performs all hierarchy bookkeeping but transmits
// nothing.
func WithTransport(t Transport) Option {
	return func(tr *Tracer) { tr.transport = t }
}

// WithLogger sets the logger used to report swallowed transport failures.
func WithLogger(log *zap.Logger) Option {
	return func(tr *Tracer) { tr.log = log }
}

// WithClock injects the time source. Enables deterministic dotted orders in
// tests.
func WithClock(clock clockz.Clock) Option {
	return func(tr *Tracer) { tr.clock = clock }
}

// WithThreadID sets the cross-cutting thread correlation id.
func WithThreadID(threadID string) Option {
	return func(tr *Tracer) { tr.run.ThreadID = threadID }
}

// WithSessionName sets the project/session the run is recorded under.
func WithSessionName(name string) Option {
	return func(tr *Tracer) { tr.run.SessionName = name }
}

// WithTags appends tags to the run.
func WithTags(tags ...string) Option {
	return func(tr *Tracer) { tr.run.Tags = append(tr.run.Tags, tags...) }
}

// WithTraceContext resumes a trace that originated elsewhere, overwriting the
// run's linkage from the supplied snapshot.
func WithTraceContext(tc TraceContext) Option {
	return func(tr *Tracer) { tr.AttachContext(tc) }
}

// NewTracer wraps a fresh Run. Nothing is transmitted until SaveStart.
func NewTracer(name string, kind RunType, inputs map[string]any, opts ...Option) *Tracer {
	tr := &Tracer{
		log:   zap.NewNop(),
		clock: clockz.RealClock,
	}
	tr.run = &Run{
		ID:     uuid.New(),
		Name:   name,
		Type:   kind,
		Inputs: inputs,
	}
	for _, opt := range opts {
		opt(tr)
	}
	// Stamped after options so an injected clock governs the start time.
	tr.run.StartTime = tr.clock.Now().UTC()
	return tr
}

// CreateChild derives a new Tracer whose run is parented under this one.
// Derivation is a pure function of the parent's current in-memory state: the
// child inherits trace id, thread id, and session name, and its dotted order
// extends the parent's. A parent that has not yet been assigned a key yields
// a root-like child key; assignment never waits on transmission.
func (tr *Tracer) CreateChild(name string, kind RunType, inputs map[string]any) *Tracer {
	child := &Tracer{
		transport: tr.transport,
		log:       tr.log,
		clock:     tr.clock,
	}
	child.run = &Run{
		ID:          uuid.New(),
		Name:        name,
		Type:        kind,
		Inputs:      inputs,
		StartTime:   tr.clock.Now().UTC(),
		SessionName: tr.run.SessionName,
		ThreadID:    tr.run.ThreadID,
	}

	parentID := tr.run.ID
	child.run.ParentRunID = &parentID

	traceID := tr.run.ID
	if tr.run.TraceID != nil {
		traceID = *tr.run.TraceID
	}
	child.run.TraceID = &traceID

	child.run.DottedOrder = child.run.DeriveDottedOrder(tr.run.DottedOrder)
	return child
}

// AttachContext overwrites the run's linkage from an externally supplied
// snapshot. Used when resuming a trace that originated in another process.
func (tr *Tracer) AttachContext(tc TraceContext) {
	traceID := tc.TraceID
	tr.run.TraceID = &traceID
	if tc.ParentRunID != nil {
		parentID := *tc.ParentRunID
		tr.run.ParentRunID = &parentID
	}
	if tc.DottedOrder != "" {
		tr.run.DottedOrder = tc.DottedOrder
	}
	if tc.ThreadID != "" {
		tr.run.ThreadID = tc.ThreadID
	}
	if tc.SessionName != "" {
		tr.run.SessionName = tc.SessionName
	}
}

// ExportContext snapshots the run's linkage for propagation. The trace id
// defaults to the run's own id when the run has not joined a hierarchy yet.
func (tr *Tracer) ExportContext() TraceContext {
	tc := TraceContext{
		TraceID:     tr.run.ID,
		DottedOrder: tr.run.DottedOrder,
		ThreadID:    tr.run.ThreadID,
		SessionName: tr.run.SessionName,
	}
	if tr.run.TraceID != nil {
		tc.TraceID = *tr.run.TraceID
	}
	if tr.run.ParentRunID != nil {
		parentID := *tr.run.ParentRunID
		tc.ParentRunID = &parentID
	}
	return tc
}

// SaveStart transmits the initial representation of the run. A run with no
// trace membership becomes the root of a new trace: trace id set to its own
// id, dotted order self-derived. Transport failures are logged and swallowed;
// tracing never aborts the traced operation.
func (tr *Tracer) SaveStart(ctx context.Context) {
	if tr.run.TraceID == nil {
		traceID := tr.run.ID
		tr.run.TraceID = &traceID
		if tr.run.DottedOrder == "" {
			tr.run.DottedOrder = tr.run.DeriveDottedOrder("")
		}
	}
	if tr.transport == nil {
		return
	}
	if err := tr.transport.CreateRun(ctx, tr.run); err != nil {
		tr.log.Warn("run create failed",
			zap.String("run_id", tr.run.ID.String()),
			zap.String("run_name", tr.run.Name),
			zap.Error(err))
	}
}

// SaveEnd finalizes the run with outputs and transmits the terminal update.
// Returns ErrAlreadyFinished if the run was finalized before; transport
// failures are logged and swallowed.
func (tr *Tracer) SaveEnd(ctx context.Context, outputs map[string]any) error {
	if err := tr.run.End(outputs, tr.clock.Now()); err != nil {
		return err
	}
	tr.patch(ctx)
	return nil
}

// SaveError finalizes the run with a terminal error message and transmits the
// terminal update.
func (tr *Tracer) SaveError(ctx context.Context, message string) error {
	if err := tr.run.Fail(message, tr.clock.Now()); err != nil {
		return err
	}
	tr.patch(ctx)
	return nil
}

func (tr *Tracer) patch(ctx context.Context) {
	if tr.transport == nil {
		return
	}
	if err := tr.transport.UpdateRun(ctx, tr.run.ID, tr.run.Update()); err != nil {
		tr.log.Warn("run update failed",
			zap.String("run_id", tr.run.ID.String()),
			zap.String("run_name", tr.run.Name),
			zap.Error(err))
	}
}

// SetMetrics records token/cost accounting carried in the terminal update.
func (tr *Tracer) SetMetrics(m Metrics) { tr.run.Metrics = m }

// SetError records a failure message without finalizing the run.
func (tr *Tracer) SetError(message string) { tr.run.SetError(message) }

// Run exposes the underlying run. The Tracer retains exclusive ownership;
// callers must not mutate it.
func (tr *Tracer) Run() *Run { return tr.run }

// RunID returns the run's immutable id.
func (tr *Tracer) RunID() uuid.UUID { return tr.run.ID }

// TraceID returns the id of the trace root, defaulting to the run's own id
// when membership is unresolved.
func (tr *Tracer) TraceID() uuid.UUID {
	if tr.run.TraceID != nil {
		return *tr.run.TraceID
	}
	return tr.run.ID
}

// ParentRunID returns the parent run id, or uuid.Nil for roots.
func (tr *Tracer) ParentRunID() uuid.UUID {
	if tr.run.ParentRunID != nil {
		return *tr.run.ParentRunID
	}
	return uuid.Nil
}

// DottedOrder returns the assigned ordering key, empty until trace membership
// is resolved.
func (tr *Tracer) DottedOrder() string { return tr.run.DottedOrder }

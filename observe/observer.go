// Package observe provides observer glue around traced work: callbacks that
// fire on node start, completion, and failure, independent of whether the
// collector transport is enabled.
package observe

import (
	"context"

	"go.uber.org/zap"

	"github.com/runsmith/runsmith-go/serialize"
	"github.com/runsmith/runsmith-go/trace"
)

// Observer receives node execution events.
type Observer interface {
	OnStart(name string, inputs map[string]any)
	OnEnd(name string, outputs map[string]any)
	OnError(name string, err error)
}

// LogObserver logs node events through zap.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer writing to the given logger.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnStart(name string, inputs map[string]any) {
	o.log.Info("node started", zap.String("node", name))
}

func (o *LogObserver) OnEnd(name string, outputs map[string]any) {
	o.log.Info("node completed", zap.String("node", name))
}

func (o *LogObserver) OnError(name string, err error) {
	o.log.Warn("node failed", zap.String("node", name), zap.Error(err))
}

// Node wraps one unit of work with tracing and observer notification. The
// wrapped function's own success or failure is the only thing the caller
// observes.
type Node[I, O any] struct {
	name      string
	kind      trace.RunType
	rec       *trace.Recorder
	observers []Observer
	fn        func(context.Context, I) (O, error)
}

// NewNode builds an observable node around fn.
func NewNode[I, O any](name string, kind trace.RunType, rec *trace.Recorder, fn func(context.Context, I) (O, error)) *Node[I, O] {
	return &Node[I, O]{name: name, kind: kind, rec: rec, fn: fn}
}

// Observe registers observers and returns the node for chaining.
func (n *Node[I, O]) Observe(observers ...Observer) *Node[I, O] {
	n.observers = append(n.observers, observers...)
	return n
}

// Run executes the node with tracing and fires observer callbacks around it.
func (n *Node[I, O]) Run(ctx context.Context, input I) (O, error) {
	if len(n.observers) > 0 {
		// Best-effort for observers; the traced path normalizes again and
		// surfaces serialization failures itself.
		inputs, _ := serialize.Inputs(input)
		for _, obs := range n.observers {
			obs.OnStart(n.name, inputs)
		}
	}

	output, err := trace.Traced(ctx, n.rec, n.name, n.kind, input, n.fn)

	if err != nil {
		for _, obs := range n.observers {
			obs.OnError(n.name, err)
		}
		return output, err
	}
	if len(n.observers) > 0 {
		outputs, _ := serialize.Outputs(output)
		for _, obs := range n.observers {
			obs.OnEnd(n.name, outputs)
		}
	}
	return output, nil
}

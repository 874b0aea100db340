// Package graph provides opinionated helpers for recording a graph-style
// hierarchy: a root chain run, one child run per node iteration, and nested
// runs for LLM calls, routing decisions, and tool calls.
package graph

import (
	"context"

	"github.com/runsmith/runsmith-go/trace"
)

// RootName is the name of the run at the root of every graph trace.
const RootName = "Graph"

// Trace records one graph execution.
type Trace struct {
	root *trace.RunScope
}

// Start posts the root run and returns the trace. A non-empty threadID groups
// executions into a conversation thread.
func Start(ctx context.Context, rec *trace.Recorder, inputs map[string]any, threadID string) (*Trace, error) {
	opts := []trace.Option{}
	if threadID != "" {
		opts = append(opts, trace.WithThreadID(threadID))
	}
	root, err := rec.NewScope(RootName, trace.TypeChain, inputs, opts...)
	if err != nil {
		return nil, err
	}
	if err := root.Start(ctx); err != nil {
		return nil, err
	}
	return &Trace{root: root}, nil
}

// Root exposes the root scope for custom children.
func (t *Trace) Root() *trace.RunScope { return t.root }

// StartNode posts a node iteration under the root and returns its scope so
// nested runs can hang off it.
func (t *Trace) StartNode(ctx context.Context, name string, inputs map[string]any) (*trace.RunScope, error) {
	node, err := t.root.Child(name, trace.TypeChain, inputs)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		return nil, err
	}
	return node, nil
}

// LLMCall records a completed model call under a node. A non-empty model name
// is folded into the inputs.
func (t *Trace) LLMCall(ctx context.Context, node *trace.RunScope, name string, inputs, outputs map[string]any, model string) error {
	if model != "" && inputs != nil {
		inputs["model"] = model
	}
	return t.record(ctx, node, name, trace.TypeLLM, inputs, outputs)
}

// Decision records a completed routing step under a node.
func (t *Trace) Decision(ctx context.Context, node *trace.RunScope, name string, inputs, outputs map[string]any) error {
	return t.record(ctx, node, name, trace.TypeChain, inputs, outputs)
}

// ToolCall records a completed tool invocation under a node. The run is named
// tool/{name}, matching the convention collectors use for tool runs.
func (t *Trace) ToolCall(ctx context.Context, node *trace.RunScope, name string, inputs, outputs map[string]any) error {
	return t.record(ctx, node, "tool/"+name, trace.TypeTool, inputs, outputs)
}

func (t *Trace) record(ctx context.Context, parent *trace.RunScope, name string, kind trace.RunType, inputs, outputs map[string]any) error {
	child, err := parent.Child(name, kind, inputs)
	if err != nil {
		return err
	}
	if err := child.Start(ctx); err != nil {
		return err
	}
	return child.End(ctx, outputs)
}

// End finalizes the root run. The trace must not be used afterwards.
func (t *Trace) End(ctx context.Context, outputs map[string]any) error {
	return t.root.End(ctx, outputs)
}

// Fail finalizes the root run with a terminal error.
func (t *Trace) Fail(ctx context.Context, message string) error {
	return t.root.Fail(ctx, message)
}

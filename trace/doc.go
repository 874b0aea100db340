/*
Package trace implements the run hierarchy and two-phase save lifecycle at the
core of the runsmith SDK.

# Overview

A Run is one recorded unit of traced work. Runs form trees: every run carries
the id of the run that spawned it, the id of the root of its tree (the trace
id), and a dotted order — a string that sorts lexicographically by creation
time and encodes ancestry by prefix containment. A Tracer owns exactly one Run
and drives its lifecycle against a Transport: POST on start, PATCH with
outputs, end time, error, and token metrics on finish.

# Dotted order

Each run contributes one fixed-width segment:

	20240919T171648521691Z0e01bf50-474d-4536-810f-67d3ee7ea3e7
	\______________/\____/\____________________________________/
	 UTC timestamp   micro  canonical UUID

Child segments are appended to the parent's dotted order with a "." separator,
so for any ancestor/descendant pair the descendant's key starts with the
ancestor's key, and comparing two keys in the same tree orders them by
creation time. The UUID suffix breaks ties between runs created in the same
microsecond. Derivation is pure: the same start time, id, and parent key
always produce the same string, independent of transmission order.

# Lifecycle

	Created -> Started (SaveStart) -> Finished (SaveEnd / SaveError)

Transmission is best-effort: transport failures are logged and swallowed so
tracing never aborts the traced operation. Finalizing a run twice is a logic
error and returns ErrAlreadyFinished.

# Usage

	rec := trace.NewRecorder(transport, trace.WithProject("my-project"))

	out, err := trace.Traced(ctx, rec, "pipeline", trace.TypeChain, input,
		func(ctx context.Context, in Input) (Output, error) {
			return runPipeline(ctx, in)
		})
*/
package trace

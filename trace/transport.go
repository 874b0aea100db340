package trace

import (
	"context"

	"github.com/google/uuid"
)

// Transport delivers run lifecycle events to a remote collector. The client
// package provides the HTTP implementation; tests substitute fakes.
//
// Both calls return an error on network failure or a non-2xx response. Save
// paths treat these as best-effort: they log and swallow.
type Transport interface {
	// CreateRun sends the initial representation of a newly started run.
	CreateRun(ctx context.Context, run *Run) error

	// UpdateRun sends the terminal representation for an existing run id.
	UpdateRun(ctx context.Context, runID uuid.UUID, update RunUpdate) error
}

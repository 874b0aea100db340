// Package id generates ULID correlation ids for collector requests. ULIDs
// are k-sortable, so collector-side logs line up with submission order, and
// the req_ prefix keeps them readable in logs.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID correlates one transport call in logs on both ends.
type RequestID string

// RequestPrefix marks request-scoped ids.
const RequestPrefix = "req"

// Generator produces ULIDs from a guarded entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator backed by crypto/rand.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(rand.Reader)
	})
	return defaultGenerator
}

// NewGenerator creates a generator with the given entropy source. Tests pass
// deterministic readers.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// NewRequestID generates a prefixed request correlation id.
func NewRequestID() RequestID {
	return RequestID(RequestPrefix + "_" + Default().Generate().String())
}

// String returns the id as a plain string.
func (id RequestID) String() string { return string(id) }

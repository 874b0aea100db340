package observe

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/runsmith/runsmith-go/trace"
)

type countTransport struct {
	mu      sync.Mutex
	creates int
	updates int
}

func (c *countTransport) CreateRun(context.Context, *trace.Run) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates++
	return nil
}

func (c *countTransport) UpdateRun(context.Context, uuid.UUID, trace.RunUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates++
	return nil
}

type eventObserver struct {
	events []string
	inputs map[string]any
	err    error
}

func (o *eventObserver) OnStart(name string, inputs map[string]any) {
	o.events = append(o.events, "start:"+name)
	o.inputs = inputs
}

func (o *eventObserver) OnEnd(name string, _ map[string]any) {
	o.events = append(o.events, "end:"+name)
}

func (o *eventObserver) OnError(name string, err error) {
	o.events = append(o.events, "error:"+name)
	o.err = err
}

func TestNodeNotifiesObserversOnSuccess(t *testing.T) {
	transport := &countTransport{}
	rec := trace.NewRecorder(transport)
	obs := &eventObserver{}

	node := NewNode("step", trace.TypeChain, rec,
		func(_ context.Context, n int) (int, error) { return n + 1, nil },
	).Observe(obs)

	out, err := node.Run(context.Background(), 41)

	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, []string{"start:step", "end:step"}, obs.events)
	assert.Equal(t, map[string]any{"input": float64(41)}, obs.inputs)
	assert.Equal(t, 1, transport.creates)
	assert.Equal(t, 1, transport.updates)
}

func TestNodeNotifiesObserversOnError(t *testing.T) {
	boom := errors.New("boom")
	rec := trace.NewRecorder(&countTransport{})
	obs := &eventObserver{}

	node := NewNode("step", trace.TypeTool, rec,
		func(context.Context, int) (int, error) { return 0, boom },
	).Observe(obs)

	_, err := node.Run(context.Background(), 1)

	assert.Same(t, boom, err)
	assert.Equal(t, []string{"start:step", "error:step"}, obs.events)
	assert.Same(t, boom, obs.err)
}

func TestNodeWithoutObserversStillTraces(t *testing.T) {
	transport := &countTransport{}
	rec := trace.NewRecorder(transport)

	node := NewNode("step", trace.TypeChain, rec,
		func(_ context.Context, s string) (string, error) { return s, nil })

	out, err := node.Run(context.Background(), "pass")

	require.NoError(t, err)
	assert.Equal(t, "pass", out)
	assert.Equal(t, 1, transport.creates)
}

func TestNodeDisabledRecorderSkipsTracingButNotifies(t *testing.T) {
	rec := trace.NewRecorder(nil)
	obs := &eventObserver{}

	node := NewNode("step", trace.TypeChain, rec,
		func(_ context.Context, n int) (int, error) { return n * 2, nil },
	).Observe(obs)

	out, err := node.Run(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 10, out)
	assert.Equal(t, []string{"start:step", "end:step"}, obs.events)
}

func TestLogObserverDoesNotPanic(t *testing.T) {
	obs := NewLogObserver(zap.NewNop())

	obs.OnStart("n", map[string]any{})
	obs.OnEnd("n", map[string]any{})
	obs.OnError("n", errors.New("x"))
}

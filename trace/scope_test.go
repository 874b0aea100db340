package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeStartPostsAtMostOnce(t *testing.T) {
	transport := &fakeTransport{}
	scope, err := NewScope("node", TypeChain, 5, WithTransport(transport))
	require.NoError(t, err)

	require.NoError(t, scope.Start(context.Background()))
	require.NoError(t, scope.Start(context.Background()))
	require.NoError(t, scope.Start(context.Background()))

	assert.Len(t, transport.created, 1)
}

func TestScopeNormalizesInputs(t *testing.T) {
	transport := &fakeTransport{}
	scope, err := NewScope("node", TypeChain, 5, WithTransport(transport))
	require.NoError(t, err)
	require.NoError(t, scope.Start(context.Background()))

	require.Len(t, transport.created, 1)
	assert.Equal(t, map[string]any{"input": float64(5)}, transport.created[0].Inputs)
}

func TestScopeEndConsumesScope(t *testing.T) {
	transport := &fakeTransport{}
	scope, err := NewScope("node", TypeChain, map[string]any{}, WithTransport(transport))
	require.NoError(t, err)
	require.NoError(t, scope.Start(context.Background()))
	require.NoError(t, scope.End(context.Background(), "done"))

	assert.ErrorIs(t, scope.End(context.Background(), "again"), ErrScopeEnded)
	assert.ErrorIs(t, scope.Start(context.Background()), ErrScopeEnded)
	assert.ErrorIs(t, scope.Fail(context.Background(), "late"), ErrScopeEnded)
	_, err = scope.Child("child", TypeTool, nil)
	assert.ErrorIs(t, err, ErrScopeEnded)

	require.Len(t, transport.updated, 1)
	assert.Equal(t, map[string]any{"output": "done"}, transport.updated[0].Outputs)
}

func TestScopeFailConsumesScope(t *testing.T) {
	transport := &fakeTransport{}
	scope, err := NewScope("node", TypeChain, map[string]any{}, WithTransport(transport))
	require.NoError(t, err)
	require.NoError(t, scope.Start(context.Background()))
	require.NoError(t, scope.Fail(context.Background(), "boom"))

	assert.ErrorIs(t, scope.End(context.Background(), "late"), ErrScopeEnded)
	require.Len(t, transport.updated, 1)
	assert.Equal(t, "boom", transport.updated[0].Error)
}

func TestScopeChildHierarchy(t *testing.T) {
	transport := &fakeTransport{}
	root := NewScopeValue("root", TypeChain, map[string]any{}, WithTransport(transport))
	require.NoError(t, root.Start(context.Background()))

	child, err := root.Child("step", TypeTool, map[string]any{"n": 1})
	require.NoError(t, err)
	require.NoError(t, child.Start(context.Background()))
	require.NoError(t, child.End(context.Background(), map[string]any{"n": 2}))

	assert.Equal(t, root.Tracer().RunID(), child.Tracer().ParentRunID())
	assert.Equal(t, root.Tracer().RunID(), child.Tracer().TraceID())
	assert.Len(t, transport.created, 2)
	assert.Len(t, transport.updated, 1)
}

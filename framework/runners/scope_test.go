package runners

import (
	"context"
	"errors"
	"testing"

	"github.com/launchdarkly/test-tree/framework/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedBodySeesFreshScopeDelegatingToCaller(t *testing.T) {
	outer := NewScope(RootScope())
	outer.Set("inherited", 1)
	ctx := WithScope(context.Background(), outer)

	var inner *Scope
	decorated := Scoped(tree.NewCase("x", func(ctx context.Context) error {
		inner = CurrentScope(ctx)
		value, ok := inner.Lookup("inherited")
		if !ok || value != 1 {
			return errors.New("lookup was not delegated")
		}
		inner.Set("local", 2)
		return nil
	}))

	require.NoError(t, decorated.(tree.Case).Run(ctx))
	require.NotNil(t, inner)
	assert.NotSame(t, outer, inner)
	assert.Same(t, outer, inner.Parent())
	_, ok := outer.Lookup("local")
	assert.False(t, ok)
	assert.Same(t, outer, CurrentScope(ctx))
}

func TestScopedRunsCleanupsInReverseOrder(t *testing.T) {
	var order []int
	decorated := Scoped(tree.NewCase("x", func(ctx context.Context) error {
		scope := CurrentScope(ctx)
		scope.Defer(func() { order = append(order, 1) })
		scope.Defer(func() { order = append(order, 2) })
		return nil
	}))
	require.NoError(t, runCase(decorated))
	assert.Equal(t, []int{2, 1}, order)
}

func TestScopedRunsCleanupsWhenBodyFails(t *testing.T) {
	cleaned := 0
	failing := Scoped(tree.NewCase("fails", func(ctx context.Context) error {
		CurrentScope(ctx).Defer(func() { cleaned++ })
		return errors.New("failed")
	}))
	panicking := Scoped(tree.NewCase("panics", func(ctx context.Context) error {
		CurrentScope(ctx).Defer(func() { cleaned++ })
		panic("boom")
	}))

	assert.EqualError(t, runCase(failing), "failed")
	assert.Error(t, runCase(panicking))
	assert.Equal(t, 2, cleaned)
}

func TestScopedUsesNewScopeEachInvocation(t *testing.T) {
	var scopes []*Scope
	decorated := Scoped(tree.NewCase("x", func(ctx context.Context) error {
		scopes = append(scopes, CurrentScope(ctx))
		return nil
	}))
	require.NoError(t, runCase(decorated))
	require.NoError(t, runCase(decorated))
	require.Len(t, scopes, 2)
	assert.NotSame(t, scopes[0], scopes[1])
	assert.Same(t, RootScope(), scopes[0].Parent())
}

func TestCurrentScopeDefaultsToRoot(t *testing.T) {
	assert.Same(t, RootScope(), CurrentScope(context.Background()))
	assert.Nil(t, RootScope().Parent())
}

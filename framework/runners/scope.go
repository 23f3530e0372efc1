package runners

import (
	"context"
	"sync"

	"github.com/launchdarkly/test-tree/framework/tree"
)

// Scope is an ambient environment made available to case bodies through their context. Values set
// in a scope are visible to it and to every scope derived from it; lookups that miss in a scope
// are delegated to its parent. Scope is safe for concurrent use.
type Scope struct {
	parent   *Scope
	values   map[interface{}]interface{}
	cleanups []func()
	lock     sync.Mutex
}

type scopeContextKey struct{}

var rootScope = &Scope{} //nolint:gochecknoglobals

// RootScope returns the process-wide scope that is in effect when a context carries no other.
func RootScope() *Scope { return rootScope }

// CurrentScope returns the scope attached to ctx, or the root scope.
func CurrentScope(ctx context.Context) *Scope {
	if s, ok := ctx.Value(scopeContextKey{}).(*Scope); ok {
		return s
	}
	return rootScope
}

// WithScope returns a copy of ctx that carries s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// NewScope returns an empty scope that delegates to parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Parent returns the scope this one delegates to, or nil for the root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Set stores a value in this scope. It does not affect the parent.
func (s *Scope) Set(key, value interface{}) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.values == nil {
		s.values = make(map[interface{}]interface{})
	}
	s.values[key] = value
}

// Lookup finds the value for key in this scope or the nearest ancestor that has one.
func (s *Scope) Lookup(key interface{}) (interface{}, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		scope.lock.Lock()
		value, ok := scope.values[key]
		scope.lock.Unlock()
		if ok {
			return value, true
		}
	}
	return nil, false
}

// Defer registers a function to be called when the scope is closed. Functions run in reverse
// order of registration. Closing the root scope never happens, so functions deferred on it never
// run.
func (s *Scope) Defer(cleanupFn func()) {
	s.lock.Lock()
	s.cleanups = append(s.cleanups, cleanupFn)
	s.lock.Unlock()
}

func (s *Scope) close() {
	s.lock.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.lock.Unlock()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Scoped runs the body of every case of t in a new scope derived from the scope of the context
// the case is invoked with. The new scope is closed when the body exits, however it exits, which
// runs everything deferred on it. The caller's scope is never changed.
func Scoped(t tree.Test) tree.Test {
	return tree.Transform(t, func(c tree.Case) tree.Case {
		return tree.NewCase(c.Name(), func(ctx context.Context) error {
			scope := NewScope(CurrentScope(ctx))
			defer scope.close()
			return c.Run(WithScope(ctx, scope))
		})
	})
}

package tree

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/launchdarkly/test-tree/framework/defect"

	"golang.org/x/exp/slices"
)

// ErrNilTest is the panic value used when a nil Test is given to a Suite.
var ErrNilTest = errors.New("test must not be nil")

// Test is a node of a test tree. The only implementations are Case and Suite.
type Test interface {
	Name() string
	isTest()
}

// Body is the executable part of a Case. A non-nil return value is a raised defect.
type Body func(ctx context.Context) error

// Case is a leaf of a test tree.
type Case struct {
	name string
	body Body
}

// NewCase creates a Case. It panics if body is nil.
func NewCase(name string, body Body) Case {
	if body == nil {
		panic(fmt.Errorf("case %q: body must not be nil", name))
	}
	return Case{name: name, body: body}
}

func (c Case) Name() string { return c.name }

func (c Case) isTest() {}

// Run invokes the body once. A panic in the body is recovered and returned as a *defect.PanicError.
// The zero Case has no body and always succeeds.
func (c Case) Run(ctx context.Context) (err error) {
	if c.body == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &defect.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return c.body(ctx)
}

func (c Case) String() string { return c.name }

// Resolved returns a Case whose body does not run any test logic: it returns err, which may be
// nil, every time it is called. Reports produced by running a tree consist of resolved cases.
func Resolved(name string, err error) Case {
	return Case{name: name, body: func(context.Context) error { return err }}
}

// Suite is a named, ordered collection of tests.
type Suite struct {
	name     string
	children []Test
}

// NewSuite creates a Suite with the given children. It panics with ErrNilTest if any child is nil.
func NewSuite(name string, children ...Test) Suite {
	return Suite{name: name}.WithChildren(children...)
}

func (s Suite) Name() string { return s.name }

func (s Suite) isTest() {}

func (s Suite) String() string { return s.name }

// Children returns a copy of the suite's children.
func (s Suite) Children() []Test { return slices.Clone(s.children) }

// Len returns the number of direct children.
func (s Suite) Len() int { return len(s.children) }

// Child returns the i'th direct child.
func (s Suite) Child(i int) Test { return s.children[i] }

// WithChild returns a new Suite with t appended to the children.
func (s Suite) WithChild(t Test) Suite {
	return s.WithChildren(t)
}

// WithChildren returns a new Suite with tests appended to the children. Every element is checked
// before anything is appended.
func (s Suite) WithChildren(tests ...Test) Suite {
	for _, t := range tests {
		if t == nil {
			panic(fmt.Errorf("suite %q: %w", s.name, ErrNilTest))
		}
	}
	children := make([]Test, 0, len(s.children)+len(tests))
	children = append(children, s.children...)
	children = append(children, tests...)
	return Suite{name: s.name, children: children}
}

// Tester produces a test for an item, for instance all the contract checks for one implementation.
type Tester[T any] func(item T) Test

// TestThat returns a new Suite with the test that tester produces for item appended.
func TestThat[T any](s Suite, item T, tester Tester[T]) Suite {
	return s.WithChild(tester(item))
}

// TestThatAll returns a new Suite with one test per item appended, in item order.
func TestThatAll[T any](s Suite, items []T, tester Tester[T]) Suite {
	tests := make([]Test, 0, len(items))
	for _, item := range items {
		tests = append(tests, tester(item))
	}
	return s.WithChildren(tests...)
}

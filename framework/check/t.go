package check

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/launchdarkly/test-tree/framework"
	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

// T is the scope of one invocation of a case body. It is very similar to Go's testing.T.
//
// A T must only be used from the goroutine that runs the body, since FailNow and Skip stop that
// goroutine's body by panicking.
type T struct {
	ctx         context.Context
	name        string
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []*defect.AssertionFailureError
	helperFns   []string
}

// Case returns a tree.Case whose body runs action with a fresh T every time it is invoked.
func Case(name string, action func(t *T)) tree.Case {
	return tree.NewCase(name, func(ctx context.Context) error {
		t := &T{ctx: ctx, name: name}
		return t.run(action)
	})
}

func (t *T) run(action func(*T)) (err error) {
	defer func() {
		if r := recover(); r != nil && r != t {
			err = &defect.PanicError{Value: r, Stack: debug.Stack()}
		}
		for i := len(t.cleanups) - 1; i >= 0; i-- {
			t.cleanups[i]()
		}
		if err == nil {
			err = t.outcome()
		}
	}()

	action(t)
	return nil
}

func (t *T) outcome() error {
	switch {
	case t.skipped:
		return &defect.AssumptionViolationError{Reason: t.skipReason}
	case t.failed:
		failure := &defect.AssertionFailureError{
			Message: "test failed with no failure message",
			Output:  t.debugLogger.Output(),
		}
		if len(t.errors) > 0 {
			messages := make([]string, 0, len(t.errors))
			for _, e := range t.errors {
				messages = append(messages, e.Error())
			}
			failure.Message = strings.Join(messages, "\n")
			failure.Stacktrace = t.errors[0].Stacktrace
		}
		return failure
	default:
		return nil
	}
}

// Name returns the name of the case.
func (t *T) Name() string {
	return t.name
}

// Context returns the context the case was invoked with.
func (t *T) Context() context.Context {
	return t.ctx
}

// Errorf reports a test failure. It does not stop the body.
//
// You will rarely use this method directly; it is part of this type's implementation of the base
// interfaces testing.T and assert.TestingT, allowing it to be called from assertion helpers.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	message := defect.StripTestifyTrace(fmt.Sprintf(format, args...))
	t.errors = append(t.errors, &defect.AssertionFailureError{
		Message:    message,
		Stacktrace: defect.CaptureStacktrace(1, t.helperFns),
	})
}

// Fail marks the test as failed without adding a message.
func (t *T) Fail() {
	t.failed = true
}

// FailNow marks the test as failed and stops the body immediately. Deferred functions still run.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Fatalf is equivalent to Errorf followed by FailNow.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	t.FailNow()
}

// Skip stops the body immediately and marks the case as skipped. A skip takes precedence over any
// failures reported before it.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Debug writes a message to the debug output of the case, which is attached to its failure.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to the debug output of the case.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when the body exits for any
// reason. Unlike a Go defer statement, Defer can be used from within helper functions.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}

// Helper marks the function that calls it as a test helper that shouldn't appear in stacktraces.
// Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	t.helperFns = append(t.helperFns, f.Name())
}

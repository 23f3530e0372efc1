package runners

import (
	"context"
	"fmt"
	"reflect"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

// Expect inverts the outcome of every case of t. A case that raises an error assignable to E,
// anywhere in its wrap chain, now succeeds. The chain is not followed into the cause of an
// *defect.AssertionFailureError, so a reported failure is never taken for the expected error. A
// case that raises nothing, or raises some other error, now fails with an assertion failure; in
// the second case the failure wraps the raised error.
//
//	runners.Expect[*fs.PathError](t)
func Expect[E error](t tree.Test) tree.Test {
	expected := reflect.TypeOf((*E)(nil)).Elem()
	return tree.Transform(t, func(c tree.Case) tree.Case {
		return tree.NewCase(c.Name(), func(ctx context.Context) error {
			err := c.Run(ctx)
			if err == nil {
				return defect.Failf("nothing raised")
			}
			if !raised[E](err) {
				return &defect.AssertionFailureError{
					Message:    fmt.Sprintf("expected %s but raised %T: %s", expected, err, err),
					Cause:      err,
					Stacktrace: defect.CaptureStacktrace(0, nil),
				}
			}
			return nil
		})
	})
}

// raised reports whether err, or an error it wraps, is assignable to E. Unwrapping stops at
// assertion failures, which wrap the error they were caused by.
func raised[E error](err error) bool {
	for err != nil {
		if _, ok := err.(E); ok {
			return true
		}
		if _, ok := err.(*defect.AssertionFailureError); ok {
			return false
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range x.Unwrap() {
				if raised[E](e) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

// ExpectMatching is like Expect, but the raised error must satisfy matcher instead of being of a
// particular type.
//
//	runners.ExpectMatching(runners.ErrorMessage().Should(m.StringContains("denied")), t)
func ExpectMatching(matcher m.Matcher, t tree.Test) tree.Test {
	return tree.Transform(t, func(c tree.Case) tree.Case {
		return tree.NewCase(c.Name(), func(ctx context.Context) error {
			err := c.Run(ctx)
			if err == nil {
				return defect.Failf("nothing raised")
			}
			if pass, desc := matcher.Test(err); !pass {
				return &defect.AssertionFailureError{
					Message:    desc,
					Cause:      err,
					Stacktrace: defect.CaptureStacktrace(0, nil),
				}
			}
			return nil
		})
	})
}

// ErrorMessage is a matcher transform from an error to its message.
func ErrorMessage() m.MatcherTransform {
	return m.Transform("error message", func(value interface{}) (interface{}, error) {
		err, ok := value.(error)
		if !ok {
			return nil, fmt.Errorf("expected an error, got %T", value)
		}
		return err.Error(), nil
	})
}

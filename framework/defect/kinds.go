package defect

import (
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/test-tree/framework"
)

// Kind is the classification of a raised defect.
type Kind int

const (
	// Unclassified is any defect that is neither an assertion failure nor an assumption violation.
	Unclassified Kind = iota
	// AssertionFailure is a reported test failure.
	AssertionFailure
	// AssumptionViolation means the preconditions of a case were not met, so it counts as skipped.
	AssumptionViolation
)

func (k Kind) String() string {
	switch k {
	case AssertionFailure:
		return "failure"
	case AssumptionViolation:
		return "skipped"
	default:
		return "error"
	}
}

// Classify returns the kind of a non-nil defect. Wrapped defects are classified by the first
// tagged error found in their chain.
func Classify(err error) Kind {
	var failure *AssertionFailureError
	var violation *AssumptionViolationError
	switch {
	case errors.As(err, &failure):
		return AssertionFailure
	case errors.As(err, &violation):
		return AssumptionViolation
	default:
		return Unclassified
	}
}

// AssertionFailureError is raised when an expected condition does not hold.
type AssertionFailureError struct {
	Message    string
	Cause      error
	Stacktrace []StacktraceInfo
	Output     framework.CapturedOutput
}

func (e *AssertionFailureError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *AssertionFailureError) Unwrap() error { return e.Cause }

// AssumptionViolationError is raised when a case cannot meaningfully run.
type AssumptionViolationError struct {
	Reason string
}

func (e *AssumptionViolationError) Error() string {
	if e.Reason == "" {
		return "skipped"
	}
	return e.Reason
}

// TimeoutError is raised by a case that did not finish before its deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s", e.After)
}

// PanicError is a panic recovered from a case body.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("unexpected panic in test: %+v", e.Value)
}

// Unwrap exposes the panic value when the body panicked with an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Failf creates an assertion failure with a stacktrace starting at the caller.
func Failf(format string, args ...interface{}) error {
	return &AssertionFailureError{
		Message:    fmt.Sprintf(format, args...),
		Stacktrace: CaptureStacktrace(1, nil),
	}
}

// FailWithCause creates an assertion failure that wraps another error and takes its message.
func FailWithCause(cause error) error {
	return &AssertionFailureError{Cause: cause, Stacktrace: CaptureStacktrace(1, nil)}
}

// Skipf creates an assumption violation.
func Skipf(format string, args ...interface{}) error {
	return &AssumptionViolationError{Reason: fmt.Sprintf(format, args...)}
}

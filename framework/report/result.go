package report

import (
	"fmt"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Errors   []TestResult
	Skipped  []TestResult
}

type TestResult struct {
	TestID tree.ID
	Err    error
}

// Kind classifies the result. It is only meaningful if Err is not nil.
func (r TestResult) Kind() defect.Kind {
	return defect.Classify(r.Err)
}

func (r TestResult) Passed() bool {
	return r.Err == nil
}

// OK is true if no test failed or raised an error. Skipped tests do not count against it.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.Errors) == 0
}

// AllFailures returns every failed test and every test that raised an error, as TestFailure values.
func (r Results) AllFailures() []error {
	ret := make([]error, 0, len(r.Failures)+len(r.Errors))
	for _, list := range [][]TestResult{r.Failures, r.Errors} {
		for _, result := range list {
			ret = append(ret, TestFailure{ID: result.TestID, Err: result.Err})
		}
	}
	return ret
}

func (r Results) String() string {
	return fmt.Sprintf("%d tests, %d failed, %d errors, %d skipped",
		len(r.Tests), len(r.Failures), len(r.Errors), len(r.Skipped))
}

func (r *Results) add(result TestResult) {
	r.Tests = append(r.Tests, result)
	if result.Err == nil {
		return
	}
	switch result.Kind() {
	case defect.AssertionFailure:
		r.Failures = append(r.Failures, result)
	case defect.AssumptionViolation:
		r.Skipped = append(r.Skipped, result)
	default:
		r.Errors = append(r.Errors, result)
	}
}

type TestFailure struct {
	ID  tree.ID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

func (f TestFailure) Unwrap() error { return f.Err }

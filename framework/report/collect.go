package report

import (
	"context"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

// Collect invokes every case of a report tree once, in tree order, and notifies logger of each
// outcome. Suites are not reported themselves; their names only appear as part of case IDs.
//
// Collect is usually given the result of runners.Run, but any tree works: its cases then run for
// real, on the calling goroutine.
func Collect(ctx context.Context, report tree.Test, logger TestLogger) Results {
	if logger == nil {
		logger = NullTestLogger()
	}
	var results Results
	tree.Walk(report, func(id tree.ID, t tree.Test) bool {
		c, ok := t.(tree.Case)
		if !ok {
			return true
		}
		logger.TestStarted(id)
		result := TestResult{TestID: id, Err: c.Run(ctx)}
		if result.Err != nil && result.Kind() == defect.AssumptionViolation {
			logger.TestSkipped(id, result.Err.Error())
		} else {
			if result.Err != nil {
				logger.TestError(id, result.Err)
			}
			logger.TestFinished(id, result)
		}
		results.add(result)
		return true
	})
	return results
}

package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/runners"
	"github.com/launchdarkly/test-tree/framework/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(name string) tree.Case { return tree.Resolved(name, nil) }

func raising(name string, err error) tree.Case { return tree.Resolved(name, err) }

type recordingLogger struct {
	events []string
}

func (r *recordingLogger) TestStarted(id tree.ID) { r.events = append(r.events, "started "+id.String()) }
func (r *recordingLogger) TestError(id tree.ID, err error) {
	r.events = append(r.events, "error "+id.String()+": "+err.Error())
}
func (r *recordingLogger) TestFinished(id tree.ID, result TestResult) {
	r.events = append(r.events, "finished "+id.String())
}
func (r *recordingLogger) TestSkipped(id tree.ID, reason string) {
	r.events = append(r.events, "skipped "+id.String()+": "+reason)
}
func (r *recordingLogger) EndLog(Results) error { return nil }

func mixedReport() tree.Test {
	return tree.NewSuite("math",
		ok("add"),
		raising("sub", defect.Failf("expected 2 got 3")),
		tree.NewSuite("div", raising("by zero", errors.New("division by zero")), raising("later", defect.Skipf("not yet"))),
	)
}

func TestCollectClassifiesOutcomes(t *testing.T) {
	results := Collect(context.Background(), mixedReport(), nil)

	require.Len(t, results.Tests, 4)
	assert.Equal(t, tree.ID{"math", "add"}, results.Tests[0].TestID)
	assert.True(t, results.Tests[0].Passed())
	assert.Equal(t, tree.ID{"math", "div", "by zero"}, results.Tests[2].TestID)

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "math/sub", results.Failures[0].TestID.String())
	require.Len(t, results.Errors, 1)
	assert.Equal(t, "math/div/by zero", results.Errors[0].TestID.String())
	require.Len(t, results.Skipped, 1)
	assert.Equal(t, "math/div/later", results.Skipped[0].TestID.String())

	assert.False(t, results.OK())
	assert.Equal(t, "4 tests, 1 failed, 1 errors, 1 skipped", results.String())
	assert.Len(t, results.AllFailures(), 2)
	assert.EqualError(t, results.AllFailures()[0], "[math/sub]: expected 2 got 3")
}

func TestCollectNotifiesLogger(t *testing.T) {
	logger := &recordingLogger{}
	_ = Collect(context.Background(), mixedReport(), logger)
	assert.Equal(t, []string{
		"started math/add",
		"finished math/add",
		"started math/sub",
		"error math/sub: expected 2 got 3",
		"finished math/sub",
		"started math/div/by zero",
		"error math/div/by zero: division by zero",
		"finished math/div/by zero",
		"started math/div/later",
		"skipped math/div/later: not yet",
	}, logger.events)
}

func TestSkippedTestsDoNotFailResults(t *testing.T) {
	results := Collect(context.Background(), tree.NewSuite("s", ok("a"), raising("b", defect.Skipf("no"))), nil)
	assert.True(t, results.OK())
}

func TestCollectOfRunReport(t *testing.T) {
	invoked := 0
	source := tree.NewSuite("s", tree.NewCase("x", func(context.Context) error {
		invoked++
		return nil
	}))
	report := runners.Run(context.Background(), source)
	results := Collect(context.Background(), report, nil)
	_ = Collect(context.Background(), report, nil)
	assert.True(t, results.OK())
	assert.Equal(t, 1, invoked)
}

func TestConsoleTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	results := Collect(context.Background(), mixedReport(), logger)
	require.NoError(t, logger.EndLog(results))

	out := buf.String()
	assert.Contains(t, out, "[math/add]")
	assert.Contains(t, out, "FAILED: math/sub")
	assert.Contains(t, out, "ERROR: math/div/by zero")
	assert.Contains(t, out, "SKIPPED: math/div/later (not yet)")
	assert.Contains(t, out, "FAILED TESTS (2):")
}

func TestConsoleTestLoggerAllPassed(t *testing.T) {
	var buf bytes.Buffer
	logger := ConsoleTestLogger{Out: &buf}
	require.NoError(t, logger.EndLog(Collect(context.Background(), ok("x"), logger)))
	assert.Contains(t, buf.String(), "All tests passed")
}

func TestMultiTestLogger(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	_ = Collect(context.Background(), ok("x"), MultiTestLogger{Loggers: []TestLogger{a, b}})
	assert.Equal(t, []string{"started x", "finished x"}, a.events)
	assert.Equal(t, a.events, b.events)
}

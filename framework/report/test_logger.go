package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/launchdarkly/test-tree/framework"
	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"

	"github.com/fatih/color"
)

var consoleTestErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleTestFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleTestBrokenColor = color.New(color.FgMagenta)            //nolint:gochecknoglobals
var consoleTestSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)               //nolint:gochecknoglobals
var allTestsPassedColor = color.New(color.FgGreen)                 //nolint:gochecknoglobals

// TestLogger receives the outcome of every case that Collect invokes.
type TestLogger interface {
	TestStarted(id tree.ID)
	TestError(id tree.ID, err error)
	TestFinished(id tree.ID, result TestResult)
	TestSkipped(id tree.ID, reason string)
	EndLog(results Results) error
}

type nullTestLogger struct{}

func NullTestLogger() TestLogger { return nullTestLogger{} }

func (n nullTestLogger) TestStarted(tree.ID)              {}
func (n nullTestLogger) TestError(tree.ID, error)         {}
func (n nullTestLogger) TestFinished(tree.ID, TestResult) {}
func (n nullTestLogger) TestSkipped(tree.ID, string)      {}
func (n nullTestLogger) EndLog(Results) error             { return nil }

// ConsoleTestLogger prints test progress. Failures and errors are labeled differently: a failure
// means an assertion did not hold, an error means the case raised something unexpected.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool

	// Out is where output goes; the default is os.Stdout.
	Out io.Writer
}

func (c ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c ConsoleTestLogger) TestStarted(id tree.ID) {
	fmt.Fprintf(c.out(), "[%s]\n", id)
}

func (c ConsoleTestLogger) TestError(id tree.ID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		_, _ = consoleTestErrorColor.Fprintf(c.out(), "  %s\n", line)
	}
	var failure *defect.AssertionFailureError
	if errors.As(err, &failure) {
		for _, s := range failure.Stacktrace {
			_, _ = consoleTestErrorColor.Fprintf(c.out(), "    at %s\n", s)
		}
	}
}

func (c ConsoleTestLogger) TestFinished(id tree.ID, result TestResult) {
	if result.Passed() {
		return
	}
	if result.Kind() == defect.AssertionFailure {
		_, _ = consoleTestFailedColor.Fprintf(c.out(), "  FAILED: %s\n", id)
	} else {
		_, _ = consoleTestBrokenColor.Fprintf(c.out(), "  ERROR: %s\n", id)
	}
	if debugOutput := debugOutputOf(result.Err); len(debugOutput) > 0 && c.DebugOutputOnFailure {
		_, _ = consoleDebugOutputColor.Fprintln(c.out(), debugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleTestLogger) TestSkipped(id tree.ID, reason string) {
	if reason == "" {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "  SKIPPED: %s\n", id)
	} else {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c ConsoleTestLogger) EndLog(results Results) error {
	if results.OK() {
		_, _ = allTestsPassedColor.Fprintf(c.out(), "All tests passed (%s)\n", results)
		return nil
	}
	_, _ = consoleTestFailedColor.Fprintf(c.out(), "FAILED TESTS (%d):\n", len(results.Failures)+len(results.Errors))
	for _, f := range results.Failures {
		_, _ = consoleTestFailedColor.Fprintf(c.out(), "  * %s\n", f.TestID)
	}
	for _, f := range results.Errors {
		_, _ = consoleTestBrokenColor.Fprintf(c.out(), "  * %s (error)\n", f.TestID)
	}
	return nil
}

// MultiTestLogger passes every notification to each of its loggers, in order.
type MultiTestLogger struct {
	Loggers []TestLogger
}

func (m MultiTestLogger) TestStarted(id tree.ID) {
	for _, l := range m.Loggers {
		l.TestStarted(id)
	}
}

func (m MultiTestLogger) TestError(id tree.ID, err error) {
	for _, l := range m.Loggers {
		l.TestError(id, err)
	}
}

func (m MultiTestLogger) TestFinished(id tree.ID, result TestResult) {
	for _, l := range m.Loggers {
		l.TestFinished(id, result)
	}
}

func (m MultiTestLogger) TestSkipped(id tree.ID, reason string) {
	for _, l := range m.Loggers {
		l.TestSkipped(id, reason)
	}
}

func (m MultiTestLogger) EndLog(results Results) error {
	var errs []error
	for _, l := range m.Loggers {
		if err := l.EndLog(results); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func debugOutputOf(err error) framework.CapturedOutput {
	var failure *defect.AssertionFailureError
	if errors.As(err, &failure) {
		return failure.Output
	}
	return nil
}

// Package harness assembles a complete test run from a config.Config: it decorates a test tree
// according to the config, runs it, and reports the results to the console and, optionally, to a
// JUnit XML file.
package harness

import (
	"context"
	"io"
	"os"

	"github.com/launchdarkly/test-tree/framework"
	"github.com/launchdarkly/test-tree/framework/config"
	"github.com/launchdarkly/test-tree/framework/report"
	"github.com/launchdarkly/test-tree/framework/runners"
	"github.com/launchdarkly/test-tree/framework/tree"
)

// TestHarness runs test trees with a fixed set of options.
type TestHarness struct {
	config      config.Config
	debugLogger framework.Logger
	testLogger  report.TestLogger
	executor    runners.Executor
}

// Option customizes a TestHarness.
type Option func(*TestHarness)

// WithDebugLogger sets the logger for messages about the harness itself; each message is prefixed
// with "[harness] ". The default discards them.
func WithDebugLogger(logger framework.Logger) Option {
	return func(h *TestHarness) { h.debugLogger = logger }
}

// WithTestLogger replaces the console and JUnit loggers that the config would otherwise select.
func WithTestLogger(logger report.TestLogger) Option {
	return func(h *TestHarness) { h.testLogger = logger }
}

// WithExecutor sets the executor used when the config asks for concurrent execution, instead of
// a Pool of the configured size.
func WithExecutor(executor runners.Executor) Option {
	return func(h *TestHarness) { h.executor = executor }
}

// WithOutput sets where console output goes. The default is os.Stdout. It has no effect if
// WithTestLogger is also used.
func WithOutput(out io.Writer) Option {
	return func(h *TestHarness) {
		if h.testLogger == nil {
			h.testLogger = consoleLogger(h.config, out)
		}
	}
}

// NewTestHarness creates a TestHarness. The config is validated first.
func NewTestHarness(cfg config.Config, options ...Option) (*TestHarness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &TestHarness{config: cfg, debugLogger: framework.NullLogger()}
	for _, o := range options {
		o(h)
	}
	h.debugLogger = framework.LoggerWithPrefix(h.debugLogger, "[harness] ")
	if h.testLogger == nil {
		h.testLogger = consoleLogger(cfg, os.Stdout)
	}
	if cfg.JUnitFile != "" {
		h.testLogger = report.MultiTestLogger{Loggers: []report.TestLogger{
			h.testLogger,
			report.NewJUnitTestLogger(cfg.JUnitFile, map[string]string{
				"tests.filter.mustMatch":    cfg.Filters.MustMatch.String(),
				"tests.filter.mustNotMatch": cfg.Filters.MustNotMatch.String(),
			}),
		}}
	}
	if cfg.Concurrent && h.executor == nil {
		if cfg.Workers > 0 {
			h.executor = runners.NewPool(cfg.Workers)
		} else {
			h.executor = runners.SharedPool()
		}
	}
	return h, nil
}

func consoleLogger(cfg config.Config, out io.Writer) report.TestLogger {
	return report.ConsoleTestLogger{DebugOutputOnFailure: cfg.Debug, Out: out}
}

// Decorate applies the decorators selected by the config to t. If the config asks for concurrent
// execution, the cases start running on the executor before Decorate returns.
//
// From the innermost out: Scoped, ThreadScoped, Timeout, Filter, then In. Timeout is inside In so
// that it limits the case itself rather than the wait for it.
func (h *TestHarness) Decorate(ctx context.Context, t tree.Test) tree.Test {
	if h.config.Scoped {
		t = runners.Scoped(t)
	}
	if h.config.ThreadScoped {
		t = runners.ThreadScoped(t)
	}
	if h.config.Timeout > 0 {
		t = runners.Timeout(h.config.Timeout, t)
	}
	if h.config.Filters.MustMatch.IsDefined() || h.config.Filters.MustNotMatch.IsDefined() {
		h.debugLogger.Printf("Filtering tests: run %s, skip %s", h.config.Filters.MustMatch, h.config.Filters.MustNotMatch)
		t = runners.Filter(h.config.Filters.Match, t)
	}
	if h.executor != nil {
		h.debugLogger.Printf("Submitting %d cases for concurrent execution", tree.Count(t))
		t = runners.In(ctx, h.executor, t)
	}
	return t
}

// Execute decorates t, runs it, reports every outcome to the test logger and returns the results.
// The returned error is only about writing logs; test failures are in the results.
func (h *TestHarness) Execute(ctx context.Context, t tree.Test) (report.Results, error) {
	decorated := h.Decorate(ctx, t)
	h.debugLogger.Printf("Running %d cases", tree.Count(decorated))
	results := report.Collect(ctx, runners.Run(ctx, decorated), h.testLogger)
	h.debugLogger.Printf("Finished: %s", results)
	return results, h.testLogger.EndLog(results)
}

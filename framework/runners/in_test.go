package runners

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/test-tree/framework/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	tasks []func()
}

func (e *recordingExecutor) Execute(task func()) { e.tasks = append(e.tasks, task) }

func (e *recordingExecutor) runAll() {
	for _, task := range e.tasks {
		task()
	}
}

func TestInSubmitsEveryCaseAtDecorationTime(t *testing.T) {
	var c counter
	executor := &recordingExecutor{}

	decorated := In(context.Background(), executor, tree.NewSuite("s", c.caseNamed("x"), c.caseNamed("y")))

	assert.Len(t, executor.tasks, 2)
	assert.Equal(t, 0, c.count())
	executor.runAll()
	assert.Equal(t, 2, c.count())

	_ = Run(context.Background(), decorated)
	assert.Equal(t, 2, c.count())
}

func TestInReplaysOutcome(t *testing.T) {
	decorated := In(context.Background(), inlineExecutor, tree.NewSuite("s", succeeding("ok"), raising("bad", io.EOF)))
	for i := 0; i < 2; i++ {
		assert.NoError(t, runCase(child(decorated, 0)))
		assert.Equal(t, io.EOF, runCase(child(decorated, 1)))
	}
}

func TestInSubmissionFollowsTreeOrder(t *testing.T) {
	var order []string
	record := func(name string) tree.Case {
		return tree.NewCase(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	executor := &recordingExecutor{}
	_ = In(context.Background(), executor, tree.NewSuite("s", record("1"), tree.NewSuite("t", record("2")), record("3")))
	executor.runAll()
	assert.Equal(t, []string{"1", "2", "3"}, order)
}

func TestInWaitsForSubmittedWork(t *testing.T) {
	executor := &recordingExecutor{}
	decorated := In(context.Background(), executor, raising("x", io.EOF))

	result := make(chan error, 1)
	go func() { result <- runCase(decorated) }()

	select {
	case <-result:
		t.Fatal("case returned before its work ran")
	case <-time.After(20 * time.Millisecond):
	}
	executor.runAll()
	assert.Equal(t, io.EOF, <-result)
}

func TestInWaitEndsWhenCallerContextIsDone(t *testing.T) {
	executor := &recordingExecutor{} // never runs anything
	decorated := In(context.Background(), executor, succeeding("x"))

	ctx, cancel := context.WithCancelCause(context.Background())
	reason := errors.New("gave up")
	cancel(reason)
	assert.Equal(t, reason, decorated.(tree.Case).Run(ctx))
}

func TestInRejectsNilExecutor(t *testing.T) {
	assert.Panics(t, func() { In(context.Background(), nil, succeeding("x")) })
}

func TestConcurrentRunsCasesInParallel(t *testing.T) {
	if runtime.NumCPU() < 2 {
		t.Skip("needs at least 2 CPUs")
	}
	suite := tree.NewSuite("sleepy")
	for i := 0; i < 8; i++ {
		suite = suite.WithChild(tree.NewCase("sleep", func(context.Context) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		}))
	}

	start := time.Now()
	report := Run(context.Background(), Concurrent(context.Background(), suite))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 400*time.Millisecond)
	for i := 0; i < 8; i++ {
		assert.NoError(t, runCase(child(report, i)))
	}
}

func TestConcurrentCasesOverlap(t *testing.T) {
	if runtime.NumCPU() < 2 {
		t.Skip("needs at least 2 CPUs")
	}
	var wg sync.WaitGroup
	wg.Add(2)
	meet := func(name string) tree.Case {
		return tree.NewCase(name, func(context.Context) error {
			wg.Done()
			wg.Wait() // both cases must be running at once to get past this
			return nil
		})
	}
	report := Run(context.Background(), Concurrent(context.Background(), tree.NewSuite("s", meet("a"), meet("b"))))
	require.NoError(t, runCase(child(report, 0)))
	require.NoError(t, runCase(child(report, 1)))
}

package runners

import (
	"context"

	"github.com/launchdarkly/test-tree/framework/tree"
)

// In submits every case of t to executor immediately, in tree order, and returns a tree whose
// cases wait for the corresponding submitted work and then replay its outcome. The submitted work
// runs with ctx.
//
// A returned case also stops waiting when the context it is invoked with is done, and then returns
// that context's cause; the submitted work is not affected.
func In(ctx context.Context, executor Executor, t tree.Test) tree.Test {
	if executor == nil {
		panic("executor must not be nil")
	}
	return tree.Transform(t, func(c tree.Case) tree.Case {
		return futureCase(ctx, executor, c)
	})
}

// Concurrent is In with the SharedPool.
func Concurrent(ctx context.Context, t tree.Test) tree.Test {
	return In(ctx, SharedPool(), t)
}

type future struct {
	done   chan struct{}
	report tree.Case
}

func futureCase(ctx context.Context, executor Executor, c tree.Case) tree.Case {
	f := &future{done: make(chan struct{})}
	executor.Execute(func() {
		f.report = run(ctx, c)
		close(f.done)
	})
	return tree.NewCase(c.Name(), func(waitCtx context.Context) error {
		select {
		case <-f.done:
			return f.report.Run(waitCtx)
		case <-waitCtx.Done():
			return context.Cause(waitCtx)
		}
	})
}

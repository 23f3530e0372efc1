package runners

import (
	"context"
	"runtime"

	"github.com/launchdarkly/test-tree/framework/tree"
)

// ThreadScoped runs the body of every case of t on a new goroutine that is locked to its own OS
// thread, so nothing tied to the calling thread is visible to the body. The goroutine never
// unlocks the thread, which makes the runtime discard the thread when the body is done. The
// calling goroutine waits for it; an error or panic in the body is returned on the caller.
//
// If the caller's context is done while it is waiting, the body's context is cancelled, the
// caller keeps waiting until the body returns, and then returns the caller's context cause.
func ThreadScoped(t tree.Test) tree.Test {
	return tree.Transform(t, threadScopedCase)
}

func threadScopedCase(c tree.Case) tree.Case {
	return tree.NewCase(c.Name(), func(ctx context.Context) error {
		childCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
		defer cancel(nil)

		var err error
		done := make(chan struct{})
		go func() {
			defer close(done)
			runtime.LockOSThread()
			err = c.Run(childCtx)
		}()

		select {
		case <-done:
			return err
		case <-ctx.Done():
			cancel(context.Cause(ctx))
			<-done
			return context.Cause(ctx)
		}
	})
}

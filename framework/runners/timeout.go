package runners

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

// Timeout limits every case of t to the given duration. It panics if duration is negative.
//
// Each case runs on the calling goroutine. Before the body starts, an alarm is set that cancels
// the body's context after duration, with a *defect.TimeoutError as the cause. The alarm is always
// stopped when the body returns. If it had already fired by then, the case fails with the timeout
// error whatever the body returned.
//
// Cancellation is cooperative: a body that never looks at its context runs to completion and is
// only reported as timed out afterward. An alarm that fires just as the body finishes can turn a
// case that finished in time into a timeout.
func Timeout(duration time.Duration, t tree.Test) tree.Test {
	if duration < 0 {
		panic(fmt.Errorf("timeout must not be negative, was %s", duration))
	}
	return tree.Transform(t, func(c tree.Case) tree.Case {
		return timeoutCase(duration, c)
	})
}

func timeoutCase(duration time.Duration, c tree.Case) tree.Case {
	return tree.NewCase(c.Name(), func(ctx context.Context) error {
		alarmCtx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)
		alarm := time.AfterFunc(duration, func() {
			cancel(&defect.TimeoutError{After: duration})
		})

		err := c.Run(alarmCtx)

		alarm.Stop()
		var timeout *defect.TimeoutError
		if errors.As(context.Cause(alarmCtx), &timeout) {
			return timeout
		}
		return err
	})
}

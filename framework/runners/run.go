package runners

import (
	"context"

	"github.com/launchdarkly/test-tree/framework/tree"
)

// Run invokes every case of t once, in tree order, on the calling goroutine, and returns a report
// tree. Each report case returns nil if the original case succeeded, or the error it raised.
// Running the report again does not run the original cases.
func Run(ctx context.Context, t tree.Test) tree.Test {
	return tree.Transform(t, func(c tree.Case) tree.Case {
		return run(ctx, c)
	})
}

func run(ctx context.Context, c tree.Case) tree.Case {
	return tree.Resolved(c.Name(), c.Run(ctx))
}

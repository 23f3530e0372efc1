package runners

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

func succeeding(name string) tree.Case {
	return tree.NewCase(name, func(context.Context) error { return nil })
}

func raising(name string, err error) tree.Case {
	return tree.NewCase(name, func(context.Context) error { return err })
}

type counter struct{ n atomic.Int32 }

func (c *counter) caseNamed(name string) tree.Case {
	return tree.NewCase(name, func(context.Context) error {
		c.n.Add(1)
		return nil
	})
}

func (c *counter) count() int { return int(c.n.Load()) }

// inlineExecutor runs tasks immediately, which makes In deterministic.
var inlineExecutor = ExecutorFunc(func(task func()) { task() }) //nolint:gochecknoglobals

func sampleTree() tree.Test {
	return tree.NewSuite("a",
		tree.NewSuite("b", succeeding("c"), raising("d", errors.New("d failed"))),
		tree.NewSuite("e", succeeding("f"), raising("g", defect.Skipf("no g")), succeeding("h")),
		succeeding("i"),
	)
}

func runCase(t tree.Test) error {
	return t.(tree.Case).Run(context.Background())
}

func child(t tree.Test, indexes ...int) tree.Test {
	for _, i := range indexes {
		t = t.(tree.Suite).Child(i)
	}
	return t
}

package report

import (
	"context"
	"reflect"
	"strings"

	"github.com/launchdarkly/test-tree/framework/tree"
)

// Print renders a report tree as text, one line per node, indented by two spaces per level.
// Cases whose body raises an error are prefixed with the error's type name in brackets, for
// instance "[AssertionFailureError] sub". Every case of the report is invoked once.
func Print(ctx context.Context, report tree.Test) string {
	var b strings.Builder
	tree.Walk(report, func(id tree.ID, t tree.Test) bool {
		b.WriteString(strings.Repeat("  ", len(id)-1))
		if c, ok := t.(tree.Case); ok {
			if err := c.Run(ctx); err != nil {
				b.WriteString("[" + typeName(err) + "] ")
			}
		}
		b.WriteString(t.Name())
		b.WriteString("\n")
		return true
	})
	return b.String()
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

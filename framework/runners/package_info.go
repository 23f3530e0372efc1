// Package runners contains the decorators that change how the cases of a test tree execute.
//
// Every decorator takes a tree and returns a new tree with the same names, nesting and order,
// built with tree.Transform. They compose by ordinary function composition:
//
//	report := runners.Run(ctx, runners.Concurrent(ctx, runners.Timeout(time.Second, suite)))
//
// Run executes a tree and returns a report tree, whose cases replay the outcome of the original
// cases without running them again. In and Concurrent start executing cases as soon as they are
// applied, on a worker pool; the cases they return wait for that work and replay its outcome.
package runners

// Package framework contains the shared types of the test tree engine. The subpackages hold the
// actual machinery:
//
// 1. tree defines the data model: a Test is either a Case (a named body) or a Suite (a named,
// ordered list of child tests). Trees are immutable values, and tree.Transform is the single way
// to produce a new tree from an old one.
//
// 2. runners contains the decorators. Each one rewrites the leaves of a tree through
// tree.Transform, so names, nesting and child order never change. runners.Run executes a tree
// and produces a report tree whose leaves replay an already-resolved outcome.
//
// 3. defect classifies the errors raised by case bodies into assertion failures, assumption
// violations and everything else.
//
// 4. check, report, config and harness sit on top: check lets case bodies use testify-style
// assertions, report walks a report tree and logs the outcomes, and harness assembles a
// decorator pipeline from a config file.
package framework

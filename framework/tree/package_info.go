// Package tree defines the test tree model: a Test is either a Case, which has a name and a body,
// or a Suite, which has a name and an ordered list of child tests.
//
// Trees are immutable. Methods that look like mutations, such as Suite.WithChild, return a new
// value and leave the receiver alone, so a subtree can be shared between suites freely. New trees
// are derived from old ones with Transform, which rewrites leaves and rebuilds suites with the same
// names in the same order.
package tree

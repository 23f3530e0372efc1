// Package check provides a scope for writing case bodies in the style of Go's testing package.
//
// A *T can be passed to testify's assert and require functions and to go-test-helpers matchers,
// since it implements Errorf, FailNow and Helper. When the body returns, everything that was
// reported is turned into the single error that the case raises.
package check

// Package defect defines the kinds of errors a test case can raise and classifies them.
//
// A case body raises a defect by returning a non-nil error or by panicking. Classify sorts any
// such error into one of three kinds: an assertion failure (the test failed), an assumption
// violation (the test was skipped), or an unclassified error (something else went wrong, usually
// a bug in the test or in the code under test).
package defect

// Package report turns a report tree into results. Collect invokes every case of a report tree
// once, classifies the outcome and passes it to a TestLogger, which may print it to the console
// or write a JUnit XML file. Print renders a report tree as indented text.
package report

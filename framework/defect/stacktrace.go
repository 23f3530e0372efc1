package defect

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

// StacktraceInfo is one frame of the stacktrace attached to an assertion failure.
type StacktraceInfo struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (s StacktraceInfo) String() string {
	packageName := strings.TrimPrefix(s.Package, rootPackageName()+"/")
	return fmt.Sprintf("%s.%s (%s:%d)", packageName, s.Function, s.FileName, s.Line)
}

var errorTraceInMessageRegex = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

// StripTestifyTrace removes the "Error Trace:" preamble that testify/assert and testify/require
// put in front of their failure messages; the failure carries its own stacktrace instead.
func StripTestifyTrace(message string) string {
	if strings.Contains(message, "Error Trace:") {
		return strings.TrimSpace(errorTraceInMessageRegex.ReplaceAllLiteralString(message, ""))
	}
	return message
}

// Frames in these packages are assertion plumbing, never the interesting part of a stacktrace.
var assertionPackages = []string{ //nolint:gochecknoglobals
	"github.com/stretchr/testify/",
	"github.com/launchdarkly/go-test-helpers/",
}

// The function that every case invocation starts from; frames above it are not interesting.
const caseRunFunction = "Case.Run"

// CaptureStacktrace returns the call stack, innermost frame first, starting skip frames above
// the function that calls it. Assertion library frames are dropped, and so is any function whose
// full name is in helperFns. The trace ends at the invocation of the case body.
func CaptureStacktrace(skip int, helperFns []string) []StacktraceInfo {
	callers := []StacktraceInfo{}
StackLoop:
	for i := 1 + skip; ; i++ { // 0 would be CaptureStacktrace itself
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		f := runtime.FuncForPC(pc)
		if f == nil {
			break
		}
		parts := strings.Split(file, "/")
		file = parts[len(parts)-1]

		fullFunctionName := f.Name()
		packageName, functionName := parsePackageAndFunctionName(fullFunctionName)

		if strings.HasSuffix(packageName, "/framework/tree") && functionName == caseRunFunction {
			break
		}
		if packageName == "runtime" || strings.HasPrefix(packageName, "runtime/") {
			continue
		}
		for _, p := range assertionPackages {
			if strings.HasPrefix(packageName, p) {
				continue StackLoop
			}
		}
		for _, helperFn := range helperFns {
			if helperFn == fullFunctionName {
				continue StackLoop // exclude this function from the stacktrace
			}
		}

		callers = append(callers, StacktraceInfo{FileName: file, Package: packageName, Function: functionName, Line: line})
	}
	return callers
}

func currentPackageName() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return "?"
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "?"
	}
	packageName, _ := parsePackageAndFunctionName(f.Name())
	return packageName
}

func rootPackageName() string {
	p := currentPackageName()
	parts := strings.Split(p, "/")
	if len(parts) < 3 {
		return p
	}
	return strings.Join(parts[0:3], "/")
}

func parsePackageAndFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	firstDotAfterSlash := strings.Index(fullName[lastSlash+1:], ".")
	if firstDotAfterSlash < 0 {
		return fullName, ""
	}
	packageName := fullName[0 : lastSlash+firstDotAfterSlash+1]
	functionName := fullName[len(packageName)+1:]
	return packageName, functionName
}

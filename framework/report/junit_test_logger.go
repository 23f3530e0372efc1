package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

// JUnitTestLogger writes results as a JUnit XML document when EndLog is called. Each top-level
// suite of the report becomes a <testsuite>; cases that failed an assertion get a <failure>
// element and cases that raised anything else get an <error> element.
type JUnitTestLogger struct {
	filePath   string
	properties map[string]string
	testIDs    []tree.ID // this slice preserves the order that the tests were run in
	tests      map[string]jUnitTestStatus
	lock       sync.Mutex
}

type jUnitTestStatus struct {
	err       error
	skipped   *string
	startTime time.Time
	duration  time.Duration
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Errors     int                `xml:"errors,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
	Error       *jUnitXMLFailure     `xml:"error,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

// NewJUnitTestLogger creates a logger that will write to filePath. The properties are copied into
// every <testsuite>.
func NewJUnitTestLogger(filePath string, properties map[string]string) *JUnitTestLogger {
	return &JUnitTestLogger{
		filePath:   filePath,
		properties: properties,
		tests:      make(map[string]jUnitTestStatus),
	}
}

func (j *JUnitTestLogger) TestStarted(id tree.ID) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.testIDs = append(j.testIDs, id)
	j.tests[id.String()] = jUnitTestStatus{
		startTime: time.Now(),
	}
}

func (j *JUnitTestLogger) TestError(id tree.ID, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.tests[id.String()]
	status.err = err
	j.tests[id.String()] = status
}

func (j *JUnitTestLogger) TestFinished(id tree.ID, result TestResult) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.tests[id.String()]
	status.duration = time.Since(status.startTime)
	j.tests[id.String()] = status
}

func (j *JUnitTestLogger) TestSkipped(id tree.ID, reason string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.tests[id.String()]
	status.skipped = &reason
	j.tests[id.String()] = status
}

// Document builds the XML document for everything logged so far.
func (j *JUnitTestLogger) Document() ([]byte, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	var doc jUnitXMLDocument

	names := make([]string, 0, len(j.properties))
	for name := range j.properties {
		names = append(names, name)
	}
	sort.Strings(names)
	properties := make([]jUnitXMLProperty, 0, len(names))
	for _, name := range names {
		properties = append(properties, jUnitXMLProperty{Name: name, Value: j.properties[name]})
	}

	for _, topLevelID := range getTopLevelIDs(j.testIDs) {
		suite := jUnitXMLTestSuite{
			Name:       topLevelID,
			Properties: properties,
		}
		suiteTotalDuration := time.Duration(0)
		for _, testID := range j.testIDs {
			if len(testID) == 0 || testID[0] != topLevelID {
				continue
			}
			status := j.tests[testID.String()]

			suite.Tests++
			suiteTotalDuration += status.duration

			testCase := jUnitXMLTestCase{
				Classname: strings.Join(testID[:len(testID)-1], "/"),
				Name:      testID[len(testID)-1],
				Time:      jUnitDurationString(status.duration),
			}
			switch {
			case status.skipped != nil:
				suite.Skipped++
				testCase.SkipMessage = &jUnitXMLSkipMessage{Message: *status.skipped}
			case status.err != nil && defect.Classify(status.err) == defect.AssertionFailure:
				suite.Failures++
				testCase.Failure = jUnitFailure(status.err)
			case status.err != nil:
				suite.Errors++
				testCase.Error = jUnitFailure(status.err)
			}

			suite.TestCases = append(suite.TestCases, testCase)
		}
		suite.Time = jUnitDurationString(suiteTotalDuration)
		doc.Suites = append(doc.Suites, suite)
	}

	bytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bytes, '\n'), nil
}

func (j *JUnitTestLogger) EndLog(results Results) error {
	bytes, err := j.Document()
	if err != nil {
		return err
	}
	if err := os.WriteFile(j.filePath, bytes, 0644); err != nil { //nolint:gosec
		return fmt.Errorf("writing JUnit data to %s: %w", j.filePath, err)
	}
	return nil
}

func jUnitFailure(err error) *jUnitXMLFailure {
	message := err.Error()
	f := &jUnitXMLFailure{Type: fmt.Sprintf("%T", err)}
	var failure *defect.AssertionFailureError
	if errors.As(err, &failure) {
		if len(failure.Stacktrace) > 0 {
			message += "\n  Stacktrace:"
			for _, s := range failure.Stacktrace {
				message += "\n    " + s.String()
			}
		}
		f.Contents = failure.Output.ToString("")
	}
	var panicked *defect.PanicError
	if errors.As(err, &panicked) {
		f.Contents = string(panicked.Stack)
	}
	f.Message = message
	return f
}

func getTopLevelIDs(allIDs []tree.ID) []string {
	var ret []string
	seen := make(map[string]bool)
	for _, testID := range allIDs {
		if len(testID) != 0 && !seen[testID[0]] {
			ret = append(ret, testID[0])
			seen[testID[0]] = true
		}
	}
	return ret
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

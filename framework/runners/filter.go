package runners

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"
)

// ExcludedByFilter is the skip reason of cases that a filter did not select.
const ExcludedByFilter = "excluded by filter parameters"

// Filter replaces every case of t whose ID does not satisfy match with a case that is skipped
// without running. The shape of the tree does not change.
func Filter(match func(tree.ID) bool, t tree.Test) tree.Test {
	return tree.TransformWithID(t, func(id tree.ID, c tree.Case) tree.Case {
		if match(id) {
			return c
		}
		return tree.NewCase(c.Name(), func(context.Context) error {
			return &defect.AssumptionViolationError{Reason: ExcludedByFilter}
		})
	})
}

// RegexFilters selects tests by ID. A test is selected if it matches at least one MustMatch
// pattern (or MustMatch is empty) and no MustNotMatch pattern.
type RegexFilters struct {
	MustMatch    TestIDPatternList
	MustNotMatch TestIDPatternList
}

func (r RegexFilters) Match(id tree.ID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, false)) &&
		!r.MustNotMatch.AnyMatch(id, false)
}

// TestIDPattern is a list of regexes matched against the components of an ID in order. A pattern
// shorter than the ID matches it if its components match the ID's leading components, so "a"
// selects everything inside suite "a".
type TestIDPattern []*regexp.Regexp

// Match reports whether the pattern matches id. If includeParents is true, an ID shorter than the
// pattern matches as long as all of its components match.
func (p TestIDPattern) Match(id tree.ID, includeParents bool) bool {
	n := len(p)
	if n > len(id) {
		if !includeParents {
			return false
		}
		n = len(id)
	}
	for i := 0; i < n; i++ {
		if !p[i].MatchString(id[i]) {
			return false
		}
	}
	return true
}

func (p TestIDPattern) String() string {
	ss := make([]string, 0, len(p))
	for _, c := range p {
		ss = append(ss, c.String())
	}
	return strings.Join(ss, "/")
}

// ParseTestIDPattern parses a "/" separated list of regexes, one per ID component.
func ParseTestIDPattern(s string) (TestIDPattern, error) {
	parts := strings.Split(s, "/")
	ret := make(TestIDPattern, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", part, err)
		}
		ret = append(ret, rx)
	}
	return ret, nil
}

type TestIDPatternList []TestIDPattern

func (l TestIDPatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set parses a pattern and adds it to the list. It makes the list usable as a flag.Value.
func (l *TestIDPatternList) Set(value string) error {
	p, err := ParseTestIDPattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func (l TestIDPatternList) IsDefined() bool {
	return len(l) != 0
}

func (l TestIDPatternList) AnyMatch(id tree.ID, includeParents bool) bool {
	for _, p := range l {
		if p.Match(id, includeParents) {
			return true
		}
	}
	return false
}

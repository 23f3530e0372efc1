package runners

import (
	"testing"

	"github.com/launchdarkly/test-tree/framework/defect"
	"github.com/launchdarkly/test-tree/framework/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSkipsUnselectedCasesWithoutRunningThem(t *testing.T) {
	var c counter
	original := tree.NewSuite("s", c.caseNamed("keep"), c.caseNamed("drop"))
	filtered := Filter(func(id tree.ID) bool { return id.String() == "s/keep" }, original)

	require.True(t, tree.SameShape(original, filtered))
	assert.NoError(t, runCase(child(filtered, 0)))
	err := runCase(child(filtered, 1))
	assert.Equal(t, defect.AssumptionViolation, defect.Classify(err))
	assert.Equal(t, ExcludedByFilter, err.Error())
	assert.Equal(t, 1, c.count())
}

func mustParse(t *testing.T, patterns ...string) TestIDPatternList {
	var l TestIDPatternList
	for _, p := range patterns {
		require.NoError(t, l.Set(p))
	}
	return l
}

func TestRegexFilters(t *testing.T) {
	filters := RegexFilters{
		MustMatch:    mustParse(t, "math"),
		MustNotMatch: mustParse(t, "math/sub"),
	}
	assert.True(t, filters.Match(tree.ID{"math", "add"}))
	assert.False(t, filters.Match(tree.ID{"math", "sub"}))
	assert.False(t, filters.Match(tree.ID{"strings", "concat"}))
}

func TestRegexFiltersEmptyMatchesEverything(t *testing.T) {
	assert.True(t, RegexFilters{}.Match(tree.ID{"anything", "at", "all"}))
}

func TestTestIDPatternMatch(t *testing.T) {
	p, err := ParseTestIDPattern("a/b.*")
	require.NoError(t, err)
	assert.True(t, p.Match(tree.ID{"a", "bc"}, false))
	assert.True(t, p.Match(tree.ID{"a", "bc", "d"}, false))
	assert.False(t, p.Match(tree.ID{"a"}, false))
	assert.True(t, p.Match(tree.ID{"a"}, true))
	assert.False(t, p.Match(tree.ID{"x", "bc"}, false))
	assert.Equal(t, "a/b.*", p.String())
}

func TestParseTestIDPatternRejectsBadRegex(t *testing.T) {
	_, err := ParseTestIDPattern("a/(")
	assert.Error(t, err)
}

func TestTestIDPatternListString(t *testing.T) {
	assert.Equal(t, `"a/b" or "c"`, mustParse(t, "a/b", "c").String())
	assert.False(t, TestIDPatternList{}.IsDefined())
}

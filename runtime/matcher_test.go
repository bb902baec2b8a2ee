package runtime_test

import (
	"testing"

	"github.com/dekarrin/lexgen/internal/fa"
	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/lexgen/internal/regexpr"
	"github.com/dekarrin/lexgen/internal/rule"
	"github.com/dekarrin/lexgen/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDef(t *testing.T, patterns map[string]int) *lexdef.LexerDef {
	t.Helper()

	var rules []rule.Rule
	names := make(map[int]string)
	for pattern, tag := range patterns {
		e, err := regexpr.Parse(pattern)
		require.NoError(t, err)
		rules = append(rules, rule.Rule{Tag: tag, Pattern: pattern, Expr: e})
		names[tag] = pattern
	}

	dfa, _, err := fa.BuildDFA(rules)
	require.NoError(t, err)
	min := fa.Minimize(dfa)
	multi := fa.ComposeMultiDFA(map[string]*fa.DFA{"INITIAL": min})

	return lexdef.FromMultiDFA(multi, false, names)
}

func Test_Matcher_LongestMatch(t *testing.T) {
	def := buildDef(t, map[string]int{
		"a":  1,
		"a+": 2,
	})

	m, err := runtime.Open(def, []byte("aaa"))
	require.NoError(t, err)

	tag, err := m.Recognize()
	require.NoError(t, err)
	assert.Equal(t, runtime.Tag(2), tag)
	assert.Equal(t, "aaa", m.Word())
	assert.True(t, m.Eof())
}

func Test_Matcher_TagPriorityOnTie(t *testing.T) {
	def := buildDef(t, map[string]int{
		"if":               1,
		"[a-z][a-z0-9]*": 2,
	})

	m, err := runtime.Open(def, []byte("if"))
	require.NoError(t, err)

	tag, err := m.Recognize()
	require.NoError(t, err)
	assert.Equal(t, runtime.Tag(1), tag, "keyword should win on a length tie due to lower tag")
}

func Test_Matcher_IgnoreTag_SkippedByRecognize(t *testing.T) {
	def := buildDef(t, map[string]int{
		" +": rule.IgnoreTag,
		"a":  1,
	})

	m, err := runtime.Open(def, []byte("  a"))
	require.NoError(t, err)

	tag, err := m.Recognize()
	require.NoError(t, err)
	assert.Equal(t, runtime.Tag(1), tag)
	assert.Equal(t, "a", m.Word())
}

func Test_Matcher_MultipleTokens(t *testing.T) {
	def := buildDef(t, map[string]int{
		"[0-9]+": 1,
		"\\+":    2,
	})

	m, err := runtime.Open(def, []byte("12+34"))
	require.NoError(t, err)

	var tags []runtime.Tag
	var words []string
	for !m.Eof() {
		tag, err := m.Recognize()
		require.NoError(t, err)
		tags = append(tags, tag)
		words = append(words, m.Word())
	}

	assert.Equal(t, []runtime.Tag{1, 2, 1}, tags)
	assert.Equal(t, []string{"12", "+", "34"}, words)
}

func Test_Matcher_TrailingContext_AdvancesPastLeftOnly(t *testing.T) {
	// "a/b" matches "ab" but only consumes "a", per the trailing-context
	// definition: the match backtracks to the anchor after the left side.
	def := buildDef(t, map[string]int{
		"a/b": 1,
		"b":   2,
	})

	m, err := runtime.Open(def, []byte("ab"))
	require.NoError(t, err)

	tag, err := m.Recognize()
	require.NoError(t, err)
	assert.Equal(t, runtime.Tag(1), tag)
	assert.Equal(t, "a", m.Word(), "trailing-context match should only consume the left side")

	tag, err = m.Recognize()
	require.NoError(t, err)
	assert.Equal(t, runtime.Tag(2), tag)
	assert.Equal(t, "b", m.Word())
	assert.True(t, m.Eof())
}

func Test_Matcher_UnrecognizedInput_ReturnsError(t *testing.T) {
	def := buildDef(t, map[string]int{
		"a": 1,
	})

	m, err := runtime.Open(def, []byte("b"))
	require.NoError(t, err)

	_, err = m.Recognize()
	assert.Error(t, err)

	var lexErr *runtime.Error
	assert.ErrorAs(t, err, &lexErr)
}

func Test_Matcher_Iterate(t *testing.T) {
	def := buildDef(t, map[string]int{
		"[0-9]+": 1,
		",":      2,
	})

	m, err := runtime.Open(def, []byte("1,2,3"))
	require.NoError(t, err)

	var words []string
	m.Iterate(func(tok runtime.TokenInfo) bool {
		words = append(words, tok.Lexeme)
		return true
	})

	assert.Equal(t, []string{"1", ",", "2", ",", "3"}, words)
}

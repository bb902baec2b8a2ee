package regexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_Literal(t *testing.T) {
	e, err := Parse("abc")
	require.NoError(t, err)
	assert.Equal(t, "'a''b''c'", e.String())
}

func Test_Parse_Alternation(t *testing.T) {
	e, err := Parse("a|b")
	require.NoError(t, err)

	alt, ok := e.(*AlternationExpr)
	require.True(t, ok)
	assert.IsType(t, &CharacterExpr{}, alt.Left)
	assert.IsType(t, &CharacterExpr{}, alt.Right)
}

func Test_Parse_Closures(t *testing.T) {
	tests := []struct {
		pattern string
		min     int
		max     int
	}{
		{"a*", 0, -1},
		{"a+", 1, -1},
		{"a?", 0, 1},
		{"a{3}", 3, 3},
		{"a{2,5}", 2, 5},
		{"a{2,}", 2, -1},
	}

	for _, tc := range tests {
		e, err := Parse(tc.pattern)
		require.NoError(t, err, tc.pattern)
		clo, ok := e.(*ClosureExpr)
		require.True(t, ok, tc.pattern)
		assert.Equal(t, tc.min, clo.Min, tc.pattern)
		assert.Equal(t, tc.max, clo.Max, tc.pattern)
	}
}

func Test_Parse_BoundedClosure_MinGreaterThanMax_IsError(t *testing.T) {
	_, err := Parse("a{5,2}")
	assert.Error(t, err)
}

func Test_Parse_CharacterClass_Range(t *testing.T) {
	e, err := Parse("[a-z]")
	require.NoError(t, err)

	cls, ok := e.(*CharacterClassExpr)
	require.True(t, ok)
	assert.True(t, cls.Set.Contains('m'))
	assert.False(t, cls.Set.Contains('M'))
}

func Test_Parse_CharacterClass_Negated(t *testing.T) {
	e, err := Parse("[^a-z]")
	require.NoError(t, err)

	cls, ok := e.(*CharacterClassExpr)
	require.True(t, ok)
	assert.False(t, cls.Set.Contains('m'))
	assert.True(t, cls.Set.Contains('M'))
}

func Test_Parse_CharacterClass_PosixNamed(t *testing.T) {
	e, err := Parse("[[:digit:]]")
	require.NoError(t, err)

	cls, ok := e.(*CharacterClassExpr)
	require.True(t, ok)
	assert.True(t, cls.Set.Contains('5'))
	assert.False(t, cls.Set.Contains('a'))
}

func Test_Parse_Dot(t *testing.T) {
	e, err := Parse(".")
	require.NoError(t, err)
	assert.IsType(t, &DotExpr{}, e)
}

func Test_Parse_Anchors(t *testing.T) {
	e, err := Parse("^a$")
	require.NoError(t, err)
	assert.Contains(t, e.String(), "^")
	assert.Contains(t, e.String(), "$")
}

func Test_Parse_EndOfFile(t *testing.T) {
	e, err := Parse("a<<EOF>>")
	require.NoError(t, err)
	concat, ok := e.(*ConcatenationExpr)
	require.True(t, ok)
	assert.IsType(t, &EndOfFileExpr{}, concat.Right)
}

func Test_Parse_Lookahead(t *testing.T) {
	e, err := Parse("ab/cd")
	require.NoError(t, err)
	la, ok := e.(*LookaheadExpr)
	require.True(t, ok)
	assert.NotNil(t, la.Left)
	assert.NotNil(t, la.Right)
}

func Test_Parse_EscapeSequences(t *testing.T) {
	e, err := Parse(`\n`)
	require.NoError(t, err)
	ch, ok := e.(*CharacterExpr)
	require.True(t, ok)
	assert.Equal(t, byte('\n'), ch.Char)
}

func Test_Parse_HexEscape(t *testing.T) {
	e, err := Parse(`\x41`)
	require.NoError(t, err)
	ch, ok := e.(*CharacterExpr)
	require.True(t, ok)
	assert.Equal(t, byte('A'), ch.Char)
}

func Test_Parse_OctalEscape(t *testing.T) {
	e, err := Parse(`\101`)
	require.NoError(t, err)
	ch, ok := e.(*CharacterExpr)
	require.True(t, ok)
	assert.Equal(t, byte('A'), ch.Char)
}

func Test_Parse_BareNulEscape_DoesNotConsumeFollowingZero(t *testing.T) {
	// "\00" is a bare NUL ("\0" not followed by '1'-'7') concatenated with
	// a literal '0', not the start of a 3-digit octal escape.
	e, err := Parse(`\00`)
	require.NoError(t, err)
	cat, ok := e.(*ConcatenationExpr)
	require.True(t, ok)

	left, ok := cat.Left.(*CharacterExpr)
	require.True(t, ok)
	assert.Equal(t, byte(0), left.Char)

	right, ok := cat.Right.(*CharacterExpr)
	require.True(t, ok)
	assert.Equal(t, byte('0'), right.Char)
}

func Test_Parse_QuotedLiteral(t *testing.T) {
	e, err := Parse(`"a+b"`)
	require.NoError(t, err)
	// should be a concatenation of literal chars, not a closure
	assert.IsType(t, &ConcatenationExpr{}, e)
	assert.NotContains(t, e.String(), "*")
}

func Test_Parse_UnterminatedClass_IsError(t *testing.T) {
	_, err := Parse("[abc")
	assert.Error(t, err)
}

func Test_Parse_UnterminatedGroup_IsError(t *testing.T) {
	_, err := Parse("(abc")
	assert.Error(t, err)
}

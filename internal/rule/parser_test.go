package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_SimpleRules(t *testing.T) {
	src := "NUMBER ::= [0-9]+\n" + "IDENT ::= [a-zA-Z_][a-zA-Z0-9_]*\n"

	rl, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, rl.Rules, 2)

	assert.Equal(t, "NUMBER", rl.Rules[0].Name)
	assert.Equal(t, FirstUserTag, rl.Rules[0].Tag)
	assert.Equal(t, []string{"INITIAL"}, rl.Rules[0].Conditions)

	assert.Equal(t, "IDENT", rl.Rules[1].Name)
	assert.Equal(t, FirstUserTag+1, rl.Rules[1].Tag)
}

func Test_Parse_IgnoreOption(t *testing.T) {
	rl, err := Parse("WS (ignore) ::= [ \\t]+\n")
	require.NoError(t, err)
	require.Len(t, rl.Rules, 1)
	assert.True(t, rl.Rules[0].IsIgnored())
	assert.Equal(t, IgnoreTag, rl.Rules[0].Tag)
}

func Test_Parse_RefSubstitution(t *testing.T) {
	src := "digit (ref) ::= [0-9]\n" + "NUMBER ::= {digit}+\n"

	rl, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, rl.Rules, 1)
	assert.Equal(t, "([0-9])+", rl.Rules[0].Pattern)
}

func Test_Parse_RefWithConditions_IsError(t *testing.T) {
	_, err := Parse("<foo> digit (ref) ::= [0-9]\n")
	assert.Error(t, err)
}

func Test_Parse_ContinuationLine(t *testing.T) {
	src := "KEYWORD ::= \"if\"\n" + "| \"else\"\n"

	rl, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, rl.Rules, 1)
	assert.Equal(t, `"if"|"else"`, rl.Rules[0].Pattern)
}

func Test_Parse_ConditionBlock(t *testing.T) {
	src := "<STRINGS> {\n" + "ESCAPE ::= \\\\.\n" + "}\n"

	rl, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, rl.Rules, 1)
	assert.Equal(t, []string{"STRINGS"}, rl.Rules[0].Conditions)
}

func Test_Parse_ExplicitConditionList_IsSorted(t *testing.T) {
	src := "<b,a> NAME ::= pattern\n"

	rl, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, rl.Rules, 1)
	assert.Equal(t, []string{"a", "b"}, rl.Rules[0].Conditions)
}

func Test_Parse_WildcardCondition_ExpandsToConcreteNames(t *testing.T) {
	src := "<A> FOO ::= a\n" + "<B> BAR ::= b\n" + "<*> BAZ ::= c\n"

	rl, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, rl.Rules, 3)
	assert.Equal(t, []string{"A", "B"}, rl.Rules[2].Conditions)
}

func Test_Parse_DuplicateRuleName_IsError(t *testing.T) {
	_, err := Parse("FOO ::= a\nFOO ::= b\n")
	assert.Error(t, err)
}

func Test_Parse_UnknownOption_IsError(t *testing.T) {
	_, err := Parse("FOO (bogus) ::= a\n")
	assert.Error(t, err)
}

func Test_Parse_MissingAssign_IsError(t *testing.T) {
	_, err := Parse("FOO a\n")
	assert.Error(t, err)
}

func Test_Parse_UnterminatedBlock_IsError(t *testing.T) {
	_, err := Parse("<A> {\nFOO ::= a\n")
	assert.Error(t, err)
}

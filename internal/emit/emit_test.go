package emit_test

import (
	"strings"
	"testing"

	"github.com/dekarrin/lexgen/internal/emit"
	"github.com/dekarrin/lexgen/internal/fa"
	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/lexgen/internal/regexpr"
	"github.com/dekarrin/lexgen/internal/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestDef(t *testing.T) *lexdef.LexerDef {
	t.Helper()
	e, err := regexpr.Parse("[a-z]+")
	require.NoError(t, err)

	rules := []rule.Rule{{Tag: 1, Name: "WORD", Pattern: "[a-z]+", Expr: e}}
	dfa, _, err := fa.BuildDFA(rules)
	require.NoError(t, err)
	min := fa.Minimize(dfa)
	multi := fa.ComposeMultiDFA(map[string]*fa.DFA{"INITIAL": min})

	return lexdef.FromMultiDFA(multi, false, map[int]string{1: "WORD"})
}

func Test_DFADot_ProducesValidGraphShape(t *testing.T) {
	e, err := regexpr.Parse("[a-z]+")
	require.NoError(t, err)
	dfa, _, err := fa.BuildDFA([]rule.Rule{{Tag: 1, Name: "WORD", Pattern: "[a-z]+", Expr: e}})
	require.NoError(t, err)

	var sb strings.Builder
	err = emit.DFADot(&sb, "test", dfa)
	require.NoError(t, err)

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "digraph test {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "doublecircle")
}

func Test_GoSource_EmitsCompilableLookingTable(t *testing.T) {
	def := buildTestDef(t)

	var sb strings.Builder
	err := emit.GoSource(&sb, "lextab", "Table", def)
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "package lextab")
	assert.Contains(t, out, "var Table = &lexdef.LexerDef{")
	assert.Contains(t, out, "InitialStates: map[string]uint32{")
}

func Test_TokenEnum_EmitsOneConstPerTag(t *testing.T) {
	var sb strings.Builder
	err := emit.TokenEnum(&sb, "toks", map[int32]string{1: "WORD", 2: "NUMBER"})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "TagWORD = 1")
	assert.Contains(t, out, "TagNUMBER = 2")
}

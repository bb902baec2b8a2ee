package lexgen_test

import (
	"testing"

	lexgen "github.com/dekarrin/lexgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_SimpleRuleSet(t *testing.T) {
	src := "NUMBER ::= [0-9]+\n" +
		"WS (ignore) ::= [ \\t\\n]+\n" +
		"PLUS ::= \\+\n"

	c, err := lexgen.NewCompiler(src)
	require.NoError(t, err)

	result, err := c.Compile()
	require.NoError(t, err)
	require.NotNil(t, result.Def)
	assert.Empty(t, result.Overshadows)
	assert.Contains(t, result.Def.InitialStates, "INITIAL")
}

func Test_Compile_DetectsOvershadowedRule(t *testing.T) {
	src := "WORD ::= [a-z]+\n" +
		"KEYWORD ::= if\n"

	c, err := lexgen.NewCompiler(src)
	require.NoError(t, err)

	result, err := c.Compile()
	require.NoError(t, err)
	assert.NotEmpty(t, result.Overshadows, "KEYWORD's tag should never win since WORD (lower tag) always matches its extent too")
}

func Test_Compile_BeginOfLineRule(t *testing.T) {
	src := "<A,B> {\n" +
		"HEADER ::= ^#.*\n" +
		"}\n" +
		"<*> OTHER ::= .\n"

	c, err := lexgen.NewCompiler(src)
	require.NoError(t, err)

	result, err := c.Compile()
	require.NoError(t, err)
	assert.True(t, result.Def.ContainsBOL)
	assert.Contains(t, result.Def.InitialStates, "A_0")
	assert.Contains(t, result.Def.InitialStates, "B_0")
}

func Test_Compile_MultipleConditions(t *testing.T) {
	src := "<INITIAL> OPEN ::= \"/*\"\n" +
		"<COMMENT> CLOSE ::= \"*/\"\n" +
		"<COMMENT> TEXT ::= .\n"

	c, err := lexgen.NewCompiler(src)
	require.NoError(t, err)

	result, err := c.Compile()
	require.NoError(t, err)
	assert.Contains(t, result.Def.InitialStates, "INITIAL")
	assert.Contains(t, result.Def.InitialStates, "COMMENT")
}

func Test_Compile_EmptyRuleFile_IsError(t *testing.T) {
	c, err := lexgen.NewCompiler("\n")
	require.NoError(t, err)

	_, err = c.Compile()
	assert.Error(t, err)
}

package fa

import (
	"testing"

	"github.com/dekarrin/lexgen/internal/regexpr"
	"github.com/dekarrin/lexgen/internal/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRule(tag int, pattern string) rule.Rule {
	e, err := regexpr.Parse(pattern)
	if err != nil {
		panic(err)
	}
	return rule.Rule{Tag: tag, Name: pattern, Expr: e}
}

func Test_BuildDFA_SimpleLiteral(t *testing.T) {
	rules := []rule.Rule{mustRule(1, "abc")}
	dfa, _, err := BuildDFA(rules)
	require.NoError(t, err)
	assert.NotNil(t, dfa)
	assert.NotEmpty(t, dfa.States())
}

func Test_BuildDFA_AcceptsAlternation(t *testing.T) {
	rules := []rule.Rule{mustRule(1, "cat|dog")}
	dfa, _, err := BuildDFA(rules)
	require.NoError(t, err)
	assert.NotNil(t, dfa.AcceptStates)
}

func Test_Minimize_ReducesOrMaintainsStateCount(t *testing.T) {
	rules := []rule.Rule{mustRule(1, "a(b|b)c")}
	dfa, _, err := BuildDFA(rules)
	require.NoError(t, err)

	min := Minimize(dfa)
	assert.LessOrEqual(t, len(min.States()), len(dfa.States()))
	assert.NotEmpty(t, min.AcceptStates)
}

func Test_BuildDFA_DetectsOvershadowedRules(t *testing.T) {
	rules := []rule.Rule{
		mustRule(1, "a+"),
		mustRule(2, "a"),
	}
	_, shadows, err := BuildDFA(rules)
	require.NoError(t, err)

	found := false
	for _, s := range shadows {
		if s.Tag == 2 {
			assert.Equal(t, Tag(1), s.ShadowedBy, "tag 2 should be attributed to the tag that actually wins at its own configurations")
			found = true
		}
	}
	assert.True(t, found, "expected tag 2 (bare 'a') to be overshadowed by tag 1 ('a+')")
}

func Test_BuildDFA_OvershadowAttribution_UsesActualWinnerAtSharedConfigs(t *testing.T) {
	// Tag 3 ("a") is always shadowed wherever it could match: its NFA
	// accept state occurs only in the DFA state reached by a single "a",
	// where tag 1 ("a+") wins, while tag 2 ("ab") wins only at the state
	// reached by "ab", which does not contain tag 3's accept state. So
	// ShadowedBy must be the tag that wins at tag 3's own configuration, 1.
	rules := []rule.Rule{
		mustRule(1, "a+"),
		mustRule(2, "ab"),
		mustRule(3, "a"),
	}
	_, shadows, err := BuildDFA(rules)
	require.NoError(t, err)

	for _, s := range shadows {
		if s.Tag == 3 {
			assert.Equal(t, Tag(1), s.ShadowedBy)
		}
	}
}

func Test_Minimize_KeepsBacktrackAndPlainAcceptStatesDistinct(t *testing.T) {
	// "(a/b)|c" gives one branch that's a trailing-context accept (needs to
	// roll back to just after "a") and one plain accept, both tagged 1 and
	// both dead ends with no further transitions -- indistinguishable by
	// accept tag or outward behavior alone.
	rules := []rule.Rule{mustRule(1, "(a/b)|c")}
	dfa, _, err := BuildDFA(rules)
	require.NoError(t, err)

	min := Minimize(dfa)

	var taggedAccepts []StateId
	for s, tag := range min.AcceptStates {
		if tag == 1 {
			taggedAccepts = append(taggedAccepts, s)
		}
	}
	require.Len(t, taggedAccepts, 2, "lookahead and plain branches must not be merged into one accept state")

	backtrackCount := 0
	for _, s := range taggedAccepts {
		if _, ok := min.BacktrackStates[s]; ok {
			backtrackCount++
		}
	}
	assert.Equal(t, 1, backtrackCount, "exactly one of the two accept states should be a backtrack source")
}

func Test_ComposeMultiDFA_AssignsDistinctInitialStates(t *testing.T) {
	rulesA := []rule.Rule{mustRule(1, "a")}
	rulesB := []rule.Rule{mustRule(1, "b")}

	dfaA, _, err := BuildDFA(rulesA)
	require.NoError(t, err)
	dfaB, _, err := BuildDFA(rulesB)
	require.NoError(t, err)

	multi := ComposeMultiDFA(map[string]*DFA{"A": dfaA, "B": dfaB})
	assert.NotEqual(t, multi.InitialStates["A"], multi.InitialStates["B"])
	assert.Equal(t, StateId(0), multi.Initial)
}

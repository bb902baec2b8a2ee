// Package lexgen is the top-level entry point for compiling a rule-file
// source into a runnable lexical analyzer: it parses the rule file, builds
// one DFA per start condition (plus a begin-of-line variant where needed),
// minimizes and composes them, and emits the resulting LexerDef table.
package lexgen

import (
	"fmt"

	"github.com/dekarrin/lexgen/internal/fa"
	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/lexgen/internal/regexpr"
	"github.com/dekarrin/lexgen/internal/rule"
)

// Overshadow re-exports fa.Overshadow so callers never need to import the
// internal automaton package directly.
type Overshadow = fa.Overshadow

// OvershadowError wraps a non-empty overshadow report as an error, for
// callers that want CompileStrict's fail-fast behavior instead of
// inspecting Result.Overshadows themselves.
type OvershadowError struct {
	Overshadows []Overshadow
}

func (e *OvershadowError) Error() string {
	return fmt.Sprintf("%d rule(s) are overshadowed and can never match", len(e.Overshadows))
}

// CompileStrict is Compile, but returns an *OvershadowError instead of a
// usable Result whenever any rule is overshadowed -- the "hard error"
// treatment described for the overshadow report.
func (c *Compiler) CompileStrict() (*Result, error) {
	result, err := c.Compile()
	if err != nil {
		return nil, err
	}
	if len(result.Overshadows) > 0 {
		return nil, &OvershadowError{Overshadows: result.Overshadows}
	}
	return result, nil
}

// Result is everything produced by compiling a rule file: the runnable
// table plus any overshadow diagnostics (rules that can never win a
// match). A non-empty Overshadows slice is a hard error condition for
// callers that want a strict build; Compile itself always returns it
// alongside a usable LexerDef so tooling can choose how to react.
type Result struct {
	Def         *lexdef.LexerDef
	Overshadows []Overshadow
}

// Compiler holds a parsed rule file, ready to be compiled into a
// LexerDef.
type Compiler struct {
	rules       rule.RuleList
	minimizeDFA bool
	dfas        map[string]*fa.DFA
}

// DFAs returns the per-condition DFAs built by the most recent call to
// Compile (including any "_0" begin-of-line variants), keyed by condition
// name -- primarily useful for a --debug-dfa dot dump, which wants the
// pre-composition automaton rather than the final selector-wrapped table.
func (c *Compiler) DFAs() map[string]*fa.DFA {
	return c.dfas
}

// NewCompiler parses source as a rule file and returns a Compiler ready to
// build its automaton. DFA minimization is enabled by default; see
// SetMinimize to disable it.
func NewCompiler(source string) (*Compiler, error) {
	rl, err := rule.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return &Compiler{rules: rl, minimizeDFA: true}, nil
}

// SetMinimize controls whether Compile runs Hopcroft minimization on each
// condition's DFA before composing. Disabling it is mainly useful for
// inspecting the raw subset-construction DFA via a debug dot dump.
func (c *Compiler) SetMinimize(enabled bool) {
	c.minimizeDFA = enabled
}

// Rules exposes the parsed rule list, e.g. for a dot-file or report
// emitter that wants to describe the input rather than the compiled
// table.
func (c *Compiler) Rules() rule.RuleList {
	return c.rules
}

// Compile builds the full automaton pipeline: per-condition NFA
// construction, subset construction into a DFA, minimization, begin-of-line
// dual-DFA generation where needed, and multi-DFA composition.
func (c *Compiler) Compile() (*Result, error) {
	conditions := c.rules.Conditions()
	containsBOL := anyRuleHasBeginOfLine(c.rules.Rules)

	named := make(map[string]*fa.DFA)
	var allOvershadows []Overshadow

	for _, cond := range conditions {
		rules := rulesForCondition(c.rules.Rules, cond)
		if len(rules) == 0 {
			continue
		}

		plainRules := rulesWithoutBeginOfLine(rules)
		if len(plainRules) > 0 {
			dfa, overshadows, err := c.compileAndMinimize(plainRules)
			if err != nil {
				return nil, fmt.Errorf("condition %q: %w", cond, err)
			}
			named[cond] = dfa
			allOvershadows = append(allOvershadows, overshadows...)
		}

		if containsBOL {
			// The "_0" begin-of-line variant always contains the full rule
			// set for this condition -- BOL and non-BOL rules alike -- so
			// that an ordinary rule can still match at the start of a line.
			bolDFA, _, err := c.compileAndMinimize(rules)
			if err != nil {
				return nil, fmt.Errorf("condition %q (BOL variant): %w", cond, err)
			}
			named[cond+"_0"] = bolDFA
		}
	}

	if len(named) == 0 {
		return nil, fmt.Errorf("no rules to compile")
	}
	c.dfas = named

	multi := fa.ComposeMultiDFA(named)
	def := lexdef.FromMultiDFA(multi, containsBOL, c.rules.TagNames())

	return &Result{Def: def, Overshadows: allOvershadows}, nil
}

func (c *Compiler) compileAndMinimize(rules []rule.Rule) (*fa.DFA, []Overshadow, error) {
	// Overshadow detection happens here, against the un-minimized
	// subset-construction DFA, while each configuration's membership is
	// still traceable back to the NFA accept states that produced it;
	// minimization never changes which tag wins at an equivalent state, so
	// the report stays accurate after minimizing.
	dfa, overshadows, err := fa.BuildDFA(rules)
	if err != nil {
		return nil, nil, err
	}

	result := dfa
	if c.minimizeDFA {
		result = fa.Minimize(dfa)
	}

	return result, overshadows, nil
}

func rulesForCondition(rules []rule.Rule, cond string) []rule.Rule {
	var out []rule.Rule
	for _, r := range rules {
		for _, c := range r.Conditions {
			if c == cond {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// rulesWithoutBeginOfLine filters out any rule using '^' anywhere in its
// expression, matching the plain (non-"_0") automaton's rule set: a '^'
// anchor can never fire outside the begin-of-line variant, so these rules
// would only ever contribute unreachable dead states to the plain DFA.
func rulesWithoutBeginOfLine(rules []rule.Rule) []rule.Rule {
	var out []rule.Rule
	for _, r := range rules {
		if !containsBeginOfLine(r.Expr) {
			out = append(out, r)
		}
	}
	return out
}

// anyRuleHasBeginOfLine reports whether any rule anywhere uses '^',
// which determines whether begin-of-line dual-DFA variants need to be
// generated at all.
func anyRuleHasBeginOfLine(rules []rule.Rule) bool {
	for _, r := range rules {
		if containsBeginOfLine(r.Expr) {
			return true
		}
	}
	return false
}

func containsBeginOfLine(e regexpr.Expr) bool {
	switch v := e.(type) {
	case *regexpr.BeginOfLineExpr:
		return true
	case *regexpr.ConcatenationExpr:
		return containsBeginOfLine(v.Left) || containsBeginOfLine(v.Right)
	case *regexpr.AlternationExpr:
		return containsBeginOfLine(v.Left) || containsBeginOfLine(v.Right)
	case *regexpr.ClosureExpr:
		return containsBeginOfLine(v.Sub)
	case *regexpr.LookaheadExpr:
		return containsBeginOfLine(v.Left) || containsBeginOfLine(v.Right)
	default:
		return false
	}
}

// Package fa implements the automaton layer of the lexer generator
// pipeline: Thompson NFA construction from an expression tree, subset
// construction into a DFA, Hopcroft-style DFA minimization, and
// multi-DFA composition for start conditions.
package fa

import (
	"github.com/dekarrin/lexgen/internal/regexpr"
	"github.com/dekarrin/lexgen/internal/symbol"
)

// StateId identifies a state within an NFA or DFA.
type StateId uint32

// Tag identifies which rule a particular accept state belongs to.
type Tag = int

// edge is a single NFA transition. A Sym of symbol.Epsilon marks an
// epsilon edge, taken without consuming input.
type edge struct {
	Sym    symbol.Symbol
	Target StateId
}

// NFA is a Thompson-construction nondeterministic finite automaton.
// States are allocated densely starting at 0. While an expression is
// being built, a fragment's start and accept fields mark its entry and
// exit points; Initial is the entry state of the combined automaton that
// BuildDFA assembles. BacktrackStates entries are added by lookahead as
// each "r/s" subexpression is built, and AcceptStates is filled in by
// BuildDFA once each rule's fragment has been joined in.
type NFA struct {
	transitions map[StateId][]edge
	nextState   StateId
	Initial     StateId

	// AcceptStates maps an accepting state to the rule Tag it completes.
	// Populated by BuildDFA, not during construction of subexpressions.
	AcceptStates map[StateId]Tag

	// BacktrackStates maps the accept state of a lookahead pattern "r/s" to
	// the accept state that should be used once the matched extent is
	// rolled back to the end of "r".
	BacktrackStates map[StateId]StateId
}

func newNFA() *NFA {
	return &NFA{
		transitions:     make(map[StateId][]edge),
		AcceptStates:    make(map[StateId]Tag),
		BacktrackStates: make(map[StateId]StateId),
	}
}

func (n *NFA) createState() StateId {
	id := n.nextState
	n.nextState++
	return id
}

func (n *NFA) addTransition(from StateId, sym symbol.Symbol, to StateId) {
	n.transitions[from] = append(n.transitions[from], edge{Sym: sym, Target: to})
}

// States returns every state id allocated in n, in ascending order.
func (n *NFA) States() []StateId {
	out := make([]StateId, n.nextState)
	for i := range out {
		out[i] = StateId(i)
	}
	return out
}

// fragment is an NFA under construction: a sub-automaton with exactly one
// entry state and one exit (accepting, in the Thompson sense) state.
type fragment struct {
	nfa    *NFA
	start  StateId
	accept StateId
}

func newFragment() *fragment {
	n := newNFA()
	s := n.createState()
	a := n.createState()
	return &fragment{nfa: n, start: s, accept: a}
}

// build compiles a single rule's expression tree into a standalone
// fragment with one entry and one accepting state.
func build(e regexpr.Expr) *fragment {
	switch v := e.(type) {
	case *regexpr.CharacterExpr:
		return buildSymbolSet(symbol.New(v.Char))
	case *regexpr.CharacterClassExpr:
		return buildSymbolSet(v.Set)
	case *regexpr.DotExpr:
		return buildSymbolSet(symbol.Dot())
	case *regexpr.BeginOfLineExpr:
		return buildSentinel(symbol.BeginOfLine)
	case *regexpr.EndOfLineExpr:
		return buildSentinel(symbol.EndOfLine)
	case *regexpr.EndOfFileExpr:
		return buildSentinel(symbol.EndOfFile)
	case *regexpr.EmptyExpr:
		return buildEmpty()
	case *regexpr.ConcatenationExpr:
		return build(v.Left).concatenate(build(v.Right))
	case *regexpr.AlternationExpr:
		return build(v.Left).alternate(build(v.Right))
	case *regexpr.ClosureExpr:
		return buildClosure(v)
	case *regexpr.LookaheadExpr:
		return build(v.Left).lookahead(build(v.Right))
	default:
		panic("fa: unhandled expression node")
	}
}

func buildSymbolSet(set symbol.Set) *fragment {
	f := newFragment()
	for _, b := range set.Bytes() {
		f.nfa.addTransition(f.start, symbol.Symbol(b), f.accept)
	}
	return f
}

func buildSentinel(s symbol.Symbol) *fragment {
	f := newFragment()
	f.nfa.addTransition(f.start, s, f.accept)
	return f
}

func buildEmpty() *fragment {
	f := newFragment()
	f.nfa.addTransition(f.start, symbol.Epsilon, f.accept)
	return f
}

func buildClosure(c *regexpr.ClosureExpr) *fragment {
	switch {
	case c.Min == 0 && c.Max == 1:
		return build(c.Sub).optional()
	case c.Min == 0 && c.Max == -1:
		return build(c.Sub).recurring()
	case c.Min == 1 && c.Max == -1:
		return build(c.Sub).positive()
	case c.Max == -1:
		return buildRepeatUnbounded(c.Sub, c.Min)
	default:
		return buildRepeatBounded(c.Sub, c.Min, c.Max)
	}
}

func buildRepeatUnbounded(sub regexpr.Expr, min int) *fragment {
	// min-1 mandatory copies concatenated with one "positive" (1-or-more)
	// copy of the final repetition.
	result := build(sub).positive()
	for i := 1; i < min; i++ {
		result = build(sub).concatenate(result)
	}
	return result
}

func buildRepeatBounded(sub regexpr.Expr, min, max int) *fragment {
	if min == 0 {
		if max == 0 {
			return buildEmpty()
		}
		return buildRepeatBounded(sub, 1, max).optional()
	}

	result := build(sub)
	for i := 1; i < min; i++ {
		result = result.concatenate(build(sub))
	}
	for i := min; i < max; i++ {
		result = result.concatenate(build(sub).optional())
	}
	return result
}

// Package emit writes a compiled LexerDef (or, for debugging, an
// intermediate DFA) out to external formats: Graphviz dot for visual
// inspection, and a Go source file for embedding a compiled table without
// linking the compiler itself.
package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/dekarrin/lexgen/internal/fa"
	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/lexgen/internal/symbol"
)

// DFADot writes dfa as a Graphviz dot graph to w: one node per state,
// double-circled if accepting, an unlabeled arrow into the initial state,
// and one labeled edge per transition.
func DFADot(w io.Writer, name string, dfa *fa.DFA) error {
	fmt.Fprintf(w, "digraph %s {\n", name)
	fmt.Fprintf(w, "  rankdir=LR;\n")
	fmt.Fprintf(w, "  __start [shape=point];\n")
	fmt.Fprintf(w, "  __start -> n%d;\n", dfa.Initial)

	states := dfa.States()
	for _, s := range states {
		shape := "circle"
		label := fmt.Sprintf("n%d", s)
		if tag, ok := dfa.AcceptStates[s]; ok {
			shape = "doublecircle"
			label = fmt.Sprintf("n%d\\n(%d)", s, tag)
		}
		fmt.Fprintf(w, "  n%d [shape=%s label=%q];\n", s, shape, label)
	}

	for _, s := range states {
		targets := dfa.Transitions[s]
		var syms []symbol.Symbol
		for sym := range targets {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			fmt.Fprintf(w, "  n%d -> n%d [label=%q];\n", s, targets[sym], sym.String())
		}
	}

	for s, anchor := range dfa.BacktrackStates {
		fmt.Fprintf(w, "  n%d -> n%d [style=dashed color=red label=\"backtrack\"];\n", s, anchor)
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

// LexerDefDot writes def as a Graphviz dot graph, the same way DFADot does
// for a pre-composition DFA, but operating directly on the emitted table
// form (useful once the multi-DFA selector state is in the picture).
func LexerDefDot(w io.Writer, name string, def *lexdef.LexerDef) error {
	fmt.Fprintf(w, "digraph %s {\n", name)
	fmt.Fprintf(w, "  rankdir=LR;\n")

	var condNames []string
	for cond := range def.InitialStates {
		condNames = append(condNames, cond)
	}
	sort.Strings(condNames)
	for _, cond := range condNames {
		fmt.Fprintf(w, "  __start_%s [shape=point label=%q];\n", cond, cond)
		fmt.Fprintf(w, "  __start_%s -> n%d;\n", cond, def.InitialStates[cond])
	}

	var states []uint32
	for s := range def.Transitions {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	for _, s := range states {
		shape := "circle"
		label := fmt.Sprintf("n%d", s)
		if tag, ok := def.AcceptStates[s]; ok {
			shape = "doublecircle"
			label = fmt.Sprintf("n%d\\n(%s)", s, def.Name(tag))
		}
		fmt.Fprintf(w, "  n%d [shape=%s label=%q];\n", s, shape, label)
	}

	for _, s := range states {
		targets := def.Transitions[s]
		var syms []int32
		for sym := range targets {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			fmt.Fprintf(w, "  n%d -> n%d [label=%q];\n", s, targets[sym], symbol.Symbol(sym).String())
		}
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

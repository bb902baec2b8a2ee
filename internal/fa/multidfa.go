package fa

import (
	"sort"

	"github.com/dekarrin/lexgen/internal/symbol"
)

// MultiDFA is several named DFAs (one per start condition) composed into
// a single automaton: a synthetic selector state 0 transitions into each
// named sub-DFA's (rebased) initial state on a synthetic symbol whose
// value equals that initial state's id.
type MultiDFA struct {
	DFA
	// InitialStates maps a condition name to the state id to start
	// scanning from when that condition is active.
	InitialStates map[string]StateId
}

// ComposeMultiDFA merges the given named DFAs into one MultiDFA. Each
// input DFA's states are rebased to avoid collisions; iteration order is
// the sorted order of condition names, for reproducible output.
func ComposeMultiDFA(named map[string]*DFA) *MultiDFA {
	var names []string
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	out := &MultiDFA{
		DFA: DFA{
			Transitions:     make(map[StateId]map[symbol.Symbol]StateId),
			AcceptStates:    make(map[StateId]Tag),
			BacktrackStates: make(map[StateId]StateId),
		},
		InitialStates: make(map[string]StateId),
	}

	selector := StateId(0)
	out.Initial = selector
	out.Transitions[selector] = make(map[symbol.Symbol]StateId)

	next := StateId(1)
	for _, name := range names {
		d := named[name]
		base := next

		for s, targets := range d.Transitions {
			newSrc := s + base
			if out.Transitions[newSrc] == nil {
				out.Transitions[newSrc] = make(map[symbol.Symbol]StateId)
			}
			for sym, target := range targets {
				out.Transitions[newSrc][sym] = target + base
			}
		}
		for s, tag := range d.AcceptStates {
			out.AcceptStates[s+base] = tag
		}
		for s, anchor := range d.BacktrackStates {
			out.BacktrackStates[s+base] = anchor + base
		}

		newInitial := d.Initial + base
		out.InitialStates[name] = newInitial
		// the selector symbol for this sub-DFA is its own (rebased)
		// initial state id, per the composition scheme: dispatching on a
		// start condition jumps straight to that condition's initial
		// state.
		out.Transitions[selector][symbol.Symbol(newInitial)] = newInitial

		next += d.numStates
	}
	out.numStates = next

	return out
}

// Package lexdef defines LexerDef, the immutable, serializable table
// produced by the compiler pipeline and consumed by the runtime matcher.
package lexdef

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lexgen/internal/fa"
	"github.com/dekarrin/lexgen/internal/symbol"
)

// IgnoreTag marks a rule whose matches are never reported to the caller.
const IgnoreTag = -1

// LexerDef is the sparse, map-based table representation of a compiled lexer:
// one (possibly multi-condition) DFA, its accept tags, its trailing-context
// backtrack anchors, and the human-readable name of each tag.
type LexerDef struct {
	InitialStates map[string]uint32
	ContainsBOL   bool
	Transitions   map[uint32]map[int32]uint32
	AcceptStates  map[uint32]int32
	Backtracking  map[uint32]uint32
	TagNames      map[int32]string
}

// FromMultiDFA lowers a composed MultiDFA plus its tag-name table into the
// emitted table form.
func FromMultiDFA(m *fa.MultiDFA, containsBOL bool, tagNames map[int]string) *LexerDef {
	def := &LexerDef{
		InitialStates: make(map[string]uint32, len(m.InitialStates)),
		ContainsBOL:   containsBOL,
		Transitions:   make(map[uint32]map[int32]uint32),
		AcceptStates:  make(map[uint32]int32),
		Backtracking:  make(map[uint32]uint32),
		TagNames:      make(map[int32]string, len(tagNames)),
	}

	for name, id := range m.InitialStates {
		def.InitialStates[name] = uint32(id)
	}
	for s, targets := range m.Transitions {
		row := make(map[int32]uint32, len(targets))
		for sym, target := range targets {
			row[int32(sym)] = uint32(target)
		}
		def.Transitions[uint32(s)] = row
	}
	for s, tag := range m.AcceptStates {
		def.AcceptStates[uint32(s)] = int32(tag)
	}
	for s, anchor := range m.BacktrackStates {
		def.Backtracking[uint32(s)] = uint32(anchor)
	}
	for tag, name := range tagNames {
		def.TagNames[int32(tag)] = name
	}

	return def
}

// Delta returns the state reached from state on input sym, and whether
// such a transition exists.
func (d *LexerDef) Delta(state uint32, sym symbol.Symbol) (uint32, bool) {
	row, ok := d.Transitions[state]
	if !ok {
		return 0, false
	}
	target, ok := row[int32(sym)]
	return target, ok
}

// Accept returns the tag state completes a match for, if it is an accept
// state.
func (d *LexerDef) Accept(state uint32) (int32, bool) {
	tag, ok := d.AcceptStates[state]
	return tag, ok
}

// BacktrackAnchor returns the state to roll back to for an accepting
// trailing-context state, if one is defined.
func (d *LexerDef) BacktrackAnchor(state uint32) (uint32, bool) {
	anchor, ok := d.Backtracking[state]
	return anchor, ok
}

// Name returns the declared name for tag, or "" if unknown.
func (d *LexerDef) Name(tag int32) string {
	return d.TagNames[tag]
}

// String renders a debug dump of the table, in the spirit of the original
// toolchain's LexerDef::to_string(): initial states, the BOL flag, the
// number of states with outgoing transitions, then the
// transitions/accepts/backtracking sections in full.
func (d *LexerDef) String() string {
	var sb strings.Builder

	var condNames []string
	for name := range d.InitialStates {
		condNames = append(condNames, name)
	}
	sort.Strings(condNames)

	fmt.Fprintf(&sb, "initial states:\n")
	for _, name := range condNames {
		fmt.Fprintf(&sb, "  %s: n%d\n", name, d.InitialStates[name])
	}
	fmt.Fprintf(&sb, "containsBOL: %v\n", d.ContainsBOL)
	fmt.Fprintf(&sb, "totalStates: %d\n", len(d.Transitions))

	var states []uint32
	for s := range d.Transitions {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	fmt.Fprintf(&sb, "transitions:\n")
	for _, s := range states {
		var syms []int32
		for sym := range d.Transitions[s] {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			fmt.Fprintf(&sb, "  n%d =(%s)=> n%d\n", s, symbol.Symbol(sym), d.Transitions[s][sym])
		}
	}

	fmt.Fprintf(&sb, "accepts:\n")
	var acceptStates []uint32
	for s := range d.AcceptStates {
		acceptStates = append(acceptStates, s)
	}
	sort.Slice(acceptStates, func(i, j int) bool { return acceptStates[i] < acceptStates[j] })
	for _, s := range acceptStates {
		tag := d.AcceptStates[s]
		fmt.Fprintf(&sb, "  n%d: %s (%d)\n", s, d.Name(tag), tag)
	}

	fmt.Fprintf(&sb, "backtracking:\n")
	var btStates []uint32
	for s := range d.Backtracking {
		btStates = append(btStates, s)
	}
	sort.Slice(btStates, func(i, j int) bool { return btStates[i] < btStates[j] })
	for _, s := range btStates {
		fmt.Fprintf(&sb, "  n%d -> n%d\n", s, d.Backtracking[s])
	}

	return sb.String()
}

package fa

import "github.com/dekarrin/lexgen/internal/symbol"

// prepareStateIds rebases every state id in n by adding base to it: every
// transition target, every transition source key, the initial state, and
// any already-assigned accept/backtrack entries. This lets two previously
// independent NFAs be merged into one address space without pointer
// patching.
func (n *NFA) prepareStateIds(base StateId) {
	rebased := make(map[StateId][]edge, len(n.transitions))
	for from, edges := range n.transitions {
		newEdges := make([]edge, len(edges))
		for i, e := range edges {
			newEdges[i] = edge{Sym: e.Sym, Target: e.Target + base}
		}
		rebased[from+base] = newEdges
	}
	n.transitions = rebased
	n.Initial += base

	acc := make(map[StateId]Tag, len(n.AcceptStates))
	for s, t := range n.AcceptStates {
		acc[s+base] = t
	}
	n.AcceptStates = acc

	bt := make(map[StateId]StateId, len(n.BacktrackStates))
	for s, anchor := range n.BacktrackStates {
		bt[s+base] = anchor + base
	}
	n.BacktrackStates = bt

	n.nextState += base
}

// join merges other into n, rebasing every one of other's state ids by
// n.nextState so the two address spaces don't collide. It returns the
// offset that was applied, so callers can translate other's original
// (pre-merge) state ids (such as other.start/other.accept of a fragment)
// into their new position in n.
func (n *NFA) join(other *NFA) StateId {
	offset := n.nextState
	other.prepareStateIds(offset)

	for from, edges := range other.transitions {
		n.transitions[from] = append(n.transitions[from], edges...)
	}
	for s, t := range other.AcceptStates {
		n.AcceptStates[s] = t
	}
	for s, anchor := range other.BacktrackStates {
		n.BacktrackStates[s] = anchor
	}
	// other.nextState already includes offset after rebasing.
	n.nextState = other.nextState
	return offset
}

// concatenate returns a fragment matching f followed immediately by g,
// joined by a single epsilon edge from f's accept state to g's start
// state.
func (f *fragment) concatenate(g *fragment) *fragment {
	offset := f.nfa.join(g.nfa)
	gStart := g.start + offset
	gAccept := g.accept + offset

	f.nfa.addTransition(f.accept, symbol.Epsilon, gStart)
	return &fragment{nfa: f.nfa, start: f.start, accept: gAccept}
}

// alternate returns a fragment matching either f or g: two new states (a
// new start epsilon-branching to both old starts, and a new accept that
// both old accepts epsilon-join into).
func (f *fragment) alternate(g *fragment) *fragment {
	offset := f.nfa.join(g.nfa)
	gStart := g.start + offset
	gAccept := g.accept + offset

	newStart := f.nfa.createState()
	newAccept := f.nfa.createState()

	f.nfa.addTransition(newStart, symbol.Epsilon, f.start)
	f.nfa.addTransition(newStart, symbol.Epsilon, gStart)
	f.nfa.addTransition(f.accept, symbol.Epsilon, newAccept)
	f.nfa.addTransition(gAccept, symbol.Epsilon, newAccept)

	return &fragment{nfa: f.nfa, start: newStart, accept: newAccept}
}

// optional returns a fragment matching f zero or one times ('?').
func (f *fragment) optional() *fragment {
	f.nfa.addTransition(f.start, symbol.Epsilon, f.accept)
	return f
}

// recurring returns a fragment matching f zero or more times ('*'): a new
// start/accept pair wrapping f, with an epsilon loop back from f's accept
// to f's start, and an epsilon bypass from new start straight to new
// accept.
func (f *fragment) recurring() *fragment {
	newStart := f.nfa.createState()
	newAccept := f.nfa.createState()

	f.nfa.addTransition(newStart, symbol.Epsilon, f.start)
	f.nfa.addTransition(newStart, symbol.Epsilon, newAccept)
	f.nfa.addTransition(f.accept, symbol.Epsilon, f.start)
	f.nfa.addTransition(f.accept, symbol.Epsilon, newAccept)

	return &fragment{nfa: f.nfa, start: newStart, accept: newAccept}
}

// positive returns a fragment matching f one or more times ('+'),
// implemented as f followed by a clone of f wrapped in recurring().
func (f *fragment) positive() *fragment {
	return f.concatenate(f.clone().recurring())
}

// clone returns an independent copy of f's underlying NFA fragment, for
// use when f must appear more than once in a construction (e.g. '+').
func (f *fragment) clone() *fragment {
	orig := f.nfa
	cp := newNFA()
	cp.nextState = orig.nextState
	for from, edges := range orig.transitions {
		cp.transitions[from] = append([]edge(nil), edges...)
	}
	for s, t := range orig.AcceptStates {
		cp.AcceptStates[s] = t
	}
	for s, a := range orig.BacktrackStates {
		cp.BacktrackStates[s] = a
	}
	return &fragment{nfa: cp, start: f.start, accept: f.accept}
}

// lookahead implements the "r/s" trailing-context construction: f (the
// "r" part) is concatenated with g (the "s" part), but the composite's
// accept state is recorded in BacktrackStates as pointing back to the
// accept state that marks the end of "r" alone, so the runtime can roll
// the match back to that extent once "r/s" as a whole is recognized.
func (f *fragment) lookahead(g *fragment) *fragment {
	rAccept := f.accept
	combined := f.concatenate(g)
	combined.nfa.BacktrackStates[combined.accept] = rAccept
	return combined
}

package fa

import (
	"sort"

	"github.com/dekarrin/lexgen/internal/regexpr"
	"github.com/dekarrin/lexgen/internal/rule"
	"github.com/dekarrin/lexgen/internal/symbol"
)

// DFA is a deterministic finite automaton over the Symbol alphabet,
// produced by subset construction (see BuildDFA) or by minimizing another
// DFA (see Minimize).
type DFA struct {
	Initial StateId
	// Transitions[s][sym] = target state.
	Transitions map[StateId]map[symbol.Symbol]StateId
	// AcceptStates maps an accepting state to the rule Tag it completes.
	AcceptStates map[StateId]Tag
	// BacktrackStates maps an accepting state for a trailing-context rule
	// to the state that should be rolled back to once that rule is
	// recognized.
	BacktrackStates map[StateId]StateId
	numStates       StateId
}

// States returns every state id in d, in ascending order.
func (d *DFA) States() []StateId {
	out := make([]StateId, 0, d.numStates)
	for i := StateId(0); i < d.numStates; i++ {
		out = append(out, i)
	}
	return out
}

// Overshadow describes a rule tag that can never win a match because
// another rule with a numerically smaller tag always matches the same or
// a longer extent wherever this rule would also match.
type Overshadow struct {
	Tag       Tag
	ShadowedBy Tag
}

// compileRule pairs one rule's Tag with its (not yet compiled) expression
// tree.
type compileRule struct {
	tag  Tag
	expr regexpr.Expr
}

// BuildDFA compiles a list of rules (already filtered to one start
// condition) into an NFA via Thompson construction, then performs subset
// construction to obtain a DFA. It also reports which rule tags, if any,
// never become the winning accept tag of any reachable DFA state
// (overshadowed by an earlier, lower-tagged rule matching a superset of
// inputs).
func BuildDFA(rules []rule.Rule) (*DFA, []Overshadow, error) {
	combined := newNFA()
	combined.Initial = combined.createState()

	for _, r := range rules {
		frag := build(r.Expr)
		offset := combined.join(frag.nfa)
		start := frag.start + offset
		accept := frag.accept + offset

		combined.addTransition(combined.Initial, symbol.Epsilon, start)
		combined.AcceptStates[accept] = r.Tag
	}

	return subsetConstruct(combined)
}

// config is a canonicalized, hashable epsilon-closure configuration: the
// sorted set of NFA state ids reachable together.
type config struct {
	key   string
	ids   []StateId
}

func makeConfig(ids map[StateId]bool) config {
	sorted := make([]StateId, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buf := make([]byte, 0, len(sorted)*5)
	for _, id := range sorted {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24), ',')
	}
	return config{key: string(buf), ids: sorted}
}

func epsilonClosure(n *NFA, start StateId) map[StateId]bool {
	closure := map[StateId]bool{start: true}
	stack := []StateId{start}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.transitions[s] {
			if e.Sym == symbol.Epsilon && !closure[e.Target] {
				closure[e.Target] = true
				stack = append(stack, e.Target)
			}
		}
	}
	return closure
}

func epsilonClosureOfSet(n *NFA, states map[StateId]bool) map[StateId]bool {
	out := make(map[StateId]bool, len(states))
	var stack []StateId
	for s := range states {
		if !out[s] {
			out[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.transitions[s] {
			if e.Sym == symbol.Epsilon && !out[e.Target] {
				out[e.Target] = true
				stack = append(stack, e.Target)
			}
		}
	}
	return out
}

// move returns the set of NFA states reachable from any state in `from` by
// consuming exactly one occurrence of sym (not including any further
// epsilon transitions).
func move(n *NFA, from map[StateId]bool, sym symbol.Symbol) map[StateId]bool {
	out := make(map[StateId]bool)
	for s := range from {
		for _, e := range n.transitions[s] {
			if e.Sym == sym {
				out[e.Target] = true
			}
		}
	}
	return out
}

// inputAlphabet returns every concrete symbol (byte values and sentinels
// other than Epsilon) appearing on some transition of n.
func inputAlphabet(n *NFA) []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	for _, edges := range n.transitions {
		for _, e := range edges {
			if e.Sym != symbol.Epsilon {
				seen[e.Sym] = true
			}
		}
	}
	out := make([]symbol.Symbol, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func subsetConstruct(n *NFA) (*DFA, []Overshadow, error) {
	alphabet := inputAlphabet(n)

	dfa := &DFA{
		Transitions:     make(map[StateId]map[symbol.Symbol]StateId),
		AcceptStates:    make(map[StateId]Tag),
		BacktrackStates: make(map[StateId]StateId),
	}

	configIndex := make(map[string]StateId)
	var configs []config
	// nfaStateToDFAStates records, for every NFA state, which DFA states'
	// configurations contain it -- used to resolve lookahead backtrack
	// anchors to a concrete DFA state below.
	nfaStateToDFAStates := make(map[StateId][]StateId)

	addConfig := func(raw map[StateId]bool) StateId {
		c := makeConfig(raw)
		if id, ok := configIndex[c.key]; ok {
			return id
		}
		id := StateId(len(configs))
		configIndex[c.key] = id
		configs = append(configs, c)
		for _, nfaState := range c.ids {
			nfaStateToDFAStates[nfaState] = append(nfaStateToDFAStates[nfaState], id)
		}
		return id
	}

	startClosure := epsilonClosure(n, n.Initial)
	dfa.Initial = addConfig(startClosure)

	// worklist over DFA states, identified by index into configs; configs
	// grows as we discover new states, so re-check len each iteration.
	for i := 0; i < len(configs); i++ {
		cur := configs[i]
		curSet := make(map[StateId]bool, len(cur.ids))
		for _, id := range cur.ids {
			curSet[id] = true
		}

		for _, sym := range alphabet {
			moved := move(n, curSet, sym)
			if len(moved) == 0 {
				continue
			}
			closed := epsilonClosureOfSet(n, moved)
			target := addConfig(closed)

			if dfa.Transitions[StateId(i)] == nil {
				dfa.Transitions[StateId(i)] = make(map[symbol.Symbol]StateId)
			}
			dfa.Transitions[StateId(i)][sym] = target
		}
	}
	dfa.numStates = StateId(len(configs))

	// accept-tag assignment: numerically smallest tag among NFA accept
	// states present in the configuration.
	for i, c := range configs {
		best := 0
		found := false
		for _, nfaState := range c.ids {
			if tag, ok := n.AcceptStates[nfaState]; ok {
				if !found || tag < best {
					best = tag
					found = true
				}
			}
		}
		if found {
			dfa.AcceptStates[StateId(i)] = best
		}
	}

	// backtrack propagation: any DFA state whose configuration contains an
	// NFA state that is itself a lookahead composite-accept key gets a
	// BacktrackStates entry pointing at the DFA state holding the
	// corresponding "end of r" anchor.
	for i, c := range configs {
		for _, nfaState := range c.ids {
			anchor, ok := n.BacktrackStates[nfaState]
			if !ok {
				continue
			}
			candidates := nfaStateToDFAStates[anchor]
			if len(candidates) == 0 {
				continue
			}
			dfa.BacktrackStates[StateId(i)] = candidates[0]
		}
	}

	overshadows := detectOvershadows(n, dfa, nfaStateToDFAStates)
	return dfa, overshadows, nil
}

// detectOvershadows reports every rule tag that never wins the accept-tag
// vote (see the "accept-tag assignment" loop above) at any DFA
// configuration containing its own NFA accept state -- i.e. a rule that
// can never match because some other rule always wins wherever it would
// also have matched. ShadowedBy is attributed to whichever tag actually
// wins most often across those specific configurations (not some
// unrelated globally-smallest winning tag), tie-broken by the smaller tag.
func detectOvershadows(n *NFA, dfa *DFA, nfaStateToDFAStates map[StateId][]StateId) []Overshadow {
	tagNFAStates := make(map[Tag][]StateId)
	var tags []Tag
	for s, tag := range n.AcceptStates {
		if _, seen := tagNFAStates[tag]; !seen {
			tags = append(tags, tag)
		}
		tagNFAStates[tag] = append(tagNFAStates[tag], s)
	}
	sort.Ints(tags)

	var out []Overshadow
	for _, tag := range tags {
		if tag == rule.IgnoreTag {
			continue
		}

		winnerVotes := make(map[Tag]int)
		everWins := false
		for _, nfaState := range tagNFAStates[tag] {
			for _, dfaState := range nfaStateToDFAStates[nfaState] {
				winner, ok := dfa.AcceptStates[dfaState]
				if !ok {
					continue
				}
				if winner == tag {
					everWins = true
				}
				winnerVotes[winner]++
			}
		}
		if everWins || len(winnerVotes) == 0 {
			continue
		}

		var candidates []Tag
		for t := range winnerVotes {
			candidates = append(candidates, t)
		}
		sort.Slice(candidates, func(i, j int) bool {
			if winnerVotes[candidates[i]] != winnerVotes[candidates[j]] {
				return winnerVotes[candidates[i]] > winnerVotes[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		out = append(out, Overshadow{Tag: tag, ShadowedBy: candidates[0]})
	}
	return out
}

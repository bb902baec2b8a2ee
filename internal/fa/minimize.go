package fa

import (
	"sort"

	"github.com/dekarrin/lexgen/internal/symbol"
)

// Minimize reduces dfa to an equivalent DFA with the fewest possible
// states, using partition refinement: states are grouped into blocks that
// are indistinguishable by any input so far, and any block is split the
// moment a symbol is found that sends its members to different target
// blocks. States with different accept tags, or the same tag but differing
// backtrack-source status, always start in different blocks (including
// "not accepting" as its own block), so the result never merges
// distinguishable accept states.
func Minimize(dfa *DFA) *DFA {
	partitions := initialPartitions(dfa)

	for {
		refined, changed := refineOnce(dfa, partitions)
		partitions = refined
		if !changed {
			break
		}
	}

	return construct(dfa, partitions)
}

// initialPartitions groups every state by (accept tag, is-backtrack-source);
// non-accepting states form one shared block (tag sentinel below). The
// backtrack-source component matters because two accept states sharing a
// tag can still be distinguishable: one might be the end of a trailing
// context match that needs to roll back to an earlier anchor while the
// other is a plain accept, and merging them would silently drop or
// misapply that rollback.
const noAcceptBlock = -1 << 31

type partitionKey struct {
	tag       Tag
	backtrack bool
}

func initialPartitions(dfa *DFA) [][]StateId {
	byKey := make(map[partitionKey][]StateId)
	for _, s := range dfa.States() {
		tag, ok := dfa.AcceptStates[s]
		if !ok {
			tag = noAcceptBlock
		}
		_, isBacktrackSource := dfa.BacktrackStates[s]
		key := partitionKey{tag: tag, backtrack: isBacktrackSource}
		byKey[key] = append(byKey[key], s)
	}

	var keys []partitionKey
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].tag != keys[j].tag {
			return keys[i].tag < keys[j].tag
		}
		return !keys[i].backtrack && keys[j].backtrack
	})

	out := make([][]StateId, 0, len(keys))
	for _, key := range keys {
		out = append(out, byKey[key])
	}
	return out
}

// blockOf returns, for every state, the index of the partition block it
// currently belongs to.
func blockOf(partitions [][]StateId) map[StateId]int {
	out := make(map[StateId]int)
	for i, block := range partitions {
		for _, s := range block {
			out[s] = i
		}
	}
	return out
}

// refineOnce scans every block for the first alphabet symbol that sends
// its members to more than one target block, and splits on it. It returns
// the (possibly) refined partition list and whether any split happened.
func refineOnce(dfa *DFA, partitions [][]StateId) ([][]StateId, bool) {
	owner := blockOf(partitions)
	alphabet := allSymbols(dfa)

	var out [][]StateId
	changed := false

	for _, block := range partitions {
		if len(block) <= 1 {
			out = append(out, block)
			continue
		}

		split := trySplit(dfa, block, owner, alphabet)
		if split == nil {
			out = append(out, block)
			continue
		}
		changed = true
		out = append(out, split...)
	}

	return out, changed
}

// trySplit looks for the first symbol that divides block's states into
// more than one target-block bucket, and if found returns the resulting
// sub-blocks (in deterministic, sorted order). Returns nil if block is
// already stable under every symbol.
func trySplit(dfa *DFA, block []StateId, owner map[StateId]int, alphabet []symbol.Symbol) [][]StateId {
	for _, sym := range alphabet {
		buckets := make(map[int][]StateId)
		for _, s := range block {
			target, ok := dfa.Transitions[s][sym]
			key := -1
			if ok {
				key = owner[target]
			}
			buckets[key] = append(buckets[key], s)
		}
		if len(buckets) <= 1 {
			continue
		}

		var keys []int
		for k := range buckets {
			keys = append(keys, k)
		}
		sort.Ints(keys)

		out := make([][]StateId, 0, len(keys))
		for _, k := range keys {
			out = append(out, buckets[k])
		}
		return out
	}
	return nil
}

func allSymbols(dfa *DFA) []symbol.Symbol {
	seen := make(map[symbol.Symbol]bool)
	for _, targets := range dfa.Transitions {
		for sym := range targets {
			seen[sym] = true
		}
	}
	out := make([]symbol.Symbol, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// construct builds the final minimized DFA from a stable partition: one
// new state per block, in block-index order. A block's properties
// (initial/accepting/backtracking) are derived by checking its member
// states, since every member is equivalent by construction.
func construct(dfa *DFA, partitions [][]StateId) *DFA {
	owner := blockOf(partitions)

	out := &DFA{
		Transitions:     make(map[StateId]map[symbol.Symbol]StateId),
		AcceptStates:    make(map[StateId]Tag),
		BacktrackStates: make(map[StateId]StateId),
		numStates:       StateId(len(partitions)),
	}
	out.Initial = StateId(owner[dfa.Initial])

	for i, block := range partitions {
		rep := block[0]
		newID := StateId(i)

		if tag, ok := dfa.AcceptStates[rep]; ok {
			out.AcceptStates[newID] = tag
		}
		if anchor, ok := dfa.BacktrackStates[rep]; ok {
			out.BacktrackStates[newID] = StateId(owner[anchor])
		}

		for sym, target := range dfa.Transitions[rep] {
			if out.Transitions[newID] == nil {
				out.Transitions[newID] = make(map[symbol.Symbol]StateId)
			}
			out.Transitions[newID][sym] = StateId(owner[target])
		}
	}

	return out
}

package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/dekarrin/lexgen/internal/lexdef"
)

// GoSource writes def as a standalone Go source file declaring it as
// package-level data, under the given package and variable name. The
// generated file imports this module's internal/lexdef package, so it
// compiles only inside the lexgen module tree, and internal/lexdef in turn
// imports the internal/fa automaton package.
func GoSource(w io.Writer, pkg, varName string, def *lexdef.LexerDef) error {
	fmt.Fprintf(w, "// Code generated by mklex. DO NOT EDIT.\n\n")
	fmt.Fprintf(w, "package %s\n\n", pkg)
	fmt.Fprintf(w, "import \"github.com/dekarrin/lexgen/internal/lexdef\"\n\n")
	fmt.Fprintf(w, "var %s = &lexdef.LexerDef{\n", varName)

	fmt.Fprintf(w, "\tInitialStates: map[string]uint32{\n")
	var condNames []string
	for name := range def.InitialStates {
		condNames = append(condNames, name)
	}
	sort.Strings(condNames)
	for _, name := range condNames {
		fmt.Fprintf(w, "\t\t%q: %d,\n", name, def.InitialStates[name])
	}
	fmt.Fprintf(w, "\t},\n")

	fmt.Fprintf(w, "\tContainsBOL: %v,\n", def.ContainsBOL)

	fmt.Fprintf(w, "\tTransitions: map[uint32]map[int32]uint32{\n")
	var states []uint32
	for s := range def.Transitions {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	for _, s := range states {
		fmt.Fprintf(w, "\t\t%d: {\n", s)
		row := def.Transitions[s]
		var syms []int32
		for sym := range row {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			fmt.Fprintf(w, "\t\t\t%d: %d,\n", sym, row[sym])
		}
		fmt.Fprintf(w, "\t\t},\n")
	}
	fmt.Fprintf(w, "\t},\n")

	fmt.Fprintf(w, "\tAcceptStates: map[uint32]int32{\n")
	var acceptStates []uint32
	for s := range def.AcceptStates {
		acceptStates = append(acceptStates, s)
	}
	sort.Slice(acceptStates, func(i, j int) bool { return acceptStates[i] < acceptStates[j] })
	for _, s := range acceptStates {
		fmt.Fprintf(w, "\t\t%d: %d,\n", s, def.AcceptStates[s])
	}
	fmt.Fprintf(w, "\t},\n")

	fmt.Fprintf(w, "\tBacktracking: map[uint32]uint32{\n")
	var btStates []uint32
	for s := range def.Backtracking {
		btStates = append(btStates, s)
	}
	sort.Slice(btStates, func(i, j int) bool { return btStates[i] < btStates[j] })
	for _, s := range btStates {
		fmt.Fprintf(w, "\t\t%d: %d,\n", s, def.Backtracking[s])
	}
	fmt.Fprintf(w, "\t},\n")

	fmt.Fprintf(w, "\tTagNames: map[int32]string{\n")
	var tags []int32
	for t := range def.TagNames {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, t := range tags {
		fmt.Fprintf(w, "\t\t%d: %q,\n", t, def.TagNames[t])
	}
	fmt.Fprintf(w, "\t},\n")

	fmt.Fprintf(w, "}\n")
	return nil
}

// TokenEnum writes a Go source file declaring one named integer constant
// per non-ignored tag, matching spec's "-T FILE emits the token
// enumeration" CLI output.
func TokenEnum(w io.Writer, pkg string, tagNames map[int32]string) error {
	fmt.Fprintf(w, "// Code generated by mklex. DO NOT EDIT.\n\n")
	fmt.Fprintf(w, "package %s\n\n", pkg)
	fmt.Fprintf(w, "const (\n")

	var tags []int32
	for t := range tagNames {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, t := range tags {
		fmt.Fprintf(w, "\tTag%s = %d\n", tagNames[t], t)
	}
	fmt.Fprintf(w, ")\n")
	return nil
}

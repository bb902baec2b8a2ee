package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	lexgen "github.com/dekarrin/lexgen"
	"github.com/dekarrin/lexgen/internal/emit"
	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/lexgen/internal/util"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

// overshadowReportError carries a non-empty overshadow report as the
// top-level compile failure reported to the user.
type overshadowReportError struct {
	overshadows []lexgen.Overshadow
	tagNames    map[int]string
}

func (e *overshadowReportError) Error() string {
	sorted := append([]lexgen.Overshadow(nil), e.overshadows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	var names []string
	for _, o := range sorted {
		names = append(names, e.tagNames[o.Tag])
	}

	sb := fmt.Sprintf("rule(s) %s can never match:\n", util.MakeTextList(names))
	for _, o := range sorted {
		sb += fmt.Sprintf("  %s (tag %d) is always shadowed by %s (tag %d)\n",
			e.tagNames[o.Tag], o.Tag, e.tagNames[o.ShadowedBy], o.ShadowedBy)
	}
	return sb
}

// tagNamesOf converts a LexerDef's int32-keyed tag name table to the
// int-keyed form overshadowReportError and lexgen.Overshadow expect.
func tagNamesOf(def *lexdef.LexerDef) map[int]string {
	names := make(map[int]string, len(def.TagNames))
	for tag, name := range def.TagNames {
		names[int(tag)] = name
	}
	return names
}

func runCompile() error {
	source, err := os.ReadFile(*flagRuleFile)
	if err != nil {
		return fmt.Errorf("read rule file: %w", err)
	}

	cacheDir := *flagCacheDir
	if def, ok := loadCachedTable(cacheDir, string(source)); ok {
		log.Printf("using cached table for %s", *flagRuleFile)
		return writeOutputs(def)
	}

	c, err := lexgen.NewCompiler(string(source))
	if err != nil {
		return err
	}
	c.SetMinimize(!*flagNoMinimize)

	result, err := c.Compile()
	if err != nil {
		return err
	}

	if len(result.Overshadows) > 0 {
		return &overshadowReportError{overshadows: result.Overshadows, tagNames: tagNamesOf(result.Def)}
	}

	if err := storeCachedTable(cacheDir, string(source), result.Def); err != nil {
		log.Printf("warning: failed to cache compiled table: %s", err)
	}

	if *flagDebugNFA != "" {
		if err := writeDebugDot(*flagDebugNFA, c); err != nil {
			return err
		}
	}
	if *flagDebugDFA != "" {
		if err := writeDebugDot(*flagDebugDFA, c); err != nil {
			return err
		}
	}

	return writeOutputs(result.Def)
}

func writeDebugDot(path string, c *lexgen.Compiler) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create debug dot file: %w", err)
	}
	defer f.Close()

	names := make([]string, 0, len(c.DFAs()))
	for name := range c.DFAs() {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(f, "digraph lexer {\n")
	for _, name := range names {
		subPath := path + "." + name
		sub, err := os.Create(subPath)
		if err != nil {
			return err
		}
		err = emit.DFADot(sub, name, c.DFAs()[name])
		sub.Close()
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(f, "}\n")
	return nil
}

func writeOutputs(def *lexdef.LexerDef) error {
	if *flagTableOut != "" {
		f, err := os.Create(*flagTableOut)
		if err != nil {
			return fmt.Errorf("create table output: %w", err)
		}
		defer f.Close()
		if err := emit.GoSource(f, *flagMachineName, *flagTableName, def); err != nil {
			return fmt.Errorf("emit table: %w", err)
		}
	}

	if *flagTokenOut != "" {
		f, err := os.Create(*flagTokenOut)
		if err != nil {
			return fmt.Errorf("create token output: %w", err)
		}
		defer f.Close()
		if err := emit.TokenEnum(f, *flagMachineName, def.TagNames); err != nil {
			return fmt.Errorf("emit tokens: %w", err)
		}
	}

	return nil
}

func wrapReport(msg string) string {
	return rosed.Edit(msg).Wrap(consoleOutputWidth).String()
}

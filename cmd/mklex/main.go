/*
Mklex compiles a lexer rule file into a runnable transition table.

Usage:

	mklex [flags] -f RULEFILE

The flags are:

	-f, --file FILE
		The rule file to compile. Required.

	-t, --table FILE
		Write the compiled table as Go source to FILE.

	-T, --tokens FILE
		Write the token enumeration as Go source to FILE.

	--table-name, --token-name, --machine-name NAME
		Override the generated identifiers: --table-name sets the
		package-level var name for the table, --machine-name the package
		name shared by both outputs. --token-name is accepted (and read
		from the project file) but does not change the output; token
		constants are always prefixed "Tag".

	--debug-nfa, --debug-dfa FILE
		Write one Graphviz dot graph per start-condition DFA, as used for
		the table (minimized unless --no-dfa-minimize is given), to
		FILE.CONDITION; FILE itself receives an empty "digraph lexer"
		graph. Both flags produce the same output; no NFA-stage graph is
		written, and nothing is written when a cached table is used.

	--no-dfa-minimize
		Skip Hopcroft minimization; use the raw subset-construction DFA.

	-v, --verbose
		Increase log verbosity.

	-p, --project FILE
		Read defaults from a lexgen.toml-style project file instead of
		"./lexgen.toml".

Once a table has been compiled, "mklex test" starts an interactive
session that tokenizes typed input against it.

Exit 0 on success, non-zero on any diagnostic above a warning -- a
failed parse, a failed compile, or a non-empty overshadow report.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dekarrin/lexgen/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates a parse or compile failure.
	ExitCompileError

	// ExitOvershadowError indicates the rule set compiled but contains
	// overshadowed rules.
	ExitOvershadowError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue reading input or writing output.
	ExitInitError
)

var (
	returnCode = ExitSuccess

	flagVersion     = pflag.Bool("version", false, "Gives the version info")
	flagRuleFile    = pflag.StringP("file", "f", "", "The rule file to compile")
	flagTableOut    = pflag.StringP("table", "t", "", "Write the compiled table as Go source to this file")
	flagTokenOut    = pflag.StringP("tokens", "T", "", "Write the token enumeration as Go source to this file")
	flagTableName   = pflag.String("table-name", "Table", "Identifier to use for the emitted table variable")
	flagTokenName   = pflag.String("token-name", "Tag", "Token constant prefix (not applied: emitted token constants always use \"Tag\")")
	flagMachineName = pflag.String("machine-name", "lextab", "Package name for emitted Go source")
	flagDebugNFA    = pflag.String("debug-nfa", "", "Write a Graphviz dot graph to this file")
	flagDebugDFA    = pflag.String("debug-dfa", "", "Write a Graphviz dot graph to this file")
	flagNoMinimize  = pflag.Bool("no-dfa-minimize", false, "Skip DFA minimization")
	flagProject     = pflag.StringP("project", "p", "lexgen.toml", "Project config file")
	flagVerbose     = pflag.BoolP("verbose", "v", false, "Increase log verbosity")
	flagCacheDir    = pflag.String("cache-dir", "", "Directory to cache compiled tables in, keyed by rule file content hash")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if !*flagVerbose {
		log.SetFlags(0)
	}

	cfg, err := loadProjectConfig(*flagProject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}
	applyProjectDefaults(cfg)

	if pflag.NArg() > 0 && pflag.Arg(0) == "test" {
		if err := runTestREPL(*flagRuleFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitInitError
		}
		return
	}

	if *flagRuleFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -f/--file is required")
		returnCode = ExitInitError
		return
	}

	if err := runCompile(); err != nil {
		fmt.Fprintln(os.Stderr, wrapReport(err.Error()))
		if _, ok := err.(*overshadowReportError); ok {
			returnCode = ExitOvershadowError
		} else {
			returnCode = ExitCompileError
		}
		return
	}
}

// applyProjectDefaults fills in any flag left at its zero value from cfg.
func applyProjectDefaults(cfg *projectConfig) {
	if *flagRuleFile == "" {
		*flagRuleFile = cfg.RuleFile
	}
	if *flagTableOut == "" {
		*flagTableOut = cfg.TableOut
	}
	if *flagTokenOut == "" {
		*flagTokenOut = cfg.TokenOut
	}
	if *flagTableName == "Table" && cfg.TableName != "" {
		*flagTableName = cfg.TableName
	}
	if *flagTokenName == "Tag" && cfg.TokenName != "" {
		*flagTokenName = cfg.TokenName
	}
	if *flagMachineName == "lextab" && cfg.MachineName != "" {
		*flagMachineName = cfg.MachineName
	}
	if *flagCacheDir == "" {
		*flagCacheDir = cfg.CacheDir
	}
}

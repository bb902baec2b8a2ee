package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	lexgen "github.com/dekarrin/lexgen"
	"github.com/dekarrin/lexgen/internal/input"
	"github.com/dekarrin/lexgen/runtime"
)

// runTestREPL compiles ruleFile and starts an interactive session that
// tokenizes each typed line against the resulting table, using a
// readline-backed command reader for input.
func runTestREPL(ruleFile string) error {
	if ruleFile == "" {
		return fmt.Errorf("-f/--file is required")
	}

	source, err := os.ReadFile(ruleFile)
	if err != nil {
		return fmt.Errorf("read rule file: %w", err)
	}

	c, err := lexgen.NewCompiler(string(source))
	if err != nil {
		return err
	}
	result, err := c.Compile()
	if err != nil {
		return err
	}
	if len(result.Overshadows) > 0 {
		fmt.Fprintln(os.Stderr, (&overshadowReportError{overshadows: result.Overshadows, tagNames: tagNamesOf(result.Def)}).Error())
	}

	rl, err := input.NewInteractiveReader()
	if err != nil {
		return err
	}
	rl.SetPrompt("lex> ")
	defer rl.Close()

	fmt.Println("Type a line to tokenize it; Ctrl-D to quit.")
	for {
		line, err := rl.ReadCommand()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		m, err := runtime.Open(result.Def, []byte(line))
		if err != nil {
			fmt.Printf("  error: %s\n", err)
			continue
		}
		m.Iterate(func(tok runtime.TokenInfo) bool {
			fmt.Printf("  %s %q @%d\n", result.Def.Name(tok.Tag), tok.Lexeme, tok.Offset)
			return true
		})
	}
}

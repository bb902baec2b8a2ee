// Package regexpr parses the restricted regular-expression dialect used in
// lexer rule files into an expression tree, ready for NFA construction.
//
// The grammar supports literal characters and strings, character classes
// (including the POSIX named classes), '.', anchors ('^', '$', "<<EOF>>"),
// alternation, concatenation, the '?' '*' '+' and "{m,n}" closure operators,
// and a single trailing-context operator '/' for lookahead rules. It does
// not support capture groups or full PCRE features.
package regexpr

import (
	"fmt"

	"github.com/dekarrin/lexgen/internal/symbol"
)

// Expr is a node in a parsed regular expression tree.
type Expr interface {
	// Precedence returns a node's binding strength, used only for
	// pretty-printing parenthesization; it otherwise has no semantic
	// effect once the tree is built.
	Precedence() int
	String() string
}

// precedence levels, matching the grammar's binding order from loosest to
// tightest.
const (
	precLookahead = iota
	precAlternation
	precConcatenation
	precClosure
	precAtom
)

// LookaheadExpr represents the trailing-context pattern "Left / Right",
// matched by scanning for Left immediately followed by Right, but only
// consuming Left's extent.
type LookaheadExpr struct {
	Left  Expr
	Right Expr
}

func (e *LookaheadExpr) Precedence() int { return precLookahead }
func (e *LookaheadExpr) String() string  { return paren(e, e.Left) + "/" + paren(e, e.Right) }

// AlternationExpr represents "Left | Right".
type AlternationExpr struct {
	Left  Expr
	Right Expr
}

func (e *AlternationExpr) Precedence() int { return precAlternation }
func (e *AlternationExpr) String() string  { return paren(e, e.Left) + "|" + paren(e, e.Right) }

// ConcatenationExpr represents "Left Right" with no operator between them.
type ConcatenationExpr struct {
	Left  Expr
	Right Expr
}

func (e *ConcatenationExpr) Precedence() int { return precConcatenation }
func (e *ConcatenationExpr) String() string  { return paren(e, e.Left) + paren(e, e.Right) }

// ClosureExpr represents a repetition of Sub between Min and Max times
// inclusive. Max of -1 means unbounded (as produced by '*' and '+').
type ClosureExpr struct {
	Sub Expr
	Min int
	Max int // -1 for unbounded
}

func (e *ClosureExpr) Precedence() int { return precClosure }
func (e *ClosureExpr) String() string {
	sub := paren(e, e.Sub)
	switch {
	case e.Min == 0 && e.Max == -1:
		return sub + "*"
	case e.Min == 1 && e.Max == -1:
		return sub + "+"
	case e.Min == 0 && e.Max == 1:
		return sub + "?"
	case e.Max == -1:
		return fmt.Sprintf("%s{%d,}", sub, e.Min)
	case e.Min == e.Max:
		return fmt.Sprintf("%s{%d}", sub, e.Min)
	default:
		return fmt.Sprintf("%s{%d,%d}", sub, e.Min, e.Max)
	}
}

// CharacterExpr matches a single literal byte.
type CharacterExpr struct {
	Char byte
}

func (e *CharacterExpr) Precedence() int { return precAtom }
func (e *CharacterExpr) String() string  { return fmt.Sprintf("%q", e.Char) }

// CharacterClassExpr matches any one byte in Set.
type CharacterClassExpr struct {
	Set symbol.Set
}

func (e *CharacterClassExpr) Precedence() int { return precAtom }
func (e *CharacterClassExpr) String() string  { return e.Set.String() }

// DotExpr matches any byte except '\n'.
type DotExpr struct{}

func (e *DotExpr) Precedence() int { return precAtom }
func (e *DotExpr) String() string  { return "." }

// BeginOfLineExpr matches the zero-width beginning-of-line position.
type BeginOfLineExpr struct{}

func (e *BeginOfLineExpr) Precedence() int { return precAtom }
func (e *BeginOfLineExpr) String() string  { return "^" }

// EndOfLineExpr matches the zero-width end-of-line position ("$").
type EndOfLineExpr struct{}

func (e *EndOfLineExpr) Precedence() int { return precAtom }
func (e *EndOfLineExpr) String() string  { return "$" }

// EndOfFileExpr matches the zero-width end-of-input position ("<<EOF>>").
type EndOfFileExpr struct{}

func (e *EndOfFileExpr) Precedence() int { return precAtom }
func (e *EndOfFileExpr) String() string  { return "<<EOF>>" }

// EmptyExpr matches the empty string.
type EmptyExpr struct{}

func (e *EmptyExpr) Precedence() int { return precAtom }
func (e *EmptyExpr) String() string  { return "()" }

func paren(parent, child Expr) string {
	if child.Precedence() < parent.Precedence() {
		return "(" + child.String() + ")"
	}
	return child.String()
}

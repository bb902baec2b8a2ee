// Package runtime implements the table-driven longest-match lexer
// runtime: given a compiled LexerDef and a source, it recognizes one
// token at a time, backtracking over trailing-context rules as needed.
package runtime

import (
	"errors"
	"fmt"

	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/lexgen/internal/symbol"
)

// BadState is a reserved sentinel state id, kept for parity with the
// generated table dumps like ErrorState. The Matcher does not use it:
// resolveAnchor falls back to the accept position when no anchor is found.
const BadState uint32 = 101010

// ErrorState is the sentinel conceptually returned when the DFA has no
// transition defined for the current state and symbol; the Matcher
// represents this as the (uint32, false) return of LexerDef.Delta rather
// than this literal value, which exists for parity with the generated
// table dumps.
const ErrorState uint32 = 808080

// Tag identifies which rule a token matches. IgnoreTag is never returned
// by Recognize (only by RecognizeOne), since ignored rules are
// transparently skipped.
type Tag = int32

// IgnoreTag marks a rule whose matches should never be reported.
const IgnoreTag Tag = lexdef.IgnoreTag

// ErrEOF is returned by Recognize/RecognizeOne once the source is fully
// consumed and no more tokens remain.
var ErrEOF = errors.New("runtime: end of input")

// Error is returned when the input cannot be lexically recognized by the
// active machine at the current offset.
type Error struct {
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("runtime: failed to recognize a token at offset %d", e.Offset)
}

// TokenInfo describes one recognized token.
type TokenInfo struct {
	Tag    Tag
	Lexeme string
	Offset int
}

// Matcher drives recognition of a byte source against a compiled
// LexerDef, using longest-match with backtracking over trailing-context
// (lookahead) rules.
type Matcher struct {
	def    *lexdef.LexerDef
	source []byte
	pos    int

	machine uint32 // current initial state id (selected start condition)
	isBOL   bool

	word        []byte
	startOffset int
	endOffset   int
	token       Tag
}

// Open creates a Matcher reading from source, positioned at its default
// machine.
func Open(def *lexdef.LexerDef, source []byte) (*Matcher, error) {
	m := &Matcher{
		def:    def,
		source: source,
		isBOL:  true,
	}
	machine, err := m.DefaultMachine()
	if err != nil {
		return nil, err
	}
	m.machine = machine
	return m, nil
}

// DefaultMachine returns the initial state id of the "INITIAL" start
// condition.
func (m *Matcher) DefaultMachine() (uint32, error) {
	id, ok := m.def.InitialStates["INITIAL"]
	if !ok {
		return 0, fmt.Errorf("runtime: lexer definition has no INITIAL condition")
	}
	return id, nil
}

// SetMachine switches the active start condition by name.
func (m *Matcher) SetMachine(name string) error {
	id, ok := m.def.InitialStates[name]
	if !ok {
		return fmt.Errorf("runtime: unknown start condition %q", name)
	}
	m.machine = id
	return nil
}

// IsToken reports whether the active LexerDef can ever produce tag.
func (m *Matcher) IsToken(tag Tag) bool {
	for _, t := range m.def.AcceptStates {
		if t == tag {
			return true
		}
	}
	return false
}

// Word returns the lexeme text of the most recently recognized token.
func (m *Matcher) Word() string { return string(m.word) }

// Token returns the tag of the most recently recognized token.
func (m *Matcher) Token() Tag { return m.token }

// Offset returns the (start, end) byte offsets of the most recently
// recognized token.
func (m *Matcher) Offset() (int, int) { return m.startOffset, m.endOffset }

// Eof reports whether the source has been fully consumed.
func (m *Matcher) Eof() bool { return m.pos >= len(m.source) }

// Recognize scans the next non-ignored token, silently skipping any
// number of ignored-rule matches along the way.
func (m *Matcher) Recognize() (Tag, error) {
	for {
		tag, err := m.RecognizeOne()
		if err != nil {
			return 0, err
		}
		if tag != IgnoreTag {
			return tag, nil
		}
	}
}

// frame is one entry on the backtracking stack: a DFA state together with
// the cursor position at which it was reached.
type frame struct {
	state  uint32
	cursor int
}

// RecognizeOne scans exactly one token, including ignored-rule matches
// (returning IgnoreTag for those rather than skipping them).
//
// At every step it prefers a zero-width anchor transition (BeginOfLine,
// EndOfLine, EndOfFile) over consuming a real byte, since those sentinels
// can only appear where the regex grammar places an anchor atom -- the
// very start or end of a pattern -- so there is never a genuine choice
// between the two at a single position.
func (m *Matcher) RecognizeOne() (Tag, error) {
	if m.Eof() {
		return 0, ErrEOF
	}

	startPos := m.pos
	startBOL := m.isBOL

	state := m.machine
	cursor := startPos
	atBOL := startBOL

	// The stack keeps every state visited since startPos, not only those
	// since the last accept, so that a trailing-context anchor reached
	// before the final accept state is still there for resolveAnchor.
	stack := []frame{{state: state, cursor: cursor}}

	for {
		sym, zeroWidth, ok := m.tryAdvance(state, cursor, atBOL)
		if !ok {
			break
		}

		next, found := m.def.Delta(state, sym)
		if !found {
			break
		}

		state = next
		if !zeroWidth {
			cursor++
			atBOL = m.source[cursor-1] == '\n'
		}

		stack = append(stack, frame{state: state, cursor: cursor})

		if zeroWidth && sym == symbol.EndOfFile {
			break
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if tag, ok := m.def.Accept(top.state); ok {
			endPos := top.cursor
			if anchor, hasAnchor := m.def.BacktrackAnchor(top.state); hasAnchor {
				endPos = m.resolveAnchor(stack, anchor, top.cursor)
			}
			return m.commit(startPos, startBOL, endPos, tag)
		}
		stack = stack[:len(stack)-1]
	}

	m.pos = startPos
	m.isBOL = startBOL
	return 0, &Error{Offset: startPos}
}

// tryAdvance decides which symbol to feed to delta next: a zero-width
// anchor when the input position makes one applicable, otherwise the
// literal byte at cursor (or EndOfFile at end of input).
func (m *Matcher) tryAdvance(state uint32, cursor int, atBOL bool) (symbol.Symbol, bool, bool) {
	if atBOL {
		if _, ok := m.def.Delta(state, symbol.BeginOfLine); ok {
			return symbol.BeginOfLine, true, true
		}
	}
	if cursor < len(m.source) && m.source[cursor] == '\n' {
		if _, ok := m.def.Delta(state, symbol.EndOfLine); ok {
			return symbol.EndOfLine, true, true
		}
	}
	if cursor >= len(m.source) {
		if _, ok := m.def.Delta(state, symbol.EndOfFile); ok {
			return symbol.EndOfFile, true, true
		}
		return 0, false, false
	}
	return symbol.Symbol(m.source[cursor]), false, true
}

// resolveAnchor searches stack (most recent first) for the frame whose
// state equals anchor, returning its cursor position. Falls back to
// fallback if the anchor was never actually on the stack (shouldn't
// happen for well-formed lookahead rules, but guards against a
// malformed table).
func (m *Matcher) resolveAnchor(stack []frame, anchor uint32, fallback int) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].state == anchor {
			return stack[i].cursor
		}
	}
	return fallback
}

// commit finalizes a match ending at endPos, updating lexeme/offset
// bookkeeping and the scan position.
func (m *Matcher) commit(startPos int, startBOL bool, endPos int, tag int32) (Tag, error) {
	m.pos = endPos
	m.word = append([]byte(nil), m.source[startPos:endPos]...)
	m.startOffset = startPos
	m.endOffset = endPos
	m.token = tag

	if endPos > startPos {
		m.isBOL = m.source[endPos-1] == '\n'
	} else {
		m.isBOL = startBOL
	}

	return tag, nil
}

// Iterate drives a range-over-func style iteration, yielding one
// TokenInfo per call to Recognize until EOF or error.
func (m *Matcher) Iterate(yield func(TokenInfo) bool) {
	for {
		tag, err := m.Recognize()
		if err != nil {
			return
		}
		start, _ := m.Offset()
		if !yield(TokenInfo{Tag: tag, Lexeme: m.Word(), Offset: start}) {
			return
		}
	}
}

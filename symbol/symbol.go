/*
Package symbol implements a compact, bit-packed representation for
grammar symbols (terminals and non-terminals), together with a symbol
table that assigns and interns them.

The encoding packs a symbol's kind (terminal/non-terminal), an EOF/start
marker, and a dense sequence number into a single uint16, following the
layout used by the grammar-symbol packages this module was grounded on.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package symbol

import "fmt"

// Symbol is a handle into a Table. The zero Symbol is invalid.
type Symbol uint16

const (
	maskKind   = 0x8000 // 1 bit: terminal (0) or non-terminal (1)
	maskEOF    = 0x4000 // 1 bit: EOF/STOP sentinel
	maskStart  = 0x2000 // 1 bit: augmented start non-terminal
	maskNumber = 0x1fff // 13 bits: dense sequence number
)

// IsTerminal reports whether the symbol is a terminal.
func (s Symbol) IsTerminal() bool { return s&maskKind == 0 }

// IsNonTerminal reports whether the symbol is a non-terminal.
func (s Symbol) IsNonTerminal() bool { return s&maskKind != 0 }

// IsEOF reports whether the symbol is the synthetic STOP terminal.
func (s Symbol) IsEOF() bool { return s&maskEOF != 0 }

// IsStart reports whether the symbol is the augmented start
// non-terminal S′.
func (s Symbol) IsStart() bool { return s&maskStart != 0 }

// Number returns the dense sequence number of the symbol, unique within
// its kind (terminals and non-terminals are numbered independently).
func (s Symbol) Number() int { return int(s & maskNumber) }

func newTerminal(n int) Symbol { return Symbol(n) & maskNumber }
func newEOF(n int) Symbol      { return newTerminal(n) | maskEOF }
func newNonTerminal(n int) Symbol {
	return (Symbol(n) & maskNumber) | maskKind
}
func newStart(n int) Symbol { return newNonTerminal(n) | maskStart }

// Table interns symbols by name and is the sole authority for symbol
// identity: two Symbol values compare equal iff they were produced for
// the same name and kind from the same Table.
type Table struct {
	names       map[string]Symbol // terminals, including STOP
	ntNames     map[string]Symbol // non-terminals, including S′
	termNames   []string
	nonTermNames []string
	eof         Symbol
	start       Symbol
	hasEOF      bool
	hasStart    bool
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{names: make(map[string]Symbol), ntNames: make(map[string]Symbol)}
}

// Intern returns the terminal Symbol for name, creating it if this is the
// first time name has been seen as a terminal.
func (t *Table) Intern(name string) Symbol {
	if s, ok := t.names[name]; ok {
		return s
	}
	s := newTerminal(len(t.termNames))
	t.termNames = append(t.termNames, name)
	t.names[name] = s
	return s
}

// InternNonTerminal returns the non-terminal Symbol for name, creating it
// if necessary.
func (t *Table) InternNonTerminal(name string) Symbol {
	if s, ok := t.ntNames[name]; ok {
		return s
	}
	s := newNonTerminal(len(t.nonTermNames))
	t.nonTermNames = append(t.nonTermNames, name)
	t.ntNames[name] = s
	return s
}

// EOF returns (creating on first call) the synthetic STOP terminal.
func (t *Table) EOF() Symbol {
	if !t.hasEOF {
		s := newEOF(len(t.termNames))
		t.termNames = append(t.termNames, "$")
		t.names["$"] = s
		t.eof = s
		t.hasEOF = true
	}
	return t.eof
}

// Start returns (creating on first call) the augmented start
// non-terminal S′ wrapping userStart.
func (t *Table) Start(userStartName string) Symbol {
	if !t.hasStart {
		name := userStartName + "′"
		s := newStart(len(t.nonTermNames))
		t.nonTermNames = append(t.nonTermNames, name)
		t.ntNames[name] = s
		t.start = s
		t.hasStart = true
	}
	return t.start
}

// Lookup returns the symbol previously interned under name, if any. When
// name was interned both as a terminal and as a non-terminal, the
// terminal is returned.
func (t *Table) Lookup(name string) (Symbol, bool) {
	if s, ok := t.names[name]; ok {
		return s, true
	}
	s, ok := t.ntNames[name]
	return s, ok
}

// Name returns the interned name of s.
func (t *Table) Name(s Symbol) string {
	if s.IsTerminal() {
		if s.Number() < len(t.termNames) {
			return t.termNames[s.Number()]
		}
		return "?terminal?"
	}
	if s.Number() < len(t.nonTermNames) {
		return t.nonTermNames[s.Number()]
	}
	return "?non-terminal?"
}

// TerminalCount returns the number of interned terminals, including STOP.
func (t *Table) TerminalCount() int { return len(t.termNames) }

// NonTerminalCount returns the number of interned non-terminals,
// including the augmented start symbol.
func (t *Table) NonTerminalCount() int { return len(t.nonTermNames) }

// String renders s using t for diagnostics.
func (t *Table) String(s Symbol) string {
	kind := "T"
	if s.IsNonTerminal() {
		kind = "N"
	}
	return fmt.Sprintf("%s<%s>", t.Name(s), kind)
}

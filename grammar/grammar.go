/*
Package grammar implements the Grammar IR: terminals, non-terminals,
productions, the augmented start production, and a fluent builder for
constructing a Grammar value in Go code without a grammar-file parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package grammar

import (
	"fmt"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/action"
	"github.com/nilspin/glr/symbol"
)

// Assoc is a production's declared associativity.
type Assoc int

// Associativity values, consulted when resolving a shift/reduce conflict.
const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// DefaultPriority is the priority assigned to terminals and productions
// that do not declare one explicitly.
const DefaultPriority = 10

// Terminal holds everything the recognizer runtime and the automaton
// builder need to know about a lexical symbol.
type Terminal struct {
	Sym        symbol.Symbol
	Name       string
	Recognizer glr.Recognizer
	Priority   int
	Prefer     bool
	Dynamic    bool
	Finish     bool
	Keyword    bool
}

// Production is one alternative `LHS -> RHS` of a non-terminal.
type Production struct {
	ID      int
	LHS     symbol.Symbol
	Rhs     []symbol.Symbol
	Prior   int
	Assoc   Assoc
	Dynamic bool
	Nops    bool
	Nopse   bool
	Meta    map[string]interface{}
}

// RHS returns the right-hand side symbols of the production.
func (p *Production) RHS() []symbol.Symbol { return p.Rhs }

// IsEmpty reports whether this production has an empty right-hand side.
func (p *Production) IsEmpty() bool { return len(p.Rhs) == 0 }

func (p *Production) String() string {
	return fmt.Sprintf("[%d] %d -> %v", p.ID, p.LHS, p.Rhs)
}

// Grammar is an immutable Grammar IR: symbol table, terminal metadata,
// per-non-terminal production lists, and the augmented start production.
type Grammar struct {
	Name        string
	Symbols     *symbol.Table
	Terminals   map[symbol.Symbol]*Terminal
	Productions []*Production          // all productions, augmented start is index 0
	byLHS       map[symbol.Symbol][]*Production
	Start       symbol.Symbol // user-declared start symbol
	StartPrime  symbol.Symbol // augmented start S′
	Stop        symbol.Symbol // STOP / EOF
	Layout      symbol.Symbol // LAYOUT non-terminal, zero value if undeclared
	HasLayout   bool

	// Actions dispatches by production ID, kept as an indexed table on
	// the Grammar IR to avoid per-call name lookups. lrdriver's
	// deterministic shift/reduce loop consults it in-line, at reduce
	// time. The GLR driver never consults it during the parse itself —
	// forking freely means the same reduction can happen on a branch
	// later discarded as an ambiguity loser — and instead defers action
	// invocation to sppf.CallActions, a tree-then-walk pass a caller runs
	// once over a chosen sppf.TreeView after the parse completes.
	Actions map[int]action.Func
}

// Rule returns the production with the given ID, or nil.
func (g *Grammar) Rule(id int) *Production {
	if id < 0 || id >= len(g.Productions) {
		return nil
	}
	return g.Productions[id]
}

// ProductionsFor returns every production whose LHS is n.
func (g *Grammar) ProductionsFor(n symbol.Symbol) []*Production {
	return g.byLHS[n]
}

// SymbolByName looks up an interned symbol by name.
func (g *Grammar) SymbolByName(name string) symbol.Symbol {
	s, _ := g.Symbols.Lookup(name)
	return s
}

// Terminal returns terminal metadata for a terminal symbol, or nil.
func (g *Grammar) Terminal(s symbol.Symbol) *Terminal {
	return g.Terminals[s]
}

// EachNonTerminal calls f for every distinct non-terminal that has at
// least one production, in declaration order.
func (g *Grammar) EachNonTerminal(f func(symbol.Symbol, []*Production)) {
	seen := make(map[symbol.Symbol]bool)
	for _, p := range g.Productions {
		if seen[p.LHS] {
			continue
		}
		seen[p.LHS] = true
		f(p.LHS, g.byLHS[p.LHS])
	}
}

// Dump prints a human-readable listing of the grammar's productions,
// matching gorgo's `n: [LHS] ::= [rhs...]` dump format.
func (g *Grammar) Dump() {
	for _, p := range g.Productions {
		rhsNames := make([]string, len(p.Rhs))
		for i, s := range p.Rhs {
			rhsNames[i] = g.Symbols.Name(s)
		}
		fmt.Printf("%d: [%s] ::= %v\n", p.ID, g.Symbols.Name(p.LHS), rhsNames)
	}
}

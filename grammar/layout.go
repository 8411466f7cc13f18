package grammar

import (
	"fmt"

	"github.com/nilspin/glr/action"
	"github.com/nilspin/glr/symbol"
)

// LayoutGrammar derives a standalone Grammar rooted at g's LAYOUT
// non-terminal, for building a nested automaton that recognizes layout
// (whitespace, comments) ahead of each token when a grammar declares
// one.
//
// The derived grammar shares g's symbol table and terminal map, so a
// terminal recognized by the layout automaton can be looked up the same
// way as any other terminal. It reuses g's full production slice rather
// than filtering down to only the productions reachable from LAYOUT:
// automaton construction only ever visits productions reachable from a
// grammar's own start symbol, so the unrelated main-grammar productions
// tucked in behind them are simply never touched.
func LayoutGrammar(g *Grammar) (*Grammar, error) {
	if !g.HasLayout {
		return nil, fmt.Errorf("grammar %q: no LAYOUT non-terminal declared", g.Name)
	}
	if len(g.ProductionsFor(g.Layout)) == 0 {
		return nil, fmt.Errorf("grammar %q: LAYOUT non-terminal %s has no productions", g.Name, g.Symbols.Name(g.Layout))
	}

	// A second call to g.Symbols.Start would just hand back the main
	// grammar's own S′ symbol (Table.Start is a one-shot per table), so
	// the layout augmented start uses a plain interned non-terminal
	// instead. Nothing outside automaton construction ever consults the
	// IsStart marker bit.
	primeName := g.Symbols.Name(g.Layout) + "′"
	prime := g.Symbols.InternNonTerminal(primeName)

	augmented := &Production{
		ID:  0,
		LHS: prime,
		Rhs: []symbol.Symbol{g.Layout, g.Stop},
	}
	rest := g.Productions[1:]
	productions := make([]*Production, 0, len(rest)+1)
	productions = append(productions, augmented)
	productions = append(productions, rest...)

	lg := &Grammar{
		Name:        g.Name + "/LAYOUT",
		Symbols:     g.Symbols,
		Terminals:   g.Terminals,
		Productions: productions,
		Actions:     map[int]action.Func{},
		byLHS:       make(map[symbol.Symbol][]*Production),
		Start:       g.Layout,
		StartPrime:  prime,
		Stop:        g.Stop,
	}
	for _, p := range productions {
		lg.byLHS[p.LHS] = append(lg.byLHS[p.LHS], p)
	}
	return lg, nil
}

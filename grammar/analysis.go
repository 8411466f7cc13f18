package grammar

import (
	"github.com/nilspin/glr/iteratable"
	"github.com/nilspin/glr/symbol"
)

// Analysis holds the fixed-point results of FIRST/FOLLOW/NULLABLE over a
// grammar.
type Analysis struct {
	g        *Grammar
	nullable map[symbol.Symbol]bool
	first    map[symbol.Symbol]*iteratable.Set
	follow   map[symbol.Symbol]*iteratable.Set
}

// Analyze computes NULLABLE, FIRST and FOLLOW for g.
func Analyze(g *Grammar) *Analysis {
	a := &Analysis{
		g:        g,
		nullable: make(map[symbol.Symbol]bool),
		first:    make(map[symbol.Symbol]*iteratable.Set),
		follow:   make(map[symbol.Symbol]*iteratable.Set),
	}
	a.computeNullable()
	a.computeFirst()
	a.computeFollow()
	return a
}

// Nullable reports whether n can derive the empty string.
func (a *Analysis) Nullable(n symbol.Symbol) bool {
	if n.IsTerminal() {
		return false
	}
	return a.nullable[n]
}

// First returns FIRST(s) for a single symbol s.
func (a *Analysis) First(s symbol.Symbol) *iteratable.Set {
	if s.IsTerminal() {
		return iteratable.NewSet(1).Add(s)
	}
	if set, ok := a.first[s]; ok {
		return set
	}
	return iteratable.NewSet(0)
}

// FirstOfSequence returns FIRST(alpha), the set of terminals that can
// begin a sentential form derived from the symbol sequence alpha.
func (a *Analysis) FirstOfSequence(alpha []symbol.Symbol) *iteratable.Set {
	result := iteratable.NewSet(4)
	for _, s := range alpha {
		result.AddAll(a.First(s))
		if !a.Nullable(s) {
			return result
		}
	}
	return result
}

// FirstOfSequenceWithLookahead computes FIRST(alpha · la), i.e. FIRST of
// alpha followed by the lookahead set la when alpha is entirely
// nullable — the quantity the automaton builder's closure rule needs.
func (a *Analysis) FirstOfSequenceWithLookahead(alpha []symbol.Symbol, la *iteratable.Set) *iteratable.Set {
	result := iteratable.NewSet(4)
	allNullable := true
	for _, s := range alpha {
		result.AddAll(a.First(s))
		if !a.Nullable(s) {
			allNullable = false
			break
		}
	}
	if allNullable {
		result.AddAll(la)
	}
	return result
}

// Follow returns FOLLOW(n) for a non-terminal n.
func (a *Analysis) Follow(n symbol.Symbol) *iteratable.Set {
	if set, ok := a.follow[n]; ok {
		return set
	}
	return iteratable.NewSet(0)
}

func (a *Analysis) computeNullable() {
	changed := true
	for changed {
		changed = false
		for _, p := range a.g.Productions {
			if a.nullable[p.LHS] {
				continue
			}
			if a.productionNullable(p) {
				a.nullable[p.LHS] = true
				changed = true
			}
		}
	}
}

func (a *Analysis) productionNullable(p *Production) bool {
	for _, s := range p.Rhs {
		if s.IsTerminal() {
			return false
		}
		if !a.nullable[s] {
			return false
		}
	}
	return true
}

func (a *Analysis) computeFirst() {
	a.g.EachNonTerminal(func(n symbol.Symbol, _ []*Production) {
		a.first[n] = iteratable.NewSet(4)
	})
	changed := true
	for changed {
		changed = false
		for _, p := range a.g.Productions {
			set := a.first[p.LHS]
			before := set.Size()
			for _, s := range p.Rhs {
				set.AddAll(a.First(s))
				if !a.Nullable(s) {
					break
				}
			}
			if set.Size() != before {
				changed = true
			}
		}
	}
}

func (a *Analysis) computeFollow() {
	a.g.EachNonTerminal(func(n symbol.Symbol, _ []*Production) {
		a.follow[n] = iteratable.NewSet(4)
	})
	a.follow[a.g.StartPrime].Add(a.g.Stop)
	changed := true
	for changed {
		changed = false
		for _, p := range a.g.Productions {
			for i, s := range p.Rhs {
				if s.IsTerminal() {
					continue
				}
				rest := p.Rhs[i+1:]
				before := a.follow[s].Size()
				a.follow[s].AddAll(a.FirstOfSequence(rest))
				if allNullable(a, rest) {
					a.follow[s].AddAll(a.follow[p.LHS])
				}
				if a.follow[s].Size() != before {
					changed = true
				}
			}
		}
	}
}

func allNullable(a *Analysis, alpha []symbol.Symbol) bool {
	for _, s := range alpha {
		if !a.Nullable(s) {
			return false
		}
	}
	return true
}

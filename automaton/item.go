/*
Package automaton implements the LR(1) automaton builder: item-set
closure, goto, core-based state merging ("modified LALR"), and
ACTION/GOTO table emission with static conflict resolution.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/iteratable"
	"github.com/nilspin/glr/symbol"
)

// core identifies an item ignoring its lookahead set: the standard basis
// for LALR-style state merging.
type core struct {
	prodID int
	dot    int
}

// Item is an LR(1) item `(p, dot, la)`.
type Item struct {
	Prod *grammar.Production
	Dot  int
	LA   *iteratable.Set // of symbol.Symbol
}

func (it *Item) core() core { return core{it.Prod.ID, it.Dot} }

// AtEnd reports whether the dot has reached the end of the production.
func (it *Item) AtEnd() bool { return it.Dot >= len(it.Prod.Rhs) }

// DotSymbol returns the symbol immediately after the dot, or false if
// the dot is at the end.
func (it *Item) DotSymbol() (symbol.Symbol, bool) {
	if it.AtEnd() {
		return 0, false
	}
	return it.Prod.Rhs[it.Dot], true
}

func (it *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d]", it.Prod.ID)
	for i, s := range it.Prod.Rhs {
		if i == it.Dot {
			b.WriteString(" .")
		}
		fmt.Fprintf(&b, " %d", s)
	}
	if it.Dot == len(it.Prod.Rhs) {
		b.WriteString(" .")
	}
	return b.String()
}

// closure computes the closure of a kernel item set under the standard
// LR(1) closure rule, iterating to a fixed point over both newly
// discovered item cores and lookahead growth on already-known items.
func closure(g *grammar.Grammar, an *grammar.Analysis, kernel []*Item) []*Item {
	byCore := make(map[core]*Item, len(kernel)*2)
	var order []core

	add := func(it *Item) bool {
		c := it.core()
		if existing, ok := byCore[c]; ok {
			before := existing.LA.Size()
			existing.LA.AddAll(it.LA)
			return existing.LA.Size() != before
		}
		byCore[c] = it
		order = append(order, c)
		return true
	}
	for _, it := range kernel {
		add(&Item{Prod: it.Prod, Dot: it.Dot, LA: it.LA.Copy()})
	}

	changed := true
	for changed {
		changed = false
		for i := 0; i < len(order); i++ {
			it := byCore[order[i]]
			X, ok := it.DotSymbol()
			if !ok || X.IsTerminal() {
				continue
			}
			beta := it.Prod.Rhs[it.Dot+1:]
			la := an.FirstOfSequenceWithLookahead(beta, it.LA)
			for _, p := range g.ProductionsFor(X) {
				if add(&Item{Prod: p, Dot: 0, LA: la.Copy()}) {
					changed = true
				}
			}
		}
	}

	result := make([]*Item, len(order))
	for i, c := range order {
		result[i] = byCore[c]
	}
	return result
}

// gotoSet computes the (un-closed) kernel of GOTO(items, X): the items
// advanced past X, deduplicated and merged by core.
func gotoSet(items []*Item, X symbol.Symbol) []*Item {
	byCore := make(map[core]*Item)
	var order []core
	for _, it := range items {
		s, ok := it.DotSymbol()
		if !ok || s != X {
			continue
		}
		c := core{it.Prod.ID, it.Dot + 1}
		if existing, ok := byCore[c]; ok {
			existing.LA.AddAll(it.LA)
			continue
		}
		ni := &Item{Prod: it.Prod, Dot: it.Dot + 1, LA: it.LA.Copy()}
		byCore[c] = ni
		order = append(order, c)
	}
	result := make([]*Item, len(order))
	for i, c := range order {
		result[i] = byCore[c]
	}
	return result
}

// hashableCore is the exported shape structhash hashes to build a
// core-only state-merge key: unexported fields on core/Item aren't
// visible to structhash's reflection-based walk.
type hashableCore struct {
	ProdID int
	Dot    int
}

// hashableItem additionally carries the sorted lookahead set, used for
// the full canonical-state dedup key.
type hashableItem struct {
	ProdID int
	Dot    int
	LA     []uint16
}

// coreKey renders the dot-position-only signature of an item set, the
// key used for LALR-style state merging, as a structural hash,
// grounded on gorgo's declared cnf/structhash dependency as a
// direct substitute for hand-rolled sha256/string-concat hashing.
func coreKey(items []*Item) string {
	cs := make([]hashableCore, len(items))
	for i, it := range items {
		cs[i] = hashableCore{it.Prod.ID, it.Dot}
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].ProdID != cs[j].ProdID {
			return cs[i].ProdID < cs[j].ProdID
		}
		return cs[i].Dot < cs[j].Dot
	})
	h, err := structhash.Hash(cs, 1)
	if err != nil {
		return fallbackCoreKey(cs)
	}
	return h
}

func fallbackCoreKey(cs []hashableCore) string {
	var b strings.Builder
	for _, c := range cs {
		fmt.Fprintf(&b, "%d:%d,", c.ProdID, c.Dot)
	}
	return b.String()
}

// fullKey renders a signature over both core and lookahead, the key used
// to dedupe identical canonical LR(1) states during construction.
func fullKey(items []*Item) string {
	cs := append([]*Item(nil), items...)
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Prod.ID != cs[j].Prod.ID {
			return cs[i].Prod.ID < cs[j].Prod.ID
		}
		return cs[i].Dot < cs[j].Dot
	})
	hs := make([]hashableItem, len(cs))
	for i, it := range cs {
		las := symbolSlice(it.LA)
		sort.Slice(las, func(i, j int) bool { return las[i] < las[j] })
		la16 := make([]uint16, len(las))
		for j, s := range las {
			la16[j] = uint16(s)
		}
		hs[i] = hashableItem{it.Prod.ID, it.Dot, la16}
	}
	h, err := structhash.Hash(hs, 1)
	if err != nil {
		var b strings.Builder
		for _, it := range hs {
			fmt.Fprintf(&b, "%d:%d:%v;", it.ProdID, it.Dot, it.LA)
		}
		return b.String()
	}
	return h
}

func symbolSlice(s *iteratable.Set) []symbol.Symbol {
	vs := s.Values()
	out := make([]symbol.Symbol, len(vs))
	for i, v := range vs {
		out[i] = v.(symbol.Symbol)
	}
	return out
}

package automaton

import (
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/iteratable"
	"github.com/nilspin/glr/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glr.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("glr.automaton")
}

// State is one node of the LR automaton: its closed item set and, once
// table emission has run, its outgoing edges.
type State struct {
	ID    int
	Items []*Item
}

type edge struct {
	from int
	sym  symbol.Symbol
	to   int
}

// Automaton is the built LR(1)-with-merge ("modified LALR") automaton:
// states, and the ACTION/GOTO tables derived from them.
type Automaton struct {
	Grammar               *grammar.Grammar
	States                []*State
	Start                 int
	edges                 []edge
	Actions               *ActionTable
	Goto                  *GotoTable
	Conflicts             []Conflict
	PreferShifts          bool
	PreferShiftsOverEmpty bool
}

// Option configures automaton construction.
type Option func(*buildConfig)

type buildConfig struct {
	preferShifts          bool
	preferShiftsOverEmpty bool
}

// PreferShifts sets the parser-wide shift-over-reduce tie-break policy.
func PreferShifts(v bool) Option { return func(c *buildConfig) { c.preferShifts = v } }

// PreferShiftsOverEmpty sets the parser-wide shift-over-empty-reduce
// tie-break policy.
func PreferShiftsOverEmpty(v bool) Option { return func(c *buildConfig) { c.preferShiftsOverEmpty = v } }

// Build constructs the canonical LR(1) collection, merges states with
// identical cores when doing so introduces no new reduce/reduce
// conflict, and emits ACTION/GOTO tables.
func Build(g *grammar.Grammar, opts ...Option) (*Automaton, error) {
	cfg := &buildConfig{preferShifts: false, preferShiftsOverEmpty: false}
	for _, o := range opts {
		o(cfg)
	}
	an := grammar.Analyze(g)

	states, edges, start := buildCanonical(g, an)
	states, edges = mergeCores(states, edges)

	a := &Automaton{
		Grammar:               g,
		States:                states,
		Start:                 start,
		edges:                 edges,
		PreferShifts:          cfg.preferShifts,
		PreferShiftsOverEmpty: cfg.preferShiftsOverEmpty,
	}
	if err := a.emitTables(); err != nil {
		return nil, err
	}
	return a, nil
}

// buildCanonical performs phase 1: the classic canonical LR(1)
// construction with no merging, deduplicating only fully identical
// (core+lookahead) states.
func buildCanonical(g *grammar.Grammar, an *grammar.Analysis) ([]*State, []edge, int) {
	start := &grammar.Production{}
	_ = start
	startProd := g.Rule(0)
	startLA := iteratable.NewSet(1).Add(g.Stop)
	startKernel := []*Item{{Prod: startProd, Dot: 0, LA: startLA}}
	startItems := closure(g, an, startKernel)

	var states []*State
	byFullKey := make(map[string]int)
	states = append(states, &State{ID: 0, Items: startItems})
	byFullKey[fullKey(startItems)] = 0

	var edges []edge
	queue := []int{0}
	for len(queue) > 0 {
		sid := queue[0]
		queue = queue[1:]
		s := states[sid]

		outSyms := iteratable.NewSet(4)
		for _, it := range s.Items {
			if X, ok := it.DotSymbol(); ok {
				outSyms.Add(X)
			}
		}
		for _, v := range outSyms.Values() {
			X := v.(symbol.Symbol)
			kernel := gotoSet(s.Items, X)
			if len(kernel) == 0 {
				continue
			}
			items := closure(g, an, kernel)
			key := fullKey(items)
			target, ok := byFullKey[key]
			if !ok {
				target = len(states)
				states = append(states, &State{ID: target, Items: items})
				byFullKey[key] = target
				queue = append(queue, target)
			}
			edges = append(edges, edge{from: sid, sym: X, to: target})
		}
	}
	return states, edges, 0
}

// mergeCores performs phase 2: groups canonical states by core (dot
// positions only), unions their lookaheads, and accepts the merge unless
// it introduces a reduce/reduce conflict absent from every individual
// member.
func mergeCores(states []*State, edges []edge) ([]*State, []edge) {
	groups := make(map[string][]int)
	var order []string
	for _, s := range states {
		k := coreKey(s.Items)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s.ID)
	}

	// canon maps every old state ID to the ID it is represented by after
	// merging (itself if ungrouped or the merge was rejected).
	canon := make([]int, len(states))
	for i := range canon {
		canon[i] = i
	}
	mergedItems := make(map[int][]*Item) // representative old ID -> merged items

	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		acc := cloneItems(states[members[0]].Items)
		accHadConflict := hasReduceReduceConflict(acc)
		ok := true
		for _, mid := range members[1:] {
			candidate := unionLA(acc, states[mid].Items)
			memberConflict := hasReduceReduceConflict(states[mid].Items)
			candidateConflict := reduceReduceConflicts(candidate)
			introducesNew := false
			for key := range candidateConflict {
				if !accHadConflict[key] && !memberConflict[key] {
					introducesNew = true
					break
				}
			}
			if introducesNew {
				ok = false
				break
			}
			acc = candidate
			accHadConflict = candidateConflict
		}
		if !ok {
			tracer().Debugf("rejected LALR merge for core group %v (would introduce new R/R conflict)", members)
			continue
		}
		rep := members[0]
		mergedItems[rep] = acc
		for _, mid := range members[1:] {
			canon[mid] = rep
		}
	}

	// Resolve canon to a fixed point (chains shouldn't occur, but be safe).
	for i := range canon {
		for canon[canon[i]] != canon[i] {
			canon[i] = canon[canon[i]]
		}
	}

	// Renumber surviving states.
	renumber := make(map[int]int)
	var newStates []*State
	for _, s := range states {
		rep := canon[s.ID]
		if _, ok := renumber[rep]; ok {
			continue
		}
		items := s.Items
		if mi, ok := mergedItems[rep]; ok {
			items = mi
		}
		newID := len(newStates)
		renumber[rep] = newID
		newStates = append(newStates, &State{ID: newID, Items: items})
	}

	newEdges := make([]edge, 0, len(edges))
	seen := make(map[edge]bool)
	for _, e := range edges {
		ne := edge{from: renumber[canon[e.from]], sym: e.sym, to: renumber[canon[e.to]]}
		if seen[ne] {
			continue
		}
		seen[ne] = true
		newEdges = append(newEdges, ne)
	}
	return newStates, newEdges
}

func cloneItems(items []*Item) []*Item {
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = &Item{Prod: it.Prod, Dot: it.Dot, LA: it.LA.Copy()}
	}
	return out
}

// unionLA merges other's lookaheads into a copy of acc, matched by core.
func unionLA(acc []*Item, other []*Item) []*Item {
	byCore := make(map[core]*Item, len(acc))
	out := make([]*Item, len(acc))
	for i, it := range acc {
		ni := &Item{Prod: it.Prod, Dot: it.Dot, LA: it.LA.Copy()}
		out[i] = ni
		byCore[ni.core()] = ni
	}
	for _, it := range other {
		if existing, ok := byCore[it.core()]; ok {
			existing.LA.AddAll(it.LA)
		}
	}
	return out
}

type rrKey struct {
	term  symbol.Symbol
	p1, p2 int
}

// reduceReduceConflicts returns, for every pair of distinct reduce
// productions sharing a lookahead terminal, a marker key. Used to decide
// whether a merge introduces a *new* reduce/reduce conflict.
func reduceReduceConflicts(items []*Item) map[rrKey]bool {
	byTerm := make(map[symbol.Symbol][]int)
	for _, it := range items {
		if !it.AtEnd() || it.Prod.ID == 0 {
			continue
		}
		for _, v := range it.LA.Values() {
			t := v.(symbol.Symbol)
			byTerm[t] = append(byTerm[t], it.Prod.ID)
		}
	}
	out := make(map[rrKey]bool)
	for t, prods := range byTerm {
		for i := 0; i < len(prods); i++ {
			for j := i + 1; j < len(prods); j++ {
				p1, p2 := prods[i], prods[j]
				if p1 > p2 {
					p1, p2 = p2, p1
				}
				out[rrKey{t, p1, p2}] = true
			}
		}
	}
	return out
}

func hasReduceReduceConflict(items []*Item) map[rrKey]bool {
	return reduceReduceConflicts(items)
}

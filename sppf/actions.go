/*
Package sppf: this file implements the tree-then-walk action pass a GLR
parse defers to, promised by grammar.Grammar.Actions but previously
never wired to anything. lrdriver's shift/reduce loop can run an action
in-line at reduce time because a deterministic parse only ever builds
one derivation; the GLR driver forks freely, so running an action
eagerly on every packed alternative would execute user code for
branches later discarded as ambiguity losers. CallActions instead runs
once a caller has already selected a single derivation (a *TreeView,
typically Forest.FirstTree() or Forest.Tree(i)), walking it bottom-up
and invoking Grammar.Actions[prod.ID] on each reduction's
already-computed children values, exactly as parglare's
call_actions_during_tree_build pass evaluates a lazy Tree built over its
own shared packed forest (trees.py's Tree/LazyTree, actions.py's
standard action library).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sppf

import (
	"github.com/nilspin/glr"
	"github.com/nilspin/glr/grammar"
)

// CallActions evaluates the derivation selected by tv, running g's
// registered action for every reduction bottom-up and returning the
// value computed at the root. A production with no registered action
// contributes nil, exactly like lrdriver's in-line reduce when
// G.Actions holds no entry for that production. ctx is passed through
// to every action unchanged except for ctx.Production, which CallActions
// sets to the production being reduced before invoking its action,
// mirroring lrdriver.Parser.reduce.
//
// Traversal reuses the same memoize-by-identity/cycle-detect primitive
// as Cursor.TopDown and TreeView.Walk: a shared subtree is evaluated
// once, and a self-embedding derivation fails with a *CycleError
// instead of recursing forever.
func CallActions(tv *TreeView, g *grammar.Grammar, ctx *glr.Context) (interface{}, error) {
	memo := make(map[*SymbolNode]interface{})
	onStack := make(map[*SymbolNode]bool)
	return callActions(tv.forest.Root(), tv.choices, g, ctx, memo, onStack)
}

func callActions(n *SymbolNode, choices map[*SymbolNode]int, g *grammar.Grammar, ctx *glr.Context, memo map[*SymbolNode]interface{}, onStack map[*SymbolNode]bool) (interface{}, error) {
	if n == nil {
		return nil, nil
	}
	if v, ok := memo[n]; ok {
		return v, nil
	}
	if n.Terminal {
		memo[n] = n.Value
		return n.Value, nil
	}
	if onStack[n] {
		return nil, &CycleError{Sym: n.Sym}
	}
	if len(n.Packed) == 0 {
		return nil, nil
	}
	idx := choices[n] // zero value 0 = first alternative, matching FirstTree
	if idx >= len(n.Packed) {
		idx = 0
	}
	packed := n.Packed[idx]

	onStack[n] = true
	values := make([]interface{}, len(packed.Children))
	for i, ch := range packed.Children {
		v, err := callActions(ch, choices, g, ctx, memo, onStack)
		if err != nil {
			delete(onStack, n)
			return nil, err
		}
		values[i] = v
	}
	delete(onStack, n)

	var result interface{}
	if fn, ok := g.Actions[packed.Prod.ID]; ok {
		if ctx != nil {
			ctx.Production = packed.Prod
		}
		result = fn(ctx, values)
	}
	memo[n] = result
	return result, nil
}

package sppf

import (
	"fmt"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/symbol"
)

// CycleError reports that a traversal revisited a node already on its
// own descent path: a self-embedding derivation that would otherwise
// recurse forever. Mirrors parglare's LoopError, raised by trees.py's
// generic visitor when check_cycle finds a node already on the stack.
type CycleError struct {
	Sym symbol.Symbol
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected while traversing symbol %v", e.Sym)
}

// Direction controls the order children are handed to a Listener.
type Direction int

// Traversal directions.
const (
	LtoR Direction = iota
	RtoL
)

// Breakmode controls whether a traversal stops early. Reserved for
// future use by TopDown's callers; Continue is currently the only mode
// exercised.
type Breakmode int

// Traversal break-modes.
const (
	Continue Breakmode = iota
	Break
)

// RuleCtxt is the read-only context handed to a Listener at every node.
type RuleCtxt struct {
	Span      glr.Span
	Level     int
	RuleIndex int
	Attrs     interface{}
}

// RuleNode is a thin, ergonomic wrapper around a SymbolNode for callers
// that want symbol/span/conflict accessors without touching Packed
// directly, grounded on gorgo's lr/sppf/visit.go RuleNode type.
type RuleNode struct {
	Node  *SymbolNode
	Value interface{}
}

// Symbol returns the wrapped node's symbol.
func (r *RuleNode) Symbol() symbol.Symbol { return r.Node.Sym }

// Span returns the wrapped node's input span.
func (r *RuleNode) Span() glr.Span { return glr.Span{r.Node.Start, r.Node.End} }

// HasConflict reports whether the wrapped node is ambiguous.
func (r *RuleNode) HasConflict() bool { return r.Node.IsAmbiguous() }

// Pruner decides, per node, whether a traversal should stop descending.
type Pruner interface {
	Prune(sym symbol.Symbol, level int) bool
}

type dontCarePruner struct{}

func (dontCarePruner) Prune(symbol.Symbol, int) bool { return false }

// DontCarePruner never prunes; it is the default Pruner.
var DontCarePruner Pruner = dontCarePruner{}

// Listener receives callbacks during a top-down SPPF traversal.
type Listener interface {
	EnterRule(sym symbol.Symbol, rhs []*SymbolNode, ctxt RuleCtxt) bool
	ExitRule(sym symbol.Symbol, rhs []*SymbolNode, ctxt RuleCtxt) interface{}
	Terminal(tokval int, token interface{}, ctxt RuleCtxt) interface{}
	Conflict(sym symbol.Symbol, ctxt RuleCtxt) (int, error)
	MakeAttrs(sym symbol.Symbol) interface{}
}

// Cursor navigates one tree view of a Forest, resolving ambiguous nodes
// via the Listener's Conflict callback as it descends.
type Cursor struct {
	forest *Forest
	root   *SymbolNode
	pruner Pruner
}

// SetCursor creates a Cursor rooted at n (or the forest's Root if n is
// nil), using pruner (or DontCarePruner if nil) to decide early stops.
func (f *Forest) SetCursor(n *SymbolNode, pruner Pruner) *Cursor {
	if n == nil {
		n = f.Root()
	}
	if pruner == nil {
		pruner = DontCarePruner
	}
	return &Cursor{forest: f, root: n, pruner: pruner}
}

// Node returns the cursor's root node.
func (c *Cursor) Node() *SymbolNode { return c.root }

// TopDown performs a depth-first, top-down traversal from the cursor's
// root, calling into l at every node, and returns whatever the root's
// ExitRule/Terminal callback returned. Results are memoized by node
// identity so a shared subtree reachable from more than one parent (an
// SPPF is a DAG, not just a tree) is visited once; a node re-encountered
// while still on the current descent path is a self-embedding cycle and
// fails with a *CycleError rather than recursing forever. Grounded on
// parglare's trees.py generic visitor (memoize/check_cycle parameters).
func (c *Cursor) TopDown(l Listener, dir Direction, mode Breakmode) (interface{}, error) {
	memo := make(map[*SymbolNode]interface{})
	onStack := make(map[*SymbolNode]bool)
	return traverseTopDown(c.root, l, dir, 0, c.pruner, memo, onStack)
}

func traverseTopDown(n *SymbolNode, l Listener, dir Direction, level int, pruner Pruner, memo map[*SymbolNode]interface{}, onStack map[*SymbolNode]bool) (interface{}, error) {
	if n == nil {
		return nil, nil
	}
	if v, ok := memo[n]; ok {
		return v, nil
	}
	if onStack[n] {
		return nil, &CycleError{Sym: n.Sym}
	}
	ctxt := RuleCtxt{Span: glr.Span{n.Start, n.End}, Level: level}
	if n.Terminal {
		v := l.Terminal(int(n.Sym), n.Value, ctxt)
		memo[n] = v
		return v, nil
	}
	if pruner.Prune(n.Sym, level) {
		return nil, nil
	}
	packed := choosePacked(n, l, ctxt)
	if packed == nil {
		return nil, nil
	}
	ctxt.RuleIndex = packed.Prod.ID
	ctxt.Attrs = l.MakeAttrs(n.Sym)
	children := packed.Children
	if dir == RtoL {
		children = reverseNodes(children)
	}
	if !l.EnterRule(n.Sym, children, ctxt) {
		return nil, nil
	}
	onStack[n] = true
	for _, ch := range children {
		if _, err := traverseTopDown(ch, l, dir, level+1, pruner, memo, onStack); err != nil {
			delete(onStack, n)
			return nil, err
		}
	}
	delete(onStack, n)
	v := l.ExitRule(n.Sym, children, ctxt)
	memo[n] = v
	return v, nil
}

func choosePacked(n *SymbolNode, l Listener, ctxt RuleCtxt) *PackedNode {
	if len(n.Packed) == 0 {
		return nil
	}
	if len(n.Packed) == 1 {
		return n.Packed[0]
	}
	idx, err := l.Conflict(n.Sym, ctxt)
	if err != nil || idx < 0 || idx >= len(n.Packed) {
		return n.Packed[0]
	}
	return n.Packed[idx]
}

func reverseNodes(in []*SymbolNode) []*SymbolNode {
	out := make([]*SymbolNode, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

/*
Package sppf implements a Shared Packed Parse Forest: nodes
keyed on (symbol, start, end), ambiguity represented as multiple packed
alternatives per non-terminal node, lazy tree enumeration, and a
depth-first visitor.

The consumer-facing Cursor/Listener/RuleNode API (visit.go) is grounded
directly on gorgo's lr/sppf/visit.go. The producer half (this
file) was missing from the retrieved snapshot and is authored fresh
against the contract that file and lr/sppf/sppf_test.go establish
(NewForest, AddTerminal, AddReduction, rhsSignature, Root).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sppf

import (
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glr.sppf'.
func tracer() tracing.Trace {
	return tracing.Select("glr.sppf")
}

// PackedNode is one (production, children) alternative at a possibly
// ambiguous SymbolNode.
type PackedNode struct {
	Prod     *grammar.Production
	Children []*SymbolNode
	sig      uint64
}

// SymbolNode is either a terminal node (Terminal == true, no packed
// alternatives) or a non-terminal node with one or more packed
// alternatives; more than one means the node is ambiguous.
type SymbolNode struct {
	Sym      symbol.Symbol
	Start    uint64
	End      uint64
	Terminal bool
	Value    interface{}
	Extra    interface{}
	Packed   []*PackedNode
}

// IsAmbiguous reports whether this node has more than one packed
// alternative.
func (n *SymbolNode) IsAmbiguous() bool { return len(n.Packed) > 1 }

type nodeKey struct {
	sym   symbol.Symbol
	start uint64
	end   uint64
}

// Forest is a handle to the set of SPPF nodes built during one parse.
type Forest struct {
	bySpan map[nodeKey]*SymbolNode
	root   *SymbolNode
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{bySpan: make(map[nodeKey]*SymbolNode)}
}

// AddTerminal inserts (or returns the existing) terminal node spanning
// [start, end) with the given matched value.
func (f *Forest) AddTerminal(term symbol.Symbol, start, end uint64, value interface{}) *SymbolNode {
	key := nodeKey{term, start, end}
	if n, ok := f.bySpan[key]; ok {
		return n
	}
	n := &SymbolNode{Sym: term, Start: start, End: end, Terminal: true, Value: value}
	f.bySpan[key] = n
	return n
}

// AddReduction inserts a packed alternative for prod's left-hand side
// spanning the concatenation of children, creating the SymbolNode on
// first use and adding to it on later, ambiguous derivations of the same
// (symbol, start, end). Adding a packed alternative with the same
// (production, child identities) as an existing one is a no-op.
func (f *Forest) AddReduction(prod *grammar.Production, children []*SymbolNode) *SymbolNode {
	var start, end uint64
	if len(children) > 0 {
		start, end = children[0].Start, children[len(children)-1].End
	}
	return f.addReductionAt(prod, start, end, children)
}

// AddEmptyReduction inserts a packed alternative for an ε-production
//, anchored at position at.
func (f *Forest) AddEmptyReduction(prod *grammar.Production, at uint64) *SymbolNode {
	return f.addReductionAt(prod, at, at, nil)
}

func (f *Forest) addReductionAt(prod *grammar.Production, start, end uint64, children []*SymbolNode) *SymbolNode {
	key := nodeKey{prod.LHS, start, end}
	n, ok := f.bySpan[key]
	if !ok {
		n = &SymbolNode{Sym: prod.LHS, Start: start, End: end}
		f.bySpan[key] = n
	}
	sig := rhsSignature(prod.ID, children)
	for _, p := range n.Packed {
		if p.sig == sig {
			return n // idempotent: identical derivation already recorded
		}
	}
	n.Packed = append(n.Packed, &PackedNode{Prod: prod, Children: children, sig: sig})
	if len(n.Packed) > 1 {
		tracer().Debugf("node %v became ambiguous (%d alternatives)", key, len(n.Packed))
	}
	return n
}

// Root returns the node pinned by SetRoot (both drivers pin the node of
// the user start symbol S); failing that, a node reduced by the augmented
// production S′; or nil if there is neither.
func (f *Forest) Root() *SymbolNode {
	if f.root != nil {
		return f.root
	}
	// The augmented start production always has LHS = S′, which appears
	// nowhere else as an RHS symbol, so any node keyed on it is the root.
	for k, n := range f.bySpan {
		if len(n.Packed) > 0 && n.Packed[0].Prod.ID == 0 {
			f.root = n
			_ = k
			return n
		}
	}
	return nil
}

// SetRoot pins the root explicitly (used by both drivers, which know the
// accepted node directly rather than needing Root's lookup).
func (f *Forest) SetRoot(n *SymbolNode) { f.root = n }

// rhsSignature computes a signature over a production id and its ordered
// child node identities, used to detect duplicate packed alternatives
//. Node identity is stable because SymbolNode instances are
// interned by (symbol, start, end) in bySpan.
func rhsSignature(prodID int, children []*SymbolNode) uint64 {
	h := uint64(1469598103934665603) // FNV offset basis
	mix := func(v uint64) {
		h ^= v
		h *= 1099511628211 // FNV prime
	}
	mix(uint64(prodID))
	for _, c := range children {
		mix(uint64(c.Sym))
		mix(c.Start)
		mix(c.End)
	}
	return h
}

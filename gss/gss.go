/*
Package gss implements a Graph-Structured Stack ( GSSNode,
frontier algorithm): the shared-prefix/shared-suffix representation of
every concurrent LR stack alive during a GLR parse.

Node/link uniquification per (state, position) and predecessor-list
storage are authored fresh — gorgo's lr/glr package retains only
a test file exercising a GSS-based Parser, not the GSS implementation
itself — but the ordered-list backing for a node's predecessor edges
follows the same emirpasic/gods arraylist.List idiom
lr/tables.go already uses for CFSM edge storage.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package gss

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/sppf"
	"github.com/nilspin/glr/symbol"
)

// Link is one predecessor edge out of a Node: the parent node, the
// grammar symbol carried across the edge, and the SPPF node recording
// the semantic result for that symbol.
type Link struct {
	Parent *Node
	Symbol symbol.Symbol
	Result *sppf.SymbolNode
}

// Node is a GSS node, uniquified within the current frontier by
// (State, Position).
type Node struct {
	State        int
	Position     uint64
	TokenAhead   interface{} // glr.Token, typed loosely to avoid an import cycle with recognizer
	predecessors *arraylist.List
	reduced      map[reduceKey]bool // (production, path signature) pairs already applied on paths ending at this node
}

type reduceKey struct {
	prodID int
	sig    uint64
}

// NewNode creates a GSS node at (state, pos) with no predecessors yet.
func NewNode(state int, pos uint64) *Node {
	return &Node{State: state, Position: pos, predecessors: arraylist.New(), reduced: make(map[reduceKey]bool)}
}

// AddLink adds a predecessor edge to n, returning false if an
// identical (parent, symbol, result) link already existed.
func (n *Node) AddLink(parent *Node, sym symbol.Symbol, result *sppf.SymbolNode) bool {
	for _, v := range n.predecessors.Values() {
		l := v.(Link)
		if l.Parent == parent && l.Symbol == sym && l.Result == result {
			return false
		}
	}
	n.predecessors.Add(Link{Parent: parent, Symbol: sym, Result: result})
	return true
}

// Links returns n's predecessor edges.
func (n *Node) Links() []Link {
	vs := n.predecessors.Values()
	out := make([]Link, len(vs))
	for i, v := range vs {
		out[i] = v.(Link)
	}
	return out
}

// MarkReduced records that production prodID has already been applied
// along the specific path identified by sig — a signature over the
// path's ordered child result identities, from PathSignature — so the
// driver does not redo identical reduction work when re-trying
// reductions across a newly-added link. Keying on the path's identity
// rather than only on its endpoints matters in a diamond-shaped region
// of the GSS: two distinct paths of the same length can share both the
// reducing head and the resulting pathEnd while differing in the nodes
// between them, and each is a separate derivation that must reach
// applyReduction so the forest records both packed alternatives.
func (n *Node) MarkReduced(prodID int, sig uint64) bool {
	k := reduceKey{prodID, sig}
	if n.reduced[k] {
		return false
	}
	n.reduced[k] = true
	return true
}

// PathSignature computes a signature over a reduction's ordered child
// SPPF nodes, used as the per-path component of MarkReduced's dedup
// key. Grounded on sppf.Forest's own rhsSignature: a node's (symbol,
// start, end) triple is a stable identity since SymbolNode instances are
// interned by that triple within a Forest.
func PathSignature(children []*sppf.SymbolNode) uint64 {
	h := uint64(1469598103934665603) // FNV offset basis
	mix := func(v uint64) {
		h ^= v
		h *= 1099511628211 // FNV prime
	}
	for _, c := range children {
		mix(uint64(c.Sym))
		mix(c.Start)
		mix(c.End)
	}
	return h
}

// nodeKey identifies a GSS node within a frontier.
type nodeKey struct {
	state int
	pos   uint64
}

// Graph owns every Node created during a GLR parse, uniquified per
// (state, position) within the current frontier.
type Graph struct {
	nodes map[nodeKey]*Node
}

// New creates an empty GSS.
func New() *Graph {
	return &Graph{nodes: make(map[nodeKey]*Node)}
}

// GetOrCreate returns the existing node at (state, pos), or creates
// one, reporting whether it was newly created — the driver enqueues
// newly created nodes for reduction.
func (g *Graph) GetOrCreate(state int, pos uint64) (*Node, bool) {
	k := nodeKey{state, pos}
	if n, ok := g.nodes[k]; ok {
		return n, false
	}
	n := NewNode(state, pos)
	g.nodes[k] = n
	return n, true
}

// Get returns the node at (state, pos) if it exists.
func (g *Graph) Get(state int, pos uint64) (*Node, bool) {
	n, ok := g.nodes[nodeKey{state, pos}]
	return n, ok
}

// AllPaths enumerates every distinct path of exactly length links
// backwards from n, returning each path as a slice of steps in forward
// (left-to-right, production-rhs) order. For a non-empty path, the
// first step's Node is the path's end: the state GOTO is applied to
// after building the reduction's semantic result. Used by REDUCE(p) to
// build every semantic result a production's handle can be assembled
// from, walking every path of length |p.rhs| from this head through
// the GSS.
func AllPaths(n *Node, length int) [][]PathStep {
	if length == 0 {
		return [][]PathStep{{}}
	}
	var out [][]PathStep
	for _, l := range n.Links() {
		step := PathStep{Node: l.Parent, Symbol: l.Symbol, Result: l.Result}
		for _, rest := range AllPaths(l.Parent, length-1) {
			path := append(append([]PathStep{}, rest...), step)
			out = append(out, path)
		}
	}
	return out
}

// PathStep is one edge traversed while walking backwards from a head;
// paths are returned in forward order by AllPaths.
type PathStep struct {
	Node   *Node
	Symbol symbol.Symbol
	Result *sppf.SymbolNode
}

// Dot writes a Graphviz rendering of every node and predecessor link
// currently in g to w, grounded on the same CFSM2GraphViz dot-emission
// idiom as automaton.Automaton.Dot and sppf.Forest.Dot, applied to a
// GSS run instead of a state graph or a parse forest.
func (g *Graph) Dot(w io.Writer, gr *grammar.Grammar) error {
	fmt.Fprintln(w, "digraph gss {")
	fmt.Fprintln(w, "  rankdir=RL;")
	id := func(n *Node) string { return fmt.Sprintf("n%p", n) }
	for _, n := range g.nodes {
		fmt.Fprintf(w, "  %s [shape=box,label=%q];\n", id(n), fmt.Sprintf("%d@%d", n.State, n.Position))
		for _, l := range n.Links() {
			fmt.Fprintf(w, "  %s -> %s [label=%q];\n", id(n), id(l.Parent), gr.Symbols.Name(l.Symbol))
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

package sppf

import (
	"fmt"
	"io"
	"strings"

	"github.com/nilspin/glr/grammar"
)

// String renders the forest rooted at f.Root() as an indented text tree,
// marking ambiguous nodes explicitly.
func (f *Forest) String(g *grammar.Grammar) string {
	var b strings.Builder
	f.writeText(&b, g, f.Root(), 0, make(map[*SymbolNode]bool))
	return b.String()
}

func (f *Forest) writeText(b *strings.Builder, g *grammar.Grammar, n *SymbolNode, indent int, onStack map[*SymbolNode]bool) {
	pad := strings.Repeat("  ", indent)
	if n == nil {
		fmt.Fprintf(b, "%s<nil>\n", pad)
		return
	}
	name := g.Symbols.Name(n.Sym)
	if n.Terminal {
		fmt.Fprintf(b, "%s%s %v\n", pad, name, n.Value)
		return
	}
	ambig := ""
	if n.IsAmbiguous() {
		ambig = fmt.Sprintf(" (ambiguous, %d alternatives)", len(n.Packed))
	}
	fmt.Fprintf(b, "%s%s%s\n", pad, name, ambig)
	if onStack[n] {
		fmt.Fprintf(b, "%s  ...(cycle)\n", pad)
		return
	}
	onStack[n] = true
	for i, p := range n.Packed {
		if n.IsAmbiguous() {
			fmt.Fprintf(b, "%s  alt %d (rule %d):\n", pad, i, p.Prod.ID)
		}
		for _, ch := range p.Children {
			f.writeText(b, g, ch, indent+2, onStack)
		}
	}
	onStack[n] = false
}

// Dot writes a Graphviz rendering of the forest to w, marking ambiguous
// (packed) nodes with a distinct shape, grounded on gorgo's
// CFSM2GraphViz dot-emission idiom (lr/tables.go) applied to SPPF nodes.
func (f *Forest) Dot(w io.Writer, g *grammar.Grammar) error {
	fmt.Fprintln(w, "digraph sppf {")
	seen := make(map[*SymbolNode]bool)
	var walk func(n *SymbolNode)
	id := func(n *SymbolNode) string { return fmt.Sprintf("n%p", n) }
	walk = func(n *SymbolNode) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		name := g.Symbols.Name(n.Sym)
		shape := "ellipse"
		if n.IsAmbiguous() {
			shape = "diamond"
		}
		if n.Terminal {
			fmt.Fprintf(w, "  %s [shape=box,label=%q];\n", id(n), fmt.Sprintf("%s:%v", name, n.Value))
			return
		}
		fmt.Fprintf(w, "  %s [shape=%s,label=%q];\n", id(n), shape, fmt.Sprintf("%s(%d,%d)", name, n.Start, n.End))
		for _, p := range n.Packed {
			for _, ch := range p.Children {
				fmt.Fprintf(w, "  %s -> %s [label=\"%d\"];\n", id(n), id(ch), p.Prod.ID)
				walk(ch)
			}
		}
	}
	walk(f.Root())
	fmt.Fprintln(w, "}")
	return nil
}

package automaton

import (
	"fmt"
	"io"
)

// Dot writes a Graphviz rendering of the automaton's state graph to w,
// grounded on gorgo's CFSM2GraphViz dot-emission idiom
// (lr/tables.go) applied to the merged LR(1) states instead of an
// SLR(1) CFSM.
func (a *Automaton) Dot(w io.Writer) error {
	fmt.Fprintln(w, "digraph automaton {")
	fmt.Fprintln(w, "  rankdir=LR;")
	for _, s := range a.States {
		fmt.Fprintf(w, "  s%d [shape=box,label=\"%d\"];\n", s.ID, s.ID)
	}
	for _, e := range a.edges {
		fmt.Fprintf(w, "  s%d -> s%d [label=\"%s\"];\n", e.from, e.to, a.Grammar.Symbols.Name(e.sym))
	}
	fmt.Fprintln(w, "}")
	return nil
}

// Describe writes a human-readable listing of states, their items and
// any unresolved conflicts, grounded on vartan's genReport/Report shape
// (grammar/parsing_table.go) but rendered directly rather than through
// an intermediate JSON-serializable struct, since this module has no
// grammar-file CLI surface to consume such a struct downstream.
func (a *Automaton) Describe(w io.Writer) {
	for _, s := range a.States {
		fmt.Fprintf(w, "state %d:\n", s.ID)
		for _, it := range s.Items {
			fmt.Fprintf(w, "  %s\n", it.String())
		}
	}
	if len(a.Conflicts) == 0 {
		fmt.Fprintln(w, "no conflicts")
		return
	}
	fmt.Fprintf(w, "%d conflict(s):\n", len(a.Conflicts))
	for _, c := range a.Conflicts {
		fmt.Fprintf(w, "  state %d, terminal %s: %v\n", c.State, a.Grammar.Symbols.Name(c.Term), c.Actions)
	}
}

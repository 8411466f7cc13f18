package sppf

import "github.com/nilspin/glr"

// ambiguityInfo is the memoized result of walking the forest once to
// discover every distinct ambiguous non-terminal node reachable from the
// root, in canonical (first-discovered, top-down, left-to-right) order,
// and to detect re-entrancy cycles.
type ambiguityInfo struct {
	nodes   []*SymbolNode // ambiguous nodes, in canonical order
	index   map[*SymbolNode]int
	finite  bool
}

func (f *Forest) ambiguity() *ambiguityInfo {
	info := &ambiguityInfo{index: make(map[*SymbolNode]int), finite: true}
	visited := make(map[*SymbolNode]bool)
	onStack := make(map[*SymbolNode]bool)
	var walk func(n *SymbolNode)
	walk = func(n *SymbolNode) {
		if n == nil || n.Terminal {
			return
		}
		if onStack[n] {
			info.finite = false
			return
		}
		if visited[n] {
			return
		}
		visited[n] = true
		onStack[n] = true
		if n.IsAmbiguous() {
			if _, ok := info.index[n]; !ok {
				info.index[n] = len(info.nodes)
				info.nodes = append(info.nodes, n)
			}
		}
		for _, p := range n.Packed {
			for _, ch := range p.Children {
				walk(ch)
			}
		}
		onStack[n] = false
	}
	walk(f.Root())
	return info
}

// Ambiguities returns the count of non-terminal nodes with more than one
// packed alternative.
func (f *Forest) Ambiguities() int {
	return len(f.ambiguity().nodes)
}

// IsFinite reports whether the forest's derivation family is finite,
// i.e. free of self-embedding cycles that would make Solutions
// undecidable.
func (f *Forest) IsFinite() bool {
	return f.ambiguity().finite
}

// Solutions returns the number of distinct trees encoded by the forest:
// the product of each ambiguous node's alternative count. Returns -1 if
// the forest is not finite.
func (f *Forest) Solutions() int {
	info := f.ambiguity()
	if !info.finite {
		return -1
	}
	total := 1
	for _, n := range info.nodes {
		total *= len(n.Packed)
	}
	return total
}

// TreeView is a lazy, index-selected view over one derivation encoded by
// the forest. Its children are produced on demand from the underlying
// SPPF; it does not copy the forest.
type TreeView struct {
	forest  *Forest
	choices map[*SymbolNode]int
}

// FirstTree returns a fast-path tree view choosing the first packed
// alternative at every ambiguous node, without enumerating the others.
func (f *Forest) FirstTree() *TreeView {
	return &TreeView{forest: f, choices: nil}
}

// Tree decodes the i-th tree (0 ≤ i < Solutions()) by treating i as a
// mixed-radix number over the ambiguity degrees of the canonically
// ordered ambiguous nodes.
func (f *Forest) Tree(i int) *TreeView {
	info := f.ambiguity()
	choices := make(map[*SymbolNode]int, len(info.nodes))
	rem := i
	for _, n := range info.nodes {
		degree := len(n.Packed)
		choices[n] = rem % degree
		rem /= degree
	}
	return &TreeView{forest: f, choices: choices}
}

// Walk drives l over this tree view. Unlike Cursor.TopDown, ambiguous
// nodes are resolved deterministically by the view's pre-decided
// choices rather than by calling l.Conflict. Like Cursor.TopDown,
// results are memoized by node identity and a self-embedding
// derivation fails with a *CycleError instead of recursing forever.
func (t *TreeView) Walk(l Listener, dir Direction) (interface{}, error) {
	memo := make(map[*SymbolNode]interface{})
	onStack := make(map[*SymbolNode]bool)
	return walkChosen(t.forest.Root(), l, dir, 0, t.choices, memo, onStack)
}

func walkChosen(n *SymbolNode, l Listener, dir Direction, level int, choices map[*SymbolNode]int, memo map[*SymbolNode]interface{}, onStack map[*SymbolNode]bool) (interface{}, error) {
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
	if len(n.Packed) == 0 {
		return nil, nil
	}
	idx := choices[n] // zero value 0 = first alternative, matching FirstTree
	if idx >= len(n.Packed) {
		idx = 0
	}
	packed := n.Packed[idx]
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
		if _, err := walkChosen(ch, l, dir, level+1, choices, memo, onStack); err != nil {
			delete(onStack, n)
			return nil, err
		}
	}
	delete(onStack, n)
	v := l.ExitRule(n.Sym, children, ctxt)
	memo[n] = v
	return v, nil
}

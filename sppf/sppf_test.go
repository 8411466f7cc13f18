package sppf

import (
	"strings"
	"testing"

	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/symbol"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func testGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("G")
	b.LHS("S").N("A").End()
	b.LHS("A").N("B").End()
	b.LHS("B").T("x", "x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestAddReductionIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.sppf")
	defer teardown()

	g := testGrammar(t)
	f := NewForest()
	B := g.SymbolByName("B")
	prod := g.ProductionsFor(g.SymbolByName("A"))[0]
	child := f.AddTerminal(B, 0, 1, "x")

	n1 := f.AddReduction(prod, []*SymbolNode{child})
	n2 := f.AddReduction(prod, []*SymbolNode{child})
	if n1 != n2 {
		t.Fatalf("AddReduction returned different nodes for the same span")
	}
	if len(n1.Packed) != 1 {
		t.Errorf("adding the identical derivation twice produced %d packed alternatives, want 1", len(n1.Packed))
	}
}

func TestAmbiguousNodeCarriesMultiplePacked(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.sppf")
	defer teardown()

	// Two distinct productions reducing to the same (symbol, span):
	// E -> a | E -> b, both spanning [0,1) if their RHS terminals do.
	b := grammar.NewBuilder("Amb")
	b.LHS("E").T("a", "a").End()
	b.LHS("E").T("b", "b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	f := NewForest()
	aSym := g.SymbolByName("a")
	child := f.AddTerminal(aSym, 0, 1, "a")
	pA := g.ProductionsFor(g.SymbolByName("E"))[0]
	pB := g.ProductionsFor(g.SymbolByName("E"))[1]

	n := f.AddReduction(pA, []*SymbolNode{child})
	n = f.AddReduction(pB, []*SymbolNode{child})

	if !n.IsAmbiguous() {
		t.Fatalf("expected node to be ambiguous after two distinct productions reduced to the same span")
	}
	f.SetRoot(n)
	if got := f.Ambiguities(); got != 1 {
		t.Errorf("Ambiguities() = %d, want 1", got)
	}
	if got := f.Solutions(); got != 2 {
		t.Errorf("Solutions() = %d, want 2", got)
	}
}

func TestCycleMakesForestInfinite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.sppf")
	defer teardown()

	g := testGrammar(t)
	f := NewForest()
	A := g.SymbolByName("A")
	prod := g.ProductionsFor(g.SymbolByName("S"))[0] // S -> A
	// Fabricate a self-referential node: S -> A where A's only packed
	// child is the S node itself, an unrealistic but structurally valid
	// cycle for exercising the visitor's onStack detection.
	sNode := &SymbolNode{Sym: g.SymbolByName("S")}
	aNode := &SymbolNode{Sym: A}
	aNode.Packed = append(aNode.Packed, &PackedNode{Prod: prod, Children: []*SymbolNode{sNode}})
	sNode.Packed = append(sNode.Packed, &PackedNode{Prod: prod, Children: []*SymbolNode{aNode}})
	f.SetRoot(sNode)

	if f.IsFinite() {
		t.Errorf("expected a self-embedding cycle to make the forest non-finite")
	}
	if got := f.Solutions(); got != -1 {
		t.Errorf("Solutions() on a non-finite forest = %d, want -1", got)
	}
}

func TestForestStringRendersWithoutPanicking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.sppf")
	defer teardown()

	g := testGrammar(t)
	f := NewForest()
	B := g.SymbolByName("B")
	child := f.AddTerminal(B, 0, 1, "x")
	prodA := g.ProductionsFor(g.SymbolByName("A"))[0]
	aNode := f.AddReduction(prodA, []*SymbolNode{child})
	prodS := g.ProductionsFor(g.SymbolByName("S"))[0]
	sNode := f.AddReduction(prodS, []*SymbolNode{aNode})
	f.SetRoot(sNode)

	out := f.String(g)
	if !strings.Contains(out, "S") {
		t.Errorf("Forest.String() output missing the root symbol's name: %q", out)
	}
}

func TestFirstTreeWalksZerothAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.sppf")
	defer teardown()

	b := grammar.NewBuilder("Amb")
	b.LHS("E").T("a", "a").End()
	b.LHS("E").T("b", "b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	f := NewForest()
	aSym := g.SymbolByName("a")
	child := f.AddTerminal(aSym, 0, 1, "a")
	pA := g.ProductionsFor(g.SymbolByName("E"))[0]
	pB := g.ProductionsFor(g.SymbolByName("E"))[1]
	n := f.AddReduction(pA, []*SymbolNode{child})
	n = f.AddReduction(pB, []*SymbolNode{child})
	f.SetRoot(n)

	var gotIdx int
	l := &recordingListener{onEnter: func(ctxt RuleCtxt) { gotIdx = ctxt.RuleIndex }}
	if _, err := f.FirstTree().Walk(l, LtoR); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if gotIdx != pA.ID {
		t.Errorf("FirstTree() walked production %d, want the first-added alternative %d", gotIdx, pA.ID)
	}
}

// recordingListener implements Listener, recording the RuleCtxt of the
// first EnterRule call for assertions.
type recordingListener struct {
	onEnter func(RuleCtxt)
	entered bool
}

func (l *recordingListener) EnterRule(sym symbol.Symbol, children []*SymbolNode, ctxt RuleCtxt) bool {
	if !l.entered {
		l.entered = true
		l.onEnter(ctxt)
	}
	return true
}
func (l *recordingListener) ExitRule(sym symbol.Symbol, children []*SymbolNode, ctxt RuleCtxt) interface{} {
	return nil
}
func (l *recordingListener) Terminal(tokval int, value interface{}, ctxt RuleCtxt) interface{} {
	return nil
}
func (l *recordingListener) MakeAttrs(sym symbol.Symbol) interface{} { return nil }
func (l *recordingListener) Conflict(sym symbol.Symbol, ctxt RuleCtxt) (int, error) {
	return 0, nil
}

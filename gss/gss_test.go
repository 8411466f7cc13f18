package gss

import (
	"testing"

	"github.com/nilspin/glr/sppf"
	"github.com/nilspin/glr/symbol"
)

func TestGetOrCreateUniquifiesByStateAndPosition(t *testing.T) {
	g := New()
	n1, created1 := g.GetOrCreate(3, 7)
	if !created1 {
		t.Fatalf("first GetOrCreate(3, 7) reported created=false")
	}
	n2, created2 := g.GetOrCreate(3, 7)
	if created2 {
		t.Errorf("second GetOrCreate(3, 7) reported created=true")
	}
	if n1 != n2 {
		t.Errorf("GetOrCreate(3, 7) returned distinct nodes for the same (state, position)")
	}
	n3, created3 := g.GetOrCreate(3, 8)
	if !created3 || n3 == n1 {
		t.Errorf("GetOrCreate(3, 8) should be a distinct, newly created node")
	}
}

func TestAddLinkUniquifiesIdenticalLinks(t *testing.T) {
	parent := NewNode(0, 0)
	child := NewNode(1, 1)
	sym := symbol.Symbol(5)
	result := &sppf.SymbolNode{}

	if ok := child.AddLink(parent, sym, result); !ok {
		t.Fatalf("first AddLink reported false")
	}
	if ok := child.AddLink(parent, sym, result); ok {
		t.Errorf("adding an identical link a second time reported true, want deduplication")
	}
	if got := len(child.Links()); got != 1 {
		t.Errorf("Links() = %d entries, want 1 after a duplicate add", got)
	}
}

func TestMarkReducedDedupesPerPathSignature(t *testing.T) {
	n := NewNode(0, 0)
	sig := PathSignature([]*sppf.SymbolNode{{Sym: symbol.Symbol(1), Start: 0, End: 1}})
	if ok := n.MarkReduced(4, sig); !ok {
		t.Fatalf("first MarkReduced(4, sig) reported false")
	}
	if ok := n.MarkReduced(4, sig); ok {
		t.Errorf("second MarkReduced(4, sig) reported true, want dedup")
	}
	otherSig := PathSignature([]*sppf.SymbolNode{{Sym: symbol.Symbol(2), Start: 0, End: 1}})
	if ok := n.MarkReduced(4, otherSig); !ok {
		t.Errorf("MarkReduced with a different path signature should not be deduplicated against the first")
	}
}

// TestMarkReducedDistinguishesDiamondPaths reproduces a diamond-shaped
// GSS region: two distinct paths of the same length, sharing both the
// reducing head's production and the path's end node, that differ only
// in the node between them. Keying MarkReduced on (prodID, pathEnd)
// alone would collapse these into a single dedup entry and silently
// drop one derivation; keying on the path's PathSignature keeps both.
func TestMarkReducedDistinguishesDiamondPaths(t *testing.T) {
	end := NewNode(9, 9)
	viaLeft := []*sppf.SymbolNode{{Sym: symbol.Symbol(1), Start: 0, End: 1}}
	viaRight := []*sppf.SymbolNode{{Sym: symbol.Symbol(2), Start: 0, End: 1}}
	if ok := end.MarkReduced(7, PathSignature(viaLeft)); !ok {
		t.Fatalf("first path through the diamond reported already-reduced")
	}
	if ok := end.MarkReduced(7, PathSignature(viaRight)); !ok {
		t.Errorf("second, distinct path through the diamond was dropped as a duplicate of the first")
	}
}

// TestAllPathsOrdering builds a 3-edge chain n0-s1->n1-s2->n2-s3->n3 and
// checks AllPaths(n3, 3) returns exactly one path, in left-to-right
// production-RHS order with path[0].Node equal to the path's end (n0).
func TestAllPathsOrdering(t *testing.T) {
	n0 := NewNode(0, 0)
	n1 := NewNode(1, 1)
	n2 := NewNode(2, 2)
	n3 := NewNode(3, 3)
	s1, s2, s3 := symbol.Symbol(1), symbol.Symbol(2), symbol.Symbol(3)
	r1, r2, r3 := &sppf.SymbolNode{Start: 0, End: 1}, &sppf.SymbolNode{Start: 1, End: 2}, &sppf.SymbolNode{Start: 2, End: 3}

	n1.AddLink(n0, s1, r1)
	n2.AddLink(n1, s2, r2)
	n3.AddLink(n2, s3, r3)

	paths := AllPaths(n3, 3)
	if len(paths) != 1 {
		t.Fatalf("AllPaths(n3, 3) = %d paths, want 1", len(paths))
	}
	path := paths[0]
	if path[0].Node != n0 {
		t.Errorf("path[0].Node = %v, want the path's end n0", path[0].Node)
	}
	wantSyms := []symbol.Symbol{s1, s2, s3}
	wantResults := []*sppf.SymbolNode{r1, r2, r3}
	for i, step := range path {
		if step.Symbol != wantSyms[i] {
			t.Errorf("path[%d].Symbol = %v, want %v", i, step.Symbol, wantSyms[i])
		}
		if step.Result != wantResults[i] {
			t.Errorf("path[%d].Result = %v, want %v", i, step.Result, wantResults[i])
		}
	}
}

func TestAllPathsForksOnMultiplePredecessors(t *testing.T) {
	n0 := NewNode(0, 0)
	n0b := NewNode(0, 0) // a second, distinct path-end at the same nominal state
	n1 := NewNode(1, 1)
	s := symbol.Symbol(1)
	n1.AddLink(n0, s, &sppf.SymbolNode{})
	n1.AddLink(n0b, s, &sppf.SymbolNode{})

	paths := AllPaths(n1, 1)
	if len(paths) != 2 {
		t.Fatalf("AllPaths(n1, 1) = %d paths, want 2 (one per predecessor edge)", len(paths))
	}
}

func TestAllPathsZeroLength(t *testing.T) {
	n := NewNode(0, 0)
	paths := AllPaths(n, 0)
	if len(paths) != 1 || len(paths[0]) != 0 {
		t.Errorf("AllPaths(n, 0) = %v, want a single empty path", paths)
	}
}

package automaton

import (
	"testing"

	"github.com/nilspin/glr/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// The classic Rekers ambiguous grammar:
//
//	S -> A - | + B
//	A -> + a
//	B -> a -
//
// "+a-" is ambiguous, matching both S -> A - (with A -> + a) and
// S -> + B (with B -> a -), and the two productions collide on the same
// core with different lookaheads in a way that forces an unresolved
// conflict for any deterministic driver to fork on.
func ambiguousGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("G1")
	b.LHS("S").N("A").T("-", "-").End()
	b.LHS("S").T("+", "+").N("B").End()
	b.LHS("A").T("+", "+").T("a", "a").End()
	b.LHS("B").T("a", "a").T("-", "-").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestBuildReportsAmbiguity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.automaton")
	defer teardown()

	g := ambiguousGrammar(t)
	a, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Conflicts) == 0 {
		t.Errorf("expected the +a- grammar to leave an unresolved conflict, got none")
	}
}

// operatorPrecedenceGrammar builds `E -> E + E | E * E | num` with "*"
// given a higher terminal priority than the "+" production, matching
//'s rule that a shift's priority comes from its terminal.
func operatorPrecedenceGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder("Op")
	b.LHS("E").N("E").T("+", "+").N("E").Prio(10).Left().End()
	b.LHS("E").N("E").T("*", "*").TermPrio(20).N("E").Prio(20).Left().End()
	b.LHS("E").T("num", "n").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestPriorityResolvesShiftReduce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.automaton")
	defer teardown()

	g := operatorPrecedenceGrammar(t)
	a, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Conflicts) != 0 {
		t.Errorf("expected terminal priority to resolve every shift/reduce conflict, got %d", len(a.Conflicts))
	}
}

func TestMergedStatesShareCores(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.automaton")
	defer teardown()

	g := operatorPrecedenceGrammar(t)
	a, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := make(map[string]bool)
	for _, s := range a.States {
		k := coreKey(s.Items)
		if seen[k] {
			t.Errorf("state %d has a core identical to an earlier surviving state; merge should have unified them", s.ID)
		}
		seen[k] = true
	}
}

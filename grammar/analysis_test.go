package grammar

import "testing"

// list grammar: S -> A B ; A -> "a" A | ε ; B -> "b"
// A is nullable, so FIRST(S) must include both "a" and "b" and FOLLOW(A)
// must include "b" (from B following A) plus nothing else.
func nullableListGrammar(t *testing.T) *Grammar {
	t.Helper()
	b := NewBuilder("List")
	b.LHS("S").N("A").N("B").End()
	b.LHS("A").T("a", "a").N("A").End()
	b.LHS("A").Epsilon()
	b.LHS("B").T("b", "b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

func TestNullable(t *testing.T) {
	g := nullableListGrammar(t)
	an := Analyze(g)
	A := g.SymbolByName("A")
	B := g.SymbolByName("B")
	if !an.Nullable(A) {
		t.Errorf("A should be nullable (A -> ε)")
	}
	if an.Nullable(B) {
		t.Errorf("B should not be nullable")
	}
}

func TestFirstOfSequenceThroughNullable(t *testing.T) {
	g := nullableListGrammar(t)
	an := Analyze(g)
	S := g.SymbolByName("S")
	a := g.SymbolByName("a")
	bTerm := g.SymbolByName("b")
	first := an.First(S)
	if !first.Contains(a) {
		t.Errorf("FIRST(S) must contain \"a\"")
	}
	if !first.Contains(bTerm) {
		t.Errorf("FIRST(S) must contain \"b\" since A is nullable and B follows it")
	}
}

func TestFollowThroughNullableTail(t *testing.T) {
	g := nullableListGrammar(t)
	an := Analyze(g)
	A := g.SymbolByName("A")
	bTerm := g.SymbolByName("b")
	follow := an.Follow(A)
	if !follow.Contains(bTerm) {
		t.Errorf("FOLLOW(A) must contain \"b\" (A is immediately followed by B in S -> A B)")
	}
}

func TestFollowOfStartContainsStop(t *testing.T) {
	g := nullableListGrammar(t)
	an := Analyze(g)
	follow := an.Follow(g.StartPrime)
	if !follow.Contains(g.Stop) {
		t.Errorf("FOLLOW(S′) must contain STOP")
	}
}

func TestUndeclaredNonTerminalRejected(t *testing.T) {
	b := NewBuilder("Bad")
	b.LHS("S").N("Missing").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected an error referencing a non-terminal with no productions")
	}
}

package glrdriver

import (
	"context"
	"testing"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/recognizer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// ambiguousSum builds the textbook `E -> E + E | num` grammar with no
// priority or associativity declared, genuinely ambiguous on any input
// with two or more '+'.
func ambiguousSum(t *testing.T) (*grammar.Grammar, *automaton.Automaton) {
	t.Helper()
	num, err := recognizer.NewRegexp("[0-9]+")
	if err != nil {
		t.Fatalf("compiling regex: %v", err)
	}
	b := grammar.NewBuilder("AmbiguousSum")
	b.LHS("E").N("E").T("+", "+").N("E").End()
	b.LHS("E").TR("num", num).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	a, err := automaton.Build(g)
	if err != nil {
		t.Fatalf("building automaton: %v", err)
	}
	return g, a
}

func TestParseForksOnAmbiguity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.glrdriver")
	defer teardown()

	g, a := ambiguousSum(t)
	p := NewParser(g, a)
	res, err := p.Parse(context.Background(), "1+2+3", "test")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Accepted) != 1 {
		t.Errorf("Parse of a genuinely ambiguous sum accepted %d heads, want 1 (both derivations share the one accepting GSS node; the ambiguity lives in the forest)", len(res.Accepted))
	}
	if res.Forest.Solutions() != 2 {
		t.Errorf("Forest.Solutions() = %d, want 2 (E->(E+E)+E and E->E+(E+E))", res.Forest.Solutions())
	}
}

func TestParseRejectsIllFormedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.glrdriver")
	defer teardown()

	g, a := ambiguousSum(t)
	p := NewParser(g, a)
	if _, err := p.Parse(context.Background(), "1++2", "test"); err == nil {
		t.Errorf("expected an error parsing \"1++2\"")
	}
}

func TestWithErrorHookSuppressesError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.glrdriver")
	defer teardown()

	g, a := ambiguousSum(t)
	called := false
	p := NewParser(g, a, WithErrorHook(func(ctx *glr.Context, err error) bool {
		called = true
		return true
	}))
	res, err := p.Parse(context.Background(), "1++2", "test")
	if err != nil {
		t.Errorf("expected the error hook to suppress the error, got %v", err)
	}
	if res != nil {
		t.Errorf("expected a nil Result when the error hook recovers, got %#v", res)
	}
	if !called {
		t.Errorf("WithErrorHook's hook was never invoked")
	}
}

func TestParseHonorsCancellation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glr.glrdriver")
	defer teardown()

	g, a := ambiguousSum(t)
	p := NewParser(g, a)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Parse(ctx, "1+2+3", "test"); err == nil {
		t.Errorf("expected Parse to observe an already-cancelled context")
	}
}

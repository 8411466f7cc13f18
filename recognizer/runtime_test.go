package recognizer

import (
	"testing"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/grammar"
)

// layoutArithGrammar builds `E -> E "+" E | num` with a declared LAYOUT
// non-terminal matching whitespace and "//"-to-end-of-line comments, so
// layout is consumed by consumeLayoutGrammar's nested parse instead of a
// flat whitespace byte-set.
func layoutArithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	num, err := NewRegexp("[0-9]+")
	if err != nil {
		t.Fatalf("compiling num regex: %v", err)
	}
	ws, err := NewRegexp(`[ \t\r\n]+`)
	if err != nil {
		t.Fatalf("compiling ws regex: %v", err)
	}
	comment, err := NewRegexp("//[^\n]*\n?")
	if err != nil {
		t.Fatalf("compiling comment regex: %v", err)
	}

	b := grammar.NewBuilder("LayoutArith")
	b.UseLayout("LAYOUT")
	b.LHS("E").N("E").T("+", "+").N("E").End()
	b.LHS("E").TR("num", num).End()
	b.LHS("LAYOUT").N("LAYOUT").TR("ws", ws).End()
	b.LHS("LAYOUT").N("LAYOUT").TR("comment", comment).End()
	b.LHS("LAYOUT").Epsilon()

	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return g
}

// TestNextConsumesLineCommentAsLayout exercises the LAYOUT nested parse
// (consumeLayoutGrammar): a "//" line comment between "+" and the next
// number must be consumed as layout, not fail recognition, and the
// resulting token must carry the full layout run (leading/trailing
// whitespace and the comment together) as its LayoutContent.
func TestNextConsumesLineCommentAsLayout(t *testing.T) {
	g := layoutArithGrammar(t)
	a, err := automaton.Build(g)
	if err != nil {
		t.Fatalf("automaton.Build: %v", err)
	}

	input := "1 + // sum\n 2"
	rt := NewRuntime(g, a, input)
	if rt.layoutAutomaton == nil {
		t.Fatalf("NewRuntime did not build a LAYOUT automaton for a grammar declaring LAYOUT")
	}

	ctx := &glr.Context{Input: input}
	state := a.Start

	tok1, err := rt.Next(ctx, state, 0)
	if err != nil {
		t.Fatalf("Next(0): %v", err)
	}
	if len(tok1) != 1 || tok1[0].Lexeme() != "1" {
		t.Fatalf("Next(0) = %v, want token \"1\"", tok1)
	}
	pos := tok1[0].Span().To()

	// After "1" reduces to E the parser is in GOTO(Start, E), a state whose
	// ACTION table accepts "+"; probe the next token from there.
	plusState, ok := a.Goto.Get(a.Start, g.SymbolByName("E"))
	if !ok {
		t.Fatalf("no GOTO(Start, E) entry")
	}
	tok2, err := rt.Next(ctx, plusState, pos)
	if err != nil {
		t.Fatalf("Next(%d): %v", pos, err)
	}
	if len(tok2) != 1 || tok2[0].Lexeme() != "+" {
		t.Fatalf("Next(%d) = %v, want token \"+\"", pos, tok2)
	}
	pos = tok2[0].Span().To()

	cands := a.Actions.Get(plusState, g.SymbolByName("+"))
	if len(cands) != 1 || cands[0].Kind != automaton.Shift {
		t.Fatalf("ACTION[plusState][+] = %v, want a single shift", cands)
	}
	afterPlus := cands[0].Target

	tok3, err := rt.Next(ctx, afterPlus, pos)
	if err != nil {
		t.Fatalf("Next(%d): %v", pos, err)
	}
	if len(tok3) != 1 || tok3[0].Lexeme() != "2" {
		t.Fatalf("Next(%d) = %v, want token \"2\"", pos, tok3)
	}
	if want := " // sum\n "; tok3[0].LayoutContent() != want {
		t.Errorf("LayoutContent() = %q, want %q", tok3[0].LayoutContent(), want)
	}
}

package recognizer

import (
	"github.com/nilspin/glr"
	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/parseerr"
	"github.com/nilspin/glr/symbol"
)

// Runtime is the integrated scanner: given a parse state and
// position it recognizes candidate tokens for terms(state), applies
// lexical disambiguation, and consumes layout ahead of each token.
type Runtime struct {
	G     *grammar.Grammar
	A     *automaton.Automaton
	Input string
	Multi bool // true for the GLR driver: keep all disambiguation survivors instead of erroring

	hook            CustomTokenHook
	wsSet           map[byte]bool
	layoutAutomaton *automaton.Automaton // nil unless G declares LAYOUT and it compiles
}

// NewRuntime creates a token recognizer runtime over input, using a's
// tables to determine terms(state). When g declares a LAYOUT
// non-terminal, a nested automaton is built over it so layout is
// consumed by a real recursive parse rather than a flat whitespace
// byte-set (see consumeLayoutGrammar).
func NewRuntime(g *grammar.Grammar, a *automaton.Automaton, input string) *Runtime {
	rt := &Runtime{
		G:     g,
		A:     a,
		Input: input,
		wsSet: map[byte]bool{' ': true, '\t': true, '\n': true, '\r': true},
	}
	if g.HasLayout {
		lg, err := grammar.LayoutGrammar(g)
		if err != nil {
			tracer().Errorf("building LAYOUT sub-grammar for %q: %v", g.Name, err)
		} else if la, err := automaton.Build(lg); err != nil {
			tracer().Errorf("building LAYOUT automaton for %q: %v", g.Name, err)
		} else {
			rt.layoutAutomaton = la
		}
	}
	return rt
}

// SetCustomTokenHook installs the single override point for recognition
// and disambiguation.
func (rt *Runtime) SetCustomTokenHook(h CustomTokenHook) { rt.hook = h }

// SetWhitespace overrides the fallback whitespace set used when the
// grammar declares no LAYOUT non-terminal.
func (rt *Runtime) SetWhitespace(ws map[byte]bool) { rt.wsSet = ws }

// simpleToken is the concrete glr.Token produced by the recognizer
// runtime.
type simpleToken struct {
	tt      glr.TokType
	lexeme  string
	value   interface{}
	span    glr.Span
	extra   interface{}
	layout  string
}

func (t simpleToken) TokType() glr.TokType        { return t.tt }
func (t simpleToken) Lexeme() string              { return t.lexeme }
func (t simpleToken) Value() interface{}          { return t.value }
func (t simpleToken) Span() glr.Span              { return t.span }
func (t simpleToken) AdditionalData() interface{} { return t.extra }
func (t simpleToken) LayoutContent() string       { return t.layout }

// Next recognizes the next token(s) at pos for the given automaton
// state, after consuming layout. In LR mode (Multi == false) it returns
// exactly one token or an error; in GLR mode it may return several.
func (rt *Runtime) Next(ctx *glr.Context, state int, pos uint64) ([]glr.Token, error) {
	layout, afterLayout := rt.consumeLayout(pos)

	produce := func() []Candidate {
		return disambiguate(rt.recognizeAll(ctx, state, afterLayout))
	}
	var chosen []Candidate
	if rt.hook != nil {
		chosen = rt.hook(ctx, produce)
	} else {
		chosen = produce()
	}

	if len(chosen) == 0 {
		li := parseerr.NewLineIndex(rt.Input)
		line, col := li.LineCol(int(afterLayout))
		terms := rt.A.Actions.Terms(state)
		expectedNames := make([]symbol.Symbol, len(terms))
		copy(expectedNames, terms)
		return nil, &parseerr.ParseError{
			Location:        afterLayout,
			SymbolsExpected: expectedNames,
			Line:            line,
			Column:          col,
		}
	}
	if len(chosen) > 1 && !rt.Multi {
		names := make([]string, len(chosen))
		for i, c := range chosen {
			names[i] = c.TermName
		}
		return nil, &parseerr.DisambiguationError{Position: afterLayout, Candidates: names}
	}

	tokens := make([]glr.Token, len(chosen))
	for i, c := range chosen {
		term := rt.G.SymbolByName(c.TermName)
		tokens[i] = simpleToken{
			tt:     glr.TokType(term),
			lexeme: lexemeOf(c.Value),
			value:  c.Value,
			span:   glr.Span{afterLayout, afterLayout + c.Length},
			extra:  c.AdditionalData,
			layout: layout,
		}
	}
	return tokens, nil
}

func lexemeOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// recognizeAll runs every terminal recognizer acceptable in state at pos
// against the main automaton.
func (rt *Runtime) recognizeAll(ctx *glr.Context, state int, pos uint64) []Candidate {
	return rt.recognizeAllOn(rt.A, ctx, state, pos)
}

// recognizeAllOn runs every terminal recognizer acceptable in state at
// pos against a, parameterized so the same recognition logic drives both
// the main automaton and a nested LAYOUT automaton.
func (rt *Runtime) recognizeAllOn(a *automaton.Automaton, ctx *glr.Context, state int, pos uint64) []Candidate {
	var out []Candidate
	for _, t := range a.Actions.Terms(state) {
		if t == rt.G.Stop {
			if pos >= uint64(len(rt.Input)) {
				out = append(out, Candidate{TermName: "$", Priority: grammar.DefaultPriority, IsString: true,
					RecognizedToken: glr.RecognizedToken{Length: 0}})
			}
			continue
		}
		term := rt.G.Terminal(t)
		if term == nil || term.Recognizer == nil {
			continue
		}
		if rtok, ok := term.Recognizer.Recognize(ctx, rt.Input, pos); ok {
			_, isString := term.Recognizer.(*String)
			out = append(out, Candidate{
				TermName:        term.Name,
				Priority:        term.Priority,
				Prefer:          term.Prefer,
				IsString:        isString,
				Finish:          term.Finish,
				RecognizedToken: rtok,
			})
		}
	}
	return out
}

// disambiguate applies the five-step lexical disambiguation order:
// priority first, then finish, then string-over-regex, then
// longest-match, then the prefer flag. Grounded on parglare's
// tables.py act_order/finish_flags, which precomputes each state's
// finish flags only after its candidate terminals are already sorted by
// priority — finish only short-circuits among candidates that already
// won on priority, it does not override priority itself.
func disambiguate(cands []Candidate) []Candidate {
	if len(cands) <= 1 {
		return cands
	}
	// 1. highest priority
	best := cands[0].Priority
	for _, c := range cands[1:] {
		if c.Priority > best {
			best = c.Priority
		}
	}
	cands = filterCand(cands, func(c Candidate) bool { return c.Priority == best })
	if len(cands) <= 1 {
		return cands
	}
	for _, c := range cands {
		if c.Finish {
			return []Candidate{c}
		}
	}
	// 2. string over regex
	anyString := false
	for _, c := range cands {
		if c.IsString {
			anyString = true
			break
		}
	}
	if anyString {
		cands = filterCand(cands, func(c Candidate) bool { return c.IsString })
	}
	if len(cands) <= 1 {
		return cands
	}
	// 3. longest match
	longest := cands[0].Length
	for _, c := range cands[1:] {
		if c.Length > longest {
			longest = c.Length
		}
	}
	cands = filterCand(cands, func(c Candidate) bool { return c.Length == longest })
	if len(cands) <= 1 {
		return cands
	}
	// 4. prefer flag
	anyPrefer := false
	for _, c := range cands {
		if c.Prefer {
			anyPrefer = true
			break
		}
	}
	if anyPrefer {
		cands = filterCand(cands, func(c Candidate) bool { return c.Prefer })
	}
	return cands
}

func filterCand(in []Candidate, keep func(Candidate) bool) []Candidate {
	out := in[:0:0]
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}

// consumeLayout advances past layout starting at pos, and returns the
// consumed text and the resulting position. When the grammar declares
// LAYOUT and its nested automaton compiled, layout is recognized by a
// recursive inner parse over the LAYOUT sub-grammar (consumeLayoutGrammar);
// otherwise it falls back to skipping a flat whitespace byte-set.
func (rt *Runtime) consumeLayout(pos uint64) (string, uint64) {
	if rt.G.HasLayout && rt.layoutAutomaton != nil {
		return rt.consumeLayoutGrammar(pos)
	}
	start := pos
	for pos < uint64(len(rt.Input)) && rt.wsSet[rt.Input[pos]] {
		pos++
	}
	return rt.Input[start:pos], pos
}

// layoutToken recognizes a single terminal legal in state at pos against
// the LAYOUT sub-automaton. It never consults consumeLayout itself (that
// would recurse), and never errors: no recognizable layout terminal at
// pos is the ordinary way a layout parse ends.
func (rt *Runtime) layoutToken(state int, pos uint64) (glr.Token, bool) {
	ctx := &glr.Context{Input: rt.Input, StartPosition: pos}
	chosen := disambiguate(rt.recognizeAllOn(rt.layoutAutomaton, ctx, state, pos))
	if len(chosen) == 0 {
		return nil, false
	}
	c := chosen[0]
	term := rt.G.SymbolByName(c.TermName)
	return simpleToken{
		tt:    glr.TokType(term),
		value: c.Value,
		span:  glr.Span{pos, pos + c.Length},
	}, true
}

// consumeLayoutGrammar drives a shift/reduce loop over the LAYOUT
// sub-automaton starting at pos, exactly like the deterministic driver's
// own loop but discarding the parse tree — only the span consumed
// matters here. Reaching a state where no further layout terminal is
// recognized ends the loop; that is the expected, common case, not an
// error, since layout is optional and must never fail the surrounding
// parse.
func (rt *Runtime) consumeLayoutGrammar(pos uint64) (string, uint64) {
	start := pos
	a := rt.layoutAutomaton
	stack := []int{a.Start}
	for {
		top := stack[len(stack)-1]
		tok, ok := rt.layoutToken(top, pos)
		if !ok {
			break
		}
		cands := a.Actions.Get(top, symbol.Symbol(tok.TokType()))
		if len(cands) == 0 {
			break
		}
		switch act := cands[0]; act.Kind {
		case automaton.Shift:
			stack = append(stack, act.Target)
			pos = tok.Span().To()
		case automaton.Reduce:
			n := len(act.Prod.Rhs)
			stack = stack[:len(stack)-n]
			target, ok := a.Goto.Get(stack[len(stack)-1], act.Prod.LHS)
			if !ok {
				return rt.Input[start:pos], pos
			}
			stack = append(stack, target)
		default: // Accept
			return rt.Input[start:pos], pos
		}
	}
	return rt.Input[start:pos], pos
}

/*
Package lrdriver implements the deterministic LR driver: a
shift/reduce loop over an automaton.Automaton's ACTION/GOTO tables,
driven by a recognizer.Runtime for scannerless tokenization, building
an sppf.Forest incrementally.

The stack/reduce shape is grounded on gorgo's lr/slr/slr.go
Parser.Parse loop, generalized from a single-candidate ACTION cell to
one that may need a DynamicFilter to break a tie left open by static
resolution, and rewired onto the scannerless recognizer.Runtime instead
of a pre-tokenizing scanner.Tokenizer.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lrdriver

import (
	"fmt"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/parseerr"
	"github.com/nilspin/glr/recognizer"
	"github.com/nilspin/glr/sppf"
	"github.com/nilspin/glr/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glr.lrdriver'.
func tracer() tracing.Trace {
	return tracing.Select("glr.lrdriver")
}

// stackitem mirrors gorgo's slr.stackitem: a parsed state paired
// with the grammar symbol and forest node it carries.
type stackitem struct {
	state int
	sym   symbol.Symbol
	node  *sppf.SymbolNode
}

// Parser is a deterministic LR(1) driver over a merged automaton.
type Parser struct {
	G     *grammar.Grammar
	A     *automaton.Automaton
	stack []stackitem

	DynamicFilter glr.DynamicFilter
	ErrorHook     glr.ErrorHook
}

// Option configures a Parser at construction time, mirroring the
// gorgo's scanner.Option pattern (lr/scanner/scanner.go's
// SkipComments/UnifyStrings closures over *DefaultTokenizer).
type Option func(*Parser)

// WithDynamicFilter installs the dynamic disambiguation predicate
// consulted whenever static resolution leaves more than one candidate
// action in a table cell.
func WithDynamicFilter(f glr.DynamicFilter) Option {
	return func(p *Parser) { p.DynamicFilter = f }
}

// WithErrorHook installs the recoverable-error hook.
func WithErrorHook(h glr.ErrorHook) Option {
	return func(p *Parser) { p.ErrorHook = h }
}

// NewParser creates an LR driver for grammar g using automaton a. It
// returns an error if a still carries unresolved conflicts a
// deterministic driver cannot arbitrate without a DynamicFilter.
func NewParser(g *grammar.Grammar, a *automaton.Automaton, opts ...Option) (*Parser, error) {
	for _, c := range a.Conflicts {
		hasDynamic := false
		for _, act := range c.Actions {
			if act.Kind == automaton.Reduce && act.Prod.Dynamic {
				hasDynamic = true
			}
		}
		if !hasDynamic {
			return nil, &parseerr.GrammarError{Grammar: g.Name,
				Reason: fmt.Sprintf("unresolved conflict in state %d on %s", c.State, g.Symbols.Name(c.Term))}
		}
	}
	p := &Parser{G: g, A: a, stack: make([]stackitem, 0, 512)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result is the outcome of a successful deterministic parse.
type Result struct {
	Forest *sppf.Forest
	Root   *sppf.SymbolNode
}

// Parse runs the shift/reduce loop over input from the automaton's
// start state, building a shared packed parse forest as it goes (
// in-line build mode; every node happens to have exactly one packed
// alternative in the deterministic case, but building via the same
// sppf.Forest keeps the driver and the GLR driver's downstream tooling
// uniform).
func (p *Parser) Parse(input string, fileName string) (*Result, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	forest := sppf.NewForest()
	rt := recognizer.NewRuntime(p.G, p.A, input)

	p.stack = p.stack[:0]
	p.stack = append(p.stack, stackitem{state: p.A.Start})

	ctx := &glr.Context{Input: input, FileName: fileName, Parser: p}
	if p.DynamicFilter != nil {
		p.DynamicFilter(nil, 0, 0, "", nil, nil)
	}
	var pos uint64
	tok, err := p.next(rt, ctx, p.A.Start, pos)
	if err != nil {
		pos, tok, err = p.recover(rt, ctx, p.A.Start, pos, err)
		if err != nil {
			return nil, err
		}
	}

	for {
		top := p.stack[len(p.stack)-1]
		cands := p.A.Actions.Get(top.state, symbol.Symbol(tok.TokType()))
		if len(cands) == 0 {
			cause := p.errorAt(rt, top.state, tok)
			pos, tok, err = p.recover(rt, ctx, top.state, tok.Span().From(), cause)
			if err != nil {
				return nil, err
			}
			continue
		}
		action, err := p.pick(ctx, top.state, cands)
		if err != nil {
			// A dynamic-filter/grammar-shape failure, not a recoverable
			// parse-time error: no resume position would fix it.
			return nil, err
		}

		switch action.Kind {
		case automaton.Accept:
			// The stack top is the shifted STOP marker; the node one
			// below it carries the accepted start symbol S.
			root := p.stack[len(p.stack)-2].node
			forest.SetRoot(root)
			return &Result{Forest: forest, Root: root}, nil

		case automaton.Shift:
			span := tok.Span()
			node := forest.AddTerminal(symbol.Symbol(tok.TokType()), span.From(), span.To(), tok.Value())
			p.stack = append(p.stack, stackitem{state: action.Target, sym: symbol.Symbol(tok.TokType()), node: node})
			pos = span.To()
			tok, err = p.next(rt, ctx, action.Target, pos)
			if err != nil {
				pos, tok, err = p.recover(rt, ctx, action.Target, pos, err)
				if err != nil {
					return nil, err
				}
			}

		case automaton.Reduce:
			nextstate, node := p.reduce(ctx, forest, action.Prod, pos)
			p.stack = append(p.stack, stackitem{state: nextstate, sym: action.Prod.LHS, node: node})
		}
	}
}

// recover implements bounded skip-forward error recovery: it consults
// ErrorHook, and if the hook reports the context has been mutated into
// a recoverable state, resumes scanning at ctx.RecoverAt (if the hook
// set one) or otherwise one input byte past pos, advancing further one
// byte at a time until state accepts a token or the input is exhausted.
// Position strictly increases on every iteration, so recovery always
// terminates. Grounded on parglare's default error-recovery pass
// (glr.py's _do_recovery/default_error_recovery), which likewise
// advances position past an unrecognized run of input and lets the
// affected head resume from there rather than aborting the parse.
// Never returns (0, nil, nil); a failed or declined recovery always
// carries cause (or a wrapped form of it) as a non-nil error.
func (p *Parser) recover(rt *recognizer.Runtime, ctx *glr.Context, state int, pos uint64, cause error) (uint64, glr.Token, error) {
	if p.ErrorHook == nil || !p.ErrorHook(ctx, cause) {
		return 0, nil, cause
	}
	start := pos + 1
	if ctx.RecoverAt != nil {
		start = *ctx.RecoverAt
		ctx.RecoverAt = nil
	}
	for at := start; at <= uint64(len(rt.Input)); at++ {
		tok, err := p.next(rt, ctx, state, at)
		if err == nil {
			tracer().Infof("recovered at position %d", at)
			return at, tok, nil
		}
	}
	return 0, nil, cause
}

func (p *Parser) next(rt *recognizer.Runtime, ctx *glr.Context, state int, pos uint64) (glr.Token, error) {
	toks, err := rt.Next(ctx, state, pos)
	if err != nil {
		return nil, err
	}
	return toks[0], nil
}

// pick resolves a table cell that may still carry a dynamic-tagged
// ambiguity by consulting the installed DynamicFilter;
// a cell with more than one survivor and no filter is a build-time
// error the driver cannot proceed past.
func (p *Parser) pick(ctx *glr.Context, state int, cands []automaton.Action) (automaton.Action, error) {
	if len(cands) == 1 {
		return cands[0], nil
	}
	if p.DynamicFilter == nil {
		return automaton.Action{}, &parseerr.GrammarError{Grammar: p.G.Name,
			Reason: fmt.Sprintf("unresolved dynamic conflict in state %d with no DynamicFilter installed", state)}
	}
	for _, c := range cands {
		var prod interface{}
		if c.Kind == automaton.Reduce {
			prod = c.Prod
		}
		if p.DynamicFilter(ctx, state, c.Target, c.Kind.String(), prod, nil) {
			return c, nil
		}
	}
	return automaton.Action{}, &parseerr.GrammarError{Grammar: p.G.Name,
		Reason: fmt.Sprintf("dynamic filter rejected every candidate in state %d", state)}
}

// reduce mirrors gorgo's slr.Parser.reduce: pop len(RHS) stack
// entries, look up GOTO on the exposed state, and record the packed
// alternative in the forest. When the grammar registers an action for
// this production, it runs here, immediately, over the children's
// already-computed values — Grammar.Actions' in-line build mode.
func (p *Parser) reduce(ctx *glr.Context, forest *sppf.Forest, prod *grammar.Production, pos uint64) (int, *sppf.SymbolNode) {
	tracer().Infof("reduce %v", prod)
	n := len(prod.RHS())
	children := make([]*sppf.SymbolNode, n)
	for i := n - 1; i >= 0; i-- {
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		children[i] = top.node
	}
	exposed := p.stack[len(p.stack)-1]
	nextstate, ok := p.A.Goto.Get(exposed.state, prod.LHS)
	if !ok {
		tracer().Errorf("no GOTO(%d, %d)", exposed.state, prod.LHS)
	}
	var node *sppf.SymbolNode
	if n == 0 {
		node = forest.AddEmptyReduction(prod, pos)
	} else {
		node = forest.AddReduction(prod, children)
	}
	if fn, ok := p.G.Actions[prod.ID]; ok {
		values := make([]interface{}, len(children))
		for i, c := range children {
			values[i] = c.Value
		}
		ctx.Production = prod
		node.Value = fn(ctx, values)
	}
	return nextstate, node
}

func (p *Parser) errorAt(rt *recognizer.Runtime, state int, tok glr.Token) error {
	li := parseerr.NewLineIndex(rt.Input)
	line, col := li.LineCol(int(tok.Span().From()))
	return &parseerr.ParseError{
		Location:        tok.Span().From(),
		SymbolsExpected: p.A.Actions.Terms(state),
		TokensAhead:     []string{tok.Lexeme()},
		Line:            line,
		Column:          col,
	}
}

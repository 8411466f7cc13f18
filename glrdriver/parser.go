/*
Package glrdriver implements the generalized LR driver: a
frontier algorithm over a Graph-Structured Stack that forks on
non-determinism instead of failing, and builds a Shared Packed Parse
Forest as its semantic result.

gorgo's lr/glr package retains only a test file exercising a
glr.NewParser(g, goto, action)/p.Parse(cfsm.S0, scanner) call contract;
the GSS-driven frontier algorithm itself is missing from the retrieved
snapshot and is authored fresh against that contract and against
package gss, reusing the scannerless recognizer.Runtime of package
recognizer in its multi-candidate mode.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glrdriver

import (
	"context"
	"fmt"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/gss"
	"github.com/nilspin/glr/parseerr"
	"github.com/nilspin/glr/recognizer"
	"github.com/nilspin/glr/sppf"
	"github.com/nilspin/glr/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glr.glrdriver'.
func tracer() tracing.Trace {
	return tracing.Select("glr.glrdriver")
}

// Parser is a generalized LR driver over a (possibly conflicted)
// automaton.
type Parser struct {
	G *grammar.Grammar
	A *automaton.Automaton

	DynamicFilter glr.DynamicFilter
	ErrorHook     glr.ErrorHook
}

// Option configures a Parser at construction time, mirroring the
// gorgo's scanner.Option pattern (lr/scanner/scanner.go's
// SkipComments/UnifyStrings closures over *DefaultTokenizer).
type Option func(*Parser)

// WithDynamicFilter installs the dynamic disambiguation predicate
// consulted for every candidate action that reduces a production marked
// dynamic or is taken on a terminal marked dynamic.
func WithDynamicFilter(f glr.DynamicFilter) Option {
	return func(p *Parser) { p.DynamicFilter = f }
}

// WithErrorHook installs the recoverable-error hook.
func WithErrorHook(h glr.ErrorHook) Option {
	return func(p *Parser) { p.ErrorHook = h }
}

// NewParser creates a GLR driver for grammar g using automaton a.
// Unlike lrdriver.NewParser, unresolved conflicts are not rejected:
// forking on them is exactly what the GLR driver is for.
func NewParser(g *grammar.Grammar, a *automaton.Automaton, opts ...Option) *Parser {
	p := &Parser{G: g, A: a}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of a successful GLR parse: the shared forest,
// every GSS head that reached an accepting state (the forest is the
// union of SPPF roots from the accepted heads), and the full GSS
// graph the run built, kept for `glrc trace`-style post-mortem
// rendering.
type Result struct {
	Forest   *sppf.Forest
	Accepted []*gss.Node
	Graph    *gss.Graph
}

type pending struct {
	node *gss.Node
	tok  glr.Token
}

type shiftItem struct {
	node   *gss.Node
	target int
	tok    glr.Token
}

type tokenCacheKey struct {
	state int
	pos   uint64
}

// Parse drives the frontier algorithm to completion over input. Token
// lengths need not be uniform across a frontier's heads (a scannerless
// grammar's lexical forks may match different lengths); frontiers are
// therefore generalized from a single shared cursor to a queue of
// per-position head sets, processed in increasing position order —
// heads that land at the same position as an existing, not yet
// processed frontier merge into it, exactly recovering the classical
// single-cursor algorithm whenever token lengths agree.
func (p *Parser) Parse(ctx context.Context, input, fileName string) (*Result, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	forest := sppf.NewForest()
	graph := gss.New()
	rt := recognizer.NewRuntime(p.G, p.A, input)
	rt.Multi = true

	start, _ := graph.GetOrCreate(p.A.Start, 0)
	frontier := map[uint64][]*gss.Node{0: {start}}
	tokenCache := map[tokenCacheKey][]glr.Token{}
	gctx := &glr.Context{Input: input, FileName: fileName, Parser: p}

	if p.DynamicFilter != nil {
		p.DynamicFilter(nil, 0, 0, "", nil, nil)
	}

	recognizeAt := func(state int, pos uint64) []glr.Token {
		key := tokenCacheKey{state, pos}
		if toks, ok := tokenCache[key]; ok {
			return toks
		}
		toks, err := rt.Next(gctx, state, pos)
		if err != nil {
			tokenCache[key] = nil
			return nil
		}
		tokenCache[key] = toks
		return toks
	}

	var accepted []*gss.Node

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pos := minPos(frontier)
		nodes := frontier[pos]
		delete(frontier, pos)

		var forReducer []pending
		for _, n := range nodes {
			for _, t := range recognizeAt(n.State, pos) {
				forReducer = append(forReducer, pending{n, t})
			}
		}

		var forShifter []shiftItem

		enqueue := func(n *gss.Node) {
			for _, t := range recognizeAt(n.State, pos) {
				forReducer = append(forReducer, pending{n, t})
			}
		}

		for len(forReducer) > 0 {
			item := forReducer[len(forReducer)-1]
			forReducer = forReducer[:len(forReducer)-1]

			cands := p.A.Actions.Get(item.node.State, symbol.Symbol(item.tok.TokType()))
			for _, action := range cands {
				if !p.allow(gctx, item.node.State, symbol.Symbol(item.tok.TokType()), action) {
					continue
				}
				switch action.Kind {
				case automaton.Accept:
					accepted = append(accepted, item.node)
				case automaton.Shift:
					forShifter = append(forShifter, shiftItem{item.node, action.Target, item.tok})
				case automaton.Reduce:
					p.reduce(graph, forest, item.node, action.Prod, pos, enqueue)
				}
			}
		}

		for _, s := range forShifter {
			span := s.tok.Span()
			newPos := span.To()
			newNode, _ := graph.GetOrCreate(s.target, newPos)
			termNode := forest.AddTerminal(symbol.Symbol(s.tok.TokType()), span.From(), span.To(), s.tok.Value())
			newNode.AddLink(s.node, symbol.Symbol(s.tok.TokType()), termNode)
			frontier[newPos] = appendUniqueNode(frontier[newPos], newNode)
		}
	}

	if len(accepted) == 0 {
		cause := &parseerr.ParseError{Grammar: p.G.Name}
		if p.ErrorHook != nil && p.ErrorHook(gctx, cause) {
			// Unlike lrdriver's single cursor, the frontier algorithm has
			// no live head left to resume from once every head has died —
			// there is nothing a caller-supplied resume position could
			// restart. The hook's "recoverable" verdict is still surfaced,
			// wrapping the original cause, rather than masked as (nil, nil).
			return nil, fmt.Errorf("glrdriver: every GSS head died before reaching an accepting state; ErrorHook reported the context as recoverable, but the frontier has nothing left to resume: %w", cause)
		}
		return nil, cause
	}
	var root *sppf.SymbolNode
	for _, head := range accepted {
		if r := extractRoot(head, p.G.Start); r != nil {
			root = r
			break
		}
	}
	forest.SetRoot(root)
	return &Result{Forest: forest, Accepted: accepted, Graph: graph}, nil
}

// reduce applies REDUCE(p) for every path of length |p.rhs| through the
// GSS reachable from head, enqueueing newly created or
// newly linked GOTO targets for further reduction via enqueue.
func (p *Parser) reduce(graph *gss.Graph, forest *sppf.Forest, head *gss.Node, prod *grammar.Production, pos uint64, enqueue func(*gss.Node)) {
	n := len(prod.RHS())
	if n == 0 {
		p.applyReduction(graph, forest, head, head, prod, nil, pos, enqueue)
		return
	}
	for _, path := range gss.AllPaths(head, n) {
		pathEnd := path[0].Node
		children := make([]*sppf.SymbolNode, len(path))
		for i, step := range path {
			children[i] = step.Result
		}
		if !pathEnd.MarkReduced(prod.ID, gss.PathSignature(children)) {
			continue
		}
		p.applyReduction(graph, forest, head, pathEnd, prod, children, pos, enqueue)
	}
}

func (p *Parser) applyReduction(graph *gss.Graph, forest *sppf.Forest, head, pathEnd *gss.Node, prod *grammar.Production, children []*sppf.SymbolNode, pos uint64, enqueue func(*gss.Node)) {
	var node *sppf.SymbolNode
	if len(children) == 0 {
		node = forest.AddEmptyReduction(prod, pos)
	} else {
		node = forest.AddReduction(prod, children)
	}
	target, ok := p.A.Goto.Get(pathEnd.State, prod.LHS)
	if !ok {
		tracer().Errorf("no GOTO(%d, %d) for reduction of production %d", pathEnd.State, prod.LHS, prod.ID)
		return
	}
	newNode, created := graph.GetOrCreate(target, pos)
	linkIsNew := newNode.AddLink(pathEnd, prod.LHS, node)
	if created {
		// A newly created GSS node has no reductions run against it yet.
		enqueue(newNode)
	} else if linkIsNew {
		// A new link may open reduction paths through pathEnd that
		// didn't exist before; MarkReduced on pathEnd already prevents
		// redoing identical reduction work, so re-enqueuing newNode
		// wholesale is safe and idempotent.
		enqueue(newNode)
	}
}

// allow applies the dynamic disambiguation hook to a candidate action
// taken on terminal term, passing it through unfiltered when neither the
// production nor term is marked dynamic.
func (p *Parser) allow(ctx *glr.Context, fromState int, term symbol.Symbol, action automaton.Action) bool {
	dynamic := action.Kind == automaton.Reduce && action.Prod.Dynamic
	if t := p.G.Terminal(term); t != nil && t.Dynamic {
		dynamic = true
	}
	if !dynamic || p.DynamicFilter == nil {
		return true
	}
	return p.DynamicFilter(ctx, fromState, action.Target, action.Kind.String(), action.Prod, nil)
}

// extractRoot walks back from an accepting head (which was reached by
// shifting the STOP terminal) to the node carrying the accepted start
// symbol's SPPF node.
func extractRoot(head *gss.Node, start symbol.Symbol) *sppf.SymbolNode {
	for _, l := range head.Links() {
		for _, l2 := range l.Parent.Links() {
			if l2.Symbol == start {
				return l2.Result
			}
		}
	}
	return nil
}

func minPos(frontier map[uint64][]*gss.Node) uint64 {
	first := true
	var min uint64
	for pos := range frontier {
		if first || pos < min {
			min, first = pos, false
		}
	}
	return min
}

func appendUniqueNode(nodes []*gss.Node, n *gss.Node) []*gss.Node {
	for _, existing := range nodes {
		if existing == n {
			return nodes
		}
	}
	return append(nodes, n)
}

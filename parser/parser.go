/*
Package parser is the façade wiring the Grammar IR, the automaton
builder, the scannerless recognizer runtime and both drivers (C1–C7)
into a single easy-to-use entry point, so a caller builds a grammar with
grammar.Builder and gets a runnable parser without touching automaton,
recognizer, lrdriver or glrdriver directly.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package parser

import (
	"context"

	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/glrdriver"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/lrdriver"
	"github.com/nilspin/glr/sppf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glr.parser'.
func tracer() tracing.Trace {
	return tracing.Select("glr.parser")
}

// Parser wraps a compiled grammar+automaton pair and hands out
// deterministic (LR) or generalized (GLR) parse runs over it.
type Parser struct {
	G *grammar.Grammar
	A *automaton.Automaton
}

// Compile builds the LR(1) automaton for g and returns a Parser ready to
// drive either an LR or a GLR parse over it.
func Compile(g *grammar.Grammar, opts ...automaton.Option) (*Parser, error) {
	a, err := automaton.Build(g, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Infof("compiled grammar %q: %d states, %d conflicts", g.Name, len(a.States), len(a.Conflicts))
	return &Parser{G: g, A: a}, nil
}

// Deterministic reports whether the compiled automaton has no
// unresolved conflicts left for a DynamicFilter to arbitrate.
func (p *Parser) Deterministic() bool {
	return len(p.A.Conflicts) == 0
}

// LR returns a deterministic driver over this Parser's grammar and
// automaton. Building one fails if the automaton still carries an
// unresolved conflict none of whose candidates reduces a production
// marked dynamic, whether or not a WithDynamicFilter option is given.
func (p *Parser) LR(opts ...lrdriver.Option) (*lrdriver.Parser, error) {
	return lrdriver.NewParser(p.G, p.A, opts...)
}

// GLR returns a generalized driver over this Parser's grammar and
// automaton. Unlike LR, it never rejects unresolved conflicts: forking
// on them is what GLR is for.
func (p *Parser) GLR(opts ...glrdriver.Option) *glrdriver.Parser {
	return glrdriver.NewParser(p.G, p.A, opts...)
}

// Parse runs a single deterministic parse of input, building an
// sppf.Forest. It is a convenience wrapper around LR().Parse for
// callers that don't need to hold onto the driver (e.g. to reuse a
// DynamicFilter's internal state across parses).
func (p *Parser) Parse(input, fileName string, opts ...lrdriver.Option) (*sppf.Forest, *sppf.SymbolNode, error) {
	drv, err := p.LR(opts...)
	if err != nil {
		return nil, nil, err
	}
	res, err := drv.Parse(input, fileName)
	if err != nil {
		return nil, nil, err
	}
	return res.Forest, res.Root, nil
}

// ParseGLR runs a generalized parse of input, returning every solution
// as one shared forest and the set of GSS heads that reached ACCEPT.
func (p *Parser) ParseGLR(ctx context.Context, input, fileName string, opts ...glrdriver.Option) (*glrdriver.Result, error) {
	drv := p.GLR(opts...)
	return drv.Parse(ctx, input, fileName)
}

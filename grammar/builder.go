package grammar

import (
	"fmt"
	"strings"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/action"
	"github.com/nilspin/glr/symbol"
)

// literalRecognizer is the trivial string-match recognizer used when a
// terminal is declared with a bare literal via T(name, literal). Richer
// recognizers (regex, custom) are attached with TR and normally come
// from package recognizer.
type literalRecognizer struct {
	literal string
	keyword bool
}

func (r literalRecognizer) Recognize(ctx *glr.Context, input string, pos uint64) (glr.RecognizedToken, bool) {
	if !strings.HasPrefix(input[pos:], r.literal) {
		return glr.RecognizedToken{}, false
	}
	end := pos + uint64(len(r.literal))
	if r.keyword && end < uint64(len(input)) && isWordByte(input[end]) {
		return glr.RecognizedToken{}, false
	}
	return glr.RecognizedToken{Length: uint64(len(r.literal)), Value: r.literal}, true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Builder is a fluent, in-process constructor for a Grammar value.
//
//	b := grammar.NewBuilder("G")
//	b.LHS("S").N("A").T("-", "-").End()
//	b.LHS("A").T("a", "a").End()
//	g, err := b.Grammar()
type Builder struct {
	name        string
	symbols     *symbol.Table
	terminals   map[symbol.Symbol]*Terminal
	productions []*Production
	actions     map[int]action.Func
	startName   string
	layoutName  string
	err         error
}

// NewBuilder creates an empty grammar builder named name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:      name,
		symbols:   symbol.NewTable(),
		terminals: make(map[symbol.Symbol]*Terminal),
		actions:   make(map[int]action.Func),
	}
}

// UseLayout declares the non-terminal named layoutName as the LAYOUT
// sub-grammar.
func (b *Builder) UseLayout(layoutName string) *Builder {
	b.layoutName = layoutName
	return b
}

// ProductionBuilder accumulates the right-hand side of one production
// before End() commits it to the owning Builder.
type ProductionBuilder struct {
	b        *Builder
	lhs      string
	rhs      []symbol.Symbol
	prior    int
	assoc    Assoc
	dyn      bool
	nops     bool
	nopse    bool
	meta     map[string]interface{}
	action   action.Func
	lastTerm symbol.Symbol // most recent T/TR/Keyword reference, for Term* modifiers
}

// LHS starts a new production for the non-terminal named name. The first
// LHS call in a builder implicitly declares name as the grammar's start
// symbol.
func (b *Builder) LHS(name string) *ProductionBuilder {
	if b.startName == "" {
		b.startName = name
	}
	return &ProductionBuilder{b: b, lhs: name, prior: DefaultPriority}
}

// N appends a non-terminal reference to the right-hand side.
func (pb *ProductionBuilder) N(name string) *ProductionBuilder {
	pb.rhs = append(pb.rhs, pb.b.symbols.InternNonTerminal(name))
	return pb
}

// T appends a terminal reference matched by literal string, declaring
// the terminal on first use.
func (pb *ProductionBuilder) T(name, literal string) *ProductionBuilder {
	pb.termRef(name, literalRecognizer{literal: literal})
	return pb
}

// Keyword appends a terminal reference matched by literal string with
// word-boundary enforcement.
func (pb *ProductionBuilder) Keyword(name, literal string) *ProductionBuilder {
	pb.termRef(name, literalRecognizer{literal: literal, keyword: true})
	return pb
}

// TR appends a terminal reference using a caller-supplied recognizer
// (typically from package recognizer), declaring the terminal on first
// use.
func (pb *ProductionBuilder) TR(name string, rec glr.Recognizer) *ProductionBuilder {
	pb.termRef(name, rec)
	return pb
}

func (pb *ProductionBuilder) termRef(name string, rec glr.Recognizer) {
	s, existed := pb.b.symbols.Lookup(name)
	if !existed {
		s = pb.b.symbols.Intern(name)
		pb.b.terminals[s] = &Terminal{
			Sym:        s,
			Name:       name,
			Recognizer: rec,
			Priority:   DefaultPriority,
		}
	}
	pb.rhs = append(pb.rhs, s)
	pb.lastTerm = s
}

// TermPrio sets the lexical priority of the terminal most recently
// appended to this production's right-hand side by T, TR or Keyword
// ( per-terminal priority,'s "keep only the matches with
// the highest terminal priority"). The setting is shared by every
// production referencing the same terminal name, since priority is a
// property of the terminal, not of one occurrence of it.
func (pb *ProductionBuilder) TermPrio(p int) *ProductionBuilder {
	if t, ok := pb.b.terminals[pb.lastTerm]; ok {
		t.Priority = p
	}
	return pb
}

// TermPrefer marks the most recently appended terminal as "prefer"
// ( lexical tie-break: a match from a prefer-flagged terminal
// wins over an equal-length, equal-priority match from one that isn't).
func (pb *ProductionBuilder) TermPrefer() *ProductionBuilder {
	if t, ok := pb.b.terminals[pb.lastTerm]; ok {
		t.Prefer = true
	}
	return pb
}

// TermDynamic marks the most recently appended terminal for dynamic
// lexical disambiguation.
func (pb *ProductionBuilder) TermDynamic() *ProductionBuilder {
	if t, ok := pb.b.terminals[pb.lastTerm]; ok {
		t.Dynamic = true
	}
	return pb
}

// TermFinish marks the most recently appended terminal as short-
// circuiting: among the candidates left after the priority step, a match
// against it ends lexical disambiguation at that position, skipping the
// string-over-regex, longest-match and prefer steps. It does not override
// a higher-priority candidate.
func (pb *ProductionBuilder) TermFinish() *ProductionBuilder {
	if t, ok := pb.b.terminals[pb.lastTerm]; ok {
		t.Finish = true
	}
	return pb
}

// Prio sets this production's priority (default DefaultPriority).
func (pb *ProductionBuilder) Prio(p int) *ProductionBuilder { pb.prior = p; return pb }

// Left marks this production left-associative.
func (pb *ProductionBuilder) Left() *ProductionBuilder { pb.assoc = AssocLeft; return pb }

// Right marks this production right-associative.
func (pb *ProductionBuilder) Right() *ProductionBuilder { pb.assoc = AssocRight; return pb }

// Dynamic marks this production for dynamic disambiguation.
func (pb *ProductionBuilder) Dynamic() *ProductionBuilder { pb.dyn = true; return pb }

// Nops disables the parser-wide prefer_shifts policy for this production.
func (pb *ProductionBuilder) Nops() *ProductionBuilder { pb.nops = true; return pb }

// Nopse disables the parser-wide prefer_shifts_over_empty policy for
// this production.
func (pb *ProductionBuilder) Nopse() *ProductionBuilder { pb.nopse = true; return pb }

// Meta attaches a scalar metadata value keyed by id.
func (pb *ProductionBuilder) Meta(id string, v interface{}) *ProductionBuilder {
	if pb.meta == nil {
		pb.meta = make(map[string]interface{})
	}
	pb.meta[id] = v
	return pb
}

// Action registers fn as this production's in-line reduction action
//, invoked by lrdriver when this production reduces.
func (pb *ProductionBuilder) Action(fn action.Func) *ProductionBuilder {
	pb.action = fn
	return pb
}

// End commits the accumulated right-hand side as a new production and
// returns it.
func (pb *ProductionBuilder) End() *Production {
	lhs := pb.b.symbols.InternNonTerminal(pb.lhs)
	p := &Production{
		ID:      len(pb.b.productions),
		LHS:     lhs,
		Rhs:     pb.rhs,
		Prior:   pb.prior,
		Assoc:   pb.assoc,
		Dynamic: pb.dyn,
		Nops:    pb.nops,
		Nopse:   pb.nopse,
		Meta:    pb.meta,
	}
	pb.b.productions = append(pb.b.productions, p)
	if pb.action != nil {
		pb.b.actions[p.ID] = pb.action
	}
	return p
}

// Epsilon commits an empty production ("N -> ε").
func (pb *ProductionBuilder) Epsilon() *Production {
	return pb.End()
}

// Grammar finalizes the builder: it adds the augmented start production
// `S′ -> S STOP`, checks the invariants, and returns the built
// Grammar.
func (b *Builder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.startName == "" {
		return nil, fmt.Errorf("grammar %q: no productions declared", b.name)
	}
	start := b.symbols.InternNonTerminal(b.startName)
	stop := b.symbols.EOF()
	startPrime := b.symbols.Start(b.startName)

	augmented := &Production{
		ID:  0,
		LHS: startPrime,
		Rhs: []symbol.Symbol{start, stop},
	}
	productions := append([]*Production{augmented}, b.productions...)
	for i, p := range productions {
		p.ID = i
	}
	// b.actions was keyed by the pre-augmentation index (each production's
	// position within b.productions); after prepending the augmented
	// production every ID shifts up by one.
	actions := make(map[int]action.Func, len(b.actions))
	for oldID, fn := range b.actions {
		actions[oldID+1] = fn
	}

	g := &Grammar{
		Name:        b.name,
		Symbols:     b.symbols,
		Terminals:   b.terminals,
		Productions: productions,
		Actions:     actions,
		byLHS:       make(map[symbol.Symbol][]*Production),
		Start:       start,
		StartPrime:  startPrime,
		Stop:        stop,
	}
	if b.layoutName != "" {
		g.Layout = b.symbols.InternNonTerminal(b.layoutName)
		g.HasLayout = true
	}
	for _, p := range productions {
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], p)
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validate checks the Grammar IR invariants that can be checked
// structurally and reports a violation, such as an undeclared symbol, as
// a plain error. Unreachable productions and ε-cycles are not checked,
// here or during automaton construction.
func validate(g *Grammar) error {
	for _, p := range g.Productions {
		for _, s := range p.Rhs {
			if s.IsTerminal() {
				if s == g.Stop && p.ID != 0 {
					return fmt.Errorf("grammar %q: STOP referenced outside the augmented production", g.Name)
				}
				if _, ok := g.Terminals[s]; !ok && s != g.Stop {
					return fmt.Errorf("grammar %q: undeclared terminal %s in production %d", g.Name, g.Symbols.Name(s), p.ID)
				}
			} else {
				if len(g.byLHS[s]) == 0 {
					return fmt.Errorf("grammar %q: non-terminal %s has no productions", g.Name, g.Symbols.Name(s))
				}
			}
		}
	}
	return nil
}

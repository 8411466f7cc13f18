package automaton

import (
	"fmt"

	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/symbol"
)

// ActionKind distinguishes the three action shapes an LR table cell may
// hold.
type ActionKind int

// Action kinds.
const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "?"
	}
}

// Action is one candidate action in an ACTION table cell. A cell may
// hold more than one Action when a conflict remains unresolved: the LR
// driver rejects such a table, the GLR driver forks on it.
type Action struct {
	Kind   ActionKind
	Target int // next state, valid for Shift
	Prod   *grammar.Production // valid for Reduce
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.Target)
	case Reduce:
		return fmt.Sprintf("reduce %d", a.Prod.ID)
	default:
		return "accept"
	}
}

type actionKey struct {
	state int
	term  symbol.Symbol
}

// ActionTable maps (state, terminal) to a list of candidate actions.
type ActionTable struct {
	entries map[actionKey][]Action
	terms   map[int][]symbol.Symbol
}

// Get returns the candidate actions for (state, term), or nil.
func (t *ActionTable) Get(state int, term symbol.Symbol) []Action {
	return t.entries[actionKey{state, term}]
}

// Terms returns terms(I): the terminals with any entry in
// ACTION[state], i.e. what may legally be recognized next.
func (t *ActionTable) Terms(state int) []symbol.Symbol {
	if t.terms == nil {
		t.terms = make(map[int][]symbol.Symbol)
		for k := range t.entries {
			t.terms[k.state] = append(t.terms[k.state], k.term)
		}
	}
	return t.terms[state]
}

type gotoKey struct {
	state int
	sym   symbol.Symbol
}

// GotoTable maps (state, non-terminal) to the next state.
type GotoTable struct {
	entries map[gotoKey]int
}

// Get returns the target state for (state, sym) and whether it exists.
func (t *GotoTable) Get(state int, sym symbol.Symbol) (int, bool) {
	s, ok := t.entries[gotoKey{state, sym}]
	return s, ok
}

// Conflict records a table cell where more than one candidate action
// survived static resolution, the build-time GrammarError source for
// the LR driver.
type Conflict struct {
	State   int
	Term    symbol.Symbol
	Actions []Action
}

func (a *Automaton) edgeTarget(from int, sym symbol.Symbol) (int, bool) {
	for _, e := range a.edges {
		if e.from == from && e.sym == sym {
			return e.to, true
		}
	}
	return 0, false
}

// emitTables builds ACTION/GOTO from the merged state set, applying the
// static conflict-resolution order of.
func (a *Automaton) emitTables() error {
	actions := make(map[actionKey][]Action)
	gotoT := make(map[gotoKey]int)

	for _, s := range a.States {
		candidates := make(map[symbol.Symbol][]Action)
		for _, it := range s.Items {
			if X, ok := it.DotSymbol(); ok {
				if X.IsTerminal() {
					if target, ok := a.edgeTarget(s.ID, X); ok {
						candidates[X] = append(candidates[X], Action{Kind: Shift, Target: target})
					}
				} else if target, ok := a.edgeTarget(s.ID, X); ok {
					gotoT[gotoKey{s.ID, X}] = target
				}
				continue
			}
			// dot at end
			if it.Prod.ID == 0 {
				candidates[a.Grammar.Stop] = append(candidates[a.Grammar.Stop], Action{Kind: Accept})
				continue
			}
			for _, v := range it.LA.Values() {
				t := v.(symbol.Symbol)
				candidates[t] = append(candidates[t], Action{Kind: Reduce, Prod: it.Prod})
			}
		}
		for term, cands := range candidates {
			resolved := a.resolve(term, cands)
			actions[actionKey{s.ID, term}] = resolved
			if len(resolved) > 1 {
				a.Conflicts = append(a.Conflicts, Conflict{State: s.ID, Term: term, Actions: resolved})
			}
		}
	}
	a.Actions = &ActionTable{entries: actions}
	a.Goto = &GotoTable{entries: gotoT}
	return nil
}

// resolve applies the static conflict-resolution order of to a
// table cell's candidate actions, narrowing the list as far as static
// information allows. A dynamic-marked survivor is left for the driver's
// DynamicFilter; anything left after that is an unresolved conflict.
// term is the terminal this cell fires on, needed to compare a shift's
// priority (the terminal's declared priority) against a competing
// reduce's production priority.
func (a *Automaton) resolve(term symbol.Symbol, cands []Action) []Action {
	if len(cands) <= 1 {
		return cands
	}

	// 1. priority
	shiftPrio := grammar.DefaultPriority
	if t := a.Grammar.Terminal(term); t != nil {
		shiftPrio = t.Priority
	}
	prio := func(ac Action) int {
		if ac.Kind == Reduce {
			return ac.Prod.Prior
		}
		return shiftPrio
	}
	best := prio(cands[0])
	for _, c := range cands[1:] {
		if p := prio(c); p > best {
			best = p
		}
	}
	cands = filterActions(cands, func(ac Action) bool { return prio(ac) == best })
	if len(cands) <= 1 {
		return cands
	}

	// 2. associativity: exactly one shift vs one reduce, same priority.
	if len(cands) == 2 {
		var sh, rd *Action
		for i := range cands {
			c := &cands[i]
			if c.Kind == Shift {
				sh = c
			} else if c.Kind == Reduce {
				rd = c
			}
		}
		if sh != nil && rd != nil {
			switch rd.Prod.Assoc {
			case grammar.AssocLeft:
				return []Action{*rd}
			case grammar.AssocRight:
				return []Action{*sh}
			}
		}
	}

	// 3. prefer_shifts: a shift beats any ordinary reduce outright. A
	// nops-marked reduce is exempt from this and survives alongside the
	// shift instead of being dropped, so the narrowing always applies
	// once a shift is present — it just may still leave a nops reduce
	// behind for step 5/6 to deal with.
	if a.PreferShifts && hasShift(cands) {
		cands = filterActions(cands, func(ac Action) bool {
			return ac.Kind == Shift || (ac.Kind == Reduce && ac.Prod.Nops)
		})
		if len(cands) <= 1 {
			return cands
		}
	}

	// 4. prefer_shifts_over_empty
	if a.PreferShiftsOverEmpty && hasShift(cands) {
		narrowed := filterActions(cands, func(ac Action) bool {
			return ac.Kind == Shift || (ac.Kind == Reduce && (!ac.Prod.IsEmpty() || ac.Prod.Nopse))
		})
		if len(narrowed) < len(cands) {
			cands = narrowed
			if len(cands) <= 1 {
				return cands
			}
		}
	}

	// 5. dynamic: leave dynamic-marked candidates for the runtime filter.
	anyDynamic := false
	for _, c := range cands {
		if c.Kind == Reduce && c.Prod.Dynamic {
			anyDynamic = true
		}
		if c.Kind == Shift {
			// shift dynamism is keyed by terminal and is not consulted
			// here; glrdriver.allow checks the acting terminal's Dynamic
			// flag at dispatch time.
		}
	}
	if anyDynamic {
		return cands
	}

	// 6. unresolved
	return cands
}

func filterActions(in []Action, keep func(Action) bool) []Action {
	out := make([]Action, 0, len(in))
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}

func hasShift(cands []Action) bool {
	for _, c := range cands {
		if c.Kind == Shift {
			return true
		}
	}
	return false
}


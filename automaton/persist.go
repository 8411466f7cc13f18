package automaton

import (
	"encoding/gob"
	"io"

	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/symbol"
)

// snapshot is the gob-serializable, flattened form of an Automaton's
// tables, following the "tables are a pure function of the grammar"
// contract of: reloading a snapshot against the same Grammar value
// that produced it yields a behaviorally identical Automaton.
type snapshot struct {
	StateCount int
	Start      int
	Actions    []actionRecord
	Goto       []gotoRecord
}

type actionRecord struct {
	State  int
	Term   symbol.Symbol
	Kind   ActionKind
	Target int
	ProdID int // -1 when the action is not a Reduce
}

type gotoRecord struct {
	State  int
	Sym    symbol.Symbol
	Target int
}

// Snapshot writes a's tables to w in gob form.
func (a *Automaton) Snapshot(w io.Writer) error {
	snap := snapshot{StateCount: len(a.States), Start: a.Start}
	for k, actions := range a.Actions.entries {
		for _, ac := range actions {
			prodID := -1
			if ac.Kind == Reduce {
				prodID = ac.Prod.ID
			}
			snap.Actions = append(snap.Actions, actionRecord{
				State: k.state, Term: k.term, Kind: ac.Kind, Target: ac.Target, ProdID: prodID,
			})
		}
	}
	for k, target := range a.Goto.entries {
		snap.Goto = append(snap.Goto, gotoRecord{State: k.state, Sym: k.sym, Target: target})
	}
	return gob.NewEncoder(w).Encode(snap)
}

// Load reconstructs an Automaton's tables from a Snapshot, resolving
// Reduce actions' production references against g. The caller must
// supply the same Grammar the snapshot was built from.
func Load(r io.Reader, g *grammar.Grammar) (*Automaton, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	a := &Automaton{
		Grammar: g,
		Start:   snap.Start,
		Actions: &ActionTable{entries: make(map[actionKey][]Action)},
		Goto:    &GotoTable{entries: make(map[gotoKey]int)},
	}
	for i := 0; i < snap.StateCount; i++ {
		a.States = append(a.States, &State{ID: i})
	}
	for _, rec := range snap.Actions {
		ac := Action{Kind: rec.Kind, Target: rec.Target}
		if rec.Kind == Reduce {
			ac.Prod = g.Rule(rec.ProdID)
		}
		key := actionKey{rec.State, rec.Term}
		a.Actions.entries[key] = append(a.Actions.entries[key], ac)
	}
	for k, acts := range a.Actions.entries {
		if len(acts) > 1 {
			a.Conflicts = append(a.Conflicts, Conflict{State: k.state, Term: k.term, Actions: acts})
		}
	}
	for _, rec := range snap.Goto {
		a.Goto.entries[gotoKey{rec.State, rec.Sym}] = rec.Target
	}
	return a, nil
}

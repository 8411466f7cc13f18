/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"fmt"
	"strconv"

	"github.com/nilspin/glr"
	"github.com/nilspin/glr/action"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/recognizer"
)

// A grammar-file surface syntax is explicitly out of scope; this tool
// instead ships a small registry of Go-constructed demonstration
// grammars, following gorgo's trepl (terex/terexlang/trepl/repl.go)
// makeExprGrammar approach of hard-coding a grammar.Builder call rather
// than parsing one from a file.
var grammarRegistry = map[string]func() (*grammar.Grammar, error){
	"arith":   arithGrammar,
	"ambig":   ambiguousSumGrammar,
	"list":    listGrammar,
	"keyword": keywordGrammar,
}

func lookupGrammar(name string) (*grammar.Grammar, error) {
	build, ok := grammarRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown grammar %q (available: %v)", name, grammarNames())
	}
	return build()
}

func grammarNames() []string {
	names := make([]string, 0, len(grammarRegistry))
	for n := range grammarRegistry {
		names = append(names, n)
	}
	return names
}

func mustRegexp(pattern string) glr.Recognizer {
	re, err := recognizer.NewRegexp(pattern)
	if err != nil {
		panic(fmt.Sprintf("internal recognizer pattern %q: %v", pattern, err))
	}
	return re
}

// arithGrammar is a left-associative `E -> E + E | E * E | num` grammar
// with "*" declared at higher priority than "+", the canonical
// priority-based shift/reduce scenario.
func arithGrammar() (*grammar.Grammar, error) {
	num := mustRegexp(`[0-9]+`)
	b := grammar.NewBuilder("Arith")
	b.LHS("E").N("E").T("+", "+").N("E").Prio(10).Left().Action(sumAction).End()
	b.LHS("E").N("E").T("*", "*").TermPrio(20).N("E").Prio(20).Left().Action(prodAction).End()
	b.LHS("E").TR("num", num).Action(numberAction).End()
	return b.Grammar()
}

func sumAction(ctx *glr.Context, vs []interface{}) interface{} {
	return vs[0].(int) + vs[2].(int)
}

func prodAction(ctx *glr.Context, vs []interface{}) interface{} {
	return vs[0].(int) * vs[2].(int)
}

func numberAction(ctx *glr.Context, vs []interface{}) interface{} {
	n, _ := strconv.Atoi(vs[0].(string))
	return n
}

// ambiguousSumGrammar declares no priority or associativity at all,
// making "1+2+3" genuinely ambiguous under GLR — the scenario `trace`
// and `parse --glr` are meant to demonstrate.
func ambiguousSumGrammar() (*grammar.Grammar, error) {
	num := mustRegexp(`[0-9]+`)
	b := grammar.NewBuilder("AmbiguousSum")
	b.LHS("E").N("E").T("+", "+").N("E").End()
	b.LHS("E").TR("num", num).End()
	return b.Grammar()
}

// listGrammar demonstrates the standard action library's list-building
// combinators on a comma-separated list of numbers, `[ ]` or
// `[ n (, n)* ]`.
func listGrammar() (*grammar.Grammar, error) {
	num := mustRegexp(`[0-9]+`)
	b := grammar.NewBuilder("List")
	b.LHS("List").T("[", "[").N("Items").T("]", "]").Action(action.Single(1)).End()
	b.LHS("Items").N("Items").T(",", ",").N("Item").Action(action.CollectSep).End()
	b.LHS("Items").N("Item").Action(action.CollectSepOptional).End()
	b.LHS("Items").Action(action.Empty([]interface{}{})).Epsilon()
	b.LHS("Item").TR("num", num).Action(numberAction).End()
	return b.Grammar()
}

// keywordGrammar demonstrates word-boundary keyword recognition: "if"
// must not match a prefix of a longer identifier such as "ifx".
func keywordGrammar() (*grammar.Grammar, error) {
	ident := mustRegexp(`[a-zA-Z_][a-zA-Z0-9_]*`)
	b := grammar.NewBuilder("KeywordDemo")
	b.LHS("Stmt").Keyword("if", "if").N("Cond").Action(action.Single(1)).End()
	b.LHS("Stmt").N("Cond").Action(action.NoChange).End()
	b.LHS("Cond").TR("id", ident).Action(action.NoChange).End()
	return b.Grammar()
}

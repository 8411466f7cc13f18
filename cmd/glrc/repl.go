package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nilspin/glr/grammar"
	"github.com/nilspin/glr/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// replFlags and the REPL loop itself are grounded on gorgo's
// terex/terexlang/trepl/repl.go: a chzyer/readline prompt over a
// hardcoded demonstration grammar, styled with pterm.Info/pterm.Error,
// generalized here from TeREx s-expression evaluation to parsing lines
// against one of this tool's built-in grammars and printing the
// resulting parse tree.
var replFlags = struct {
	grammar *string
	glr     *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-parse-print loop",
		RunE:  runRepl,
	}
	replFlags.grammar = cmd.Flags().StringP("grammar", "g", "arith", "built-in grammar name")
	replFlags.glr = cmd.Flags().Bool("glr", false, "use the generalized (GLR) driver instead of the deterministic one")
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	initDisplay()
	g, err := lookupGrammar(*replFlags.grammar)
	if err != nil {
		return err
	}
	p, err := parser.Compile(g)
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("Welcome to glrc repl, grammar %q", g.Name))
	if !p.Deterministic() && !*replFlags.glr {
		pterm.Info.Println("grammar has unresolved conflicts, switching to --glr")
		*replFlags.glr = true
	}

	rl, err := readline.New(g.Name + "> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	pterm.Info.Println("Quit with <ctrl>D")

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		evalLine(p, g, line, *replFlags.glr)
	}
	fmt.Println("Good bye!")
	return nil
}

func evalLine(p *parser.Parser, g *grammar.Grammar, line string, useGLR bool) {
	if useGLR {
		res, err := p.ParseGLR(context.Background(), line, "repl")
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		pterm.Info.Println(fmt.Sprintf("%d accepting head(s), %d solution(s)", len(res.Accepted), res.Forest.Solutions()))
		printTree(res.Forest.String(g))
		return
	}
	forest, root, err := p.Parse(line, "repl")
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Info.Println(fmt.Sprintf("accepted, root value: %v", root.Value))
	printTree(forest.String(g))
}

// initDisplay mirrors gorgo's trepl.initDisplay pterm styling.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// printTree renders a forest's indented text rendering as a pterm tree
// of one leaf per line, grounded on gorgo's
// trepl.indentedListFrom/leveledElem pterm.LeveledList idiom.
func printTree(text string) {
	var leveled pterm.LeveledList
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		level := (len(line) - len(trimmed)) / 2
		leveled = append(leveled, pterm.LeveledListItem{Level: level, Text: trimmed})
	}
	root := pterm.NewTreeFromLeveledList(leveled)
	pterm.DefaultTree.WithRoot(root).Render()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd's subcommand tree is grounded on vartan's cmd/vartan/root.go
// (cobra.Command with SilenceErrors/SilenceUsage), extended with a
// `repl` subcommand grounded on gorgo's terex/terexlang/trepl
// REPL loop. Cobra itself is adopted from vartan (a pack repo) since
// gorgo's own CLI surface has no subcommand tree to generalize.
var rootCmd = &cobra.Command{
	Use:   "glrc",
	Short: "Compile, inspect and run scannerless LR(1)/GLR grammars",
	Long: `glrc drives this module's grammar and parser core from the
command line:
  compile  emit a persisted automaton from a built-in grammar
  viz      emit a Graphviz dot rendering of an automaton
  trace    emit a Graphviz dot rendering of a GLR run's GSS
  parse    parse input and print its parse tree or forest
  repl     an interactive read-eval-print loop`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the command tree, printing any error to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

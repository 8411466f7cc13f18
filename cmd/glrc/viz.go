package main

import (
	"fmt"
	"os"

	"github.com/nilspin/glr/parser"
	"github.com/spf13/cobra"
)

var vizFlags = struct {
	grammar *string
	output  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "viz",
		Short:   "Emit a Graphviz dot rendering of a built-in grammar's automaton",
		Example: `  glrc viz --grammar arith | dot -Tpng -o arith.png`,
		RunE:    runViz,
	}
	vizFlags.grammar = cmd.Flags().StringP("grammar", "g", "arith", "built-in grammar name")
	vizFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runViz(cmd *cobra.Command, args []string) error {
	g, err := lookupGrammar(*vizFlags.grammar)
	if err != nil {
		return err
	}
	p, err := parser.Compile(g)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *vizFlags.output != "" {
		f, err := os.OpenFile(*vizFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("cannot open output file %s: %w", *vizFlags.output, err)
		}
		defer f.Close()
		out = f
	}
	return p.A.Dot(out)
}

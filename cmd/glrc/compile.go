package main

import (
	"fmt"
	"os"

	"github.com/nilspin/glr/automaton"
	"github.com/nilspin/glr/parser"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	grammar               *string
	output                *string
	preferShifts          *bool
	preferShiftsOverEmpty *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a built-in grammar into a persisted automaton",
		Example: `  glrc compile --grammar arith -o arith.tab`,
		RunE:    runCompile,
	}
	compileFlags.grammar = cmd.Flags().StringP("grammar", "g", "arith", "built-in grammar name")
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.preferShifts = cmd.Flags().Bool("prefer-shifts", false, "resolve otherwise-unresolved shift/reduce conflicts by shifting")
	compileFlags.preferShiftsOverEmpty = cmd.Flags().Bool("prefer-shifts-over-empty", false, "prefer a shift over reducing an empty production")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	g, err := lookupGrammar(*compileFlags.grammar)
	if err != nil {
		return err
	}
	p, err := parser.Compile(g,
		automaton.PreferShifts(*compileFlags.preferShifts),
		automaton.PreferShiftsOverEmpty(*compileFlags.preferShiftsOverEmpty),
	)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("cannot open output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		out = f
	}
	if err := p.A.Snapshot(out); err != nil {
		return fmt.Errorf("writing automaton snapshot: %w", err)
	}

	if !p.Deterministic() {
		fmt.Fprintf(os.Stderr, "%d unresolved conflict(s) — a DynamicFilter or GLR is required to parse with this table\n", len(p.A.Conflicts))
		p.A.Describe(os.Stderr)
	}
	return nil
}

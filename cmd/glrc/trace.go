package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nilspin/glr/parser"
	"github.com/spf13/cobra"
)

var traceFlags = struct {
	grammar *string
	source  *string
	output  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "trace",
		Short:   "Run a GLR parse and emit a Graphviz dot rendering of its Graph-Structured Stack",
		Example: `  echo '1+2+3' | glrc trace --grammar ambig`,
		RunE:    runTrace,
	}
	traceFlags.grammar = cmd.Flags().StringP("grammar", "g", "ambig", "built-in grammar name")
	traceFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	traceFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	g, err := lookupGrammar(*traceFlags.grammar)
	if err != nil {
		return err
	}
	p, err := parser.Compile(g)
	if err != nil {
		return err
	}

	input, err := readSource(*traceFlags.source)
	if err != nil {
		return err
	}

	res, err := p.ParseGLR(context.Background(), input, sourceName(*traceFlags.source))
	if err != nil {
		return fmt.Errorf("GLR parse failed, nothing to trace: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%d accepting head(s), %d solution(s)\n", len(res.Accepted), res.Forest.Solutions())

	out := os.Stdout
	if *traceFlags.output != "" {
		f, err := os.OpenFile(*traceFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("cannot open output file %s: %w", *traceFlags.output, err)
		}
		defer f.Close()
		out = f
	}
	return res.Graph.Dot(out, g)
}

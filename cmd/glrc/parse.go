package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/nilspin/glr/parser"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	grammar *string
	source  *string
	glr     *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse input against a built-in grammar and print its parse tree or forest",
		Example: `  echo '2+3*4' | glrc parse --grammar arith`,
		RunE:    runParse,
	}
	parseFlags.grammar = cmd.Flags().StringP("grammar", "g", "arith", "built-in grammar name")
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.glr = cmd.Flags().Bool("glr", false, "use the generalized (GLR) driver instead of the deterministic one")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := lookupGrammar(*parseFlags.grammar)
	if err != nil {
		return err
	}
	p, err := parser.Compile(g)
	if err != nil {
		return err
	}
	input, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}
	name := sourceName(*parseFlags.source)

	if *parseFlags.glr {
		res, err := p.ParseGLR(context.Background(), input, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d accepting head(s), %d solution(s)\n", len(res.Accepted), res.Forest.Solutions())
		fmt.Print(res.Forest.String(g))
		return nil
	}

	if !p.Deterministic() {
		return fmt.Errorf("grammar %q has unresolved conflicts; retry with --glr", g.Name)
	}
	forest, root, err := p.Parse(input, name)
	if err != nil {
		return err
	}
	fmt.Printf("accepted, root value: %v\n", root.Value)
	fmt.Print(forest.String(g))
	return nil
}

// readSource reads path, or stdin when path is empty, grounded on
// vartan's cmd/vartan/parse.go stdin-or-file convention.
func readSource(path string) (string, error) {
	if path == "" {
		b, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading source file %s: %w", path, err)
	}
	return string(b), nil
}

func sourceName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}

package recognizer

import (
	"fmt"

	"github.com/nilspin/glr"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Regexp is a regex recognizer backed by a compiled lexmachine DFA,
// grounded on gorgo's lexmachine adapter idiom
// (terex/terexlang/scan.go, lr/scanner/lexmachine.go): one single-pattern
// lexer per distinct regex, matched anchored at the current position.
type Regexp struct {
	pattern string
	lexer   *lexmachine.Lexer
}

// NewRegexp compiles pattern into a standalone lexmachine DFA.
func NewRegexp(pattern string) (*Regexp, error) {
	lex := lexmachine.NewLexer()
	lex.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return m, nil
	})
	if err := lex.Compile(); err != nil {
		return nil, fmt.Errorf("recognizer: compiling regex %q: %w", pattern, err)
	}
	return &Regexp{pattern: pattern, lexer: lex}, nil
}

// Recognize implements glr.Recognizer: the regex must match starting
// exactly at pos (a match with a nonzero start column is a miss).
func (r *Regexp) Recognize(ctx *glr.Context, input string, pos uint64) (glr.RecognizedToken, bool) {
	if pos > uint64(len(input)) {
		return glr.RecognizedToken{}, false
	}
	scanner, err := r.lexer.Scanner([]byte(input[pos:]))
	if err != nil {
		return glr.RecognizedToken{}, false
	}
	tok, err, eof := scanner.Next()
	if eof || err != nil || tok == nil {
		return glr.RecognizedToken{}, false
	}
	m := tok.(*machines.Match)
	if m.TC != 0 {
		// the match did not start at the current position
		return glr.RecognizedToken{}, false
	}
	return glr.RecognizedToken{Length: uint64(len(m.Bytes)), Value: string(m.Bytes)}, true
}

/*
Package parseerr implements the three error kinds of the error handling
design: GrammarError (build time), DisambiguationError (parse time,
LR-only), and ParseError (parse time), together with a line index for
lazy position→line/column conversion.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package parseerr

import (
	"fmt"
	"sort"

	"github.com/nilspin/glr/symbol"
)

// GrammarError is raised by the LR driver for conflicts left unresolved
// under the selected policy: by lrdriver.NewParser for a conflict with no
// dynamic-marked reduce, and at parse time for a dynamic conflict the
// filter cannot settle. Undefined symbols are reported by
// grammar.Builder.Grammar as plain errors; unreachable productions and
// ε-cycles are not detected.
type GrammarError struct {
	Grammar string
	Reason  string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar %q: %s", e.Grammar, e.Reason)
}

// DisambiguationError is raised at parse time by the LR driver when
// lexical disambiguation leaves more than one candidate token.
type DisambiguationError struct {
	Position   uint64
	Candidates []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("lexical ambiguity at position %d among %v", e.Position, e.Candidates)
}

// ParseError is raised at parse time when no action applies, or
// recognition yields no token while the driver's state requires one.
type ParseError struct {
	Location        uint64
	SymbolsExpected []symbol.Symbol
	TokensAhead     []string
	SymbolsBefore   []symbol.Symbol
	LastHeads       []int // GLR only: GSS head/state ids alive at failure
	Grammar         interface{}
	Line, Column    int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d (offset %d): expected one of %v", e.Line, e.Column, e.Location, e.SymbolsExpected)
}

// LineIndex maps an absolute byte offset into an input buffer to a
// 1-based (line, column) pair, in O(log n) after an O(n) one-time scan.
// Grounded on vartan's error/error.go lazy line-reading, generalized
// from re-reading a file to indexing an in-memory buffer, since the
// core's lifecycle rule requires parse results not to outlive the
// input buffer anyway.
type LineIndex struct {
	starts []int // byte offset of the start of each line
}

// NewLineIndex scans input once and builds the index.
func NewLineIndex(input string) *LineIndex {
	li := &LineIndex{starts: []int{0}}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			li.starts = append(li.starts, i+1)
		}
	}
	return li
}

// LineCol converts an absolute offset to a 1-based (line, column) pair.
func (li *LineIndex) LineCol(offset int) (line, col int) {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - li.starts[i] + 1
}

/*
Package recognizer implements the token recognizer runtime:
string/regex/custom recognizers, per-state acceptable-terminal lookup,
lexical disambiguation, and layout consumption.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package recognizer

import (
	"strings"

	"github.com/nilspin/glr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glr.recognizer'.
func tracer() tracing.Trace {
	return tracing.Select("glr.recognizer")
}

// String is a literal-match recognizer. If Keyword is set,
// a match is rejected when the byte following it is a word character.
type String struct {
	Literal string
	Keyword bool
}

// NewString creates a plain string recognizer.
func NewString(literal string) *String { return &String{Literal: literal} }

// NewKeyword creates a word-boundary-respecting string recognizer.
func NewKeyword(literal string) *String { return &String{Literal: literal, Keyword: true} }

// Recognize implements glr.Recognizer.
func (r *String) Recognize(ctx *glr.Context, input string, pos uint64) (glr.RecognizedToken, bool) {
	if pos > uint64(len(input)) || !strings.HasPrefix(input[pos:], r.Literal) {
		return glr.RecognizedToken{}, false
	}
	end := pos + uint64(len(r.Literal))
	if r.Keyword && end < uint64(len(input)) && isWordByte(input[end]) {
		return glr.RecognizedToken{}, false
	}
	return glr.RecognizedToken{Length: uint64(len(r.Literal)), Value: r.Literal}, true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Custom wraps a caller-supplied function as a Recognizer, the
// per-terminal registration point for non-text input streams.
type Custom struct {
	Fn func(ctx *glr.Context, input string, pos uint64) (glr.RecognizedToken, bool)
}

// Recognize implements glr.Recognizer.
func (c *Custom) Recognize(ctx *glr.Context, input string, pos uint64) (glr.RecognizedToken, bool) {
	return c.Fn(ctx, input, pos)
}

// CustomTokenHook is the single override point for both token
// recognition and lexical disambiguation. It receives the
// parsing context and a thunk running the default procedure, and
// returns the list of tokens to use instead (possibly empty).
type CustomTokenHook func(ctx *glr.Context, defaultProc func() []Candidate) []Candidate

// Candidate is one successfully matched terminal at the current
// position, before lexical disambiguation narrows the set.
type Candidate struct {
	TermName string
	Priority int
	Prefer   bool
	IsString bool // string recognizer vs regex/custom, for tie-break step 2
	Finish   bool
	glr.RecognizedToken
}

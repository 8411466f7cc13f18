/*
Package glr implements the runtime types shared by every other package in
this module: tokens, spans, and the parse-time context record handed to
recognizers, actions, dynamic filters and the error hook.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glr

import "fmt"

// TokType identifies the category of a Token. The zero value is reserved
// for "no token type"; grammars assign their own terminal-derived values.
type TokType int

// TokTypeStringer renders a TokType for diagnostics.
type TokTypeStringer func(TokType) string

// Token is produced by the recognizer runtime (package recognizer) and
// consumed by the LR and GLR drivers.
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
	// AdditionalData is the opaque payload a custom recognizer may attach,
	// forwarded to user actions verbatim.
	AdditionalData() interface{}
	// LayoutContent is the layout (whitespace/comments) consumed
	// immediately before this token.
	LayoutContent() string
}

// TokenRetriever fetches a previously produced token by input position.
type TokenRetriever func(uint64) Token

// Span captures an input run [From, To). Kept identical to gorgo's
// gorgo.Span so downstream code inherited from gorgo continues to
// compile against it unchanged.
type Span [2]uint64

// From returns the start offset.
func (s Span) From() uint64 { return s[0] }

// To returns the end offset (exclusive).
func (s Span) To() uint64 { return s[1] }

// Len returns the length of the span.
func (s Span) Len() uint64 { return s[1] - s[0] }

// IsNull reports whether the span is the zero span.
func (s Span) IsNull() bool { return s == Span{} }

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// RecognizedToken is the result a Recognizer produces on a successful
// match: how many input units were consumed, the matched value, and an
// optional opaque payload forwarded to user actions verbatim.
type RecognizedToken struct {
	Length         uint64
	Value          interface{}
	AdditionalData interface{}
}

// Recognizer is a pure function of (context, input, pos). String, regex
// and custom recognizers (package recognizer) all implement it.
type Recognizer interface {
	Recognize(ctx *Context, input string, pos uint64) (RecognizedToken, bool)
}

// DynamicFilter is consulted during conflict resolution for productions
// or terminals marked dynamic. Returning false drops the candidate
// action for the current head. It is invoked once with a nil context at
// the start of parsing to let stateful filters initialize.
type DynamicFilter func(ctx *Context, fromState, toState int, action string, production interface{}, subresults []interface{}) bool

// ErrorHook is invoked with a recoverable parse error; returning true
// tells the driver the context has been mutated into a recoverable
// state.
type ErrorHook func(ctx *Context, err error) bool

// Context is the read-mostly record passed to user actions, recognizers,
// the dynamic disambiguation filter and the error hook. Every field is
// read-only except Extra, a scratchpad the caller owns for the whole
// parse.
type Context struct {
	Input          interface{} // usually a []byte or string
	FileName       string
	StartPosition  uint64
	EndPosition    uint64
	LayoutContent  string
	Token          Token // set on shift
	TokenAhead     Token
	Production     interface{} // *grammar.Production, typed loosely to avoid an import cycle
	State          int
	Symbol         interface{} // *symbol.Symbol
	Parser         interface{} // the driving *lrdriver.Parser or *glrdriver.Parser
	Node           interface{} // set only when walking a built tree
	Head           interface{} // GLR only: the GSS head being advanced
	Extra          interface{} // mutable, user-owned

	// RecoverAt is consulted only immediately after an ErrorHook returns
	// true: if set, the driver resumes scanning at this input offset
	// instead of its own default recovery point (one input byte past
	// where the error occurred). The hook clears no state itself; the
	// driver reads RecoverAt once and always resets it to nil before
	// resuming. Grounded on parglare's default_error_recovery
	// (glr.py's _do_recovery), generalized from that function's own
	// skip-forward heuristic to a caller-suppliable resume point.
	RecoverAt *uint64
}

/*
Package action implements the standard action library named in:
small, composable Func values invoked by a driver on reduction with the
already-computed subresults of a production's right-hand side.

Collect*'s list building is grounded on gorgo's terex list-cons
idiom (terex.Cons/GCons), generalized from a Lisp-style cons cell to a
plain Go slice since the driver's subresults are already ordinary Go
values, not terex Elements. Obj's attribute-record construction is
grounded on runtime/symtable.go's Tag (name + typed payload), adapted
from a runtime variable-symbol record to a parse-time attribute node.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package action

import "github.com/nilspin/glr"

// Func is the shape every action in this package, and every
// user-supplied action, conforms to: given the parse context and the
// already-reduced subresults of a production's right-hand side (in
// left-to-right order), produce this reduction's result.
type Func func(ctx *glr.Context, subresults []interface{}) interface{}

// None discards subresults and returns nil, for productions with no
// semantic value of their own (e.g. punctuation-only alternatives).
func None(ctx *glr.Context, subresults []interface{}) interface{} {
	return nil
}

// NoChange passes through the sole subresult of a single-symbol
// right-hand side unchanged (e.g. `Expr -> Term`).
func NoChange(ctx *glr.Context, subresults []interface{}) interface{} {
	if len(subresults) == 0 {
		return nil
	}
	return subresults[0]
}

// Empty returns v regardless of subresults, for epsilon productions
// that should carry an explicit zero value (e.g. an empty list) rather
// than nil.
func Empty(v interface{}) Func {
	return func(ctx *glr.Context, subresults []interface{}) interface{} {
		return v
	}
}

// Single extracts subresults[i], for right-hand sides where exactly one
// position carries the semantic payload and the rest are literal
// terminals to discard (e.g. `Paren -> "(" Expr ")"` uses Single(1)).
func Single(i int) Func {
	return func(ctx *glr.Context, subresults []interface{}) interface{} {
		if i < 0 || i >= len(subresults) {
			return nil
		}
		return subresults[i]
	}
}

// Inner is an alias for Single(1), the common case of a bracketing
// production `X -> open Inner close`.
func Inner(ctx *glr.Context, subresults []interface{}) interface{} {
	return Single(1)(ctx, subresults)
}

// Collect builds a left-recursive list: `List -> List Elem` appends
// subresults[1] to the slice already accumulated in subresults[0].
// Pair with CollectOptional for the base case `List -> Elem`.
func Collect(ctx *glr.Context, subresults []interface{}) interface{} {
	list, _ := subresults[0].([]interface{})
	return append(list, subresults[1])
}

// CollectSep is Collect for `List -> List Sep Elem`, skipping the
// separator at subresults[1].
func CollectSep(ctx *glr.Context, subresults []interface{}) interface{} {
	list, _ := subresults[0].([]interface{})
	return append(list, subresults[2])
}

// CollectOptional is the base case for Collect: `List -> Elem` seeds a
// new one-element list.
func CollectOptional(ctx *glr.Context, subresults []interface{}) interface{} {
	return []interface{}{subresults[0]}
}

// CollectSepOptional is the base case for CollectSep; identical to
// CollectOptional but named separately so a grammar's action table
// reads symmetrically with its production shapes.
func CollectSepOptional(ctx *glr.Context, subresults []interface{}) interface{} {
	return []interface{}{subresults[0]}
}

// CollectR is the right-recursive mirror of Collect: `List -> Elem
// List` prepends subresults[0] to the list already accumulated in
// subresults[1].
func CollectR(ctx *glr.Context, subresults []interface{}) interface{} {
	list, _ := subresults[1].([]interface{})
	return append([]interface{}{subresults[0]}, list...)
}

// CollectSepR is CollectR for `List -> Elem Sep List`.
func CollectSepR(ctx *glr.Context, subresults []interface{}) interface{} {
	list, _ := subresults[2].([]interface{})
	return append([]interface{}{subresults[0]}, list...)
}

// Optional wraps the "present" alternative of an optional production
// (`X -> Elem` vs `X -> ε`) so both alternatives yield a comparable
// shape: present is a non-nil pointer to the sole subresult, absent
// (paired with Empty(nil) on the epsilon alternative) is nil.
func Optional(ctx *glr.Context, subresults []interface{}) interface{} {
	if len(subresults) == 0 {
		return nil
	}
	v := subresults[0]
	return &v
}

// Record is the attribute-record action.Obj builds: a named node
// carrying its production's subresults plus caller-attached fields.
type Record struct {
	Name   string
	Values []interface{}
	Fields map[string]interface{}
}

// Field returns the named field, or nil if unset.
func (r *Record) Field(name string) interface{} {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[name]
}

// Obj builds a Func that assembles a Record named name from subresults,
// with fields populated from the given position indices (a common
// pattern for building lightweight AST nodes directly during reduction,
// the in-line build mode of).
func Obj(name string, fields map[string]int) Func {
	return func(ctx *glr.Context, subresults []interface{}) interface{} {
		r := &Record{Name: name, Values: subresults}
		if len(fields) > 0 {
			r.Fields = make(map[string]interface{}, len(fields))
			for fname, idx := range fields {
				if idx >= 0 && idx < len(subresults) {
					r.Fields[fname] = subresults[idx]
				}
			}
		}
		return r
	}
}

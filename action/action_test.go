package action

import (
	"reflect"
	"testing"
)

func TestNoChangePassesThroughSoleSubresult(t *testing.T) {
	if got := NoChange(nil, []interface{}{"x"}); got != "x" {
		t.Errorf("NoChange = %v, want \"x\"", got)
	}
	if got := NoChange(nil, nil); got != nil {
		t.Errorf("NoChange on no subresults = %v, want nil", got)
	}
}

func TestSingleExtractsPosition(t *testing.T) {
	subs := []interface{}{"(", 42, ")"}
	if got := Single(1)(nil, subs); got != 42 {
		t.Errorf("Single(1) = %v, want 42", got)
	}
	if got := Single(9)(nil, subs); got != nil {
		t.Errorf("Single(9) out of range = %v, want nil", got)
	}
}

func TestInnerIsSingleOne(t *testing.T) {
	subs := []interface{}{"(", "body", ")"}
	if got := Inner(nil, subs); got != "body" {
		t.Errorf("Inner = %v, want \"body\"", got)
	}
}

func TestCollectAppendsLeftRecursive(t *testing.T) {
	base := CollectOptional(nil, []interface{}{1})
	next := Collect(nil, []interface{}{base, 2})
	want := []interface{}{1, 2}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("Collect chain = %v, want %v", next, want)
	}
}

func TestCollectSepSkipsSeparator(t *testing.T) {
	base := CollectSepOptional(nil, []interface{}{1})
	next := CollectSep(nil, []interface{}{base, ",", 2})
	want := []interface{}{1, 2}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("CollectSep chain = %v, want %v", next, want)
	}
}

func TestCollectRPrependsRightRecursive(t *testing.T) {
	base := CollectOptional(nil, []interface{}{3})
	next := CollectR(nil, []interface{}{2, base})
	want := []interface{}{2, 3}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("CollectR chain = %v, want %v", next, want)
	}
}

func TestOptionalWrapsPresentAlternative(t *testing.T) {
	got := Optional(nil, []interface{}{"-"})
	ptr, ok := got.(*interface{})
	if !ok || ptr == nil {
		t.Fatalf("Optional(present) = %#v, want a non-nil *interface{}", got)
	}
	if (*ptr).(string) != "-" {
		t.Errorf("*Optional(present) = %v, want \"-\"", *ptr)
	}
	if got := Optional(nil, nil); got != nil {
		t.Errorf("Optional(absent) = %v, want nil", got)
	}
}

func TestEmptyIgnoresSubresults(t *testing.T) {
	fn := Empty([]interface{}{})
	got := fn(nil, []interface{}{"ignored"})
	if !reflect.DeepEqual(got, []interface{}{}) {
		t.Errorf("Empty(...) = %v, want an empty slice regardless of subresults", got)
	}
}

func TestObjBuildsRecordWithFields(t *testing.T) {
	fn := Obj("BinOp", map[string]int{"left": 0, "op": 1, "right": 2})
	got := fn(nil, []interface{}{1, "+", 2})
	rec, ok := got.(*Record)
	if !ok {
		t.Fatalf("Obj(...) = %#v, want *Record", got)
	}
	if rec.Name != "BinOp" {
		t.Errorf("Record.Name = %q, want \"BinOp\"", rec.Name)
	}
	if rec.Field("op") != "+" {
		t.Errorf("Record.Field(\"op\") = %v, want \"+\"", rec.Field("op"))
	}
	if rec.Field("missing") != nil {
		t.Errorf("Record.Field(\"missing\") = %v, want nil", rec.Field("missing"))
	}
}

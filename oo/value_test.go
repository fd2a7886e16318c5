package oo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseListHandlesBracesAndQuotes(t *testing.T) {
	got, err := ParseList(`a {b c} "d e" {f {g h}} {}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := NewStrings("a", "b c", "d e", "f {g h}", "").List()
	if diff := cmp.Diff(want, got, valueComparer); diff != "" {
		t.Fatalf("unexpected words (-want +got):\n%s", diff)
	}

	for input, code := range map[string]*Error{
		"{open": {Category: "LIST", Subcategory: "BRACE"},
		`"open`: {Category: "LIST", Subcategory: "QUOTE"},
		"{a}b":  {Category: "LIST", Subcategory: "JUNK"},
	} {
		_, err := ParseList(input)
		requireErrorIs(t, err, code)
	}
}

func TestFormatListRoundTrip(t *testing.T) {
	items := NewStrings("plain", "two words", "", "{braced}").List()
	parsed, err := ParseList(FormatList(items))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(items, parsed, valueComparer); diff != "" {
		t.Fatalf("round trip changed the list (-want +got):\n%s", diff)
	}
}

func TestFormatListEscapesUnbalancedBraces(t *testing.T) {
	items := NewStrings("a{", "}x y", `say "hi" {`, `back\slash`, `"lead`).List()
	formatted := FormatList(items)
	parsed, err := ParseList(formatted)
	if err != nil {
		t.Fatalf("parse %q: %v", formatted, err)
	}
	if diff := cmp.Diff(items, parsed, valueComparer); diff != "" {
		t.Fatalf("round trip of %q changed the list (-want +got):\n%s", formatted, diff)
	}
	if got := FormatList(NewStrings("a{").List()); got != `a\{` {
		t.Fatalf("unexpected escaping %q", got)
	}
}

func TestValueEquality(t *testing.T) {
	interp := newTestInterp(t)
	obj := mustNew(t, mustClass(t, interp, "Thing"), "thing")

	if !NewObjectRef(obj).Equal(NewString("::thing")) || !NewString("::thing").Equal(NewObjectRef(obj)) {
		t.Fatalf("expected object ref to equal its name")
	}
	if NewObjectRef(obj).Equal(NewObjectRef(interp.ObjectClass())) {
		t.Fatalf("expected distinct objects to differ")
	}
	if !NewInt(3).Equal(NewString("3")) {
		t.Fatalf("expected mixed kinds to compare by string form")
	}
	if !NewStrings("a", "b").Equal(NewString("a b")) {
		t.Fatalf("expected list to equal its string form")
	}
}

func TestParseCloneMode(t *testing.T) {
	for input, want := range map[string]CloneMode{"": CloneShallow, "shallow": CloneShallow, "deep": CloneDeep} {
		got, err := ParseCloneMode(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %v, got %v", input, want, got)
		}
	}
	_, err := ParseCloneMode("sideways")
	requireErrorContains(t, err, "unknown clone mode")
}

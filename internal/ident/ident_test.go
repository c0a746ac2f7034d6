package ident

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/tsgen/schema"
)

func TestExported(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"binary_expression", "BinaryExpression"},
		{"source_file", "SourceFile"},
		{"left", "Left"},
		{"if", "If"},
		{"foo-bar", "FooBar"},
		{"else if", "ElseIf"},
		{"utf8_text", "Utf8Text"},
		{"+", "Plus"},
		{"-", "Minus"},
		{"*", "Star"},
		{"/", "Slash"},
		{"(", "LParen"},
		{")", "RParen"},
		{"==", "EqEq"},
		{"+=", "PlusEq"},
		{"->", "MinusGt"},
		{"...", "DotDotDot"},
		{"_", "Underscore"},
		{"{", "LBrace"},
		{"||", "PipePipe"},
		{"€", "U20AC"},
		{"8bit", "U0038bit"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Exported(tc.in); got != tc.want {
			t.Fatalf("Exported(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func decode(t *testing.T, doc string) *schema.NodeTypes {
	t.Helper()
	nt, err := schema.DecodeNodeTypes([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return nt
}

func TestTypes_NoCollisionKeepsBareName(t *testing.T) {
	nt := decode(t, `[
		{"type": "if_statement", "named": true},
		{"type": "if", "named": false}
	]`)
	got, err := Types(nt)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	want := map[schema.TypeRef]string{
		{Type: "if_statement", Named: true}: "IfStatement",
		{Type: "if", Named: false}:          "If",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("idents mismatch: %s", diff)
	}
}

func TestTypes_NamedAnonDisambiguation(t *testing.T) {
	// The keyword "if" as both a named rule and an anonymous token.
	nt := decode(t, `[
		{"type": "if", "named": true},
		{"type": "if", "named": false}
	]`)
	got, err := Types(nt)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	want := map[schema.TypeRef]string{
		{Type: "if", Named: true}:  "IfNamed",
		{Type: "if", Named: false}: "IfAnon",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("idents mismatch: %s", diff)
	}
}

func TestTypes_SameFlavorCollisionFails(t *testing.T) {
	nt := decode(t, `[
		{"type": "foo_bar", "named": true},
		{"type": "foo-bar", "named": true}
	]`)
	_, err := Types(nt)
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if len(de.Where) != 2 {
		t.Fatalf("Where = %v, want both spellings", de.Where)
	}
}

func TestTypes_SuffixNeverShadowsAnotherDeclaration(t *testing.T) {
	// foo splits into FooNamed/FooAnon, but foo_anon already owns FooAnon.
	nt := decode(t, `[
		{"type": "foo", "named": true},
		{"type": "foo", "named": false},
		{"type": "foo_anon", "named": true}
	]`)
	_, err := Types(nt)
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if de.Ident != "FooAnon" {
		t.Fatalf("Ident = %q, want FooAnon", de.Ident)
	}
}

func TestTypes_OrderIndependent(t *testing.T) {
	forward := decode(t, `[
		{"type": "if", "named": true},
		{"type": "if", "named": false},
		{"type": "number", "named": true}
	]`)
	reversed := decode(t, `[
		{"type": "number", "named": true},
		{"type": "if", "named": false},
		{"type": "if", "named": true}
	]`)
	a, err := Types(forward)
	if err != nil {
		t.Fatalf("assign forward: %v", err)
	}
	b, err := Types(reversed)
	if err != nil {
		t.Fatalf("assign reversed: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("assignment depends on declaration order: %s", diff)
	}
}

func TestFields_Basic(t *testing.T) {
	owner := schema.TypeRef{Type: "binary_expression", Named: true}
	got, err := Fields(owner, []string{"left", "operator", "right"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	want := map[string]string{"left": "Left", "operator": "Operator", "right": "Right"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch: %s", diff)
	}
}

func TestFields_ReservedNamesGetFieldSuffix(t *testing.T) {
	owner := schema.TypeRef{Type: "element", Named: true}
	got, err := Fields(owner, []string{"children", "kind", "node", "text"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	want := map[string]string{
		"children": "ChildrenField",
		"kind":     "KindField",
		"node":     "NodeField",
		"text":     "TextField",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch: %s", diff)
	}
}

func TestFields_SiblingCollisionFails(t *testing.T) {
	owner := schema.TypeRef{Type: "element", Named: true}
	_, err := Fields(owner, []string{"foo-bar", "foo_bar"})
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if de.Ident != "FooBar" {
		t.Fatalf("Ident = %q, want FooBar", de.Ident)
	}
	for _, w := range de.Where {
		if w == "" {
			t.Fatalf("empty Where entry: %v", de.Where)
		}
	}
}

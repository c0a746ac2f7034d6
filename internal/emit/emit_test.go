package emit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/tsgen/internal/ident"
	"github.com/reoring/tsgen/internal/typegraph"
	"github.com/reoring/tsgen/schema"
)

func declarations(t *testing.T, doc string) []Decl {
	t.Helper()
	decls, err := declarationsErr(t, doc)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return decls
}

func declarationsErr(t *testing.T, doc string) ([]Decl, error) {
	t.Helper()
	nt, err := schema.DecodeNodeTypes([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	g, err := typegraph.Build(nt)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return Declarations(g)
}

const calcDoc = `[
	{"type": "source_file", "named": true, "root": true, "children":
		{"multiple": true, "required": false, "types": [{"type": "expression", "named": true}]}},
	{"type": "binary_expression", "named": true, "fields": {
		"left":     {"multiple": false, "required": true, "types": [{"type": "expression", "named": true}]},
		"operator": {"multiple": false, "required": true, "types": [
			{"type": "+", "named": false}, {"type": "-", "named": false}]},
		"right":    {"multiple": false, "required": true, "types": [{"type": "expression", "named": true}]}
	}},
	{"type": "expression", "named": true, "subtypes": [
		{"type": "binary_expression", "named": true},
		{"type": "primary_expression", "named": true}]},
	{"type": "primary_expression", "named": true, "subtypes": [
		{"type": "number", "named": true}]},
	{"type": "number", "named": true},
	{"type": "+", "named": false},
	{"type": "-", "named": false}
]`

func TestDeclarations_CalcSequence(t *testing.T) {
	got := declarations(t, calcDoc)

	expr := Result{Ident: "Expression", Union: true}
	want := []Decl{
		&Record{Ident: "Number", Ref: schema.TypeRef{Type: "number", Named: true}, Terminal: true},
		&Record{Ident: "Plus", Ref: schema.TypeRef{Type: "+"}, Terminal: true},
		&Record{Ident: "Minus", Ref: schema.TypeRef{Type: "-"}, Terminal: true},
		&Record{
			Ident: "SourceFile",
			Ref:   schema.TypeRef{Type: "source_file", Named: true},
			Root:  true,
			Accessors: []Accessor{
				{Ident: "Children", FieldName: "", Multiple: true, Result: expr},
			},
		},
		&Union{
			Ident:       "BinaryExpressionOperator",
			Synthesized: true,
			Owner:       schema.TypeRef{Type: "binary_expression", Named: true},
			Slot:        "operator",
			Variants: []Variant{
				{Ident: "Plus", Ref: schema.TypeRef{Type: "+"}},
				{Ident: "Minus", Ref: schema.TypeRef{Type: "-"}},
			},
		},
		&Record{
			Ident: "BinaryExpression",
			Ref:   schema.TypeRef{Type: "binary_expression", Named: true},
			Accessors: []Accessor{
				{Ident: "Left", FieldName: "left", Required: true, Result: expr},
				{Ident: "Operator", FieldName: "operator", Required: true,
					Result: Result{Ident: "BinaryExpressionOperator", Union: true}},
				{Ident: "Right", FieldName: "right", Required: true, Result: expr},
			},
		},
		&Union{
			Ident: "PrimaryExpression",
			Ref:   schema.TypeRef{Type: "primary_expression", Named: true},
			Variants: []Variant{
				{Ident: "Number", Ref: schema.TypeRef{Type: "number", Named: true}},
			},
		},
		&Union{
			Ident: "Expression",
			Ref:   schema.TypeRef{Type: "expression", Named: true},
			Variants: []Variant{
				{Ident: "BinaryExpression", Ref: schema.TypeRef{Type: "binary_expression", Named: true}},
				{Ident: "Number", Ref: schema.TypeRef{Type: "number", Named: true}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("declaration sequence mismatch: %s", diff)
	}
}

func TestDeclarations_Deterministic(t *testing.T) {
	a := declarations(t, calcDoc)
	b := declarations(t, calcDoc)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("two runs differ: %s", diff)
	}
}

func TestDeclarations_AccessorShapes(t *testing.T) {
	got := declarations(t, `[
		{"type": "node", "named": true, "fields": {
			"req":  {"multiple": false, "required": true,  "types": [{"type": "leaf", "named": true}]},
			"opt":  {"multiple": false, "required": false, "types": [{"type": "leaf", "named": true}]},
			"many": {"multiple": true,  "required": true,  "types": [{"type": "leaf", "named": true}]},
			"bare": {"multiple": false, "required": true,  "types": []}
		}},
		{"type": "leaf", "named": true}
	]`)

	var rec *Record
	for _, d := range got {
		if r, ok := d.(*Record); ok && r.Ident == "Node" {
			rec = r
		}
	}
	if rec == nil {
		t.Fatalf("record not emitted")
	}
	want := []Accessor{
		{Ident: "Bare", FieldName: "bare", Required: true},
		{Ident: "Many", FieldName: "many", Required: true, Multiple: true, Result: Result{Ident: "Leaf"}},
		{Ident: "Opt", FieldName: "opt", Result: Result{Ident: "Leaf"}},
		{Ident: "Req", FieldName: "req", Required: true, Result: Result{Ident: "Leaf"}},
	}
	if diff := cmp.Diff(want, rec.Accessors); diff != "" {
		t.Fatalf("accessors mismatch: %s", diff)
	}
}

// A slot naming one supertype among several types flattens to the
// supertype's closure, deduplicated against the other members.
func TestDeclarations_FlattenDeduplicates(t *testing.T) {
	got := declarations(t, `[
		{"type": "wrapper", "named": true, "fields": {
			"value": {"multiple": false, "required": true, "types": [
				{"type": "expression", "named": true},
				{"type": "number", "named": true}]}
		}},
		{"type": "expression", "named": true, "subtypes": [{"type": "number", "named": true}]},
		{"type": "number", "named": true}
	]`)

	var u *Union
	for _, d := range got {
		if un, ok := d.(*Union); ok && un.Synthesized {
			u = un
		}
	}
	if u == nil {
		t.Fatalf("synthesized union not emitted")
	}
	want := []Variant{{Ident: "Number", Ref: schema.TypeRef{Type: "number", Named: true}}}
	if diff := cmp.Diff(want, u.Variants); diff != "" {
		t.Fatalf("variants mismatch: %s", diff)
	}
}

func TestDeclarations_SynthesizedNameBackoff(t *testing.T) {
	// A declared type already owns AbCd, so the synthesized union for
	// ab.cd backs off to AbCdUnion.
	got := declarations(t, `[
		{"type": "ab", "named": true, "fields": {
			"cd": {"multiple": false, "required": true, "types": [
				{"type": "x", "named": true}, {"type": "y", "named": true}]}
		}},
		{"type": "ab_cd", "named": true},
		{"type": "x", "named": true},
		{"type": "y", "named": true}
	]`)

	var names []string
	for _, d := range got {
		if u, ok := d.(*Union); ok {
			names = append(names, u.Ident)
		}
	}
	if diff := cmp.Diff([]string{"AbCdUnion"}, names); diff != "" {
		t.Fatalf("union names mismatch: %s", diff)
	}
}

func TestDeclarations_SynthesizedNameExhaustedFails(t *testing.T) {
	_, err := declarationsErr(t, `[
		{"type": "ab", "named": true, "fields": {
			"cd": {"multiple": false, "required": true, "types": [
				{"type": "x", "named": true}, {"type": "y", "named": true}]}
		}},
		{"type": "ab_cd", "named": true},
		{"type": "ab_cd_union", "named": true},
		{"type": "x", "named": true},
		{"type": "y", "named": true}
	]`)
	var de *ident.DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if de.Ident != "AbCdUnion" {
		t.Fatalf("Ident = %q", de.Ident)
	}
}

func TestDeclarations_RootFirstAmongRegulars(t *testing.T) {
	got := declarations(t, `[
		{"type": "alpha", "named": true, "fields": {}},
		{"type": "beta", "named": true, "fields": {}},
		{"type": "gamma", "named": true, "root": true, "fields": {}}
	]`)

	var order []string
	for _, d := range got {
		if r, ok := d.(*Record); ok {
			order = append(order, r.Ident)
		}
	}
	if diff := cmp.Diff([]string{"Gamma", "Alpha", "Beta"}, order); diff != "" {
		t.Fatalf("record order mismatch: %s", diff)
	}
}

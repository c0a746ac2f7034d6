package wrap_test

import (
	"errors"
	"testing"

	"github.com/reoring/tsgen/wrap"
)

type fakeNode struct {
	kind     string
	named    bool
	text     string
	fields   map[string][]*fakeNode
	children []*fakeNode
}

func (n *fakeNode) Kind() string { return n.kind }
func (n *fakeNode) Named() bool  { return n.named }
func (n *fakeNode) Text() []byte { return []byte(n.text) }

func (n *fakeNode) Field(name string, i int) (wrap.Node, bool) {
	occ := n.fields[name]
	if i < 0 || i >= len(occ) {
		return nil, false
	}
	return occ[i], true
}

func (n *fakeNode) Child(i int) (wrap.Node, bool) {
	if i < 0 || i >= len(n.children) {
		return nil, false
	}
	return n.children[i], true
}

func asText(n wrap.Node) (string, error) {
	if n.Kind() == "bad" {
		return "", &wrap.UnknownVariantError{Want: "Text", Kind: n.Kind(), Named: n.Named()}
	}
	return string(n.Text()), nil
}

func TestFieldSeq_CollectsInOrder(t *testing.T) {
	n := &fakeNode{fields: map[string][]*fakeNode{
		"value": {{text: "a"}, {text: "b"}, {text: "c"}},
	}}
	got, err := wrap.FieldSeq(n, "value", asText).Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("collected %v", got)
	}
}

func TestFieldSeq_EmptySlot(t *testing.T) {
	n := &fakeNode{}
	got, err := wrap.FieldSeq(n, "value", asText).Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("collected %v from empty slot", got)
	}
}

func TestSeq_LazyAndRestartable(t *testing.T) {
	n := &fakeNode{children: []*fakeNode{{text: "a"}, {text: "b"}, {text: "c"}}}

	conversions := 0
	seq := wrap.ChildSeq(n, func(c wrap.Node) (string, error) {
		conversions++
		return string(c.Text()), nil
	})

	for v, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v == "a" {
			break
		}
	}
	if conversions != 1 {
		t.Fatalf("converted %d items before break, want 1", conversions)
	}

	// Re-ranging starts over from the first child.
	var again []string
	for v, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		again = append(again, v)
	}
	if len(again) != 3 || again[0] != "a" {
		t.Fatalf("second pass collected %v", again)
	}
}

func TestCollect_StopsAtFirstError(t *testing.T) {
	n := &fakeNode{children: []*fakeNode{{text: "a"}, {kind: "bad"}, {text: "c"}}}
	got, err := wrap.ChildSeq(n, asText).Collect()
	var uv *wrap.UnknownVariantError
	if !errors.As(err, &uv) {
		t.Fatalf("expected UnknownVariantError, got %v", err)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("collected %v before error, want [a]", got)
	}
}

func TestErrorMessages(t *testing.T) {
	uv := &wrap.UnknownVariantError{Want: "Expression", Kind: "comment", Named: true}
	if got := uv.Error(); got != `wrap: kind "comment" does not belong to Expression` {
		t.Fatalf("message = %q", got)
	}
	mf := &wrap.MissingFieldError{Kind: "binary_expression", Field: "left"}
	if got := mf.Error(); got != "wrap: binary_expression: missing required left" {
		t.Fatalf("message = %q", got)
	}
}

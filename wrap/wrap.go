// Package wrap defines the runtime surface generated wrappers build on:
// the Node contract a syntax tree must satisfy, the sequence type used
// by repeated slots, and the errors generated accessors return.
//
// The package deliberately owns no tree. Any parser whose nodes can
// answer the five Node questions can sit underneath generated bindings;
// tests and tools are free to implement Node over simple structs.
package wrap

import "fmt"

// Node is one underlying syntax tree node.
//
// Kind returns the grammar spelling of the node's type ("binary_expression",
// "+"). Named distinguishes grammar rules from anonymous tokens, which
// may share a spelling. Field addresses the i'th occupant of a named
// field slot; Child addresses the i'th member of the anonymous children
// slot. Both report false once i runs past the last occupant.
type Node interface {
	Kind() string
	Named() bool
	Text() []byte
	Field(name string, i int) (Node, bool)
	Child(i int) (Node, bool)
}

// UnknownVariantError reports a node whose kind lies outside the closed
// set a generated type accepts, typically a tree produced by a different
// grammar version than the bindings.
type UnknownVariantError struct {
	Want  string
	Kind  string
	Named bool
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("wrap: kind %q does not belong to %s", e.Kind, e.Want)
}

// MissingFieldError reports a required slot with no occupant. Field is
// the grammar field name, or "children" for the anonymous slot.
type MissingFieldError struct {
	Kind  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("wrap: %s: missing required %s", e.Kind, e.Field)
}

// Seq is a lazy, restartable sequence of typed wrappers. Ranging over it
// converts occupants one at a time; a conversion failure is delivered
// through the error half and ends the useful part of the sequence.
// Re-ranging restarts from the first occupant.
type Seq[T any] func(yield func(T, error) bool)

// Collect drains the sequence. It stops at the first conversion error
// and returns the occupants gathered before it.
func (s Seq[T]) Collect() ([]T, error) {
	var out []T
	var firstErr error
	s(func(v T, err error) bool {
		if err != nil {
			firstErr = err
			return false
		}
		out = append(out, v)
		return true
	})
	return out, firstErr
}

// FieldSeq sequences the occupants of a named field slot through the
// given conversion.
func FieldSeq[T any](n Node, name string, as func(Node) (T, error)) Seq[T] {
	return func(yield func(T, error) bool) {
		for i := 0; ; i++ {
			child, ok := n.Field(name, i)
			if !ok {
				return
			}
			if !yield(as(child)) {
				return
			}
		}
	}
}

// ChildSeq sequences the members of the anonymous children slot through
// the given conversion.
func ChildSeq[T any](n Node, as func(Node) (T, error)) Seq[T] {
	return func(yield func(T, error) bool) {
		for i := 0; ; i++ {
			child, ok := n.Child(i)
			if !ok {
				return
			}
			if !yield(as(child)) {
				return
			}
		}
	}
}

// Raw is the identity conversion, for slots whose node types the
// grammar leaves open.
func Raw(n Node) (Node, error) { return n, nil }

package emit

import "github.com/reoring/tsgen/schema"

// DeclKind identifies a declaration type.
type DeclKind int

const (
	DeclRecord DeclKind = iota
	DeclUnion
)

// Decl is one abstract declaration in the emitted sequence.
type Decl interface {
	Kind() DeclKind
}

// Record declares the typed wrapper for one concrete node type. A
// terminal record carries no accessors; it still exists so unions can
// close over it and callers get the generic kind/text surface.
type Record struct {
	Ident     string
	Ref       schema.TypeRef
	Terminal  bool
	Root      bool
	Extra     bool
	Accessors []Accessor
}

func (r *Record) Kind() DeclKind { return DeclRecord }

// Accessor declares one generated method. FieldName is the grammar slot
// it reads; empty means the anonymous children slot. The result shape
// follows (Required, Multiple): required single value, optional single
// value, or sequence.
type Accessor struct {
	Ident     string
	FieldName string
	Required  bool
	Multiple  bool
	Result    Result
}

// Result is the accessor's value type: a record, a union interface, or
// the untyped node surface when Ident is empty (a slot whose types set
// is declared empty).
type Result struct {
	Ident string
	Union bool
}

// Union declares a closed union interface. Supertype unions carry the
// declaring Ref; field unions are synthesized from a multi-typed slot
// and record the owning type and slot name instead.
type Union struct {
	Ident       string
	Ref         schema.TypeRef
	Synthesized bool
	Owner       schema.TypeRef
	Slot        string
	Variants    []Variant
}

func (u *Union) Kind() DeclKind { return DeclUnion }

// Variant is one member of a closed union: always a concrete record,
// identified by wrapper ident and grammar kind.
type Variant struct {
	Ident string
	Ref   schema.TypeRef
}

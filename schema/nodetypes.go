package schema

import (
	"fmt"
	"io"
	"os"
	"sort"

	j "github.com/goccy/go-json"
)

// DefaultNodeTypesFile is the file name the tree-sitter CLI writes the
// node-type list to, relative to a grammar's source directory.
const DefaultNodeTypesFile = "node-types.json"

// TypeRef identifies a node type by its grammar spelling and named flag.
// A named rule and an anonymous token may share a spelling ("if" the rule
// vs "if" the keyword), so the pair is the identity, not the spelling.
type TypeRef struct {
	Type  string `json:"type"`
	Named bool   `json:"named"`
}

func (r TypeRef) String() string {
	if r.Named {
		return r.Type
	}
	return fmt.Sprintf("%q", r.Type)
}

// FieldSpec constrains one child slot of a node type: whether the slot
// must be occupied, whether it repeats, and the set of node kinds allowed
// to occupy it (a union when more than one).
type FieldSpec struct {
	Multiple bool      `json:"multiple"`
	Required bool      `json:"required"`
	Types    []TypeRef `json:"types"`
}

// Kind classifies a declaration by its structural role in the grammar.
type Kind int

const (
	// KindRegular is a concrete node with fields and/or a children slot.
	KindRegular Kind = iota
	// KindSupertype is a union over other node types via its subtypes list.
	KindSupertype
	// KindTerminal is a leaf token: no fields, no children, no subtypes.
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindSupertype:
		return "supertype"
	case KindTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Decl is one node-type declaration. Fields and Children are nil when the
// corresponding key is absent from the document; an empty Fields map is a
// regular node that happens to declare no named fields.
type Decl struct {
	TypeRef
	Fields   map[string]FieldSpec
	Children *FieldSpec
	Subtypes []TypeRef
	Extra    bool
	Root     bool
}

// Kind reports the declaration's structural role. A declaration carrying a
// subtypes list is a supertype; one with neither fields, children, nor
// subtypes is a terminal token; everything else is a regular node.
func (d *Decl) Kind() Kind {
	switch {
	case d.Subtypes != nil:
		return KindSupertype
	case d.Fields == nil && d.Children == nil:
		return KindTerminal
	default:
		return KindRegular
	}
}

// FieldNames returns the declared field names in ascending order so every
// downstream pass sees the same sequence regardless of decode order.
func (d *Decl) FieldNames() []string {
	if len(d.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeTypes is one loaded node-types document: the declarations in
// document order plus an identity index.
type NodeTypes struct {
	decls []Decl
	index map[TypeRef]int
}

// DecodeNodeTypes parses a node-types document from raw JSON.
func DecodeNodeTypes(data []byte) (*NodeTypes, error) {
	var raw []rawDecl
	if err := j.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Entry: "node-types", Reason: "document is not a JSON array of declarations", Cause: err}
	}
	nt := &NodeTypes{
		decls: make([]Decl, 0, len(raw)),
		index: make(map[TypeRef]int, len(raw)),
	}
	for i, r := range raw {
		decl, err := r.validate(i)
		if err != nil {
			return nil, err
		}
		if prev, ok := nt.index[decl.TypeRef]; ok {
			return nil, &Error{
				Entry:  decl.TypeRef.String(),
				Reason: fmt.Sprintf("duplicate declaration of %s (entries %d and %d)", decl.TypeRef, prev, i),
			}
		}
		nt.index[decl.TypeRef] = len(nt.decls)
		nt.decls = append(nt.decls, decl)
	}
	return nt, nil
}

// ReadNodeTypes decodes a node-types document from r.
func ReadNodeTypes(r io.Reader) (*NodeTypes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Entry: "node-types", Reason: "read input", Cause: err}
	}
	return DecodeNodeTypes(data)
}

// LoadNodeTypes decodes the node-types document at path.
func LoadNodeTypes(path string) (*NodeTypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Entry: path, Reason: "open node-types file", Cause: err}
	}
	nt, err := DecodeNodeTypes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nt, nil
}

// Decls returns the declarations in document order. The slice is shared;
// callers must not mutate it.
func (nt *NodeTypes) Decls() []Decl { return nt.decls }

// Len reports the number of declarations.
func (nt *NodeTypes) Len() int { return len(nt.decls) }

// Lookup resolves a TypeRef to its declaration.
func (nt *NodeTypes) Lookup(ref TypeRef) (*Decl, bool) {
	i, ok := nt.index[ref]
	if !ok {
		return nil, false
	}
	return &nt.decls[i], true
}

// Root returns the declaration marked as the grammar's root, if any.
func (nt *NodeTypes) Root() (*Decl, bool) {
	for i := range nt.decls {
		if nt.decls[i].Root {
			return &nt.decls[i], true
		}
	}
	return nil, false
}

// SupertypeNames, RegularNames, TerminalNames, and FieldNames feed the
// constants output: each returns its group's grammar spellings sorted
// ascending, deduplicated.

func (nt *NodeTypes) SupertypeNames() []string {
	return nt.names(func(d *Decl) bool { return d.Kind() == KindSupertype })
}

func (nt *NodeTypes) RegularNames() []string {
	return nt.names(func(d *Decl) bool { return d.Kind() == KindRegular })
}

func (nt *NodeTypes) TerminalNames() []string {
	return nt.names(func(d *Decl) bool { return d.Kind() == KindTerminal })
}

func (nt *NodeTypes) names(keep func(*Decl) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range nt.decls {
		d := &nt.decls[i]
		if !keep(d) {
			continue
		}
		if _, dup := seen[d.Type]; dup {
			continue
		}
		seen[d.Type] = struct{}{}
		out = append(out, d.Type)
	}
	sort.Strings(out)
	return out
}

// FieldNames returns every field name used by any declaration, sorted.
func (nt *NodeTypes) FieldNames() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range nt.decls {
		for name := range nt.decls[i].Fields {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ---- raw decode shapes ----
//
// The document format requires type/named on every reference and
// multiple/required/types on every field spec; pointers keep "absent"
// distinguishable from a zero value so missing keys are reported as such
// instead of silently defaulting.

type rawTypeRef struct {
	Type  *string `json:"type"`
	Named *bool   `json:"named"`
}

func (r *rawTypeRef) validate(where string) (TypeRef, error) {
	if r.Type == nil || *r.Type == "" {
		return TypeRef{}, &Error{Entry: where, Reason: `missing or empty "type"`}
	}
	if r.Named == nil {
		return TypeRef{}, &Error{Entry: where, Reason: fmt.Sprintf(`missing "named" on reference to %q`, *r.Type)}
	}
	return TypeRef{Type: *r.Type, Named: *r.Named}, nil
}

type rawFieldSpec struct {
	Multiple *bool        `json:"multiple"`
	Required *bool        `json:"required"`
	Types    []rawTypeRef `json:"types"`
}

func (r *rawFieldSpec) validate(where string) (FieldSpec, error) {
	if r.Multiple == nil {
		return FieldSpec{}, &Error{Entry: where, Reason: `missing "multiple"`}
	}
	if r.Required == nil {
		return FieldSpec{}, &Error{Entry: where, Reason: `missing "required"`}
	}
	if r.Types == nil {
		return FieldSpec{}, &Error{Entry: where, Reason: `missing "types"`}
	}
	spec := FieldSpec{Multiple: *r.Multiple, Required: *r.Required}
	if len(r.Types) > 0 {
		spec.Types = make([]TypeRef, 0, len(r.Types))
	}
	for i := range r.Types {
		ref, err := r.Types[i].validate(where)
		if err != nil {
			return FieldSpec{}, err
		}
		spec.Types = append(spec.Types, ref)
	}
	return spec, nil
}

type rawDecl struct {
	Type     *string                 `json:"type"`
	Named    *bool                   `json:"named"`
	Fields   map[string]rawFieldSpec `json:"fields"`
	Children *rawFieldSpec           `json:"children"`
	Subtypes []rawTypeRef            `json:"subtypes"`
	Extra    bool                    `json:"extra"`
	Root     bool                    `json:"root"`
}

func (r *rawDecl) validate(pos int) (Decl, error) {
	where := fmt.Sprintf("entry %d", pos)
	if r.Type == nil || *r.Type == "" {
		return Decl{}, &Error{Entry: where, Reason: `missing or empty "type"`}
	}
	where = *r.Type
	if r.Named == nil {
		return Decl{}, &Error{Entry: where, Reason: `missing "named"`}
	}
	if r.Subtypes != nil && (r.Fields != nil || r.Children != nil) {
		return Decl{}, &Error{Entry: where, Reason: "declaration mixes subtypes with fields/children"}
	}
	decl := Decl{
		TypeRef: TypeRef{Type: *r.Type, Named: *r.Named},
		Extra:   r.Extra,
		Root:    r.Root,
	}
	if r.Fields != nil {
		decl.Fields = make(map[string]FieldSpec, len(r.Fields))
		for name, rf := range r.Fields {
			if name == "" {
				return Decl{}, &Error{Entry: where, Reason: "empty field name"}
			}
			spec, err := rf.validate(where + "." + name)
			if err != nil {
				return Decl{}, err
			}
			decl.Fields[name] = spec
		}
	}
	if r.Children != nil {
		spec, err := r.Children.validate(where + ".children")
		if err != nil {
			return Decl{}, err
		}
		decl.Children = &spec
	}
	if r.Subtypes != nil {
		decl.Subtypes = make([]TypeRef, 0, len(r.Subtypes))
		for i := range r.Subtypes {
			ref, err := r.Subtypes[i].validate(where + ".subtypes")
			if err != nil {
				return Decl{}, err
			}
			decl.Subtypes = append(decl.Subtypes, ref)
		}
	}
	return decl, nil
}

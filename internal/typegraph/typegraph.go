// Package typegraph turns the flat declaration list of a node-types
// document into a closed, index-linked type graph. Declarations may
// forward-reference each other freely; building runs an identity pass
// first and a resolution pass second, so document order never matters.
// Supertype closures are computed eagerly and cycles are rejected.
package typegraph

import (
	"fmt"
	"strings"

	"github.com/reoring/tsgen/internal/ident"
	"github.com/reoring/tsgen/schema"
)

// Node is one resolved type. Edges are graph indices rather than
// pointers, so the graph stays acyclic in memory even when the type
// structure is recursive.
type Node struct {
	ID   int
	Ref  schema.TypeRef
	Kind schema.Kind

	// Ident is the exported identifier assigned to this type. Empty
	// until identifier assignment runs over the graph.
	Ident string

	Fields   []Field
	Children *Field

	// Subtypes lists a supertype's direct subtypes. Leaves is its
	// transitive closure over subtype edges: concrete node IDs only,
	// deduplicated, ascending.
	Subtypes []int
	Leaves   []int

	Extra bool
	Root  bool
}

// Field is one resolved child slot: a named field, or the anonymous
// children slot. Types holds the IDs of the node types allowed to occupy
// the slot, in declaration order.
type Field struct {
	Name     string
	Ident    string
	Required bool
	Multiple bool
	Types    []int
}

// Graph is the resolved type graph for one document.
type Graph struct {
	nodes  []Node
	index  map[schema.TypeRef]int
	rootID int
}

// UnresolvedError reports a TypeRef that names no declaration. Slot says
// where the dangling reference sits: a field name, "children", or
// "subtypes".
type UnresolvedError struct {
	From schema.TypeRef
	Slot string
	Ref  schema.TypeRef
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("typegraph: %s.%s: unresolved type reference %s", e.From, e.Slot, e.Ref)
}

// CycleError reports a supertype that reaches itself through subtype
// edges. Path holds the cycle in first-visit order, closing ref last.
type CycleError struct {
	Path []schema.TypeRef
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Path))
	for _, ref := range e.Path {
		parts = append(parts, ref.String())
	}
	return "typegraph: supertype cycle: " + strings.Join(parts, " -> ")
}

// Build resolves a loaded document into a Graph. The first pass creates
// one node per declaration so the second pass can resolve references in
// any order; the closure pass then computes every supertype's leaf set,
// and identifier assignment runs last over the whole document.
func Build(nt *schema.NodeTypes) (*Graph, error) {
	decls := nt.Decls()
	g := &Graph{
		nodes:  make([]Node, len(decls)),
		index:  make(map[schema.TypeRef]int, len(decls)),
		rootID: -1,
	}

	for i := range decls {
		d := &decls[i]
		g.nodes[i] = Node{
			ID:    i,
			Ref:   d.TypeRef,
			Kind:  d.Kind(),
			Extra: d.Extra,
			Root:  d.Root,
		}
		g.index[d.TypeRef] = i
		if d.Root && g.rootID < 0 {
			g.rootID = i
		}
	}

	for i := range decls {
		d := &decls[i]
		n := &g.nodes[i]
		for _, name := range d.FieldNames() {
			f, err := g.resolveField(d.TypeRef, name, d.Fields[name])
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, f)
		}
		if d.Children != nil {
			f, err := g.resolveField(d.TypeRef, "children", *d.Children)
			if err != nil {
				return nil, err
			}
			n.Children = &f
		}
		for _, ref := range d.Subtypes {
			id, ok := g.index[ref]
			if !ok {
				return nil, &UnresolvedError{From: d.TypeRef, Slot: "subtypes", Ref: ref}
			}
			n.Subtypes = append(n.Subtypes, id)
		}
	}

	if err := g.computeClosures(); err != nil {
		return nil, err
	}
	if err := g.assignIdents(nt); err != nil {
		return nil, err
	}
	return g, nil
}

// assignIdents fills Node.Ident and Field.Ident for the whole graph. The
// children slot always answers to the reserved Children accessor.
func (g *Graph) assignIdents(nt *schema.NodeTypes) error {
	types, err := ident.Types(nt)
	if err != nil {
		return err
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		n.Ident = types[n.Ref]
		if len(n.Fields) > 0 {
			names := make([]string, 0, len(n.Fields))
			for _, f := range n.Fields {
				names = append(names, f.Name)
			}
			fields, err := ident.Fields(n.Ref, names)
			if err != nil {
				return err
			}
			for fi := range n.Fields {
				n.Fields[fi].Ident = fields[n.Fields[fi].Name]
			}
		}
		if n.Children != nil {
			n.Children.Ident = ident.ChildrenAccessor
		}
	}
	return nil
}

func (g *Graph) resolveField(from schema.TypeRef, name string, spec schema.FieldSpec) (Field, error) {
	f := Field{
		Name:     name,
		Required: spec.Required,
		Multiple: spec.Multiple,
	}
	for _, ref := range spec.Types {
		id, ok := g.index[ref]
		if !ok {
			return Field{}, &UnresolvedError{From: from, Slot: name, Ref: ref}
		}
		f.Types = append(f.Types, id)
	}
	return f, nil
}

// Len reports the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given ID. The pointer aliases graph
// storage; identifier assignment mutates nodes through it.
func (g *Graph) Node(id int) *Node { return &g.nodes[id] }

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Lookup resolves a TypeRef to its node ID.
func (g *Graph) Lookup(ref schema.TypeRef) (int, bool) {
	id, ok := g.index[ref]
	return id, ok
}

// RootID returns the ID of the declaration flagged as the grammar root,
// or -1 when the document has none.
func (g *Graph) RootID() int { return g.rootID }

// Package emit walks a resolved type graph and produces the ordered,
// renderer-independent declaration sequence for the wrapper output. The
// walk is pure: the same graph always yields the same sequence, and no
// file or template is touched here.
package emit

import (
	"sort"

	"github.com/reoring/tsgen/internal/ident"
	"github.com/reoring/tsgen/internal/typegraph"
	"github.com/reoring/tsgen/schema"
)

// Declarations flattens the graph into emission order: terminal records,
// then regular records (grammar root first), then supertype unions with
// nested supertypes ahead of their ancestors. Unions synthesized for
// multi-typed slots precede the record that reads them.
func Declarations(g *typegraph.Graph) ([]Decl, error) {
	taken := make(map[string]struct{}, g.Len())
	for _, n := range g.Nodes() {
		taken[n.Ident] = struct{}{}
	}

	var terminals, regulars, supers []int
	for _, n := range g.Nodes() {
		switch n.Kind {
		case schema.KindTerminal:
			terminals = append(terminals, n.ID)
		case schema.KindRegular:
			regulars = append(regulars, n.ID)
		}
	}
	if rootID := g.RootID(); rootID >= 0 {
		for i, id := range regulars {
			if id == rootID && i > 0 {
				copy(regulars[1:i+1], regulars[:i])
				regulars[0] = rootID
				break
			}
		}
	}
	supers = supertypePostOrder(g)

	decls := make([]Decl, 0, g.Len())
	for _, id := range terminals {
		n := g.Node(id)
		decls = append(decls, &Record{
			Ident:    n.Ident,
			Ref:      n.Ref,
			Terminal: true,
			Root:     id == g.RootID(),
			Extra:    n.Extra,
		})
	}
	for _, id := range regulars {
		n := g.Node(id)
		rec := &Record{
			Ident: n.Ident,
			Ref:   n.Ref,
			Root:  id == g.RootID(),
			Extra: n.Extra,
		}
		for _, f := range n.Fields {
			acc, u, err := accessorFor(g, n, f, taken)
			if err != nil {
				return nil, err
			}
			if u != nil {
				decls = append(decls, u)
			}
			rec.Accessors = append(rec.Accessors, acc)
		}
		if n.Children != nil {
			acc, u, err := accessorFor(g, n, *n.Children, taken)
			if err != nil {
				return nil, err
			}
			acc.FieldName = ""
			if u != nil {
				decls = append(decls, u)
			}
			rec.Accessors = append(rec.Accessors, acc)
		}
		decls = append(decls, rec)
	}
	for _, id := range supers {
		n := g.Node(id)
		decls = append(decls, &Union{
			Ident:    n.Ident,
			Ref:      n.Ref,
			Variants: variants(g, n.Leaves),
		})
	}
	return decls, nil
}

// accessorFor resolves one slot. A slot typed by several node types gets
// a synthesized union named after owner and accessor; the name backs off
// with a Union suffix once, then fails as a duplicate.
func accessorFor(g *typegraph.Graph, owner *typegraph.Node, f typegraph.Field, taken map[string]struct{}) (Accessor, *Union, error) {
	acc := Accessor{
		Ident:     f.Ident,
		FieldName: f.Name,
		Required:  f.Required,
		Multiple:  f.Multiple,
	}
	switch len(f.Types) {
	case 0:
		return acc, nil, nil
	case 1:
		t := g.Node(f.Types[0])
		acc.Result = Result{Ident: t.Ident, Union: t.Kind == schema.KindSupertype}
		return acc, nil, nil
	}

	name := owner.Ident + f.Ident
	if _, dup := taken[name]; dup {
		name += "Union"
	}
	if _, dup := taken[name]; dup {
		return Accessor{}, nil, &ident.DuplicateError{
			Ident: name,
			Where: []string{owner.Ref.String() + "." + f.Name},
		}
	}
	taken[name] = struct{}{}

	u := &Union{
		Ident:       name,
		Synthesized: true,
		Owner:       owner.Ref,
		Slot:        f.Name,
		Variants:    variants(g, flatten(g, f.Types)),
	}
	acc.Result = Result{Ident: name, Union: true}
	return acc, u, nil
}

// flatten expands a slot's type list to concrete node IDs: supertype
// members contribute their leaf closure, never themselves.
func flatten(g *typegraph.Graph, types []int) []int {
	seen := make(map[int]struct{}, len(types))
	var out []int
	add := func(id int) {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range types {
		n := g.Node(id)
		if n.Kind == schema.KindSupertype {
			for _, leaf := range n.Leaves {
				add(leaf)
			}
			continue
		}
		add(id)
	}
	sort.Ints(out)
	return out
}

func variants(g *typegraph.Graph, ids []int) []Variant {
	vs := make([]Variant, 0, len(ids))
	for _, id := range ids {
		n := g.Node(id)
		vs = append(vs, Variant{Ident: n.Ident, Ref: n.Ref})
	}
	return vs
}

// supertypePostOrder returns supertype IDs with nested supertypes ahead
// of ancestors, document order breaking ties.
func supertypePostOrder(g *typegraph.Graph) []int {
	var order []int
	visited := make(map[int]bool, g.Len())
	var walk func(id int)
	walk = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, sub := range g.Node(id).Subtypes {
			if g.Node(sub).Kind == schema.KindSupertype {
				walk(sub)
			}
		}
		order = append(order, id)
	}
	for _, n := range g.Nodes() {
		if n.Kind == schema.KindSupertype {
			walk(n.ID)
		}
	}
	return order
}

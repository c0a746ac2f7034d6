package gen

import (
	"go/token"
	"strconv"
	"strings"

	"github.com/reoring/tsgen/internal/emit"
	"github.com/reoring/tsgen/internal/ident"
	"github.com/reoring/tsgen/internal/typegraph"
	"github.com/reoring/tsgen/schema"
)

// wrapImport is the runtime contract package every generated wrapper
// file depends on.
const wrapImport = "github.com/reoring/tsgen/wrap"

func init() { Register(golang{}) }

// golang renders the Go binding: a constants file and a wrapper file
// declaring the same package.
type golang struct{}

func (golang) Language() string      { return "go" }
func (golang) ConstantsFile() string { return "nodes.go" }
func (golang) WrapperFile() string   { return "wrapper.go" }

func (golang) pkg(opts Options) string {
	if opts.Package != "" {
		return opts.Package
	}
	if opts.Grammar != "" {
		if p := strings.ToLower(opts.Grammar); !token.IsKeyword(p) {
			return p
		}
	}
	return "bindings"
}

func (g golang) fileHeader(p *printer, opts Options, root string) {
	p.P("// Code generated by tsgen. DO NOT EDIT.")
	if opts.Grammar != "" {
		p.P("// grammar: ", opts.Grammar)
	}
	if root != "" {
		p.P("// root: ", root)
	}
	p.P()
	p.P("package ", g.pkg(opts))
}

// kindConst names the constant holding a node type's kind tag. Named
// and anonymous spellings live in separate blocks, so the prefix keeps
// pairs like a "fn" keyword token and a fn node apart.
func kindConst(ref schema.TypeRef) string {
	if ref.Named {
		return "Node" + ident.Exported(ref.Type)
	}
	return "Sym" + ident.Exported(ref.Type)
}

func fieldConst(name string) string { return "Field" + ident.Exported(name) }

func (g golang) Wrapper(tg *typegraph.Graph, decls []emit.Decl, opts Options) ([]byte, error) {
	if _, err := fieldConstants(tg); err != nil {
		return nil, err
	}
	root := opts.Root
	for _, d := range decls {
		if rec, ok := d.(*emit.Record); ok && rec.Root {
			root = rec.Ref.Type
			break
		}
	}
	p := &printer{}
	g.fileHeader(p, opts, root)
	p.P()
	p.P("import (")
	p.in()
	p.P(strconv.Quote(wrapImport))
	p.out()
	p.P(")")
	for _, d := range decls {
		p.P()
		switch d := d.(type) {
		case *emit.Record:
			g.record(p, d)
		case *emit.Union:
			g.union(p, d)
		}
	}
	return p.bytes(), nil
}

func (g golang) record(p *printer, rec *emit.Record) {
	kind := kindConst(rec.Ref)
	what := "nodes"
	if rec.Terminal {
		what = "tokens"
	}
	switch {
	case rec.Root:
		p.P("// ", rec.Ident, " wraps ", strconv.Quote(rec.Ref.Type), " ", what, ", the grammar root.")
	case rec.Extra:
		p.P("// ", rec.Ident, " wraps ", strconv.Quote(rec.Ref.Type), " ", what, ", which the grammar allows anywhere.")
	default:
		p.P("// ", rec.Ident, " wraps ", strconv.Quote(rec.Ref.Type), " ", what, ".")
	}
	p.P("type ", rec.Ident, " struct {")
	p.in()
	p.P("node wrap.Node")
	p.out()
	p.P("}")
	p.P()
	p.P("// As", rec.Ident, " wraps node as ", rec.Ident, " after checking its kind.")
	p.P("func As", rec.Ident, "(node wrap.Node) (", rec.Ident, ", error) {")
	p.in()
	if rec.Ref.Named {
		p.P("if !node.Named() || node.Kind() != ", kind, " {")
	} else {
		p.P("if node.Named() || node.Kind() != ", kind, " {")
	}
	p.in()
	p.P("return ", rec.Ident, "{}, &wrap.UnknownVariantError{Want: ", strconv.Quote(rec.Ident), ", Kind: node.Kind(), Named: node.Named()}")
	p.out()
	p.P("}")
	p.P("return ", rec.Ident, "{node: node}, nil")
	p.out()
	p.P("}")
	p.P()
	p.P("// Node returns the wrapped tree node.")
	p.P("func (n ", rec.Ident, ") Node() wrap.Node { return n.node }")
	p.P()
	p.P("// Kind returns the node kind ", rec.Ident, " asserts.")
	p.P("func (n ", rec.Ident, ") Kind() string { return ", kind, " }")
	p.P()
	p.P("// Text returns the node's source text.")
	p.P("func (n ", rec.Ident, ") Text() []byte { return n.node.Text() }")
	for _, acc := range rec.Accessors {
		p.P()
		g.accessor(p, rec, acc)
	}
}

func (g golang) accessor(p *printer, rec *emit.Record, acc emit.Accessor) {
	children := acc.FieldName == ""

	resType := "wrap.Node"
	zero := "nil"
	convert := ""
	switch {
	case acc.Result.Ident == "":
	case acc.Result.Union:
		resType = acc.Result.Ident
		convert = "As" + acc.Result.Ident
	default:
		resType = acc.Result.Ident
		zero = acc.Result.Ident + "{}"
		convert = "As" + acc.Result.Ident
	}

	fetch := "n.node.Field(" + fieldConst(acc.FieldName) + ", 0)"
	missingSlot := fieldConst(acc.FieldName)
	if children {
		fetch = "n.node.Child(0)"
		missingSlot = strconv.Quote("children")
	}
	missing := "&wrap.MissingFieldError{Kind: " + kindConst(rec.Ref) + ", Field: " + missingSlot + "}"

	switch {
	case children && acc.Multiple:
		p.P("// ", acc.Ident, " iterates the children outside any field, in source order.")
	case children && acc.Required:
		p.P("// ", acc.Ident, " returns the sole child outside any field.")
	case children:
		p.P("// ", acc.Ident, " returns the child outside any field, when present.")
	case acc.Multiple:
		p.P("// ", acc.Ident, " iterates the ", strconv.Quote(acc.FieldName), " field in source order.")
	case acc.Required:
		p.P("// ", acc.Ident, " returns the ", strconv.Quote(acc.FieldName), " field.")
	default:
		p.P("// ", acc.Ident, " returns the ", strconv.Quote(acc.FieldName), " field, when present.")
	}

	sig := "func (n " + rec.Ident + ") " + acc.Ident + "()"
	switch {
	case acc.Multiple:
		as := convert
		if as == "" {
			as = "wrap.Raw"
		}
		p.P(sig, " wrap.Seq[", resType, "] {")
		p.in()
		if children {
			p.P("return wrap.ChildSeq(n.node, ", as, ")")
		} else {
			p.P("return wrap.FieldSeq(n.node, ", fieldConst(acc.FieldName), ", ", as, ")")
		}
		p.out()
		p.P("}")
	case acc.Required:
		p.P(sig, " (", resType, ", error) {")
		p.in()
		p.P("child, ok := ", fetch)
		p.P("if !ok {")
		p.in()
		p.P("return ", zero, ", ", missing)
		p.out()
		p.P("}")
		if convert == "" {
			p.P("return child, nil")
		} else {
			p.P("return ", convert, "(child)")
		}
		p.out()
		p.P("}")
	default:
		p.P(sig, " (", resType, ", bool, error) {")
		p.in()
		p.P("child, ok := ", fetch)
		p.P("if !ok {")
		p.in()
		p.P("return ", zero, ", false, nil")
		p.out()
		p.P("}")
		if convert == "" {
			p.P("return child, true, nil")
		} else {
			p.P("v, err := ", convert, "(child)")
			p.P("if err != nil {")
			p.in()
			p.P("return ", zero, ", false, err")
			p.out()
			p.P("}")
			p.P("return v, true, nil")
		}
		p.out()
		p.P("}")
	}
}

func (g golang) union(p *printer, u *emit.Union) {
	if u.Synthesized {
		p.P("// ", u.Ident, " is the closed set of kinds the ", strconv.Quote(u.Slot), " slot of ", strconv.Quote(u.Owner.Type), " admits.")
	} else {
		p.P("// ", u.Ident, " is the closed set of kinds the ", strconv.Quote(u.Ref.Type), " supertype admits.")
	}
	p.P("type ", u.Ident, " interface {")
	p.in()
	p.P("Node() wrap.Node")
	p.P()
	p.P("is", u.Ident, "()")
	p.out()
	p.P("}")
	p.P()
	p.P("// As", u.Ident, " wraps node as the variant its kind selects.")
	p.P("func As", u.Ident, "(node wrap.Node) (", u.Ident, ", error) {")
	p.in()
	var named, anon []emit.Variant
	for _, v := range u.Variants {
		if v.Ref.Named {
			named = append(named, v)
		} else {
			anon = append(anon, v)
		}
	}
	cases := func(vs []emit.Variant) {
		p.P("switch node.Kind() {")
		for _, v := range vs {
			p.P("case ", kindConst(v.Ref), ":")
			p.in()
			p.P("return ", v.Ident, "{node: node}, nil")
			p.out()
		}
		p.P("}")
	}
	switch {
	case len(named) > 0 && len(anon) > 0:
		p.P("if node.Named() {")
		p.in()
		cases(named)
		p.out()
		p.P("} else {")
		p.in()
		cases(anon)
		p.out()
		p.P("}")
	case len(named) > 0:
		p.P("if node.Named() {")
		p.in()
		cases(named)
		p.out()
		p.P("}")
	case len(anon) > 0:
		p.P("if !node.Named() {")
		p.in()
		cases(anon)
		p.out()
		p.P("}")
	}
	p.P("return nil, &wrap.UnknownVariantError{Want: ", strconv.Quote(u.Ident), ", Kind: node.Kind(), Named: node.Named()}")
	p.out()
	p.P("}")
	p.P()
	for _, v := range u.Variants {
		p.P("func (", v.Ident, ") is", u.Ident, "() {}")
	}
}

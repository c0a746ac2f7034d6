package gen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/tsgen/internal/ident"
	"github.com/reoring/tsgen/internal/typegraph"
	"github.com/reoring/tsgen/schema"
)

// constant is one name/value pair in a generated const block.
type constant struct {
	name  string
	value string
}

func (g golang) Constants(tg *typegraph.Graph, opts Options) ([]byte, error) {
	fields, err := fieldConstants(tg)
	if err != nil {
		return nil, err
	}
	p := &printer{}
	g.fileHeader(p, opts, "")
	writeConstBlock(p, "Kinds of named nodes.", kindConstants(tg, true))
	writeConstBlock(p, "Kinds of anonymous nodes.", kindConstants(tg, false))
	writeConstBlock(p, "Supertype names. Tree nodes never carry these kinds.", superConstants(tg))
	writeConstBlock(p, "Field names.", fields)
	return p.bytes(), nil
}

func writeConstBlock(p *printer, doc string, consts []constant) {
	if len(consts) == 0 {
		return
	}
	width := 0
	for _, c := range consts {
		if len(c.name) > width {
			width = len(c.name)
		}
	}
	p.P()
	p.P("// ", doc)
	p.P("const (")
	p.in()
	for _, c := range consts {
		p.P(c.name, strings.Repeat(" ", width-len(c.name)), " = ", strconv.Quote(c.value))
	}
	p.out()
	p.P(")")
}

func kindConstants(tg *typegraph.Graph, named bool) []constant {
	var out []constant
	for _, n := range tg.Nodes() {
		if n.Kind == schema.KindSupertype || n.Ref.Named != named {
			continue
		}
		out = append(out, constant{name: kindConst(n.Ref), value: n.Ref.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].value < out[j].value })
	return out
}

func superConstants(tg *typegraph.Graph) []constant {
	var out []constant
	for _, n := range tg.Nodes() {
		if n.Kind != schema.KindSupertype {
			continue
		}
		out = append(out, constant{name: "Super" + ident.Exported(n.Ref.Type), value: n.Ref.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].value < out[j].value })
	return out
}

// fieldConstants collects every field name in the graph into one sorted
// block. Field idents are only checked per record while building the
// graph, so two records may legally spell the same constant differently;
// that clash surfaces here.
func fieldConstants(tg *typegraph.Graph) ([]constant, error) {
	owners := make(map[string]string)
	var names []string
	for _, n := range tg.Nodes() {
		for _, f := range n.Fields {
			if _, seen := owners[f.Name]; seen {
				continue
			}
			owners[f.Name] = n.Ref.String() + "." + f.Name
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	byConst := make(map[string]string, len(names))
	out := make([]constant, 0, len(names))
	for _, name := range names {
		c := fieldConst(name)
		if prev, dup := byConst[c]; dup {
			return nil, &ident.DuplicateError{Ident: c, Where: []string{prev, owners[name]}}
		}
		byConst[c] = owners[name]
		out = append(out, constant{name: c, value: name})
	}
	return out, nil
}

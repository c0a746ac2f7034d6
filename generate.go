package tsgen

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/containerd/log"
	j "github.com/goccy/go-json"

	"github.com/reoring/tsgen/internal/emit"
	"github.com/reoring/tsgen/internal/gen"
	"github.com/reoring/tsgen/internal/typegraph"
	"github.com/reoring/tsgen/schema"
)

// pipeline is one loaded generation run: documents read, graph built,
// renderer resolved.
type pipeline struct {
	opts     Options
	graph    *typegraph.Graph
	grammar  *schema.Grammar
	renderer gen.Renderer
	ropts    gen.Options
}

// load builds the pipeline state for o. The grammar document is
// required only when the output embeds grammar-level facts; otherwise
// a missing file just drops the name from headers.
func load(o Options, needGrammar bool) (*pipeline, error) {
	o = o.withDefaults()
	r, err := gen.Lookup(o.Language)
	if err != nil {
		return nil, pipeErr("", err)
	}
	nt, err := schema.LoadNodeTypes(o.NodeTypes)
	if err != nil {
		return nil, pipeErr("", err)
	}
	g, err := typegraph.Build(nt)
	if err != nil {
		return nil, pipeErr(o.NodeTypes, err)
	}
	p := &pipeline{opts: o, graph: g, renderer: r}
	gr, err := schema.LoadGrammar(o.Grammar)
	switch {
	case err == nil:
		p.grammar = gr
	case !needGrammar && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, pipeErr("", err)
	}
	if needGrammar {
		if err := crossCheckSupertypes(g, p.grammar); err != nil {
			return nil, pipeErr(o.Grammar, err)
		}
	}
	p.ropts = gen.Options{Package: o.Package}
	if p.grammar != nil {
		p.ropts.Grammar = p.grammar.Name
		p.ropts.Root = p.grammar.FirstRule()
	}
	return p, nil
}

func (p *pipeline) logResolved(ctx context.Context) {
	log.G(ctx).WithFields(log.Fields{
		"node-types": p.opts.NodeTypes,
		"types":      p.graph.Len(),
	}).Debug("resolved type graph")
}

// crossCheckSupertypes verifies the two documents agree on which types
// are supertypes. Generated unions close over node-types subtypes, so a
// disagreement means the documents come from different grammar versions.
func crossCheckSupertypes(g *typegraph.Graph, gr *schema.Grammar) error {
	declared := make(map[string]bool)
	for _, n := range g.Nodes() {
		if n.Kind != schema.KindSupertype {
			continue
		}
		if !gr.HasSupertype(n.Ref.Type) {
			return &schema.Error{Entry: n.Ref.Type, Reason: `supertype is missing from the grammar "supertypes" list`}
		}
		declared[n.Ref.Type] = true
	}
	for _, name := range gr.Supertypes {
		if !declared[name] {
			return &schema.Error{Entry: name, Reason: "grammar supertype has no node-types declaration"}
		}
	}
	return nil
}

// Constants renders the kind and field name constants file. The
// grammar document contributes only its name here and may be absent.
func Constants(o Options) ([]byte, error) {
	p, err := load(o, false)
	if err != nil {
		return nil, err
	}
	b, err := p.renderer.Constants(p.graph, p.ropts)
	if err != nil {
		return nil, pipeErr(p.opts.NodeTypes, err)
	}
	return b, nil
}

// Wrapper renders the typed wrapper file. Both schema documents are
// required.
func Wrapper(o Options) ([]byte, error) {
	p, err := load(o, true)
	if err != nil {
		return nil, err
	}
	decls, err := emit.Declarations(p.graph)
	if err != nil {
		return nil, pipeErr(p.opts.NodeTypes, err)
	}
	b, err := p.renderer.Wrapper(p.graph, decls, p.ropts)
	if err != nil {
		return nil, pipeErr(p.opts.NodeTypes, err)
	}
	return b, nil
}

// WriteConstants renders the constants file and writes it under the
// output directory, returning the written path. Nothing is written
// when rendering fails.
func WriteConstants(ctx context.Context, o Options) (string, error) {
	p, err := load(o, false)
	if err != nil {
		return "", err
	}
	p.logResolved(ctx)
	b, err := p.renderer.Constants(p.graph, p.ropts)
	if err != nil {
		return "", pipeErr(p.opts.NodeTypes, err)
	}
	path := filepath.Join(p.opts.OutputDir, p.renderer.ConstantsFile())
	if err := writeFile(ctx, path, b); err != nil {
		return "", err
	}
	return path, nil
}

// WriteWrapper renders the wrapper file and writes it under the output
// directory, returning the written path.
func WriteWrapper(ctx context.Context, o Options) (string, error) {
	p, err := load(o, true)
	if err != nil {
		return "", err
	}
	p.logResolved(ctx)
	decls, err := emit.Declarations(p.graph)
	if err != nil {
		return "", pipeErr(p.opts.NodeTypes, err)
	}
	b, err := p.renderer.Wrapper(p.graph, decls, p.ropts)
	if err != nil {
		return "", pipeErr(p.opts.NodeTypes, err)
	}
	path := filepath.Join(p.opts.OutputDir, p.renderer.WrapperFile())
	if err := writeFile(ctx, path, b); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.G(ctx).WithFields(log.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("wrote generated file")
	return nil
}

// report is the describe output: the resolved graph in document order,
// with references spelled the way error messages spell them.
type report struct {
	Grammar string       `json:"grammar,omitempty"`
	Root    string       `json:"root,omitempty"`
	Types   []typeReport `json:"types"`
}

type typeReport struct {
	Type     string       `json:"type"`
	Named    bool         `json:"named"`
	Kind     string       `json:"kind"`
	Ident    string       `json:"ident"`
	Root     bool         `json:"root,omitempty"`
	Extra    bool         `json:"extra,omitempty"`
	Fields   []slotReport `json:"fields,omitempty"`
	Children *slotReport  `json:"children,omitempty"`
	Subtypes []string     `json:"subtypes,omitempty"`
	Leaves   []string     `json:"leaves,omitempty"`
}

type slotReport struct {
	Name     string   `json:"name,omitempty"`
	Ident    string   `json:"ident"`
	Required bool     `json:"required"`
	Multiple bool     `json:"multiple"`
	Types    []string `json:"types,omitempty"`
}

// Describe reports the resolved type graph as indented JSON, for
// inspecting what the generators would see.
func Describe(o Options) ([]byte, error) {
	p, err := load(o, false)
	if err != nil {
		return nil, err
	}
	rep := report{Types: make([]typeReport, 0, p.graph.Len())}
	if p.grammar != nil {
		rep.Grammar = p.grammar.Name
		rep.Root = p.grammar.FirstRule()
	}
	if id := p.graph.RootID(); id >= 0 {
		rep.Root = p.graph.Node(id).Ref.String()
	}
	for _, n := range p.graph.Nodes() {
		tr := typeReport{
			Type:     n.Ref.Type,
			Named:    n.Ref.Named,
			Kind:     n.Kind.String(),
			Ident:    n.Ident,
			Root:     n.Root,
			Extra:    n.Extra,
			Subtypes: refStrings(p.graph, n.Subtypes),
			Leaves:   refStrings(p.graph, n.Leaves),
		}
		for _, f := range n.Fields {
			tr.Fields = append(tr.Fields, slotReport{
				Name:     f.Name,
				Ident:    f.Ident,
				Required: f.Required,
				Multiple: f.Multiple,
				Types:    refStrings(p.graph, f.Types),
			})
		}
		if f := n.Children; f != nil {
			tr.Children = &slotReport{
				Ident:    f.Ident,
				Required: f.Required,
				Multiple: f.Multiple,
				Types:    refStrings(p.graph, f.Types),
			}
		}
		rep.Types = append(rep.Types, tr)
	}
	return j.MarshalIndent(rep, "", "  ")
}

func refStrings(g *typegraph.Graph, ids []int) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Node(id).Ref.String())
	}
	return out
}

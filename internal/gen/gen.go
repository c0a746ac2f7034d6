// Package gen renders declaration sequences into target-language source.
// One renderer ships (Go); the registry keeps the target axis open
// without pretending other backends exist.
package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/tsgen/internal/emit"
	"github.com/reoring/tsgen/internal/typegraph"
)

// Options carries the render-time knobs shared by all targets.
type Options struct {
	// Package is the package or namespace the generated files declare.
	Package string
	// Grammar is the grammar name, used in generated headers.
	Grammar string
	// Root names the grammar start rule, used when no declaration in
	// the document is flagged as the root.
	Root string
}

// Renderer turns the abstract outputs into one concrete language.
type Renderer interface {
	Language() string
	// ConstantsFile and WrapperFile name the output files, extension
	// included.
	ConstantsFile() string
	WrapperFile() string
	Constants(g *typegraph.Graph, opts Options) ([]byte, error)
	Wrapper(g *typegraph.Graph, decls []emit.Decl, opts Options) ([]byte, error)
}

// UnknownTargetError reports a language no renderer is registered for.
type UnknownTargetError struct {
	Target string
	Known  []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("gen: unknown target language %q (known: %s)", e.Target, strings.Join(e.Known, ", "))
}

var renderers = map[string]Renderer{}

// Register adds a renderer under its language key. Later registrations
// replace earlier ones.
func Register(r Renderer) {
	renderers[r.Language()] = r
}

// Lookup resolves a language to its renderer.
func Lookup(language string) (Renderer, error) {
	if r, ok := renderers[strings.ToLower(language)]; ok {
		return r, nil
	}
	return nil, &UnknownTargetError{Target: language, Known: Languages()}
}

// Languages returns the registered target names in ascending order.
func Languages() []string {
	known := make([]string, 0, len(renderers))
	for name := range renderers {
		known = append(known, name)
	}
	sort.Strings(known)
	return known
}

// printer accumulates output line by line. P writes one line at the
// current indent; no arguments writes a blank line.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) P(args ...any) {
	if len(args) > 0 {
		for i := 0; i < p.indent; i++ {
			p.buf.WriteByte('\t')
		}
		for _, a := range args {
			fmt.Fprint(&p.buf, a)
		}
	}
	p.buf.WriteByte('\n')
}

func (p *printer) in()  { p.indent++ }
func (p *printer) out() { p.indent-- }

func (p *printer) bytes() []byte { return p.buf.Bytes() }

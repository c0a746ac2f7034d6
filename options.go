package tsgen

import (
	"path/filepath"

	"github.com/reoring/tsgen/schema"
)

// Layout defaults, mirroring the tree-sitter project convention of
// schema documents under src/ and bindings beside them.
const (
	DefaultLanguage  = "go"
	DefaultInputDir  = "src"
	DefaultOutputDir = "bindings"
)

// Options configures one generation run. Zero values fall back to the
// defaults above; explicit file paths win over the input directory.
type Options struct {
	// Language selects the registered renderer.
	Language string
	// InputDir is the directory holding the schema documents.
	InputDir string
	// OutputDir receives generated files. Defaults to
	// bindings/<language>.
	OutputDir string
	// Package overrides the generated package name. Defaults to the
	// grammar name.
	Package string
	// NodeTypes is an explicit node-types.json path.
	NodeTypes string
	// Grammar is an explicit grammar.json path.
	Grammar string
}

// Merge returns o with over's non-empty fields taking precedence. Flag
// values merge over config file values this way.
func (o Options) Merge(over Options) Options {
	if over.Language != "" {
		o.Language = over.Language
	}
	if over.InputDir != "" {
		o.InputDir = over.InputDir
	}
	if over.OutputDir != "" {
		o.OutputDir = over.OutputDir
	}
	if over.Package != "" {
		o.Package = over.Package
	}
	if over.NodeTypes != "" {
		o.NodeTypes = over.NodeTypes
	}
	if over.Grammar != "" {
		o.Grammar = over.Grammar
	}
	return o
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.InputDir == "" {
		o.InputDir = DefaultInputDir
	}
	if o.NodeTypes == "" {
		o.NodeTypes = filepath.Join(o.InputDir, schema.DefaultNodeTypesFile)
	}
	if o.Grammar == "" {
		o.Grammar = filepath.Join(o.InputDir, schema.DefaultGrammarFile)
	}
	if o.OutputDir == "" {
		o.OutputDir = filepath.Join(DefaultOutputDir, o.Language)
	}
	return o
}

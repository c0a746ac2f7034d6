package tsgen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no
// config flag is given.
const DefaultConfigFile = ".tsgen.yaml"

type fileConfig struct {
	Language  string `yaml:"language"`
	InputDir  string `yaml:"input-dir"`
	OutputDir string `yaml:"output-dir"`
	Package   string `yaml:"package"`
	NodeTypes string `yaml:"node-types"`
	Grammar   string `yaml:"grammar"`
}

// LoadConfig reads a project config file into Options. Unknown keys
// are rejected so typos fail instead of silently keeping defaults.
func LoadConfig(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg fileConfig
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Options{}, nil
		}
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return Options{
		Language:  cfg.Language,
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Package:   cfg.Package,
		NodeTypes: cfg.NodeTypes,
		Grammar:   cfg.Grammar,
	}, nil
}

// LoadConfigIfPresent is LoadConfig, except a missing file yields zero
// Options. The default config file is optional by contract.
func LoadConfigIfPresent(path string) (Options, error) {
	o, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Options{}, nil
	}
	return o, err
}

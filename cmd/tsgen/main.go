package main

import (
	"fmt"
	"os"

	"github.com/containerd/log"
	"github.com/urfave/cli/v2"

	tsgen "github.com/reoring/tsgen"
)

const version = "0.1.0"

func main() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// App returns the tsgen command line application.
func App() *cli.App {
	app := cli.NewApp()
	app.Name = "tsgen"
	app.Version = version
	app.Usage = "typed binding generator for tree-sitter grammars"
	app.Description = `
tsgen reads the node-types.json and grammar.json documents a tree-sitter
grammar build produces and generates typed bindings for them: a constants
file naming every node kind and field, and a wrapper package exposing
kind-checked accessors over any syntax tree implementing the wrap.Node
contract.

Options come from flags, falling back to a ` + tsgen.DefaultConfigFile + ` project file
when one exists, then to the tree-sitter layout defaults (documents under
src/, output under bindings/<language>).`
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set the logging level [trace, debug, info, warn, error, fatal, panic]",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the project config file",
			Value:   tsgen.DefaultConfigFile,
		},
	}
	app.Before = func(cliContext *cli.Context) error {
		level := cliContext.String("log-level")
		if level == "" {
			level = "warn"
		}
		if err := log.SetLevel(level); err != nil {
			return err
		}
		return log.SetFormat(log.TextFormat)
	}
	app.Commands = []*cli.Command{
		constantsCommand,
		wrapperCommand,
		describeCommand,
		completionCommand,
	}
	return app
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "language",
			Usage: `Target language for the generated bindings (default: "go")`,
		},
		&cli.StringFlag{
			Name:    "input-dir",
			Aliases: []string{"i"},
			Usage:   `Directory holding node-types.json and grammar.json (default: "src")`,
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   `Directory receiving generated files (default: "bindings/<language>")`,
		},
		&cli.StringFlag{
			Name:  "package",
			Usage: "Generated package name (default: the grammar name)",
		},
		&cli.StringFlag{
			Name:  "node-types",
			Usage: "Explicit node-types.json path, overriding the input directory",
		},
		&cli.StringFlag{
			Name:  "grammar",
			Usage: "Explicit grammar.json path, overriding the input directory",
		},
	}
}

// resolveOptions merges flag values over the project config. A config
// file named explicitly must exist; the default one is optional.
func resolveOptions(cliContext *cli.Context) (tsgen.Options, error) {
	var (
		cfg  tsgen.Options
		err  error
		path = cliContext.String("config")
	)
	if cliContext.IsSet("config") {
		cfg, err = tsgen.LoadConfig(path)
	} else {
		cfg, err = tsgen.LoadConfigIfPresent(path)
	}
	if err != nil {
		return tsgen.Options{}, err
	}
	return cfg.Merge(tsgen.Options{
		Language:  cliContext.String("language"),
		InputDir:  cliContext.String("input-dir"),
		OutputDir: cliContext.String("output-dir"),
		Package:   cliContext.String("package"),
		NodeTypes: cliContext.String("node-types"),
		Grammar:   cliContext.String("grammar"),
	}), nil
}

var constantsCommand = &cli.Command{
	Name:  "constants",
	Usage: "Generate the node kind and field name constants file",
	Flags: generateFlags(),
	Action: func(cliContext *cli.Context) error {
		o, err := resolveOptions(cliContext)
		if err != nil {
			return err
		}
		path, err := tsgen.WriteConstants(cliContext.Context, o)
		if err != nil {
			return err
		}
		fmt.Fprintln(cliContext.App.Writer, path)
		return nil
	},
}

var wrapperCommand = &cli.Command{
	Name:  "wrapper",
	Usage: "Generate the typed wrapper file",
	Flags: generateFlags(),
	Action: func(cliContext *cli.Context) error {
		o, err := resolveOptions(cliContext)
		if err != nil {
			return err
		}
		path, err := tsgen.WriteWrapper(cliContext.Context, o)
		if err != nil {
			return err
		}
		fmt.Fprintln(cliContext.App.Writer, path)
		return nil
	},
}

var describeCommand = &cli.Command{
	Name:  "describe",
	Usage: "Print the resolved type graph as JSON",
	Flags: generateFlags(),
	Action: func(cliContext *cli.Context) error {
		o, err := resolveOptions(cliContext)
		if err != nil {
			return err
		}
		b, err := tsgen.Describe(o)
		if err != nil {
			return err
		}
		fmt.Fprintln(cliContext.App.Writer, string(b))
		return nil
	},
}

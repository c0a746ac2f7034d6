package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Shell scripts delegating to urfave's --generate-bash-completion
// machinery, so completions stay in sync with the registered commands
// and flags.
const (
	bashCompletion = `#!/bin/bash

_tsgen_completions() {
	local cur opts
	cur="${COMP_WORDS[COMP_CWORD]}"
	opts=$("${COMP_WORDS[@]:0:COMP_CWORD}" --generate-bash-completion)
	COMPREPLY=($(compgen -W "${opts}" -- "${cur}"))
	return 0
}

complete -o default -F _tsgen_completions tsgen
`

	zshCompletion = `#compdef tsgen

_tsgen() {
	local -a opts
	local cur
	cur=${words[-1]}
	opts=("${(@f)$(${words[@]:0:#words[@]-1} ${cur} --generate-bash-completion)}")
	_describe 'values' opts
}

compdef _tsgen tsgen
`
)

var completionCommand = &cli.Command{
	Name:      "completion",
	Usage:     "Output a shell completion script",
	ArgsUsage: "[bash|zsh|fish]",
	Action: func(cliContext *cli.Context) error {
		switch shell := cliContext.Args().First(); shell {
		case "bash":
			fmt.Fprint(cliContext.App.Writer, bashCompletion)
		case "zsh":
			fmt.Fprint(cliContext.App.Writer, zshCompletion)
		case "fish":
			script, err := cliContext.App.ToFishCompletion()
			if err != nil {
				return err
			}
			fmt.Fprint(cliContext.App.Writer, script)
		default:
			return fmt.Errorf("unsupported shell %q (bash, zsh and fish are supported)", shell)
		}
		return nil
	},
}

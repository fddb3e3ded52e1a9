package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const complete = `#! /bin/bash

_lemrule_autocomplete() {
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"

    # lemrule lists the commands and flags of the words typed so far
    if [[ "$cur" == "-"* ]]; then
        opts=$( ${COMP_WORDS[@]:0:$COMP_CWORD} ${cur} --generate-bash-completion )
    else
        opts=$( ${COMP_WORDS[@]:0:$COMP_CWORD} --generate-bash-completion )
    fi

    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
}

complete -o bashdefault -o default -F _lemrule_autocomplete lemrule
`

func (a *app) bashCommand() *cli.Command {
	return &cli.Command{
		Name:  "bash",
		Usage: "print the bash completion script: source <(lemrule bash)",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprint(a.ui.Out, complete)
			return err
		},
	}
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Set with -ldflags "-X main.BuildTag=... -X main.BuildCommit=..."
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func (a *app) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(a.ui.Out, "lemrule version %s (commit: %s)\n", BuildTag, BuildCommit)
			return err
		},
	}
}

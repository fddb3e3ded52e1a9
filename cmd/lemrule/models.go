package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/lemrule/model"
)

func (a *app) modelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "list the available models",
		Action: func(c *cli.Context) error {
			reg := model.NewRegistry(model.SplitPath(c.String("model-path"))...)
			names, err := reg.Names()
			if err != nil {
				return err
			}

			for _, name := range names {
				mark := " "
				if name == c.String("model") {
					mark = "*"
				}
				fmt.Fprintf(a.ui.Out, "%s %s\n", mark, name)
			}
			return nil
		},
	}
}

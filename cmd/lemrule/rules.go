package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/lemrule/rule"
	"github.com/revelaction/lemrule/storage"
)

func rulePathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "rule-path",
		Usage:   "rule repository: a .yaml rule file or a SQLite database",
		EnvVars: []string{"LEMRULE_RULE_PATH"},
	}
}

func (a *app) rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "manage the stored rules",
		Flags: []cli.Flag{rulePathFlag()},
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "store a rule: TEXT=LEMMA or PATTERN => ATTRS [@INDEX]",
				ArgsUsage: "RULE",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("no rule given. Usage: lemrule rules add %s", c.Command.ArgsUsage)
					}

					r, err := rule.Parse(strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return err
					}

					return a.withRules(c, func(repo storage.RuleRepository) error {
						if err := repo.Write(r); err != nil {
							return err
						}
						fmt.Fprintf(a.ui.Out, "rule added: %s\n", r)
						return nil
					})
				},
			},
			{
				Name:  "ls",
				Usage: "list the stored rules",
				Action: func(c *cli.Context) error {
					return a.withRules(c, func(repo storage.RuleRepository) error {
						rules, err := repo.ReadAll()
						if err != nil {
							return err
						}

						for i, r := range rules {
							fmt.Fprintf(a.ui.Out, "%3d %s\n", i, r)
						}
						return nil
					})
				},
			},
			{
				Name:  "clear",
				Usage: "remove all stored rules",
				Action: func(c *cli.Context) error {
					return a.withRules(c, func(repo storage.RuleRepository) error {
						return repo.Clear()
					})
				},
			},
		},
	}
}

func (a *app) withRules(c *cli.Context, fn func(storage.RuleRepository) error) error {
	repo, err := a.NewRuleRepository(c.Context, c.String("rule-path"))
	if err != nil {
		return err
	}
	return fn(repo)
}

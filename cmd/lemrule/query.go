package main

import (
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/lemrule/query"
	"github.com/revelaction/lemrule/storage"
)

func (a *app) queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "interactive prompt: process each line, add rules and change the predicate live",
		Flags: append(ruleFlags(),
			docPathFlag(),
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "do not highlight the extracted tokens",
			},
			&cli.BoolFlag{
				Name:  "prefix",
				Usage: "prefix each sentence with its doc and sentence ids",
			},
		),
		Action: func(c *cli.Context) error {
			p, err := a.loadPipeline(c)
			if err != nil {
				return err
			}

			var docs storage.DocReader
			if path := c.String("doc-path"); path != "" {
				repo, err := a.NewDocRepository(c.Context, path)
				if err != nil {
					return err
				}

				if pl, ok := repo.(storage.Preloader); ok {
					if err := a.preload(pl); err != nil {
						return err
					}
				}
				docs = repo
			}

			r := a.newRenderer("list", c.Bool("no-color"))
			r.HasPrefix = c.Bool("prefix")

			// now present the REPL
			h := query.NewHandler(p, docs, r, a.log)
			return h.Run(c.Context)
		},
	}
}

// preload loads the docs of pl, showing a progress bar on a terminal.
func (a *app) preload(pl storage.Preloader) error {
	if !a.ui.IsTerminal {
		return pl.Preload(nil)
	}

	uiprogress.Start()
	defer uiprogress.Stop()

	bar := uiprogress.AddBar(1) // Placeholder, updated in callback
	bar.AppendCompleted()
	bar.PrependElapsed()

	var currentName string
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		return currentName
	})

	return pl.Preload(func(current, total int, name string) {
		if bar.Total != total {
			bar.Total = total
		}
		currentName = name
		_ = bar.Set(current)
	})
}

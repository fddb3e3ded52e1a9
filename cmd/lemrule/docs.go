package main

import (
	"fmt"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func (a *app) docsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "list or copy the stored docs",
		Flags: []cli.Flag{docPathFlag()},
		Subcommands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "list the stored docs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "label",
						Aliases: []string{"l"},
						Usage:   "list only the docs with a label containing `LABEL`",
					},
				},
				Action: a.lsDocs,
			},
			{
				Name:      "export",
				Usage:     "copy all stored docs to another doc repository",
				ArgsUsage: "TARGET",
				Action:    a.exportDocs,
			},
		},
	}
}

func (a *app) lsDocs(c *cli.Context) error {
	repo, err := a.NewDocRepository(c.Context, c.String("doc-path"))
	if err != nil {
		return err
	}

	docs, err := repo.List(c.String("label"))
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Fprintf(a.ui.Out, "📖 %d %s", doc.Id, doc.Title)
		if len(doc.Labels) > 0 {
			fmt.Fprintf(a.ui.Out, " [%s]", strings.Join(doc.Labels, ", "))
		}
		fmt.Fprintln(a.ui.Out)
	}

	return nil
}

// exportDocs copies the docs between any two repositories, a directory to a
// database or the other way around.
func (a *app) exportDocs(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("no target given. Usage: lemrule docs export %s", c.Command.ArgsUsage)
	}

	from := c.String("doc-path")
	to := c.Args().First()
	if from == to {
		return fmt.Errorf("source and target are the same repository: %s", to)
	}

	src, err := a.NewDocRepository(c.Context, from)
	if err != nil {
		return err
	}

	var dstPool Pool
	defer dstPool.Close()

	dst, err := newDocRepository(c.Context, &dstPool, to)
	if err != nil {
		return err
	}

	docs, err := src.List("")
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	stopBar := func() {
		if bar != nil {
			uiprogress.Stop()
			bar = nil
		}
	}
	defer stopBar()

	if a.ui.IsTerminal {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	count := 0
	for _, docMeta := range docs {
		doc, err := src.Read(docMeta.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %s (id %d): %w", docMeta.Title, docMeta.Id, err)
		}

		// Ensure title is set in the exported document
		doc.Title = docMeta.Title

		id, err := dst.Write(doc)
		if err != nil {
			return fmt.Errorf("failed to write doc %s: %w", doc.Title, err)
		}

		a.log.Debug("doc exported", zap.Int("from", docMeta.Id), zap.Int("to", id))

		count++
		if bar != nil {
			bar.Incr()
		}
	}

	stopBar()

	fmt.Fprintf(a.ui.Out, "Successfully exported %d docs from %s to %s\n", count, from, to)
	return nil
}

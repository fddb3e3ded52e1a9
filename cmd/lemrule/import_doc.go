package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func docPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "doc-path",
		Aliases: []string{"d"},
		Usage:   "doc repository: a directory or a SQLite database",
		EnvVars: []string{"LEMRULE_DOC_PATH"},
	}
}

func (a *app) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "process text files and store the annotated docs",
		ArgsUsage: "FILE...",
		Flags: append(ruleFlags(),
			docPathFlag(),
			&cli.StringSliceFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "label of the imported docs (repeatable)",
			},
		),
		Action: a.importDoc,
	}
}

func (a *app) importDoc(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files given. Usage: lemrule import %s", c.Command.ArgsUsage)
	}

	repo, err := a.NewDocRepository(c.Context, c.String("doc-path"))
	if err != nil {
		return err
	}

	p, err := a.loadPipeline(c)
	if err != nil {
		return err
	}

	files := c.Args().Slice()

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
		bar = uiprogress.AddBar(len(files))
		bar.AppendCompleted()
		bar.PrependElapsed()
		// Append the file name to the progress bar
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			if b.Current() == 0 {
				return ""
			}
			return filepath.Base(files[b.Current()-1])
		})
	}

	count := 0
	for _, path := range files {
		if err := c.Context.Err(); err != nil {
			return err
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("IO error: %w", err)
		}

		doc, err := p.Process(c.Context, string(text))
		if err != nil {
			return fmt.Errorf("failed to process %s: %w", path, err)
		}

		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		doc.Labels = c.StringSlice("label")

		id, err := repo.Write(doc)
		if err != nil {
			return fmt.Errorf("failed to write doc %s: %w", doc.Title, err)
		}

		a.log.Debug("doc imported",
			zap.String("path", path),
			zap.Int("id", id),
			zap.Int("sentences", len(doc.Sentences)),
		)

		count++
		if bar != nil {
			bar.Incr()
		}
	}

	stopBar()

	fmt.Fprintf(a.ui.Out, "Successfully imported %d docs to %s\n", count, c.String("doc-path"))
	return nil
}

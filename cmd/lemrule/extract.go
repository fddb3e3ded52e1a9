package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/lemrule/search"
	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
)

func (a *app) extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "print the extracted lemmas of stored docs",
		Flags: append(outputFlags(),
			docPathFlag(),
			&cli.IntFlag{
				Name:  "doc",
				Usage: "extract only the doc with this `ID`",
				Value: -1,
			},
			&cli.StringFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "extract only the docs with a label containing `LABEL`",
			},
			&cli.StringSliceFlag{
				Name:  "lemma",
				Usage: "extract only the sentences containing `LEMMA` (repeatable)",
			},
		),
		Action: a.extract,
	}
}

func (a *app) extract(c *cli.Context) error {
	repo, err := a.NewDocRepository(c.Context, c.String("doc-path"))
	if err != nil {
		return err
	}

	p, err := predicate(c)
	if err != nil {
		return err
	}

	var sentences []sent.Sentence
	collect := func(s sent.Sentence) error {
		sentences = append(sentences, s)
		return nil
	}

	lemmas := c.StringSlice("lemma")

	switch {
	case c.Int("doc") >= 0:
		err = search.New(repo, p).WithDocID(c.Int("doc")).All(lemmas, collect)

	case len(lemmas) > 0:
		err = search.New(repo, p).All(lemmas, collect)

	default:
		err = a.labelled(repo, c.String("label"), collect)
	}

	if err != nil {
		return err
	}

	return a.renderSentences(c, sentences)
}

// labelled walks the sentences of the docs with a label containing label.
func (a *app) labelled(repo storage.DocReader, label string, fn func(sent.Sentence) error) error {
	docs, err := repo.List(label)
	if err != nil {
		return err
	}

	for _, d := range docs {
		doc, err := repo.Read(d.Id)
		if err != nil {
			return err
		}

		for _, s := range doc.Sentences {
			if err := fn(s); err != nil {
				return err
			}
		}
	}
	return nil
}

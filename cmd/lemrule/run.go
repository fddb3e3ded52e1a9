package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/lemrule/match"
	"github.com/revelaction/lemrule/render"
	sent "github.com/revelaction/lemrule/sentence"
)

const (
	defaultText = "I have flown to LA. Now I am flying to Frisco."
	defaultRule = "Frisco=San Francisco"
)

func formats() []string {
	return append(render.SupportedFormats(), "json")
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "where",
			Aliases: []string{"w"},
			Usage:   "extract the tokens matching `CLAUSE` (attr=value,...); clauses are OR'ed (repeatable)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   render.Defaultformat,
			Usage:   "output format: " + strings.Join(formats(), ", "),
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "do not highlight the extracted tokens",
		},
		&cli.BoolFlag{
			Name:  "prefix",
			Usage: "prefix each sentence with its doc and sentence ids",
		},
	}
}

func (a *app) runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "process a text and print the extracted lemmas of each sentence",
		ArgsUsage: "[TEXT|-]",
		Description: "Without TEXT the text is \"" + defaultText + "\".\n" +
			"Without rules the rule \"" + defaultRule + "\" is added.",
		Flags:  append(ruleFlags(), outputFlags()...),
		Action: a.run,
	}
}

func (a *app) run(c *cli.Context) error {
	text, err := a.inputText(c)
	if err != nil {
		return err
	}

	p, err := a.loadPipeline(c)
	if err != nil {
		return err
	}

	doc, err := p.Process(c.Context, text)
	if err != nil {
		return err
	}

	return a.renderSentences(c, doc.Sentences)
}

// inputText returns the text of the args, stdin for "-", the default text
// without args.
func (a *app) inputText(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return defaultText, nil
	}

	if c.NArg() == 1 && c.Args().First() == "-" {
		b, err := io.ReadAll(a.ui.In)
		if err != nil {
			return "", fmt.Errorf("IO error: %w", err)
		}
		return string(b), nil
	}

	return strings.Join(c.Args().Slice(), " "), nil
}

// predicate returns the predicate of the --where flags, the default one
// without flags.
func predicate(c *cli.Context) (match.Predicate, error) {
	clauses := c.StringSlice("where")
	if len(clauses) == 0 {
		return match.Default(), nil
	}
	return match.ParsePredicate(clauses)
}

func (a *app) renderSentences(c *cli.Context, sentences []sent.Sentence) error {
	p, err := predicate(c)
	if err != nil {
		return err
	}

	format := c.String("format")
	switch format {
	case "json":
		return render.NewJSONRenderer(a.ui.Out).Render(sentences, p)
	case "list", "text", "table":
		r := a.newRenderer(format, c.Bool("no-color"))
		r.HasPrefix = c.Bool("prefix")
		r.Sentences(sentences, p)
		return nil
	}

	return fmt.Errorf("unknown format %q, allowed values are %s", format, strings.Join(formats(), ", "))
}

func (a *app) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "print the token table of a text",
		ArgsUsage: "[TEXT|-]",
		Flags:     ruleFlags(),
		Action: func(c *cli.Context) error {
			text, err := a.inputText(c)
			if err != nil {
				return err
			}

			p, err := a.loadPipeline(c)
			if err != nil {
				return err
			}

			doc, err := p.Process(c.Context, text)
			if err != nil {
				return err
			}

			r := a.newRenderer("table", true)
			for _, s := range doc.Sentences {
				fmt.Fprintf(a.ui.Out, "✍  %d %s\n", s.Id, s.Text())
				r.Table(s.Tokens)
			}
			return nil
		},
	}
}

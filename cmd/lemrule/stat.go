package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/lemrule/stat"
)

var errBadDocId = errors.New("doc id must be an integer")

func (a *app) statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print the counts of a stored doc, or of all docs",
		ArgsUsage: "[DOC_ID]",
		Flags: []cli.Flag{
			docPathFlag(),
			&cli.StringSliceFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "count the lemmas extracted by `CLAUSE` (repeatable)",
			},
		},
		Action: a.statDocs,
	}
}

func (a *app) statDocs(c *cli.Context) error {
	repo, err := a.NewDocRepository(c.Context, c.String("doc-path"))
	if err != nil {
		return err
	}

	p, err := predicate(c)
	if err != nil {
		return err
	}

	var ids []int
	if c.NArg() > 0 {
		id, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return fmt.Errorf("%w: %q", errBadDocId, c.Args().First())
		}
		ids = append(ids, id)
	} else {
		docs, err := repo.List("")
		if err != nil {
			return err
		}
		for _, d := range docs {
			ids = append(ids, d.Id)
		}
	}

	hdl := stat.NewHandler(p)
	for _, id := range ids {
		doc, err := repo.Read(id)
		if err != nil {
			return err
		}
		hdl.Aggregate(doc)
	}

	stats := hdl.Get()
	fmt.Fprintf(a.ui.Out, "Num docs %d, num sentences %d, num tokens %d, num tokens per sentence %.2f\n",
		stats.NumDocs, stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)

	fmt.Fprintf(a.ui.Out, "Tags: %s\n", counts(stats.Tags))
	fmt.Fprintf(a.ui.Out, "Deps: %s\n", counts(stats.Deps))
	fmt.Fprintf(a.ui.Out, "Extracted %d: %s\n", stats.NumExtracted, counts(stats.Extracted))
	return nil
}

// counts renders a count map as "key=n" pairs, highest count first.
func counts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})

	var out string
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", k, m[k])
	}
	return out
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/lemrule/model"
	"github.com/revelaction/lemrule/pipeline"
	"github.com/revelaction/lemrule/rule"
	"github.com/revelaction/lemrule/storage"
	"github.com/revelaction/lemrule/storage/filesystem"
	"github.com/revelaction/lemrule/storage/sqlite/zombiezen"
)

// Pool opens the SQLite pool once and shares it between the doc and rule
// repositories.
type Pool struct {
	p    *sqlitex.Pool
	path string
}

func (p *Pool) Open(ctx context.Context, path string) (*sqlitex.Pool, error) {
	if p.p != nil {
		if p.path != path {
			return nil, fmt.Errorf("database %s already open, can not open %s", p.path, path)
		}
		return p.p, nil
	}

	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}

	if err := zombiezen.CreateSchemas(ctx, pool, zombiezen.DocsSchema, zombiezen.RulesSchema); err != nil {
		pool.Close()
		return nil, err
	}

	p.p = pool
	p.path = path
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		err := p.p.Close()
		p.p = nil
		return err
	}
	return nil
}

// isSQLite reports whether path names a SQLite database: an existing file,
// or a path that does not exist yet with a database extension.
func isSQLite(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return true, nil
	}
	return false, nil
}

// NewDocRepository returns the doc repository at path: a directory of JSON
// docs or a SQLite database.
func (a *app) NewDocRepository(ctx context.Context, path string) (storage.DocRepository, error) {
	return newDocRepository(ctx, &a.pool, path)
}

func newDocRepository(ctx context.Context, pool *Pool, path string) (storage.DocRepository, error) {
	if path == "" {
		return nil, errors.New("no doc repository given, use --doc-path or LEMRULE_DOC_PATH")
	}

	sqlite, err := isSQLite(path)
	if err != nil {
		return nil, err
	}

	if !sqlite {
		return filesystem.NewDocStore(path)
	}

	p, err := pool.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(ctx, p), nil
}

// NewRuleRepository returns the rule repository at path: a YAML rule file or
// a SQLite database.
func (a *app) NewRuleRepository(ctx context.Context, path string) (storage.RuleRepository, error) {
	if path == "" {
		return nil, errors.New("no rule repository given, use --rule-path or LEMRULE_RULE_PATH")
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return filesystem.NewRuleStore(path), nil
	}

	sqlite, err := isSQLite(path)
	if err != nil {
		return nil, err
	}

	if !sqlite {
		return nil, fmt.Errorf("rule repository %s: want a .yaml file or a SQLite database", path)
	}

	pool, err := a.pool.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewRuleStore(ctx, pool), nil
}

// loadPipeline loads the model of the global flags and registers the rules
// of the command flags (see ruleFlags).
func (a *app) loadPipeline(c *cli.Context) (*pipeline.Pipeline, error) {
	reg := model.NewRegistry(model.SplitPath(c.String("model-path"))...)

	p, err := pipeline.Load(reg, c.String("model"), pipeline.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	rules, err := a.collectRules(c)
	if err != nil {
		return nil, err
	}

	ruler, err := p.Ruler()
	if err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := ruler.Add(r); err != nil {
			return nil, err
		}
	}

	a.log.Debug("pipeline loaded",
		zap.Strings("components", p.Names()),
		zap.Int("rules", len(rules)),
	)
	return p, nil
}

// collectRules returns the rules of the rule repository, the rule files and
// the rule flags, in this order. Without any of them the default rule is
// returned.
func (a *app) collectRules(c *cli.Context) ([]rule.Rule, error) {
	var rules []rule.Rule

	if path := c.String("rule-path"); path != "" {
		repo, err := a.NewRuleRepository(c.Context, path)
		if err != nil {
			return nil, err
		}

		stored, err := repo.ReadAll()
		if err != nil {
			return nil, err
		}
		rules = append(rules, stored...)
	}

	for _, path := range c.StringSlice("rules") {
		fromFile, err := rule.LoadFile(path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, fromFile...)
	}

	for _, expr := range c.StringSlice("rule") {
		r, err := rule.Parse(expr)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	if len(rules) == 0 && !c.Bool("no-default-rule") {
		r, err := rule.Parse(defaultRule)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, nil
}

// ruleFlags are the flags read by loadPipeline.
func ruleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "rule",
			Aliases: []string{"r"},
			Usage:   "add a rule, TEXT=LEMMA or the long form (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "rules",
			Usage: "add the rules of a YAML rule `FILE` (repeatable)",
		},
		&cli.StringFlag{
			Name:    "rule-path",
			Usage:   "add the rules of a rule repository",
			EnvVars: []string{"LEMRULE_RULE_PATH"},
		},
		&cli.BoolFlag{
			Name:  "no-default-rule",
			Usage: "do not add the default rule when no rule is given",
		},
	}
}

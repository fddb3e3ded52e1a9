package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/revelaction/lemrule/rule"
	"github.com/revelaction/lemrule/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// RuleStore keeps the rules in the rules table. The spec column holds the
// readable form of the rule, data its JSON.
type RuleStore struct {
	ctx  context.Context
	pool *sqlitex.Pool
}

var _ storage.RuleRepository = (*RuleStore)(nil)

// NewRuleStore returns a store on pool. Connections are taken with ctx, a
// canceled ctx makes every operation fail.
func NewRuleStore(ctx context.Context, pool *sqlitex.Pool) *RuleStore {
	return &RuleStore{ctx: ctx, pool: pool}
}

func (h *RuleStore) ReadAll() ([]rule.Rule, error) {
	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	rules := []rule.Rule{}
	err = sqlitex.Execute(conn, "SELECT id, data FROM rules ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var r rule.Rule
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &r); err != nil {
				return fmt.Errorf("rule %d: %w", stmt.ColumnInt(0), err)
			}
			rules = append(rules, r)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return rules, nil
}

func (h *RuleStore) Write(r rule.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	return sqlitex.Execute(conn, "INSERT INTO rules (spec, data) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{r.String(), string(data)},
	})
}

func (h *RuleStore) Clear() error {
	conn, err := h.pool.Take(h.ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	return sqlitex.Execute(conn, "DELETE FROM rules", nil)
}

package zombiezen

import (
	"context"
	"embed"
	"fmt"
	"path"

	"zombiezen.com/go/sqlite/sqlitex"
)

// Schema script names
const (
	DocsSchema  = "docs.sql"
	RulesSchema = "rules.sql"
)

// sqlFiles embeds all SQL scripts from the sql/ subdirectory.
//
//go:embed sql/*.sql
var sqlFiles embed.FS

// CreateSchemas reads the SQL scripts (DocsSchema, RulesSchema) from the
// embedded filesystem and executes them using the provided connection pool.
func CreateSchemas(ctx context.Context, pool *sqlitex.Pool, schemaNames ...string) error {
	conn, err := pool.Take(ctx)
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	for _, name := range schemaNames {
		scriptPath := path.Join("sql", name)

		script, err := sqlFiles.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("failed to read embedded sql file %s: %w", scriptPath, err)
		}

		// ExecuteScript handles multi-statement strings.
		if err := sqlitex.ExecuteScript(conn, string(script), nil); err != nil {
			return fmt.Errorf("failed to execute script %s: %w", name, err)
		}
	}

	return nil
}

package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// Schema is the current database schema, generated from the migrations.
// Tests apply it directly instead of running migrations.
//
//go:embed sqlc/schema.sql
var Schema string

// SchemaHeader starts every generated schema file.
const SchemaHeader = `-- Generated from internal/database/migrations/files by tools/generate_schema.go.
-- Do not edit. Regenerate with: go generate ./internal/database

`

// DumpSchema renders the tables and indexes of db as a schema file: tables
// first, then indexes, each group ordered by name. SQLite's internal objects
// and golang-migrate's schema_migrations table are left out.
func DumpSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 1 ELSE 2 END, name`)
	if err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString(SchemaHeader)
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning schema row: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	return b.String(), nil
}

// Command generate_schema regenerates internal/database/sqlc/schema.sql, the
// schema sqlc compiles queries against, by running every migration on an
// in-memory database and dumping the result.
//
// With -check it writes nothing and exits 1 when the file is stale.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"jt-go/internal/database"
	"jt-go/internal/database/migrations"
)

func main() {
	out := flag.String("out", filepath.Join("internal", "database", "sqlc", "schema.sql"), "schema file, relative to the module root")
	check := flag.Bool("check", false, "fail if the schema file is out of date instead of writing it")
	flag.Parse()

	if err := run(*out, *check); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
}

func run(out string, check bool) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}
	version, _, err := migrations.SchemaVersion(db)
	if err != nil {
		return err
	}

	schema, err := database.DumpSchema(db)
	if err != nil {
		return err
	}

	if check {
		current, err := os.ReadFile(out)
		if err != nil {
			return fmt.Errorf("reading %s: %w", out, err)
		}
		if !bytes.Equal(current, []byte(schema)) {
			return fmt.Errorf("%s is stale (migrations are at version %d); run go generate ./internal/database", out, version)
		}
		fmt.Printf("%s is up to date at version %d\n", out, version)
		return nil
	}

	if err := os.WriteFile(out, []byte(schema), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("wrote %s at migration version %d\n", out, version)
	return nil
}

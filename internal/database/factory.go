package database

import (
	"fmt"
	"os"
	"path/filepath"

	"jt-go/internal/config"
	"jt-go/internal/jt"
)

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// Pending migrations are applied, so a fresh data directory is ready to use.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (jt.Database, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		path = filepath.Join(cfg.DataDir, hostID+".db")
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

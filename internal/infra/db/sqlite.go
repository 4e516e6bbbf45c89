package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/contacerta/backend/config"
)

// NewSQLiteConnection opens a SQLite database at cfg.URL, a file path or
// "file::memory:". SQLite allows a single writer, so the pool is capped at one
// connection and transactions queue instead of failing with SQLITE_BUSY.
func NewSQLiteConnection(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := OpenSQLite(cfg.URL)
	if err != nil {
		return nil, err
	}

	slog.Info("SQLite database opened", "path", cfg.URL)

	return &Database{
		db:  db,
		cfg: cfg,
	}, nil
}

// OpenSQLite opens a gorm handle on a SQLite database with foreign keys on.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn+sqlitePragmas(dsn)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func sqlitePragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&_pragma=foreign_keys(1)"
	}
	return "?_pragma=foreign_keys(1)"
}

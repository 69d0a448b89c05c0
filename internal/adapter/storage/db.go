package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS items (
    id         BIGINT AUTO_INCREMENT PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    type       VARCHAR(255) NOT NULL,
    rarity     TINYINT UNSIGNED NOT NULL CHECK (rarity BETWEEN 0 AND 4),
    quantity   INT UNSIGNED NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`

// AUTOINCREMENT keeps SQLite from reusing the id of a deleted row.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    rarity     INTEGER NOT NULL CHECK (rarity BETWEEN 0 AND 4),
    quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity BETWEEN 0 AND 4294967295),
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`

// Open opens a database for the given dialect and applies pool settings or pragmas.
func Open(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	switch dialect {
	case DialectMySQL:
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	case DialectSQLite:
		// A single connection keeps ":memory:" databases shared across queries.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA synchronous=NORMAL",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, fmt.Errorf("setting pragma %q: %w", p, err)
			}
		}
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

// EnsureSchema creates the items table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect string) error {
	schema := mysqlSchema
	if dialect == DialectSQLite {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

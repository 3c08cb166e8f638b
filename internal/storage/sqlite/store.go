// Package sqlite is the persistence layer: a single-connection SQLite store
// holding customers, products, orders and order items with cascade semantics.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/xenking/shoplite/db"
)

// Store wraps one SQLite connection. It is the sole owner of durable state;
// all reads and writes in the application go through it. Store is not safe
// for concurrent use, matching the single-writer model of the application.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and applies the embedded schema.
// Opening an existing store is a no-op for the schema and never destroys
// data.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, accessErr("open", err)
	}

	// A single connection keeps the foreign_keys pragma in force for every
	// statement and matches the single-writer model.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, accessErr("enable foreign keys", err)
	}
	if _, err := sqlDB.Exec(db.Schema); err != nil {
		sqlDB.Close()
		return nil, accessErr("apply schema", err)
	}

	return &Store{db: sqlDB}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear empties all four tables in cascade order. Used by full import's
// clear-first mode.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return accessErr("clear", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"order_items", "orders", "products", "customers"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return accessErr("clear "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return accessErr("clear", err)
	}
	return nil
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, q queryer, table string, id int64) (bool, error) {
	var found bool
	err := q.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = ?)", id).Scan(&found)
	if err != nil {
		return false, err
	}
	return found, nil
}

// queryer is the subset of sql.DB/sql.Tx used by existence checks.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

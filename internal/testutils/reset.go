// Package testutils holds helpers for tests that run against a real database.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// resetStatements empties every application table, children before parents so foreign keys hold.
// Add new tables here when a migration introduces one.
var resetStatements = []struct {
	table string
	stmt  string
}{
	{"transactions", "DELETE FROM transactions"},
	{"exchange_rates", "DELETE FROM exchange_rates"},
	{"users", "DELETE FROM users"},
}

// ResetDatabase deletes all rows from the application tables. It stops at the first failure.
func ResetDatabase(ctx context.Context, db Execer) error {
	for _, reset := range resetStatements {
		if _, err := db.ExecContext(ctx, reset.stmt); err != nil {
			return fmt.Errorf("reset %s: %w", reset.table, err)
		}
	}
	return nil
}

// ResetTables lists the tables ResetDatabase clears, in the order it clears them.
func ResetTables() []string {
	tables := make([]string, len(resetStatements))
	for i, reset := range resetStatements {
		tables[i] = reset.table
	}
	return tables
}

// Package dbtest helps repository tests run against a real PostgreSQL.
// Tests are skipped unless PG_TEST_DSN points at a disposable database.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const EnvDSN = "PG_TEST_DSN"

// Open connects to the test database or skips the test.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	db, err := sqlx.ConnectContext(context.Background(), "pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// Truncate empties tables and restarts their identity sequences.
func Truncate(db *sqlx.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", strings.Join(tables, ", "))

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

// Package dbtest provides a migrated Postgres pool for integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"storefront/internal/db"
	"storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool connects to TEST_DB_DSN, applies migrations and truncates every table.
// Tests are skipped when TEST_DB_DSN is unset.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Reset(t, pool)
	return pool
}

func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE audit_logs, payments, order_items, orders, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDatabaseURLEnv names the variable holding the integration test DSN.
const TestDatabaseURLEnv = "NFL_BETS_TEST_DATABASE_URL"

// SetupTestDB connects to the database named by NFL_BETS_TEST_DATABASE_URL,
// applies the schema and truncates all tables. The test is skipped when the
// variable is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping database test", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}

	db := &DB{pool: pool}
	if _, err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	if _, err := pool.Exec(ctx, "TRUNCATE players, player_game_stats, player_rolling_stats, player_props RESTART IDENTITY"); err != nil {
		db.Close()
		t.Fatalf("failed to truncate test tables: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

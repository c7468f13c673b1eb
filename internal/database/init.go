package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/nfl-bets/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is recorded in schema_migrations once schema.sql is applied.
const SchemaVersion = 1

// Initialize creates a database connection pool and applies the schema when auto_migrate is set
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if !cfg.Database.AutoMigrate {
		var count int
		if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil || count == 0 {
			log.Warn("No migrations have been applied; set database.auto_migrate or apply schema.sql")
		}
		return db, nil
	}

	applied, err := db.EnsureSchema(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if applied {
		log.WithField("version", SchemaVersion).Info("Database schema applied")
	}

	return db, nil
}

// EnsureSchema applies the embedded schema if its version is not yet recorded.
// It reports whether the schema was applied by this call.
func (db *DB) EnsureSchema(ctx context.Context) (bool, error) {
	applied := false
	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx)
		if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
			return fmt.Errorf("failed to create schema_migrations: %w", err)
		}

		var exists bool
		if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", SchemaVersion).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check schema version: %w", err)
		}
		if exists {
			return nil
		}

		if _, err := conn.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		if _, err := conn.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", SchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		applied = true
		return nil
	})
	return applied, err
}

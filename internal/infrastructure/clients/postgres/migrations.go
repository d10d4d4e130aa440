package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migration files are named NNN_description.sql and run in lexicographic
// order. Applied versions are recorded in schema_migrations, so Migrate is
// safe to call on every startup.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// RequiredTables lists the tables CheckSchema expects after migrating
var RequiredTables = []string{
	"mechanics",
	"services",
	"service_translations",
	"mechanic_services",
	"customers",
	"bookings",
	"reviews",
}

type migration struct {
	version string
	sql     string
}

// Migrate applies pending migrations, each in its own transaction together
// with its schema_migrations row.
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("migrations: ensure tracking table: %w", err)
	}

	pending, err := loadMigrations(migrationFiles)
	if err != nil {
		return fmt.Errorf("migrations: load files: %w", err)
	}

	applied, err := c.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("migrations: read applied versions: %w", err)
	}

	count := 0
	for _, m := range pending {
		if applied[m.version] {
			continue
		}
		err := c.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("exec sql: %w", err)
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("migrations: apply %q: %w", m.version, err)
		}
		log.Info().Str("version", m.version).Msg("migration applied")
		count++
	}

	if count == 0 {
		log.Info().Msg("database schema is up to date")
	}
	return nil
}

// CheckSchema verifies that every required table exists
func (c *Client) CheckSchema(ctx context.Context) error {
	for _, table := range RequiredTables {
		var exists bool
		err := c.db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table).Scan(&exists)
		if err != nil {
			return fmt.Errorf("migrations: check table %q: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("migrations: required table %q is missing", table)
		}
	}
	return nil
}

// Truncate empties every application table ahead of reseeding
func (c *Client) Truncate(ctx context.Context) error {
	stmt := "TRUNCATE TABLE " + strings.Join(RequiredTables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	log.Warn().Strs("tables", RequiredTables).Msg("tables truncated")
	return nil
}

func (c *Client) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		seen[v] = true
	}
	return seen, rows.Err()
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	sub, err := fs.Sub(fsys, "migrations")
	if err != nil {
		return nil, err
	}

	// ReadDir returns entries sorted by filename.
	entries, err := fs.ReadDir(sub, ".")
	if err != nil {
		return nil, err
	}

	var out []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		content, err := fs.ReadFile(sub, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", e.Name(), err)
		}
		out = append(out, migration{version: e.Name(), sql: string(content)})
	}
	return out, nil
}

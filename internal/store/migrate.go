package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const queryCreateSchemaMigrations = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// migrationFiles lists the embedded migrations in version order.
func migrationFiles() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	for i, n := range names {
		names[i] = n[len("migrations/"):]
	}
	slices.Sort(names)
	return names, nil
}

// RunMigrations applies pending SQL migrations in order and returns the
// versions it applied. Each migration runs in its own transaction together
// with its schema_migrations row. There are no down migrations; fix forward
// only.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	done, err := AppliedMigrations(ctx, pool)
	if err != nil {
		return nil, err
	}

	versions, err := migrationFiles()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, version := range versions {
		if slices.Contains(done, version) {
			continue
		}
		if err := applyMigration(ctx, pool, version); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}

	return applied, nil
}

// AppliedMigrations returns the versions recorded in schema_migrations,
// creating the table if needed.
func AppliedMigrations(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	if _, err := pool.Exec(ctx, queryCreateSchemaMigrations); err != nil {
		return nil, fmt.Errorf("creating schema_migrations table: %w", err)
	}

	rows, err := pool.Query(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning schema_migrations: %w", err)
	}
	return versions, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, version string) error {
	sql, err := migrationsFS.ReadFile("migrations/" + version)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", version, err)
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("applying migration %s: %w", version, err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", version, err)
		}
		return nil
	})
}

package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/consolahealth/studenthealth/internal/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}
	return sub
}

// Migration is one versioned SQL file
type Migration struct {
	Version string
	Name    string
}

// Migrator manages database migrations
type Migrator struct {
	db     *pgxpool.Pool
	fsys   fs.FS
	logger *zerolog.Logger
}

// NewMigrator creates a new migrator reading SQL files from fsys
func NewMigrator(db *pgxpool.Pool, fsys fs.FS) *Migrator {
	return &Migrator{
		db:     db,
		fsys:   fsys,
		logger: logger.Component("migrations"),
	}
}

// Discover lists the .sql files at the root of fsys in version order. The version is
// the file name prefix before the first underscore ("001_init.sql" => "001").
func Discover(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var migrations []Migration
	seen := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		version, _, ok := strings.Cut(name, "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("migration %s has no version prefix", name)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %s", other, name, version)
		}
		seen[version] = name
		migrations = append(migrations, Migration{Version: version, Name: name})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

// Run applies every pending migration in order
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	migrations, err := Discover(m.fsys)
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		if err := m.apply(ctx, mig); err != nil {
			return err
		}
	}
	return nil
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// apply runs one migration and records it in the same transaction
func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	applied, err := m.isMigrationApplied(ctx, mig.Version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("migration", mig.Name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.fsys, mig.Name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", mig.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("migration", mig.Name).Msg("Migration applied")
	return nil
}

package storage

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationStep pairs a version's up and down scripts. Versions are the file
// name prefix before ".up.sql" / ".down.sql" and apply in lexical order.
type migrationStep struct {
	version string
	up      string
	down    string
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

// Migrate brings the schema up to date, applying each pending step inside its
// own transaction and recording it in schema_migrations. Reruns are no-ops.
func (r *SQLiteRepository) Migrate() error {
	if _, err := r.db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	steps, err := loadMigrationSteps()
	if err != nil {
		return err
	}
	applied, err := r.appliedVersions()
	if err != nil {
		return err
	}
	for _, step := range steps {
		if applied[step.version] {
			continue
		}
		if err := r.applyStep(step.version, step.up, true); err != nil {
			return fmt.Errorf("apply migration %s: %w", step.version, err)
		}
	}
	return nil
}

// Rollback reverts every applied migration, newest first, leaving only the
// schema_migrations bookkeeping table behind.
func (r *SQLiteRepository) Rollback() error {
	if _, err := r.db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	steps, err := loadMigrationSteps()
	if err != nil {
		return err
	}
	applied, err := r.appliedVersions()
	if err != nil {
		return err
	}
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if !applied[step.version] {
			continue
		}
		if err := r.applyStep(step.version, step.down, false); err != nil {
			return fmt.Errorf("revert migration %s: %w", step.version, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) applyStep(version, script string, up bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if up {
		_, err = tx.Exec(
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			version, mustTime(time.Now()),
		)
	} else {
		_, err = tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, version)
	}
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) appliedVersions() (map[string]bool, error) {
	rows, err := r.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		out[version] = true
	}
	return out, rows.Err()
}

func loadMigrationSteps() ([]migrationStep, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	byVersion := make(map[string]*migrationStep)
	for _, entry := range entries {
		name := entry.Name()
		var version string
		var isUp bool
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			version, isUp = strings.TrimSuffix(name, ".up.sql"), true
		case strings.HasSuffix(name, ".down.sql"):
			version, isUp = strings.TrimSuffix(name, ".down.sql"), false
		default:
			continue
		}
		raw, readErr := migrationFS.ReadFile("migrations/" + name)
		if readErr != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, readErr)
		}
		step := byVersion[version]
		if step == nil {
			step = &migrationStep{version: version}
			byVersion[version] = step
		}
		if isUp {
			step.up = string(raw)
		} else {
			step.down = string(raw)
		}
	}

	out := make([]migrationStep, 0, len(byVersion))
	for _, step := range byVersion {
		if step.up == "" || step.down == "" {
			return nil, fmt.Errorf("migration %s is missing its up or down script", step.version)
		}
		out = append(out, *step)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// Package schema is the schema bootstrapper: it creates
// the fifteen tables of the version-6 on-disk layout if they don't
// exist yet, then verifies (or initializes) MLMDEnv.schema_version.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/mlerr"
)

// CurrentVersion is the schema version this store implements.
const CurrentVersion = 6

// execer is the minimal surface schema needs from *sql.DB or *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Bootstrap creates the schema if MLMDEnv doesn't exist yet, then
// checks (or sets) the schema version.
func Bootstrap(ctx context.Context, db execer, d dialect.Dialect) error {
	initialized, err := hasMLMDEnv(ctx, db)
	if err != nil {
		return mlerr.Wrap("schema: check MLMDEnv", err)
	}

	if !initialized {
		if err := createSchema(ctx, db, d); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (?)", CurrentVersion); err != nil {
			return mlerr.Wrap("schema: insert initial schema_version", err)
		}
		return nil
	}

	return checkVersion(ctx, db)
}

// hasMLMDEnv reports whether SELECT schema_version FROM MLMDEnv
// succeeds at all: if it succeeds, the database is considered
// initialized.
func hasMLMDEnv(ctx context.Context, db execer) (bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT schema_version FROM MLMDEnv")
	if err != nil {
		// A missing table surfaces as a driver-specific "no such
		// table"/"doesn't exist" error on both back-ends; treat any
		// query failure here as "not yet initialized" and let
		// createSchema's CREATE TABLE IF NOT EXISTS sort it out.
		return false, nil
	}
	defer func() { _ = rows.Close() }()
	return true, rows.Err()
}

// checkVersion runs the version check: empty -> insert
// 6; more than one row -> TooManyMlmdEnvRecords; version != 6 ->
// UnsupportedSchemaVersion.
func checkVersion(ctx context.Context, db execer) error {
	rows, err := db.QueryContext(ctx, "SELECT schema_version FROM MLMDEnv")
	if err != nil {
		return mlerr.Wrap("schema: read MLMDEnv", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return mlerr.Wrap("schema: scan schema_version", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return mlerr.Wrap("schema: iterate MLMDEnv", err)
	}

	switch len(versions) {
	case 0:
		if _, err := db.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (?)", CurrentVersion); err != nil {
			return mlerr.Wrap("schema: insert schema_version", err)
		}
		return nil
	case 1:
		if versions[0] != CurrentVersion {
			return &mlerr.UnsupportedSchemaVersionError{Actual: versions[0], Expected: CurrentVersion}
		}
		return nil
	default:
		return &mlerr.TooManyMlmdEnvRecordsError{Count: len(versions)}
	}
}

// createSchema executes the DDL list one statement at a time — neither
// back-end's database/sql driver reliably supports multi-statement
// Exec.
func createSchema(ctx context.Context, db execer, d dialect.Dialect) error {
	for _, stmt := range tableStatements(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: create table (%s): %w", truncate(stmt), err)
		}
	}
	for _, stmt := range indexStatements(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil && !isBenignDuplicateIndex(err) {
			return fmt.Errorf("schema: create index (%s): %w", truncate(stmt), err)
		}
	}
	return nil
}

// isBenignDuplicateIndex tolerates MySQL's lack of ADD INDEX IF NOT
// EXISTS: a replayed ALTER TABLE ... ADD INDEX on an existing index
// fails with "Duplicate key name", which is not a real error here.
func isBenignDuplicateIndex(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key name") || strings.Contains(msg, "already exists")
}

func truncate(s string) string {
	const max = 80
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

package schema_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/schema"

	_ "modernc.org/sqlite"
)

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Bootstrap on a fresh database creates the schema and inserts a single
// MLMDEnv row at the current version.
func TestBootstrap_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	db := openRaw(t)

	require.NoError(t, schema.Bootstrap(ctx, db, dialect.SQLite{}))

	var version int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT schema_version FROM MLMDEnv").Scan(&version))
	assert.Equal(t, schema.CurrentVersion, version)
}

// Bootstrap is idempotent: running it twice against the same database
// leaves exactly one MLMDEnv row.
func TestBootstrap_IdempotentOnReplay(t *testing.T) {
	ctx := context.Background()
	db := openRaw(t)

	require.NoError(t, schema.Bootstrap(ctx, db, dialect.SQLite{}))
	require.NoError(t, schema.Bootstrap(ctx, db, dialect.SQLite{}))

	rows, err := db.QueryContext(ctx, "SELECT schema_version FROM MLMDEnv")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var count int
	for rows.Next() {
		count++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 1, count)
}

// A pre-existing MLMDEnv row at an unsupported version fails Bootstrap
// with UnsupportedSchemaVersionError.
func TestBootstrap_UnsupportedVersionRejected(t *testing.T) {
	ctx := context.Background()
	db := openRaw(t)

	_, err := db.ExecContext(ctx, "CREATE TABLE MLMDEnv (schema_version INTEGER)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (99)")
	require.NoError(t, err)

	err = schema.Bootstrap(ctx, db, dialect.SQLite{})
	var versionErr *mlerr.UnsupportedSchemaVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, 99, versionErr.Actual)
	assert.Equal(t, schema.CurrentVersion, versionErr.Expected)
}

// More than one MLMDEnv row fails TooManyMlmdEnvRecordsError.
func TestBootstrap_TooManyRecordsRejected(t *testing.T) {
	ctx := context.Background()
	db := openRaw(t)

	_, err := db.ExecContext(ctx, "CREATE TABLE MLMDEnv (schema_version INTEGER)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (6)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (6)")
	require.NoError(t, err)

	err = schema.Bootstrap(ctx, db, dialect.SQLite{})
	var tooMany *mlerr.TooManyMlmdEnvRecordsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Count)
}

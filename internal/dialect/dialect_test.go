package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/model"
)

// BuildUpsertProperty must emit the unused value columns as the literal
// NULL, never as a bound parameter, and bind the one populated column
// exactly twice (VALUES and the upsert's SET clause).
func TestBuildUpsertProperty_NullLiteralsVsBoundArgs(t *testing.T) {
	qb := dialect.New(dialect.SQLite{})

	sqlText, args := qb.BuildUpsertProperty("ArtifactProperty", "artifact_id", 7, "day", false, model.IntValue(1))

	assert.Contains(t, sqlText, "string_value) VALUES (?, ?, ?, ?, NULL, NULL)")
	assert.Contains(t, sqlText, "double_value = NULL, string_value = NULL")
	// The one populated column's value is bound twice: once in VALUES,
	// once in the upsert's SET clause.
	require.Len(t, args, 5)
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, "day", args[1])
	assert.Equal(t, 0, args[2])
	assert.Equal(t, int32(1), args[3])
	assert.Equal(t, int32(1), args[4])
}

func TestBuildInsertItem_OmitsAbsentOptionalColumns(t *testing.T) {
	qb := dialect.New(dialect.SQLite{})

	sqlText, args := qb.BuildInsertItem("Artifact", dialect.ItemColumns{
		TypeID:                   3,
		StateColumn:              "state",
		StateValue:               0,
		CreateTimeSinceEpoch:     100,
		LastUpdateTimeSinceEpoch: 100,
	})

	assert.NotContains(t, sqlText, "name")
	assert.NotContains(t, sqlText, "uri")
	assert.Equal(t, []any{int64(3), 0, int64(100), int64(100)}, args)
}

func TestBuildUpdateItem_OnlySetsSuppliedFields(t *testing.T) {
	qb := dialect.New(dialect.SQLite{})
	name := "renamed"

	sqlText, args := qb.BuildUpdateItem("Artifact", 9, dialect.ItemColumns{
		StateColumn:              "state",
		LastUpdateTimeSinceEpoch: 200,
		Name:                     &name,
	}, false, true, false)

	assert.Contains(t, sqlText, "name = ?")
	assert.NotContains(t, sqlText, "state = ?")
	assert.NotContains(t, sqlText, "uri = ?")
	assert.Equal(t, []any{int64(200), "renamed", int64(9)}, args)
}

func TestSQLiteAndMySQLDialectsDivergeOnUpsertSuffix(t *testing.T) {
	sqliteSuffix := dialect.SQLite{}.UpsertSuffix([]string{"id"}, []string{"v = ?"})
	mysqlSuffix := dialect.MySQL{}.UpsertSuffix([]string{"id"}, []string{"v = ?"})

	assert.Contains(t, sqliteSuffix, "ON CONFLICT")
	assert.Contains(t, mysqlSuffix, "ON DUPLICATE KEY UPDATE")
	assert.NotEqual(t, sqliteSuffix, mysqlSuffix)
}

package registry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/model"
	"github.com/mlmd-go/mlmd/internal/registry"
	"github.com/mlmd-go/mlmd/internal/schema"

	_ "modernc.org/sqlite"
)

func openRegistry(t *testing.T) (*registry.Registry, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, schema.Bootstrap(ctx, db, dialect.SQLite{}))

	return registry.New(dialect.New(dialect.SQLite{})), db
}

func TestPutType_InsertsNewType(t *testing.T) {
	reg, db := openRegistry(t)
	ctx := context.Background()

	id, err := reg.PutType(ctx, db, model.KindArtifact, "DataSet",
		map[string]model.PropertyType{"day": model.PropertyTypeInt}, registry.PutTypeOptions{})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := reg.GetTypeByID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "DataSet", got.Name)
	assert.Equal(t, model.KindArtifact, got.Kind)
	assert.Equal(t, model.PropertyTypeInt, got.Properties["day"])
}

func TestPutType_ConflictingPropertyTypeRejected(t *testing.T) {
	reg, db := openRegistry(t)
	ctx := context.Background()

	_, err := reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt}, registry.PutTypeOptions{})
	require.NoError(t, err)

	_, err = reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeDouble}, registry.PutTypeOptions{})
	assert.ErrorIs(t, err, mlerr.ErrTypeAlreadyExists)
}

func TestPutType_AddedFieldRequiresOption(t *testing.T) {
	reg, db := openRegistry(t)
	ctx := context.Background()

	_, err := reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt}, registry.PutTypeOptions{})
	require.NoError(t, err)

	_, err = reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt, "p1": model.PropertyTypeString},
		registry.PutTypeOptions{})
	assert.ErrorIs(t, err, mlerr.ErrTypeAlreadyExists)

	id, err := reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt, "p1": model.PropertyTypeString},
		registry.PutTypeOptions{CanAddFields: true})
	require.NoError(t, err)

	got, err := reg.GetTypeByID(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, model.PropertyTypeString, got.Properties["p1"])
}

func TestPutType_OmittedFieldRequiresOption(t *testing.T) {
	reg, db := openRegistry(t)
	ctx := context.Background()

	_, err := reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt, "p1": model.PropertyTypeString},
		registry.PutTypeOptions{})
	require.NoError(t, err)

	_, err = reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt}, registry.PutTypeOptions{})
	assert.ErrorIs(t, err, mlerr.ErrTypeAlreadyExists)

	id, err := reg.PutType(ctx, db, model.KindArtifact, "t0",
		map[string]model.PropertyType{"p0": model.PropertyTypeInt}, registry.PutTypeOptions{CanOmitFields: true})
	require.NoError(t, err)

	got, err := reg.GetTypeByID(ctx, db, id)
	require.NoError(t, err)
	assert.Contains(t, got.Properties, "p1")
}

func TestGetTypeByID_UnknownIDFails(t *testing.T) {
	reg, db := openRegistry(t)
	ctx := context.Background()

	_, err := reg.GetTypeByID(ctx, db, 12345)
	assert.ErrorIs(t, err, mlerr.ErrTypeNotFound)
}

func TestGetTypes_FiltersByNameAndID(t *testing.T) {
	reg, db := openRegistry(t)
	ctx := context.Background()

	id1, err := reg.PutType(ctx, db, model.KindExecution, "Trainer", nil, registry.PutTypeOptions{})
	require.NoError(t, err)
	_, err = reg.PutType(ctx, db, model.KindExecution, "Evaluator", nil, registry.PutTypeOptions{})
	require.NoError(t, err)

	byName, err := reg.GetTypes(ctx, db, model.KindExecution, registry.TypeFilter{Name: "Trainer"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, id1, byName[0].ID)

	byID, err := reg.GetTypes(ctx, db, model.KindExecution, registry.TypeFilter{IDs: []int64{id1}})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Trainer", byID[0].Name)
}

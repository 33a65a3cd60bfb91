package mlmd_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlmd-go/mlmd"
)

// openTestStore opens a fresh on-disk SQLite store (a distinct file per
// test, since the store caps the connection pool at one and an
// in-memory database would vanish the moment that connection closed).
func openTestStore(t *testing.T) *mlmd.Store {
	t.Helper()
	dir := t.TempDir()
	uri := "sqlite:" + filepath.Join(dir, "mlmd.db")
	st, err := mlmd.Open(context.Background(), uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// TestArtifactRoundTrip creates Artifact type DataSet with property
// day:INT, POSTs an artifact with day=1 and uri "path/to/data", and
// checks GET by id returns name=nil, uri="path/to/data",
// properties={day: Int(1)}, state=UNKNOWN.
func TestArtifactRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	typ, err := st.PutArtifactType("DataSet").WithProperty("day", mlmd.PropertyTypeInt).Execute(ctx)
	require.NoError(t, err)

	posted, err := st.PostArtifact(typ.ID).
		WithURI("path/to/data").
		WithProperty("day", mlmd.IntValue(1)).
		Execute(ctx)
	require.NoError(t, err)

	got, err := st.GetArtifacts().WithIDs(posted.ID).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, got.Artifacts, 1)

	a := got.Artifacts[0]
	assert.Nil(t, a.Name)
	require.NotNil(t, a.URI)
	assert.Equal(t, "path/to/data", *a.URI)
	assert.Equal(t, mlmd.ArtifactStateUnknown, a.State)
	require.Contains(t, a.Properties, "day")
	assert.True(t, a.Properties["day"].Equal(mlmd.IntValue(1)))
}

// PutTypeConflicts covers PutType's reconciliation rules against an
// existing Type.
func TestPutTypeConflicts(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.PutArtifactType("t0").WithProperty("p0", mlmd.PropertyTypeInt).Execute(ctx)
	require.NoError(t, err)

	// Same property, different declared type: always a conflict.
	_, err = st.PutArtifactType("t0").WithProperty("p0", mlmd.PropertyTypeDouble).Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrTypeAlreadyExists)

	// New property without AllowingAddedFields: conflict.
	_, err = st.PutArtifactType("t0").
		WithProperty("p0", mlmd.PropertyTypeInt).
		WithProperty("p1", mlmd.PropertyTypeString).
		Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrTypeAlreadyExists)

	// Same call with AllowingAddedFields: succeeds.
	_, err = st.PutArtifactType("t0").
		WithProperty("p0", mlmd.PropertyTypeInt).
		WithProperty("p1", mlmd.PropertyTypeString).
		AllowingAddedFields().
		Execute(ctx)
	require.NoError(t, err)
}

// ExecutionEventLifecycle covers an Execution's lifecycle with a
// declared-input Event.
func TestExecutionEventLifecycle(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	execType, err := st.PutExecutionType("Trainer").Execute(ctx)
	require.NoError(t, err)
	artType, err := st.PutArtifactType("Dataset").Execute(ctx)
	require.NoError(t, err)

	dataArtifact, err := st.PostArtifact(artType.ID).Execute(ctx)
	require.NoError(t, err)

	exec, err := st.PostExecution(execType.ID).WithState(mlmd.ExecutionStateRunning).Execute(ctx)
	require.NoError(t, err)

	_, err = st.PutEvent(exec.ID, dataArtifact.ID).
		WithType(mlmd.EventTypeDeclaredInput).
		Execute(ctx)
	require.NoError(t, err)

	_, err = st.PutExecution(exec.ID).WithState(mlmd.ExecutionStateComplete).Execute(ctx)
	require.NoError(t, err)

	events, err := st.GetEvents().ForArtifacts(dataArtifact.ID).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, events.Events, 1)
	assert.Equal(t, mlmd.EventTypeDeclaredInput, events.Events[0].Type)
	assert.Equal(t, exec.ID, events.Events[0].ExecutionID)
	assert.Equal(t, dataArtifact.ID, events.Events[0].ArtifactID)

	executions, err := st.GetExecutions().WithIDs(exec.ID).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, executions.Executions, 1)
	assert.Equal(t, mlmd.ExecutionStateComplete, executions.Executions[0].LastKnownState)
}

// ContextNameUniqueness covers Context name uniqueness within a type.
func TestContextNameUniqueness(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	ctxType, err := st.PutContextType("Experiment").WithProperty("note", mlmd.PropertyTypeString).Execute(ctx)
	require.NoError(t, err)

	_, err = st.PostContext(ctxType.ID, "exp.42").WithProperty("note", mlmd.StringValue("first")).Execute(ctx)
	require.NoError(t, err)

	_, err = st.PostContext(ctxType.ID, "exp.42").WithProperty("note", mlmd.StringValue("second")).Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrNameAlreadyExists)
}

// AttributionIdempotent covers that put_attribution is idempotent:
// Attribution carries exactly one row for a given (context, artifact)
// pair.
func TestAttributionIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	ctxType, err := st.PutContextType("Experiment").Execute(ctx)
	require.NoError(t, err)
	artType, err := st.PutArtifactType("Model").Execute(ctx)
	require.NoError(t, err)

	c, err := st.PostContext(ctxType.ID, "exp.1").Execute(ctx)
	require.NoError(t, err)
	a, err := st.PostArtifact(artType.ID).Execute(ctx)
	require.NoError(t, err)

	require.NoError(t, st.PutAttribution(ctx, c.ID, a.ID))
	require.NoError(t, st.PutAttribution(ctx, c.ID, a.ID))

	artifacts, err := st.GetArtifacts().InContext(c.ID).Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, artifacts.Artifacts, 1)
}

// SchemaVersionAndUnsupportedScheme covers that schema bootstrap
// leaves exactly one MLMDEnv row at version 6, and that an
// unrecognized URI scheme fails with ErrUnsupportedDatabase.
func TestSchemaVersionAndUnsupportedScheme(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "mlmd.db")

	st, err := mlmd.Open(ctx, "sqlite:"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = raw.Close() }()

	rows, err := raw.QueryContext(ctx, "SELECT schema_version FROM MLMDEnv")
	require.NoError(t, err)
	var versions []int
	for rows.Next() {
		var v int
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Close())
	require.Equal(t, []int{6}, versions)

	_, err = mlmd.Open(ctx, "postgres:"+path)
	assert.ErrorIs(t, err, mlmd.ErrUnsupportedDatabase)
}

// PutUnknownIDNotFound covers that PUT referencing an unknown item id
// fails NotFound.
func TestPutUnknownIDNotFound(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.PutArtifact(999).WithURI("x").Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrNotFound)
}

// UndefinedPropertyTypeMismatch covers that a property write whose
// value tag disagrees with the type's declaration fails
// UndefinedProperty; custom properties bypass the check.
func TestUndefinedPropertyTypeMismatch(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	typ, err := st.PutArtifactType("DataSet").WithProperty("day", mlmd.PropertyTypeInt).Execute(ctx)
	require.NoError(t, err)

	_, err = st.PostArtifact(typ.ID).WithProperty("day", mlmd.StringValue("nope")).Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrUndefinedProperty)

	// Custom properties aren't declared anywhere, so any tag is fine.
	posted, err := st.PostArtifact(typ.ID).WithCustomProperty("day", mlmd.StringValue("anything")).Execute(ctx)
	require.NoError(t, err)
	assert.Positive(t, posted.ID)
}

// PostGetRoundTrip covers that POST(item) -> GET(id) round-trips
// modulo id/timestamps.
func TestPostGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	typ, err := st.PutArtifactType("Blob").WithProperty("size", mlmd.PropertyTypeInt).Execute(ctx)
	require.NoError(t, err)

	posted, err := st.PostArtifact(typ.ID).
		WithName("blob-1").
		WithURI("s3://bucket/blob-1").
		WithProperty("size", mlmd.IntValue(42)).
		WithCustomProperty("owner", mlmd.StringValue("alice")).
		Execute(ctx)
	require.NoError(t, err)

	got, err := st.GetArtifacts().WithIDs(posted.ID).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, got.Artifacts, 1)

	a := got.Artifacts[0]
	require.NotNil(t, a.Name)
	assert.Equal(t, "blob-1", *a.Name)
	require.NotNil(t, a.URI)
	assert.Equal(t, "s3://bucket/blob-1", *a.URI)
	assert.True(t, a.Properties["size"].Equal(mlmd.IntValue(42)))
	assert.True(t, a.CustomProperties["owner"].Equal(mlmd.StringValue("alice")))
	assert.Positive(t, a.CreateTimeSinceEpoch)
	assert.Equal(t, a.CreateTimeSinceEpoch, a.LastUpdateTimeSinceEpoch)
}

// PutIdempotentExceptUpdateTime covers that repeating an identical PUT
// is idempotent except for last_update_time_since_epoch advancing (or
// staying equal on a clock tie, which WithClock lets us pin
// deterministically here).
func TestPutIdempotentExceptUpdateTime(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tick := 0
	clock := func() time.Time {
		tick++
		return time.Unix(int64(tick), 0)
	}

	st, err := mlmd.Open(ctx, "sqlite:"+filepath.Join(dir, "mlmd.db"), mlmd.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	typ, err := st.PutArtifactType("Blob").Execute(ctx)
	require.NoError(t, err)

	posted, err := st.PostArtifact(typ.ID).WithURI("v1").Execute(ctx)
	require.NoError(t, err)

	firstGet, err := st.GetArtifacts().WithIDs(posted.ID).Execute(ctx)
	require.NoError(t, err)
	firstUpdate := firstGet.Artifacts[0].LastUpdateTimeSinceEpoch

	_, err = st.PutArtifact(posted.ID).WithURI("v2").Execute(ctx)
	require.NoError(t, err)
	_, err = st.PutArtifact(posted.ID).WithURI("v2").Execute(ctx)
	require.NoError(t, err)

	secondGet, err := st.GetArtifacts().WithIDs(posted.ID).Execute(ctx)
	require.NoError(t, err)
	a := secondGet.Artifacts[0]
	require.NotNil(t, a.URI)
	assert.Equal(t, "v2", *a.URI)
	assert.GreaterOrEqual(t, a.LastUpdateTimeSinceEpoch, firstUpdate)
}

// AssociationIdempotent covers that two identical put_association
// calls both succeed; TestAttributionIdempotent covers Attribution.
func TestAssociationIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	ctxType, err := st.PutContextType("Experiment").Execute(ctx)
	require.NoError(t, err)
	execType, err := st.PutExecutionType("Trainer").Execute(ctx)
	require.NoError(t, err)

	c, err := st.PostContext(ctxType.ID, "exp.1").Execute(ctx)
	require.NoError(t, err)
	x, err := st.PostExecution(execType.ID).Execute(ctx)
	require.NoError(t, err)

	require.NoError(t, st.PutAssociation(ctx, c.ID, x.ID))
	require.NoError(t, st.PutAssociation(ctx, c.ID, x.ID))

	executions, err := st.GetExecutions().InContext(c.ID).Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, executions.Executions, 1)
}

// EventPathRoundTrip covers that Event.path round-trips in order.
func TestEventPathRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	execType, err := st.PutExecutionType("Trainer").Execute(ctx)
	require.NoError(t, err)
	artType, err := st.PutArtifactType("Dataset").Execute(ctx)
	require.NoError(t, err)

	x, err := st.PostExecution(execType.ID).Execute(ctx)
	require.NoError(t, err)
	a, err := st.PostArtifact(artType.ID).Execute(ctx)
	require.NoError(t, err)

	path := []mlmd.EventStep{mlmd.IndexStep(7), mlmd.KeyStep("k"), mlmd.IndexStep(2)}
	_, err = st.PutEvent(x.ID, a.ID).WithPath(path...).Execute(ctx)
	require.NoError(t, err)

	events, err := st.GetEvents().ForExecutions(x.ID).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, events.Events, 1)
	require.Len(t, events.Events[0].Path, 3)
	for i, step := range path {
		assert.Equal(t, step, events.Events[0].Path[i])
	}
}

// DuplicateNameRejected covers that POSTing the same (kind, type_id,
// name) twice fails NameAlreadyExists.
func TestDuplicateNameRejected(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	typ, err := st.PutArtifactType("DataSet").Execute(ctx)
	require.NoError(t, err)

	_, err = st.PostArtifact(typ.ID).WithName("same-name").Execute(ctx)
	require.NoError(t, err)

	_, err = st.PostArtifact(typ.ID).WithName("same-name").Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrNameAlreadyExists)
}

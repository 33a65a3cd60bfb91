//go:build integration

package mlmd_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/mlmd-go/mlmd"
)

// TestMySQLBackend runs two of the scenarios mlmd_test.go exercises
// against SQLite (the artifact round trip and the duplicate Context
// name) against a real MySQL server booted in a disposable container,
// exercising the MySQL dialect end to end (the second back-end). Opt in
// with `go test -tags integration`.
func TestMySQLBackend(t *testing.T) {
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("mlmd"),
		mysql.WithUsername("mlmd"),
		mysql.WithPassword("mlmd"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	st, err := mlmd.Open(ctx, "mysql:"+dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

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
	require.NotNil(t, a.URI)
	assert.Equal(t, "path/to/data", *a.URI)
	assert.True(t, a.Properties["day"].Equal(mlmd.IntValue(1)))

	// Duplicate name still fails NameAlreadyExists under MySQL too.
	ctxType, err := st.PutContextType("Experiment").Execute(ctx)
	require.NoError(t, err)
	_, err = st.PostContext(ctxType.ID, "exp.1").Execute(ctx)
	require.NoError(t, err)
	_, err = st.PostContext(ctxType.ID, "exp.1").Execute(ctx)
	assert.ErrorIs(t, err, mlmd.ErrNameAlreadyExists)
}

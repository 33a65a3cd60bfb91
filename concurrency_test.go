package mlmd_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mlmd-go/mlmd"
)

// TestConcurrentPostsOnOneStore exercises the claim that one
// Store (capped at a single database/sql connection) serializes
// concurrent callers safely rather than corrupting state: many
// goroutines POST distinct Artifacts at once, and every one must
// succeed with a unique id.
func TestConcurrentPostsOnOneStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := mlmd.Open(ctx, "sqlite:"+filepath.Join(dir, "mlmd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	typ, err := st.PutArtifactType("ConcurrentProbe").Execute(ctx)
	require.NoError(t, err)

	const workers = 32
	ids := make([]int64, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			name := fmt.Sprintf("probe-%d", i)
			result, err := st.PostArtifact(typ.ID).WithName(name).Execute(gctx)
			if err != nil {
				return err
			}
			ids[i] = result.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool, workers)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.Positive(t, id)
	}

	all, err := st.GetArtifacts().OfType("ConcurrentProbe").Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, all.Artifacts, workers)
}

package mlmdstore

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/model"
)

// PostArtifact, PutArtifact and GetArtifacts expose the Item Engine's
// Artifact pipeline.
func (s *Store) PostArtifact(ctx context.Context, a model.Artifact) (int64, error) {
	ctx, span := tracer.Start(ctx, "mlmd.PostArtifact")
	defer span.End()
	storeMetrics.itemPosts.Add(ctx, 1)
	return s.items.PostArtifact(ctx, a)
}

func (s *Store) PutArtifact(ctx context.Context, a model.Artifact, nameSupplied, uriSupplied bool) error {
	ctx, span := tracer.Start(ctx, "mlmd.PutArtifact")
	defer span.End()
	storeMetrics.itemPuts.Add(ctx, 1)
	return s.items.PutArtifact(ctx, a, nameSupplied, uriSupplied)
}

func (s *Store) GetArtifacts(ctx context.Context, filter dialect.ItemFilter) ([]model.Artifact, error) {
	ctx, span := tracer.Start(ctx, "mlmd.GetArtifacts")
	defer span.End()
	storeMetrics.itemGets.Add(ctx, 1)
	return s.items.GetArtifacts(ctx, filter)
}

// PostExecution, PutExecution and GetExecutions expose the Item
// Engine's Execution pipeline.
func (s *Store) PostExecution(ctx context.Context, x model.Execution) (int64, error) {
	ctx, span := tracer.Start(ctx, "mlmd.PostExecution")
	defer span.End()
	storeMetrics.itemPosts.Add(ctx, 1)
	return s.items.PostExecution(ctx, x)
}

func (s *Store) PutExecution(ctx context.Context, x model.Execution, stateSupplied, nameSupplied bool) error {
	ctx, span := tracer.Start(ctx, "mlmd.PutExecution")
	defer span.End()
	storeMetrics.itemPuts.Add(ctx, 1)
	return s.items.PutExecution(ctx, x, stateSupplied, nameSupplied)
}

func (s *Store) GetExecutions(ctx context.Context, filter dialect.ItemFilter) ([]model.Execution, error) {
	ctx, span := tracer.Start(ctx, "mlmd.GetExecutions")
	defer span.End()
	storeMetrics.itemGets.Add(ctx, 1)
	return s.items.GetExecutions(ctx, filter)
}

// PostContext, PutContext and GetContexts expose the Item Engine's
// Context pipeline.
func (s *Store) PostContext(ctx context.Context, c model.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "mlmd.PostContext")
	defer span.End()
	storeMetrics.itemPosts.Add(ctx, 1)
	return s.items.PostContext(ctx, c)
}

func (s *Store) PutContext(ctx context.Context, c model.Context, nameSupplied bool) error {
	ctx, span := tracer.Start(ctx, "mlmd.PutContext")
	defer span.End()
	storeMetrics.itemPuts.Add(ctx, 1)
	return s.items.PutContext(ctx, c, nameSupplied)
}

func (s *Store) GetContexts(ctx context.Context, filter dialect.ItemFilter) ([]model.Context, error) {
	ctx, span := tracer.Start(ctx, "mlmd.GetContexts")
	defer span.End()
	storeMetrics.itemGets.Add(ctx, 1)
	return s.items.GetContexts(ctx, filter)
}

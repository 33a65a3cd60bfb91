package mlmdstore

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/engine"
	"github.com/mlmd-go/mlmd/internal/model"
)

// PutAttribution and PutAssociation expose the Relation Engine's
// insert-only edge pipelines.
func (s *Store) PutAttribution(ctx context.Context, contextID, artifactID int64) error {
	ctx, span := tracer.Start(ctx, "mlmd.PutAttribution")
	defer span.End()
	storeMetrics.relationPuts.Add(ctx, 1)
	return s.rels.PutAttribution(ctx, contextID, artifactID)
}

func (s *Store) PutAssociation(ctx context.Context, contextID, executionID int64) error {
	ctx, span := tracer.Start(ctx, "mlmd.PutAssociation")
	defer span.End()
	storeMetrics.relationPuts.Add(ctx, 1)
	return s.rels.PutAssociation(ctx, contextID, executionID)
}

// PutEvent and GetEvents expose the Relation Engine's Event pipeline.
func (s *Store) PutEvent(ctx context.Context, executionID, artifactID int64, opts engine.PutEventOptions) (int64, error) {
	ctx, span := tracer.Start(ctx, "mlmd.PutEvent")
	defer span.End()
	storeMetrics.relationPuts.Add(ctx, 1)
	return s.rels.PutEvent(ctx, executionID, artifactID, opts)
}

func (s *Store) GetEvents(ctx context.Context, filter dialect.EventFilter) ([]model.Event, error) {
	ctx, span := tracer.Start(ctx, "mlmd.GetEvents")
	defer span.End()
	storeMetrics.itemGets.Add(ctx, 1)
	return s.rels.GetEvents(ctx, filter)
}

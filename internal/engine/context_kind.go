package engine

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/model"
)

// PostContext runs the POST pipeline for the Context kind. Name is
// mandatory.
func (e *ItemEngine) PostContext(ctx context.Context, c model.Context) (int64, error) {
	rec := itemRecordFromContext(c)
	return e.PostItem(ctx, contextSpec, rec)
}

// PutContext runs the PUT pipeline for the Context kind.
func (e *ItemEngine) PutContext(ctx context.Context, c model.Context, nameSupplied bool) error {
	rec := itemRecordFromContext(c)
	rec.ID = c.ID
	return e.PutItem(ctx, contextSpec, rec, false, nameSupplied, false)
}

// GetContexts runs the GET pipeline for the Context kind.
func (e *ItemEngine) GetContexts(ctx context.Context, filter dialect.ItemFilter) ([]model.Context, error) {
	recs, err := e.GetItems(ctx, contextSpec, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Context, len(recs))
	for i, rec := range recs {
		out[i] = contextFromItemRecord(rec)
	}
	return out, nil
}

func itemRecordFromContext(c model.Context) itemRecord {
	return itemRecord{
		ID:                       c.ID,
		TypeID:                   c.TypeID,
		Name:                     c.Name,
		CreateTimeSinceEpoch:     c.CreateTimeSinceEpoch,
		LastUpdateTimeSinceEpoch: c.LastUpdateTimeSinceEpoch,
		Properties:               c.Properties,
		CustomProperties:         c.CustomProperties,
	}
}

func contextFromItemRecord(rec itemRecord) model.Context {
	return model.Context{
		Item: model.Item{
			ID:                       rec.ID,
			TypeID:                   rec.TypeID,
			Name:                     rec.Name,
			CreateTimeSinceEpoch:     rec.CreateTimeSinceEpoch,
			LastUpdateTimeSinceEpoch: rec.LastUpdateTimeSinceEpoch,
			Properties:               rec.Properties,
			CustomProperties:         rec.CustomProperties,
		},
	}
}

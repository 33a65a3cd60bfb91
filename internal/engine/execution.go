package engine

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/model"
)

// PostExecution runs the POST pipeline for the Execution kind.
func (e *ItemEngine) PostExecution(ctx context.Context, x model.Execution) (int64, error) {
	rec := itemRecordFromExecution(x)
	return e.PostItem(ctx, executionSpec, rec)
}

// PutExecution runs the PUT pipeline for the Execution kind.
func (e *ItemEngine) PutExecution(ctx context.Context, x model.Execution, stateSupplied, nameSupplied bool) error {
	rec := itemRecordFromExecution(x)
	rec.ID = x.ID
	return e.PutItem(ctx, executionSpec, rec, stateSupplied, nameSupplied, false)
}

// GetExecutions runs the GET pipeline for the Execution kind.
func (e *ItemEngine) GetExecutions(ctx context.Context, filter dialect.ItemFilter) ([]model.Execution, error) {
	recs, err := e.GetItems(ctx, executionSpec, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Execution, len(recs))
	for i, rec := range recs {
		out[i] = executionFromItemRecord(rec)
	}
	return out, nil
}

func itemRecordFromExecution(x model.Execution) itemRecord {
	return itemRecord{
		ID:                       x.ID,
		TypeID:                   x.TypeID,
		Name:                     x.Name,
		StateValue:               int(x.LastKnownState),
		CreateTimeSinceEpoch:     x.CreateTimeSinceEpoch,
		LastUpdateTimeSinceEpoch: x.LastUpdateTimeSinceEpoch,
		Properties:               x.Properties,
		CustomProperties:         x.CustomProperties,
	}
}

func executionFromItemRecord(rec itemRecord) model.Execution {
	return model.Execution{
		Item: model.Item{
			ID:                       rec.ID,
			TypeID:                   rec.TypeID,
			Name:                     rec.Name,
			CreateTimeSinceEpoch:     rec.CreateTimeSinceEpoch,
			LastUpdateTimeSinceEpoch: rec.LastUpdateTimeSinceEpoch,
			Properties:               rec.Properties,
			CustomProperties:         rec.CustomProperties,
		},
		LastKnownState: model.ExecutionState(rec.StateValue),
	}
}

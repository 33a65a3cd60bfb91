package engine

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/model"
)

// PostArtifact runs the POST pipeline for the Artifact kind.
func (e *ItemEngine) PostArtifact(ctx context.Context, a model.Artifact) (int64, error) {
	rec := itemRecordFromArtifact(a)
	return e.PostItem(ctx, artifactSpec, rec)
}

// PutArtifact runs the PUT pipeline for the Artifact kind.
// nameSupplied/uriSupplied distinguish "omitted" from "supplied" per
// the variable-column UPDATE rule (a nil value is never written); state is
// always supplied for Artifact since ArtifactState has no "unset" tag.
func (e *ItemEngine) PutArtifact(ctx context.Context, a model.Artifact, nameSupplied, uriSupplied bool) error {
	rec := itemRecordFromArtifact(a)
	rec.ID = a.ID
	return e.PutItem(ctx, artifactSpec, rec, true, nameSupplied, uriSupplied)
}

// GetArtifacts runs the GET pipeline for the Artifact kind.
func (e *ItemEngine) GetArtifacts(ctx context.Context, filter dialect.ItemFilter) ([]model.Artifact, error) {
	recs, err := e.GetItems(ctx, artifactSpec, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Artifact, len(recs))
	for i, rec := range recs {
		out[i] = artifactFromItemRecord(rec)
	}
	return out, nil
}

func itemRecordFromArtifact(a model.Artifact) itemRecord {
	return itemRecord{
		ID:                       a.ID,
		TypeID:                   a.TypeID,
		Name:                     a.Name,
		URI:                      a.URI,
		StateValue:               int(a.State),
		CreateTimeSinceEpoch:     a.CreateTimeSinceEpoch,
		LastUpdateTimeSinceEpoch: a.LastUpdateTimeSinceEpoch,
		Properties:               a.Properties,
		CustomProperties:         a.CustomProperties,
	}
}

func artifactFromItemRecord(rec itemRecord) model.Artifact {
	return model.Artifact{
		Item: model.Item{
			ID:                       rec.ID,
			TypeID:                   rec.TypeID,
			Name:                     rec.Name,
			CreateTimeSinceEpoch:     rec.CreateTimeSinceEpoch,
			LastUpdateTimeSinceEpoch: rec.LastUpdateTimeSinceEpoch,
			Properties:               rec.Properties,
			CustomProperties:         rec.CustomProperties,
		},
		URI:   rec.URI,
		State: model.ArtifactState(rec.StateValue),
	}
}

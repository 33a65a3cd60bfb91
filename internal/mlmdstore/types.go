package mlmdstore

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/model"
	"github.com/mlmd-go/mlmd/internal/registry"
)

// PutType inserts or reconciles a Type, in its own
// transaction as the component contract requires.
func (s *Store) PutType(ctx context.Context, kind model.Kind, name string, properties map[string]model.PropertyType, opts registry.PutTypeOptions) (int64, error) {
	ctx, span := tracer.Start(ctx, "mlmd.PutType")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mlerr.Wrap("put type: begin tx", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	id, err := s.reg.PutType(ctx, tx, kind, name, properties, opts)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, mlerr.Wrap("put type: commit", err)
	}
	return id, nil
}

// GetTypes runs a filtered Type read.
func (s *Store) GetTypes(ctx context.Context, kind model.Kind, filter registry.TypeFilter) ([]model.Type, error) {
	return s.reg.GetTypes(ctx, s.db, kind, filter)
}

// GetTypeByID resolves a single Type by id.
func (s *Store) GetTypeByID(ctx context.Context, id int64) (*model.Type, error) {
	return s.reg.GetTypeByID(ctx, s.db, id)
}

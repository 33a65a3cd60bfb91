package engine

import (
	"context"
	"database/sql"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/model"
)

// RelationEngine runs the insert-only Attribution/Association/Event
// pipelines.
type RelationEngine struct {
	db DB
	qb *dialect.QueryBuilder
}

// NewRelationEngine returns a RelationEngine.
func NewRelationEngine(db DB, qb *dialect.QueryBuilder) *RelationEngine {
	return &RelationEngine{db: db, qb: qb}
}

func (e *RelationEngine) exists(ctx context.Context, q queryRower, table string, id int64) (bool, error) {
	sqlText, args := e.qb.BuildExistsCheck(table, id)
	var count int
	if err := q.QueryRowContext(ctx, sqlText, args...).Scan(&count); err != nil {
		return false, mlerr.Wrap("relation: exists check", err)
	}
	return count > 0, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PutAttribution verifies both rows exist, then inserts idempotently
// (duplicates are silently ignored).
func (e *RelationEngine) PutAttribution(ctx context.Context, contextID, artifactID int64) error {
	if ok, err := e.exists(ctx, e.db, "Context", contextID); err != nil {
		return err
	} else if !ok {
		return mlerr.NotFound("Context", contextID)
	}
	if ok, err := e.exists(ctx, e.db, "Artifact", artifactID); err != nil {
		return err
	} else if !ok {
		return mlerr.NotFound("Artifact", artifactID)
	}

	sqlText, args := e.qb.BuildInsertIgnoreRelation("Attribution", "context_id", "artifact_id", contextID, artifactID)
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return mlerr.Wrap("put attribution: begin tx", err)
	}
	if _, err := tx.ExecContext(ctx, sqlText, args...); err != nil {
		_ = tx.Rollback()
		return mlerr.Wrap("put attribution: insert", err)
	}
	if err := tx.Commit(); err != nil {
		return mlerr.Wrap("put attribution: commit", err)
	}
	return nil
}

// PutAssociation is PutAttribution's analogue for Association.
func (e *RelationEngine) PutAssociation(ctx context.Context, contextID, executionID int64) error {
	if ok, err := e.exists(ctx, e.db, "Context", contextID); err != nil {
		return err
	} else if !ok {
		return mlerr.NotFound("Context", contextID)
	}
	if ok, err := e.exists(ctx, e.db, "Execution", executionID); err != nil {
		return err
	} else if !ok {
		return mlerr.NotFound("Execution", executionID)
	}

	sqlText, args := e.qb.BuildInsertIgnoreRelation("Association", "context_id", "execution_id", contextID, executionID)
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return mlerr.Wrap("put association: begin tx", err)
	}
	if _, err := tx.ExecContext(ctx, sqlText, args...); err != nil {
		_ = tx.Rollback()
		return mlerr.Wrap("put association: insert", err)
	}
	if err := tx.Commit(); err != nil {
		return mlerr.Wrap("put association: commit", err)
	}
	return nil
}

// PutEventOptions carries an Event's type, timestamp and path.
type PutEventOptions struct {
	Type                   model.EventType
	MillisecondsSinceEpoch int64
	Path                   []model.EventStep
}

// PutEvent runs the event insert pipeline: verify both
// endpoints exist, insert the Event row, read back its id, then insert
// each path step in order within the same transaction.
func (e *RelationEngine) PutEvent(ctx context.Context, executionID, artifactID int64, opts PutEventOptions) (int64, error) {
	if ok, err := e.exists(ctx, e.db, "Execution", executionID); err != nil {
		return 0, err
	} else if !ok {
		return 0, mlerr.NotFound("Execution", executionID)
	}
	if ok, err := e.exists(ctx, e.db, "Artifact", artifactID); err != nil {
		return 0, err
	} else if !ok {
		return 0, mlerr.NotFound("Artifact", artifactID)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mlerr.Wrap("put event: begin tx", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	insertSQL, insertArgs := e.qb.BuildInsertEvent(artifactID, executionID, int(opts.Type), opts.MillisecondsSinceEpoch)
	if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		_ = tx.Rollback()
		return 0, mlerr.Wrap("put event: insert", err)
	}

	var eventID int64
	if err := tx.QueryRowContext(ctx, e.qb.BuildLastEventID()).Scan(&eventID); err != nil {
		_ = tx.Rollback()
		return 0, mlerr.Wrap("put event: read back id", err)
	}

	for i, step := range opts.Path {
		stepSQL, stepArgs := e.qb.BuildInsertEventPathStep(eventID, i, step)
		if _, err := tx.ExecContext(ctx, stepSQL, stepArgs...); err != nil {
			_ = tx.Rollback()
			return 0, mlerr.Wrapf(err, "put event: insert path step %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, mlerr.Wrap("put event: commit", err)
	}
	return eventID, nil
}

// GetEvents runs the two-pass Event read: matching Event
// rows, then every EventPath row for the collected ids, appended in
// step_index order.
func (e *RelationEngine) GetEvents(ctx context.Context, filter dialect.EventFilter) ([]model.Event, error) {
	selectSQL, selectArgs := e.qb.BuildSelectEvents(filter)
	rows, err := e.db.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, mlerr.Wrap("get events: select", err)
	}

	var order []int64
	byID := make(map[int64]*model.Event)
	for rows.Next() {
		ev := &model.Event{}
		var eventType int
		if err := rows.Scan(&ev.ID, &ev.ArtifactID, &ev.ExecutionID, &eventType, &ev.MillisecondsSinceEpoch); err != nil {
			_ = rows.Close()
			return nil, mlerr.Wrap("get events: scan", err)
		}
		ev.Type = model.EventType(eventType)
		if !ev.Type.Valid() {
			_ = rows.Close()
			return nil, mlerr.ErrConvert
		}
		byID[ev.ID] = ev
		order = append(order, ev.ID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, mlerr.Wrap("get events: iterate", err)
	}
	_ = rows.Close()

	if len(order) == 0 {
		return nil, nil
	}

	pathSQL, pathArgs := e.qb.BuildSelectEventPaths(order)
	pathRows, err := e.db.QueryContext(ctx, pathSQL, pathArgs...)
	if err != nil {
		return nil, mlerr.Wrap("get events: select paths", err)
	}
	defer func() { _ = pathRows.Close() }()

	for pathRows.Next() {
		var eventID int64
		var stepIndex int
		var isIndexStep int
		var indexStep sql.NullInt64
		var keyStep sql.NullString
		if err := pathRows.Scan(&eventID, &stepIndex, &isIndexStep, &indexStep, &keyStep); err != nil {
			return nil, mlerr.Wrap("get events: scan path", err)
		}
		ev, ok := byID[eventID]
		if !ok {
			continue
		}
		if isIndexStep != 0 {
			ev.Path = append(ev.Path, model.IndexStep(indexStep.Int64))
		} else {
			ev.Path = append(ev.Path, model.KeyStep(keyStep.String))
		}
	}
	if err := pathRows.Err(); err != nil {
		return nil, mlerr.Wrap("get events: iterate paths", err)
	}

	out := make([]model.Event, len(order))
	for i, id := range order {
		out[i] = *byID[id]
	}
	return out, nil
}

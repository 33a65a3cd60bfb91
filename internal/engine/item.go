package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/model"
	"github.com/mlmd-go/mlmd/internal/registry"
)

// DB is the minimal surface the engine needs from a connection pool:
// enough to open transactions and run read-only queries outside one.
// Satisfied by *sql.DB.
type DB interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ItemEngine runs the POST/PUT/GET pipelines for Artifact, Execution
// and Context, sharing one implementation across the three
// kinds via kindSpec.
type ItemEngine struct {
	db  DB
	qb  *dialect.QueryBuilder
	reg *registry.Registry
	now func() time.Time
}

// NewItemEngine returns an ItemEngine. now defaults to time.Now when
// nil; tests may override it to pin timestamps.
func NewItemEngine(db DB, qb *dialect.QueryBuilder, reg *registry.Registry, now func() time.Time) *ItemEngine {
	if now == nil {
		now = time.Now
	}
	return &ItemEngine{db: db, qb: qb, reg: reg, now: now}
}

// itemRecord is the kind-agnostic shape the shared pipeline operates
// on; Artifact/Execution/Context-specific wrappers translate to and
// from model types.
type itemRecord struct {
	ID                       int64
	TypeID                   int64
	Name                     *string
	URI                      *string
	StateValue               int
	CreateTimeSinceEpoch     int64
	LastUpdateTimeSinceEpoch int64
	Properties               map[string]model.PropertyValue
	CustomProperties         map[string]model.PropertyValue
}

// checkDeclaredProperties verifies that every (name, value) in
// properties must match the type's declared property type; custom
// properties are exempt.
func checkDeclaredProperties(t *model.Type, properties map[string]model.PropertyValue) error {
	for name, value := range properties {
		declared, ok := t.Properties[name]
		if !ok || declared != value.Tag() {
			return mlerr.ErrUndefinedProperty
		}
	}
	return nil
}

// PostItem runs the POST pipeline for one kind.
func (e *ItemEngine) PostItem(ctx context.Context, spec kindSpec, rec itemRecord) (int64, error) {
	t, err := e.reg.GetTypeByID(ctx, dbAsExecer{e.db}, rec.TypeID)
	if err != nil {
		return 0, err
	}
	if t.Kind != spec.kind {
		return 0, mlerr.ErrTypeNotFound
	}
	if err := checkDeclaredProperties(t, rec.Properties); err != nil {
		return 0, err
	}

	now := e.now().UnixMilli()
	rec.CreateTimeSinceEpoch = now
	rec.LastUpdateTimeSinceEpoch = now

	if spec.nameRequired && (rec.Name == nil || *rec.Name == "") {
		return 0, mlerr.Wrap("post "+spec.table, mlerr.ErrUndefinedProperty)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mlerr.Wrap("post "+spec.table+": begin tx", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	id, err := e.postItemTx(ctx, tx, spec, rec)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, mlerr.Wrap("post "+spec.table+": commit", err)
	}
	return id, nil
}

func (e *ItemEngine) postItemTx(ctx context.Context, tx *sql.Tx, spec kindSpec, rec itemRecord) (int64, error) {
	if rec.Name != nil {
		checkSQL, checkArgs := e.qb.BuildCheckItemName(spec.table, rec.TypeID, *rec.Name, nil)
		var count int
		if err := tx.QueryRowContext(ctx, checkSQL, checkArgs...).Scan(&count); err != nil {
			return 0, mlerr.Wrap("post "+spec.table+": check name", err)
		}
		if count > 0 {
			return 0, mlerr.ErrNameAlreadyExists
		}
	}

	insertSQL, insertArgs := e.qb.BuildInsertItem(spec.table, dialect.ItemColumns{
		TypeID:                   rec.TypeID,
		StateColumn:              spec.stateColumn,
		StateValue:               rec.StateValue,
		CreateTimeSinceEpoch:     rec.CreateTimeSinceEpoch,
		LastUpdateTimeSinceEpoch: rec.LastUpdateTimeSinceEpoch,
		Name:                     rec.Name,
		URI:                      rec.URI,
	})
	if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		return 0, mlerr.Wrap("post "+spec.table+": insert", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, e.qb.BuildLastItemID(spec.table)).Scan(&id); err != nil {
		return 0, mlerr.Wrap("post "+spec.table+": read back id", err)
	}

	if err := e.writeProperties(ctx, tx, spec, id, rec.Properties, rec.CustomProperties); err != nil {
		return 0, err
	}

	return id, nil
}

// PutItem runs the PUT pipeline for one kind.
// stateSupplied/nameSupplied/uriSupplied distinguish "field omitted"
// from "field supplied", per the variable-column UPDATE rule. A
// supplied name or uri that is nil is not written, so PUT never clears
// either column.
func (e *ItemEngine) PutItem(ctx context.Context, spec kindSpec, rec itemRecord, stateSupplied, nameSupplied, uriSupplied bool) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return mlerr.Wrap("put "+spec.table+": begin tx", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := e.putItemTx(ctx, tx, spec, rec, stateSupplied, nameSupplied, uriSupplied); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mlerr.Wrap("put "+spec.table+": commit", err)
	}
	return nil
}

func (e *ItemEngine) putItemTx(ctx context.Context, tx *sql.Tx, spec kindSpec, rec itemRecord, stateSupplied, nameSupplied, uriSupplied bool) error {
	selectSQL, selectArgs := e.qb.BuildSelectItemByID(spec.table, spec.stateColumn, rec.ID)
	row := tx.QueryRowContext(ctx, selectSQL, selectArgs...)

	var existingID, typeID int64
	var existingName sql.NullString
	scanDest := []any{&existingID, &typeID, &existingName}
	var existingState sql.NullInt64
	if spec.stateColumn != "" {
		scanDest = append(scanDest, &existingState)
	}
	if err := row.Scan(scanDest...); err != nil {
		if err == sql.ErrNoRows {
			return mlerr.NotFound(spec.table, rec.ID)
		}
		return mlerr.Wrap("put "+spec.table+": select existing", err)
	}

	t, err := e.reg.GetTypeByID(ctx, tx, typeID)
	if err != nil {
		return err
	}
	if err := checkDeclaredProperties(t, rec.Properties); err != nil {
		return err
	}

	if nameSupplied && rec.Name != nil {
		excludeID := rec.ID
		checkSQL, checkArgs := e.qb.BuildCheckItemName(spec.table, typeID, *rec.Name, &excludeID)
		var count int
		if err := tx.QueryRowContext(ctx, checkSQL, checkArgs...).Scan(&count); err != nil {
			return mlerr.Wrap("put "+spec.table+": check name", err)
		}
		if count > 0 {
			return mlerr.ErrNameAlreadyExists
		}
	}

	rec.LastUpdateTimeSinceEpoch = e.now().UnixMilli()
	updateSQL, updateArgs := e.qb.BuildUpdateItem(spec.table, rec.ID, dialect.ItemColumns{
		StateColumn:              spec.stateColumn,
		StateValue:               rec.StateValue,
		LastUpdateTimeSinceEpoch: rec.LastUpdateTimeSinceEpoch,
		Name:                     rec.Name,
		URI:                      rec.URI,
	}, stateSupplied, nameSupplied, uriSupplied)
	if _, err := tx.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
		return mlerr.Wrap("put "+spec.table+": update", err)
	}

	return e.writeProperties(ctx, tx, spec, rec.ID, rec.Properties, rec.CustomProperties)
}

// writeProperties executes the per-property UPSERT for both typed and
// custom properties.
func (e *ItemEngine) writeProperties(ctx context.Context, tx *sql.Tx, spec kindSpec, itemID int64, properties, customProperties map[string]model.PropertyValue) error {
	for name, value := range properties {
		sqlText, args := e.qb.BuildUpsertProperty(spec.propertyTable, spec.idColumn, itemID, name, false, value)
		if _, err := tx.ExecContext(ctx, sqlText, args...); err != nil {
			return mlerr.Wrapf(err, "post/put %s: upsert property %q", spec.table, name)
		}
	}
	for name, value := range customProperties {
		sqlText, args := e.qb.BuildUpsertProperty(spec.propertyTable, spec.idColumn, itemID, name, true, value)
		if _, err := tx.ExecContext(ctx, sqlText, args...); err != nil {
			return mlerr.Wrapf(err, "post/put %s: upsert custom property %q", spec.table, name)
		}
	}
	return nil
}

// GetItems runs the GET pipeline for one kind.
func (e *ItemEngine) GetItems(ctx context.Context, spec kindSpec, filter dialect.ItemFilter) ([]itemRecord, error) {
	selectSQL, selectArgs := e.qb.BuildSelectItems(spec.itemTable(), filter)
	rows, err := e.db.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, mlerr.Wrap("get "+spec.table+": select", err)
	}

	var order []int64
	byID := make(map[int64]*itemRecord)
	for rows.Next() {
		rec := &itemRecord{Properties: map[string]model.PropertyValue{}, CustomProperties: map[string]model.PropertyValue{}}
		var name sql.NullString
		var state sql.NullInt64
		scanDest := []any{&rec.ID, &rec.TypeID, &name}
		if spec.stateColumn != "" {
			scanDest = append(scanDest, &state)
		}
		scanDest = append(scanDest, &rec.CreateTimeSinceEpoch, &rec.LastUpdateTimeSinceEpoch)
		var uri sql.NullString
		if spec.hasURI {
			scanDest = append(scanDest, &uri)
		}
		if err := rows.Scan(scanDest...); err != nil {
			_ = rows.Close()
			return nil, mlerr.Wrap("get "+spec.table+": scan", err)
		}
		if name.Valid {
			n := name.String
			rec.Name = &n
		}
		if state.Valid {
			rec.StateValue = int(state.Int64)
			if rec.StateValue < 0 || rec.StateValue > spec.maxState {
				_ = rows.Close()
				return nil, mlerr.ErrConvert
			}
		}
		if uri.Valid {
			u := uri.String
			rec.URI = &u
		}
		byID[rec.ID] = rec
		order = append(order, rec.ID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, mlerr.Wrap("get "+spec.table+": iterate", err)
	}
	_ = rows.Close()

	if len(order) == 0 {
		return nil, nil
	}

	if err := e.attachProperties(ctx, spec, byID); err != nil {
		return nil, err
	}

	out := make([]itemRecord, len(order))
	for i, id := range order {
		out[i] = *byID[id]
	}
	return out, nil
}

func (e *ItemEngine) attachProperties(ctx context.Context, spec kindSpec, byID map[int64]*itemRecord) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	propSQL, propArgs := e.qb.BuildSelectItemProperties(spec.propertyTable, spec.idColumn, ids)
	rows, err := e.db.QueryContext(ctx, propSQL, propArgs...)
	if err != nil {
		return mlerr.Wrap("get "+spec.table+": select properties", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var itemID int64
		var name string
		var isCustom int
		var intVal sql.NullInt64
		var doubleVal sql.NullFloat64
		var stringVal sql.NullString
		if err := rows.Scan(&itemID, &name, &isCustom, &intVal, &doubleVal, &stringVal); err != nil {
			return mlerr.Wrap("get "+spec.table+": scan property", err)
		}

		value, err := decodePropertyValue(intVal, doubleVal, stringVal)
		if err != nil {
			return err
		}

		rec, ok := byID[itemID]
		if !ok {
			continue
		}
		if isCustom != 0 {
			rec.CustomProperties[name] = value
		} else {
			rec.Properties[name] = value
		}
	}
	return mlerr.Wrap("get "+spec.table+": iterate properties", rows.Err())
}

// decodePropertyValue requires exactly one of the three value columns
// to be non-null, otherwise the row is corrupt.
func decodePropertyValue(i sql.NullInt64, d sql.NullFloat64, s sql.NullString) (model.PropertyValue, error) {
	set := 0
	if i.Valid {
		set++
	}
	if d.Valid {
		set++
	}
	if s.Valid {
		set++
	}
	if set != 1 {
		return model.PropertyValue{}, mlerr.ErrConvert
	}
	switch {
	case i.Valid:
		return model.IntValue(int32(i.Int64)), nil
	case d.Valid:
		return model.DoubleValue(d.Float64), nil
	default:
		return model.StringValue(s.String), nil
	}
}

// dbAsExecer adapts a DB to registry.Execer for read-only lookups
// outside a transaction.
type dbAsExecer struct{ db DB }

func (d dbAsExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	panic("dbAsExecer: write operations must run inside a transaction")
}
func (d dbAsExecer) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}
func (d dbAsExecer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

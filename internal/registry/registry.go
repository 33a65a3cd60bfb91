// Package registry is the Type Registry: it reconciles
// declared property schemas against whatever Type already exists for
// a (kind, name), and resolves Types by id or by filter for the Item
// Engine and Request Facade.
package registry

import (
	"context"
	"database/sql"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/model"
)

// Execer is the minimal surface Registry needs from either *sql.DB or
// *sql.Tx, so PutType's single transaction can drive the
// same code a read-only GetTypes call uses against the pooled *sql.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Registry resolves and reconciles Types against one QueryBuilder.
type Registry struct {
	qb *dialect.QueryBuilder
}

// New returns a Registry bound to qb.
func New(qb *dialect.QueryBuilder) *Registry { return &Registry{qb: qb} }

// PutTypeOptions controls reconciliation against an existing Type
//.
type PutTypeOptions struct {
	CanAddFields  bool
	CanOmitFields bool
}

// PutType inserts a new Type or reconciles the declared properties
// against an existing one. Callers must run this inside a transaction
// so the whole reconciliation commits atomically.
func (r *Registry) PutType(ctx context.Context, tx Execer, kind model.Kind, name string, properties map[string]model.PropertyType, opts PutTypeOptions) (int64, error) {
	selectSQL, selectArgs := r.qb.BuildSelectType(int(kind), name)
	var typeID int64
	err := tx.QueryRowContext(ctx, selectSQL, selectArgs...).Scan(&typeID)

	switch {
	case err == sql.ErrNoRows:
		return r.insertNewType(ctx, tx, kind, name, properties)
	case err != nil:
		return 0, mlerr.Wrap("registry: select type", err)
	default:
		if err := r.reconcile(ctx, tx, typeID, properties, opts); err != nil {
			return 0, err
		}
		return typeID, nil
	}
}

func (r *Registry) insertNewType(ctx context.Context, tx Execer, kind model.Kind, name string, properties map[string]model.PropertyType) (int64, error) {
	insertSQL, insertArgs := r.qb.BuildInsertType(int(kind), name)
	if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		return 0, mlerr.Wrap("registry: insert type", err)
	}

	var typeID int64
	if err := tx.QueryRowContext(ctx, r.qb.BuildLastTypeID()).Scan(&typeID); err != nil {
		return 0, mlerr.Wrap("registry: read back type id", err)
	}

	for propName, propType := range properties {
		propSQL, propArgs := r.qb.BuildInsertTypeProperty(typeID, propName, int(propType))
		if _, err := tx.ExecContext(ctx, propSQL, propArgs...); err != nil {
			return 0, mlerr.Wrap("registry: insert type property", err)
		}
	}

	return typeID, nil
}

// reconcile runs the per-property comparison against an
// existing Type, then applies any leftover additions.
func (r *Registry) reconcile(ctx context.Context, tx Execer, typeID int64, declared map[string]model.PropertyType, opts PutTypeOptions) error {
	selectSQL, selectArgs := r.qb.BuildSelectTypeProperties(typeID)
	rows, err := tx.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return mlerr.Wrap("registry: select type properties", err)
	}

	stored := make(map[string]model.PropertyType)
	for rows.Next() {
		var name string
		var dataType int
		if err := rows.Scan(&name, &dataType); err != nil {
			_ = rows.Close()
			return mlerr.Wrap("registry: scan type property", err)
		}
		stored[name] = model.PropertyType(dataType)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return mlerr.Wrap("registry: iterate type properties", err)
	}
	_ = rows.Close()

	for name, storedType := range stored {
		declaredType, present := declared[name]
		switch {
		case present && declaredType == storedType:
			continue
		case present:
			// Declared but with a different data type: always a conflict.
			return mlerr.ErrTypeAlreadyExists
		case !present && !opts.CanOmitFields:
			return mlerr.ErrTypeAlreadyExists
		default:
			// Omitted with CanOmitFields: fine, leave it stored.
		}
	}

	var additions []string
	for name := range declared {
		if _, present := stored[name]; !present {
			additions = append(additions, name)
		}
	}
	if len(additions) > 0 && !opts.CanAddFields {
		return mlerr.ErrTypeAlreadyExists
	}

	for _, name := range additions {
		propSQL, propArgs := r.qb.BuildInsertTypeProperty(typeID, name, int(declared[name]))
		if _, err := tx.ExecContext(ctx, propSQL, propArgs...); err != nil {
			return mlerr.Wrap("registry: insert added type property", err)
		}
	}

	return nil
}

// TypeFilter narrows get_types.
type TypeFilter struct {
	Name string
	IDs  []int64
}

// GetTypes runs a two-pass read: Type rows into an
// ordered map keyed by id, then every TypeProperty row attached to its
// type if present.
func (r *Registry) GetTypes(ctx context.Context, db Execer, kind model.Kind, filter TypeFilter) ([]model.Type, error) {
	selectSQL, selectArgs := r.qb.BuildSelectTypesByKind(int(kind), filter.Name, filter.IDs)
	rows, err := db.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, mlerr.Wrap("registry: select types", err)
	}

	var order []int64
	byID := make(map[int64]*model.Type)
	for rows.Next() {
		var id int64
		var kindVal int
		var name string
		if err := rows.Scan(&id, &kindVal, &name); err != nil {
			_ = rows.Close()
			return nil, mlerr.Wrap("registry: scan type", err)
		}
		t := &model.Type{ID: id, Kind: model.Kind(kindVal), Name: name, Properties: map[string]model.PropertyType{}}
		byID[id] = t
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, mlerr.Wrap("registry: iterate types", err)
	}
	_ = rows.Close()

	if len(order) == 0 {
		return nil, nil
	}

	propSQL, propArgs := r.qb.BuildSelectAllTypeProperties()
	propRows, err := db.QueryContext(ctx, propSQL, propArgs...)
	if err != nil {
		return nil, mlerr.Wrap("registry: select all type properties", err)
	}
	defer func() { _ = propRows.Close() }()

	for propRows.Next() {
		var typeID int64
		var name string
		var dataType int
		if err := propRows.Scan(&typeID, &name, &dataType); err != nil {
			return nil, mlerr.Wrap("registry: scan all type properties", err)
		}
		if t, ok := byID[typeID]; ok {
			t.Properties[name] = model.PropertyType(dataType)
		}
	}
	if err := propRows.Err(); err != nil {
		return nil, mlerr.Wrap("registry: iterate all type properties", err)
	}

	out := make([]model.Type, len(order))
	for i, id := range order {
		out[i] = *byID[id]
	}
	return out, nil
}

// GetTypeByID resolves a single Type by id (used by the Item Engine's
// POST/PUT property-type-checking step).
func (r *Registry) GetTypeByID(ctx context.Context, db Execer, id int64) (*model.Type, error) {
	row := db.QueryRowContext(ctx, "SELECT id, type_kind, name FROM Type WHERE id = ?", id)
	var t model.Type
	var kindVal int
	if err := row.Scan(&t.ID, &kindVal, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, mlerr.ErrTypeNotFound
		}
		return nil, mlerr.Wrap("registry: select type by id", err)
	}
	t.Kind = model.Kind(kindVal)

	propSQL, propArgs := r.qb.BuildSelectTypeProperties(id)
	rows, err := db.QueryContext(ctx, propSQL, propArgs...)
	if err != nil {
		return nil, mlerr.Wrap("registry: select properties for type", err)
	}
	defer func() { _ = rows.Close() }()

	t.Properties = map[string]model.PropertyType{}
	for rows.Next() {
		var name string
		var dataType int
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, mlerr.Wrap("registry: scan property for type", err)
		}
		t.Properties[name] = model.PropertyType(dataType)
	}
	if err := rows.Err(); err != nil {
		return nil, mlerr.Wrap("registry: iterate properties for type", err)
	}

	return &t, nil
}

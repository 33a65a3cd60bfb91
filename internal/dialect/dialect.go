// Package dialect is the query builder: it knows every
// SQL-level difference between the two supported back-ends and
// exposes one QueryBuilder that the rest of the store calls to get a
// (sql, binds) pair for a logical operation. Column/placeholder lists
// are always built in the same pass that builds the bind-value list,
// so a changed column list can never drift out of sync with its
// placeholder list.
package dialect

import (
	"fmt"

	"github.com/mlmd-go/mlmd/internal/model"
)

// PropertyValue is re-exported so callers building queries don't need
// to import both packages for one type.
type PropertyValue = model.PropertyValue

// PropertyTypeInt etc. re-export model's property type tags for the
// same reason.
const (
	PropertyTypeInt    = model.PropertyTypeInt
	PropertyTypeDouble = model.PropertyTypeDouble
	PropertyTypeString = model.PropertyTypeString
)

// Dialect is a tagged sum of the two supported back-ends, dispatched
// statically. Only
// the statements that actually diverge between back-ends get a method
// here; everything else is plain SQL shared by QueryBuilder.
type Dialect interface {
	// Name returns the dialect's short name ("sqlite" or "mysql"), the
	// same string as its URI scheme.
	Name() string

	// AutoIncrementPrimaryKey is the column definition fragment for an
	// auto-assigned integer primary key, e.g. "INTEGER PRIMARY KEY
	// AUTOINCREMENT" (SQLite) or "BIGINT PRIMARY KEY AUTO_INCREMENT"
	// (MySQL).
	AutoIncrementPrimaryKey() string

	// TimestampType is the column type used for millisecond epoch
	// timestamps: "INT" (SQLite, which stores integers untyped
	// anyway) vs "BIGINT" (MySQL).
	TimestampType() string

	// CreateIndexStatements returns the one or more DDL statements
	// needed to create an index, idempotently. SQLite uses a single
	// CREATE INDEX IF NOT EXISTS; MySQL has no such clause for
	// indexes, so the bootstrapper must tolerate a "duplicate key
	// name" error on replay.
	CreateIndexStatements(table, index string, cols []string) []string

	// UpsertSuffix returns the dialect-specific tail of an INSERT used
	// to upsert on a unique key: "ON CONFLICT (...) DO UPDATE SET ..."
	// for SQLite, "ON DUPLICATE KEY UPDATE ..." for MySQL.
	UpsertSuffix(conflictCols []string, setClauses []string) string

	// InsertIgnoreKeyword returns "INSERT OR IGNORE" (SQLite) or
	// "INSERT IGNORE" (MySQL) — the verb substituted in front of an
	// otherwise-identical INSERT statement.
	InsertIgnoreKeyword() string
}

// QueryBuilder emits (sql, binds) pairs for every operation the Item
// and Relation engines need, given one Dialect. All SQL text and bind
// lists for a statement are produced together, in the same function,
// so that a changed column list can never drift out of sync with its
// placeholder list.
type QueryBuilder struct {
	D Dialect
}

// New returns a QueryBuilder bound to d.
func New(d Dialect) *QueryBuilder { return &QueryBuilder{D: d} }

// --- Variable-column item INSERT/UPDATE -----------------

// ItemColumns carries the column values for item INSERT/UPDATE
// statements. INSERT binds them in the canonical order type_id,
// state/last_known_state, create_time, last_update_time, [name], [uri];
// UPDATE uses its own order (see BuildUpdateItem).
type ItemColumns struct {
	TypeID                   int64
	StateColumn              string // "state" or "last_known_state"
	StateValue               int
	CreateTimeSinceEpoch     int64
	LastUpdateTimeSinceEpoch int64
	Name                     *string
	URI                      *string // only set for Artifact
}

// BuildInsertItem builds the INSERT for an Artifact/Execution/Context
// row. Only columns with a present optional field are written; the
// placeholder list is assembled in the same loop as the column list.
func (qb *QueryBuilder) BuildInsertItem(table string, c ItemColumns) (string, []any) {
	cols := []string{"type_id"}
	args := []any{c.TypeID}
	if c.StateColumn != "" {
		cols = append(cols, c.StateColumn)
		args = append(args, c.StateValue)
	}
	cols = append(cols, "create_time_since_epoch", "last_update_time_since_epoch")
	args = append(args, c.CreateTimeSinceEpoch, c.LastUpdateTimeSinceEpoch)

	if c.Name != nil {
		cols = append(cols, "name")
		args = append(args, *c.Name)
	}
	if c.URI != nil {
		cols = append(cols, "uri")
		args = append(args, *c.URI)
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlText := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, joinCols(cols), joinCols(placeholders))
	return sqlText, args
}

// BuildUpdateItem builds the UPDATE for a PUT. last_update_time is
// always set; name/uri/state are set only when supplied. Bind order
// follows SET-clause append order, then id last for WHERE id=?.
func (qb *QueryBuilder) BuildUpdateItem(table string, id int64, c ItemColumns, setState, setName, setURI bool) (string, []any) {
	sets := []string{"last_update_time_since_epoch = ?"}
	args := []any{c.LastUpdateTimeSinceEpoch}

	if setState {
		sets = append(sets, c.StateColumn+" = ?")
		args = append(args, c.StateValue)
	}
	if setName && c.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *c.Name)
	}
	if setURI && c.URI != nil {
		sets = append(sets, "uri = ?")
		args = append(args, *c.URI)
	}

	args = append(args, id)
	sqlText := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, joinCols(sets))
	return sqlText, args
}

// BuildCheckItemName builds the name-uniqueness check used by POST
// (4-arg form) and PUT (3-arg form, excludes the row being updated).
func (qb *QueryBuilder) BuildCheckItemName(table string, typeID int64, name string, excludeID *int64) (string, []any) {
	if excludeID == nil {
		return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE type_id = ? AND name = ?", table),
			[]any{typeID, name}
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE type_id = ? AND name = ? AND id != ?", table),
		[]any{typeID, name, *excludeID}
}

// BuildLastItemID builds the portable "readback the id I just
// inserted" query. Safe because each POST is
// serialized inside its own transaction.
func (qb *QueryBuilder) BuildLastItemID(table string) string {
	return fmt.Sprintf("SELECT id FROM %s ORDER BY id DESC LIMIT 1", table)
}

// BuildSelectItemByID builds the row fetch used at the start of PUT to
// recover the existing type_id. stateColumn is empty for Context,
// which carries no state/last_known_state column.
func (qb *QueryBuilder) BuildSelectItemByID(table string, stateColumn string, id int64) (string, []any) {
	cols := "id, type_id, name"
	if stateColumn != "" {
		cols += ", " + stateColumn
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", cols, table), []any{id}
}

// --- Property UPSERT -------------------------------------

// PropertyUpsertColumns is the fixed column set of every *Property
// table.
var PropertyUpsertColumns = []string{"int_value", "double_value", "string_value"}

// BuildUpsertProperty builds the per-property UPSERT. Bind order is
// (item_id, name, is_custom, v*, v*) — the value triple appears twice
// (VALUES and UPDATE SET); unused value columns are written as the SQL
// literal NULL, never as a bound parameter.
func (qb *QueryBuilder) BuildUpsertProperty(table, idColumn string, itemID int64, name string, isCustom bool, value PropertyValue) (string, []any) {
	valCols, valLiterals, arg := propertyValueColumns(value)

	insertCols := []string{idColumn, "name", "is_custom_property"}
	insertCols = append(insertCols, valCols...)
	placeholders := []string{"?", "?", "?"}
	placeholders = append(placeholders, valLiterals...)

	args := []any{itemID, name, boolToInt(isCustom)}
	if arg != nil {
		args = append(args, arg)
	}

	setClauses := make([]string, 0, len(valCols))
	for i, col := range valCols {
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", col, valLiterals[i]))
	}
	if arg != nil {
		// The one non-NULL column's SET clause needs its own bound
		// placeholder too (the value triple appears twice).
		args = append(args, arg)
	}

	sqlText := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) %s",
		table, joinCols(insertCols), joinCols(placeholders),
		qb.D.UpsertSuffix([]string{idColumn, "name", "is_custom_property"}, setClauses),
	)
	return sqlText, args
}

// propertyValueColumns returns the three value-column names in table
// order, the literal (either "?" or "NULL") to place for each, and the
// single bound argument (nil if value is untagged).
func propertyValueColumns(value PropertyValue) (cols []string, literals []string, arg any) {
	cols = []string{"int_value", "double_value", "string_value"}
	literals = make([]string, 3)
	for i := range literals {
		literals[i] = "NULL"
	}
	switch value.Tag() {
	case PropertyTypeInt:
		v, _ := value.Int()
		literals[0] = "?"
		arg = v
	case PropertyTypeDouble:
		v, _ := value.Double()
		literals[1] = "?"
		arg = v
	case PropertyTypeString:
		v, _ := value.String()
		literals[2] = "?"
		arg = v
	}
	return cols, literals, arg
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinCols(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

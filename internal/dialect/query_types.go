package dialect

import "fmt"

// BuildSelectType builds the (kind, name) lookup PutType uses to
// decide whether it's creating or reconciling.
func (qb *QueryBuilder) BuildSelectType(kind int, name string) (string, []any) {
	return "SELECT id FROM Type WHERE type_kind = ? AND name = ?", []any{kind, name}
}

// BuildInsertType builds the Type row insert.
func (qb *QueryBuilder) BuildInsertType(kind int, name string) (string, []any) {
	return "INSERT INTO Type (type_kind, name) VALUES (?, ?)", []any{kind, name}
}

// BuildLastTypeID is the portable readback idiom for the Type just
// inserted.
func (qb *QueryBuilder) BuildLastTypeID() string {
	return "SELECT id FROM Type ORDER BY id DESC LIMIT 1"
}

// BuildSelectTypeProperties builds the TypeProperty lookup for one
// type, used while reconciling an existing Type in PutType.
func (qb *QueryBuilder) BuildSelectTypeProperties(typeID int64) (string, []any) {
	return "SELECT name, data_type FROM TypeProperty WHERE type_id = ?", []any{typeID}
}

// BuildInsertTypeProperty builds one TypeProperty row insert.
func (qb *QueryBuilder) BuildInsertTypeProperty(typeID int64, name string, dataType int) (string, []any) {
	return "INSERT INTO TypeProperty (type_id, name, data_type) VALUES (?, ?, ?)", []any{typeID, name, dataType}
}

// BuildSelectTypesByKind builds get_types's first pass:
// all Type rows for a kind, optionally narrowed by name or id list.
func (qb *QueryBuilder) BuildSelectTypesByKind(kind int, name string, ids []int64) (string, []any) {
	where := []string{"type_kind = ?"}
	args := []any{kind}

	if name != "" {
		where = append(where, "name = ?")
		args = append(args, name)
	}
	if len(ids) > 0 {
		placeholders := make([]string, len(ids))
		for i, id := range ids {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where = append(where, fmt.Sprintf("id IN (%s)", joinCols(placeholders)))
	}

	return "SELECT id, type_kind, name FROM Type WHERE " + joinAnd(where) + " ORDER BY id", args
}

// BuildSelectAllTypeProperties builds get_types's second pass: every
// TypeProperty row, unfiltered ("second pass reads all
// rows").
func (qb *QueryBuilder) BuildSelectAllTypeProperties() (string, []any) {
	return "SELECT type_id, name, data_type FROM TypeProperty", nil
}

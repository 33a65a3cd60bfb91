package dialect

import "fmt"

// ItemFilter is the option bag get_{artifacts,executions,contexts}
// accept: optional type name, name, id list, uri, and the
// context id used to join through Attribution or Association.
type ItemFilter struct {
	TypeName  string
	Name      string
	IDs       []int64
	URI       string // artifacts only
	ContextID *int64 // joins Attribution (artifacts) or Association (executions); contexts have no relation table to join
}

// ItemTable names the table and its relation join target for one item
// kind. Built once per kind by the engine and passed to the builder so
// dialect stays ignorant of the domain's kind enum.
type ItemTable struct {
	Name           string // "Artifact", "Execution", "Context"
	StateColumn    string // "state" or "last_known_state"
	RelationTable  string // "Attribution" or "Association"
	RelationColumn string // "artifact_id" or "execution_id" on RelationTable
}

// BuildSelectItems builds the first-pass item query:
// the main table, optionally joined to Type (for TypeName) and to
// Attribution/Association (for ContextID), with AND-composed filters.
// Results are ordered by id so callers can build an ordered map.
func (qb *QueryBuilder) BuildSelectItems(t ItemTable, filter ItemFilter) (string, []any) {
	cols := "i.id, i.type_id, i.name"
	if t.StateColumn != "" {
		cols += ", i." + t.StateColumn
	}
	cols += ", i.create_time_since_epoch, i.last_update_time_since_epoch"
	if t.Name == "Artifact" {
		cols += ", i.uri"
	}

	from := fmt.Sprintf("%s i", t.Name)
	var where []string
	var args []any

	if filter.TypeName != "" {
		from += " JOIN Type ty ON ty.id = i.type_id"
		where = append(where, "ty.name = ?")
		args = append(args, filter.TypeName)
	}
	if filter.ContextID != nil {
		from += fmt.Sprintf(" JOIN %s r ON r.%s = i.id", t.RelationTable, t.RelationColumn)
		where = append(where, "r.context_id = ?")
		args = append(args, *filter.ContextID)
	}
	if filter.Name != "" {
		where = append(where, "i.name = ?")
		args = append(args, filter.Name)
	}
	if filter.URI != "" && t.Name == "Artifact" {
		where = append(where, "i.uri = ?")
		args = append(args, filter.URI)
	}
	if len(filter.IDs) > 0 {
		placeholders := make([]string, len(filter.IDs))
		for i, id := range filter.IDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where = append(where, fmt.Sprintf("i.id IN (%s)", joinCols(placeholders)))
	}

	sqlText := fmt.Sprintf("SELECT %s FROM %s", cols, from)
	if len(where) > 0 {
		sqlText += " WHERE " + joinAnd(where)
	}
	sqlText += " ORDER BY i.id"
	return sqlText, args
}

// BuildSelectItemProperties builds the second-pass query
// step 3): every property row for the ids collected in step 1.
func (qb *QueryBuilder) BuildSelectItemProperties(propertyTable, idColumn string, ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	sqlText := fmt.Sprintf(
		"SELECT %s, name, is_custom_property, int_value, double_value, string_value FROM %s WHERE %s IN (%s)",
		idColumn, propertyTable, idColumn, joinCols(placeholders),
	)
	return sqlText, args
}

func joinAnd(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += " AND "
		}
		out += "(" + c + ")"
	}
	return out
}

package dialect

import (
	"fmt"

	"github.com/mlmd-go/mlmd/internal/model"
)

// EventStep re-exports model.EventStep so callers building queries
// don't need to import both packages.
type EventStep = model.EventStep

const (
	EventStepIndex = model.EventStepIndex
	EventStepKey   = model.EventStepKey
)

// BuildExistsCheck builds the "does this row exist" count query used
// before inserting an Attribution/Association/Event.
func (qb *QueryBuilder) BuildExistsCheck(table string, id int64) (string, []any) {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table), []any{id}
}

// BuildInsertIgnoreRelation builds the idempotent insert for
// Attribution/Association ("duplicates on relations are
// silently ignored").
func (qb *QueryBuilder) BuildInsertIgnoreRelation(table, col1, col2 string, v1, v2 int64) (string, []any) {
	sqlText := fmt.Sprintf("%s INTO %s (%s, %s) VALUES (?, ?)", qb.D.InsertIgnoreKeyword(), table, col1, col2)
	return sqlText, []any{v1, v2}
}

// BuildInsertEvent builds the Event row insert.
func (qb *QueryBuilder) BuildInsertEvent(artifactID, executionID int64, eventType int, millis int64) (string, []any) {
	return "INSERT INTO Event (artifact_id, execution_id, type, milliseconds_since_epoch) VALUES (?, ?, ?, ?)",
		[]any{artifactID, executionID, eventType, millis}
}

// BuildLastEventID is the readback query for the event just inserted,
// same portable idiom as BuildLastItemID.
func (qb *QueryBuilder) BuildLastEventID() string {
	return "SELECT id FROM Event ORDER BY id DESC LIMIT 1"
}

// BuildInsertEventPathStep builds one EventPath row. Exactly one of
// step_index/step_key is non-null, never both; step_index
// (ordinal position in the path) makes read-back order explicit rather
// than relying on unordered row storage.
func (qb *QueryBuilder) BuildInsertEventPathStep(eventID int64, position int, step EventStep) (string, []any) {
	switch step.Kind {
	case EventStepIndex:
		return "INSERT INTO EventPath (event_id, step_index, is_index_step, index_step, key_step) VALUES (?, ?, 1, ?, NULL)",
			[]any{eventID, position, step.Index}
	default:
		return "INSERT INTO EventPath (event_id, step_index, is_index_step, index_step, key_step) VALUES (?, ?, 0, NULL, ?)",
			[]any{eventID, position, step.Key}
	}
}

// EventFilter is the option bag get_events accepts: ORs
// Artifact.id IN (...) with Execution.id IN (...) when both are
// non-empty.
type EventFilter struct {
	ArtifactIDs  []int64
	ExecutionIDs []int64
}

// BuildSelectEvents builds the first-pass Event query.
func (qb *QueryBuilder) BuildSelectEvents(filter EventFilter) (string, []any) {
	var ors []string
	var args []any

	if len(filter.ArtifactIDs) > 0 {
		placeholders := make([]string, len(filter.ArtifactIDs))
		for i, id := range filter.ArtifactIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		ors = append(ors, fmt.Sprintf("artifact_id IN (%s)", joinCols(placeholders)))
	}
	if len(filter.ExecutionIDs) > 0 {
		placeholders := make([]string, len(filter.ExecutionIDs))
		for i, id := range filter.ExecutionIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		ors = append(ors, fmt.Sprintf("execution_id IN (%s)", joinCols(placeholders)))
	}

	sqlText := "SELECT id, artifact_id, execution_id, type, milliseconds_since_epoch FROM Event"
	if len(ors) > 0 {
		sqlText += " WHERE " + joinOr(ors)
	}
	sqlText += " ORDER BY id"
	return sqlText, args
}

// BuildSelectEventPaths builds the second-pass EventPath query, read
// back in step_index order.
func (qb *QueryBuilder) BuildSelectEventPaths(eventIDs []int64) (string, []any) {
	placeholders := make([]string, len(eventIDs))
	args := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	sqlText := fmt.Sprintf(
		"SELECT event_id, step_index, is_index_step, index_step, key_step FROM EventPath WHERE event_id IN (%s) ORDER BY event_id, step_index",
		joinCols(placeholders),
	)
	return sqlText, args
}

func joinOr(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += " OR "
		}
		out += "(" + c + ")"
	}
	return out
}

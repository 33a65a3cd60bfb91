// Package engine is the Item Engine and Relation Engine: the
// transactional POST/PUT/GET pipelines for Artifact/Execution/Context,
// and the insert-only Attribution/Association/Event pipelines. The
// three item kinds share one pipeline parameterized by a small
// capability interface rather than three copy-pasted implementations.
package engine

import (
	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/model"
)

// kindSpec is the capability set the shared item pipeline needs,
// reduced to the static facts the query builder needs about one item
// kind: which table, which state column, whether URI applies, and how
// it joins to its relation table for context-id filtering.
type kindSpec struct {
	kind          model.Kind
	table         string
	propertyTable string
	idColumn      string // column name on the property table, e.g. "artifact_id"
	stateColumn   string // "state" or "last_known_state"
	maxState      int    // highest valid ordinal for stateColumn; ignored when stateColumn == ""
	hasURI        bool
	nameRequired  bool // Context requires a non-null name
	relationTable string
	relationCol   string
}

var (
	artifactSpec = kindSpec{
		kind:          model.KindArtifact,
		table:         "Artifact",
		propertyTable: "ArtifactProperty",
		idColumn:      "artifact_id",
		stateColumn:   "state",
		maxState:      int(model.ArtifactStateDeleted),
		hasURI:        true,
		relationTable: "Attribution",
		relationCol:   "artifact_id",
	}
	executionSpec = kindSpec{
		kind:          model.KindExecution,
		table:         "Execution",
		propertyTable: "ExecutionProperty",
		idColumn:      "execution_id",
		stateColumn:   "last_known_state",
		maxState:      int(model.ExecutionStateCanceled),
		hasURI:        false,
		relationTable: "Association",
		relationCol:   "execution_id",
	}
	contextSpec = kindSpec{
		kind:          model.KindContext,
		table:         "Context",
		propertyTable: "ContextProperty",
		idColumn:      "context_id",
		stateColumn:   "", // Context has no state/last_known_state column
		hasURI:        false,
		nameRequired:  true,
	}
)

func (s kindSpec) itemTable() dialect.ItemTable {
	return dialect.ItemTable{
		Name:           s.table,
		StateColumn:    s.stateColumn,
		RelationTable:  s.relationTable,
		RelationColumn: s.relationCol,
	}
}

package schema

import (
	"fmt"

	"github.com/mlmd-go/mlmd/internal/dialect"
)

// tableStatements returns the ordered CREATE TABLE list for the
// fifteen tables of the version-6 layout. ParentType and
// ParentContext exist for on-disk compatibility with other ml-metadata
// clients even though this store's operations never populate or read
// them: this store never populates or traverses type/context parent
// hierarchies.
func tableStatements(d dialect.Dialect) []string {
	pk := d.AutoIncrementPrimaryKey()
	ts := d.TimestampType()

	itemTable := func(name, stateColumn string, withURI bool) string {
		uriCol := ""
		if withURI {
			uriCol = "uri TEXT,\n\t\t"
		}
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id %s,
		type_id BIGINT NOT NULL,
		name VARCHAR(255),
		%s%s INT NOT NULL DEFAULT 0,
		create_time_since_epoch %s NOT NULL,
		last_update_time_since_epoch %s NOT NULL,
		UNIQUE (type_id, name)
	)`, name, pk, uriCol, stateColumn, ts, ts)
	}

	propertyTable := func(name, idColumn string) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		is_custom_property INT NOT NULL DEFAULT 0,
		int_value INT,
		double_value DOUBLE,
		string_value TEXT,
		PRIMARY KEY (%s, name, is_custom_property)
	)`, name, idColumn, idColumn)
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Type (
		id %s,
		type_kind INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		UNIQUE (type_kind, name)
	)`, pk),

		`CREATE TABLE IF NOT EXISTS ParentType (
		type_id BIGINT NOT NULL,
		parent_type_id BIGINT NOT NULL,
		PRIMARY KEY (type_id, parent_type_id)
	)`,

		`CREATE TABLE IF NOT EXISTS TypeProperty (
		type_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		data_type INT NOT NULL,
		PRIMARY KEY (type_id, name)
	)`,

		itemTable("Artifact", "state", true),
		propertyTable("ArtifactProperty", "artifact_id"),

		itemTable("Execution", "last_known_state", false),
		propertyTable("ExecutionProperty", "execution_id"),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Context (
		id %s,
		type_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		create_time_since_epoch %s NOT NULL,
		last_update_time_since_epoch %s NOT NULL,
		UNIQUE (type_id, name)
	)`, pk, ts, ts),
		propertyTable("ContextProperty", "context_id"),

		`CREATE TABLE IF NOT EXISTS ParentContext (
		context_id BIGINT NOT NULL,
		parent_context_id BIGINT NOT NULL,
		PRIMARY KEY (context_id, parent_context_id)
	)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS Event (
		id %s,
		artifact_id BIGINT NOT NULL,
		execution_id BIGINT NOT NULL,
		type INT NOT NULL,
		milliseconds_since_epoch %s NOT NULL
	)`, pk, ts),

		`CREATE TABLE IF NOT EXISTS EventPath (
		event_id BIGINT NOT NULL,
		step_index INT NOT NULL,
		is_index_step INT NOT NULL,
		index_step BIGINT,
		key_step VARCHAR(255),
		PRIMARY KEY (event_id, step_index)
	)`,

		`CREATE TABLE IF NOT EXISTS Attribution (
		context_id BIGINT NOT NULL,
		artifact_id BIGINT NOT NULL,
		PRIMARY KEY (context_id, artifact_id)
	)`,

		`CREATE TABLE IF NOT EXISTS Association (
		context_id BIGINT NOT NULL,
		execution_id BIGINT NOT NULL,
		PRIMARY KEY (context_id, execution_id)
	)`,

		`CREATE TABLE IF NOT EXISTS MLMDEnv (
		schema_version INT NOT NULL
	)`,
	}
}

// indexStatements returns the secondary indexes the v6 layout carries
// beyond the UNIQUE/PRIMARY KEY constraints embedded in the table DDL,
// used by the join-heavy GET paths.
func indexStatements(d dialect.Dialect) []string {
	var stmts []string
	add := func(table, index string, cols ...string) {
		stmts = append(stmts, d.CreateIndexStatements(table, index, cols)...)
	}

	add("Artifact", "idx_artifact_uri", "uri")
	add("Execution", "idx_execution_type_id", "type_id")
	add("Context", "idx_context_type_id", "type_id")
	add("Event", "idx_event_artifact_id", "artifact_id")
	add("Event", "idx_event_execution_id", "execution_id")
	add("Attribution", "idx_attribution_artifact_id", "artifact_id")
	add("Association", "idx_association_execution_id", "execution_id")

	return stmts
}

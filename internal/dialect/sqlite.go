package dialect

import (
	"fmt"
	"strings"
)

// SQLite implements Dialect for the modernc.org/sqlite driver.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) AutoIncrementPrimaryKey() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (SQLite) TimestampType() string { return "INT" }

func (SQLite) CreateIndexStatements(table, index string, cols []string) []string {
	return []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", index, table, strings.Join(cols, ", ")),
	}
}

func (SQLite) UpsertSuffix(conflictCols []string, setClauses []string) string {
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(conflictCols, ", "), strings.Join(setClauses, ", "))
}

func (SQLite) InsertIgnoreKeyword() string { return "INSERT OR IGNORE" }

var _ Dialect = SQLite{}

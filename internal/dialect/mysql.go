package dialect

import (
	"fmt"
	"strings"
)

// MySQL implements Dialect for github.com/go-sql-driver/mysql.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) AutoIncrementPrimaryKey() string {
	return "BIGINT PRIMARY KEY AUTO_INCREMENT"
}

func (MySQL) TimestampType() string { return "BIGINT" }

// CreateIndexStatements uses ALTER TABLE ... ADD INDEX;
// MySQL has no IF NOT EXISTS for indexes, so when the bootstrapper runs
// these against a database that already has the indexes (MLMDEnv was
// missing, so the DDL list ran again) it tolerates the resulting
// "Duplicate key name" error (error 1061).
func (MySQL) CreateIndexStatements(table, index string, cols []string) []string {
	return []string{
		fmt.Sprintf("ALTER TABLE %s ADD INDEX %s (%s)", table, index, strings.Join(cols, ", ")),
	}
}

func (MySQL) UpsertSuffix(conflictCols []string, setClauses []string) string {
	return "ON DUPLICATE KEY UPDATE " + strings.Join(setClauses, ", ")
}

func (MySQL) InsertIgnoreKeyword() string { return "INSERT IGNORE" }

var _ Dialect = MySQL{}

package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the configured database. The returned handle is passed
// explicitly to everything that needs persistence - there is no package-level
// instance.
func Connect(mysqlDSN, sqliteFile string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if mysqlDSN != "" {
		return gorm.Open(mysql.Open(mysqlDSN), cfg)
	}
	// Cascading deletes rely on SQLite actually enforcing foreign keys.
	if !strings.Contains(sqliteFile, "_pragma") {
		sqliteFile += "?_pragma=foreign_keys(1)"
	}
	return gorm.Open(sqlite.Open(sqliteFile), cfg)
}

// Package testsupport opens throwaway databases for repository tests.
package testsupport

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a shared-cache in-memory database. Connections
// opened with the same name see the same data; different names are isolated.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	return sql.Open("sqlite3", MemoryDSN(name))
}

// MemoryDSN returns the sqlite DSN NewSQLiteMemoryDB opens.
func MemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	if name == "" {
		name = "memory"
	}
	return "file:" + name + "?mode=memory&cache=shared&_fk=1"
}

// NewBunDB wraps NewSQLiteMemoryDB with the sqlite dialect.
func NewBunDB(name string) (*bun.DB, error) {
	sqldb, err := NewSQLiteMemoryDB(name)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

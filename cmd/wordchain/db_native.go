//go:build !cgo_sqlite

package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// sqliteDriver is the pure-Go driver, used unless built with -tags cgo_sqlite.
const sqliteDriver = "sqlite"

func initDB(dataSource string) (*sql.DB, error) {
	return openCorpusDB(sqliteDriver, dataSource)
}

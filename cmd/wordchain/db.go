package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/wordchain/pkg/corpus"
)

// openCorpusDB opens the corpus database, creating its directory and schema
// if needed.
func openCorpusDB(driver, dataSource string) (*sql.DB, error) {
	path, _, _ := strings.Cut(dataSource, "?")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, err
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	return db, nil
}

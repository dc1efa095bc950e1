// pkg/db/sqlite.go
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go, tanpa cgo
)

func openSQLite(o Options) (*sql.DB, error) {
	path := o.DSN
	if path == "" {
		path = o.Path
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	// WAL supaya pembaca dashboard tidak terblokir saat ingest
	return sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
}

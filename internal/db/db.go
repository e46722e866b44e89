package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// dsnParams are appended to every path handed to the sqlite driver.
// Pragmas in the DSN apply to each new connection, and _txlock=immediate
// makes BeginTx take the write lock up front so check-then-act sequences
// in a transaction cannot interleave with another process.
const dsnParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database.
// Creates the parent directory, sets WAL mode, enables foreign keys and
// runs migrations. A migration failure closes the handle and is returned.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?"+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One handle per process. This also keeps ":memory:" databases from
	// being split across pooled connections.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/timbertrack/timber/internal/domain"
)

const schemaVersionKey = "schema_version"

// baseSchema is the version 1 layout. It is created on a new store and is
// also what older builds left on disk, so later columns are added by
// migrations rather than here.
var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		note TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id       INTEGER NOT NULL REFERENCES clients(id),
		start_timestamp TEXT NOT NULL,
		end_timestamp   TEXT,
		note            TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_client ON sessions(client_id)`,

	`CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', '1')`,
}

// migration upgrades the store from version-1 to version.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx DBTX) error
}

// migrations must stay sorted by version.
var migrations = []migration{
	{
		version: 2,
		name:    "add sessions.offset_minutes",
		up: func(ctx context.Context, tx DBTX) error {
			_, err := tx.ExecContext(ctx,
				`ALTER TABLE sessions ADD COLUMN offset_minutes INTEGER NOT NULL DEFAULT 0`)
			// A store whose sessions table already carries the column only
			// needs its version recorded.
			if err != nil && strings.Contains(err.Error(), "duplicate column name") {
				return nil
			}
			return err
		},
	},
	{
		version: 3,
		name:    "normalize session timestamps",
		up:      normalizeSessionTimestamps,
	},
}

// normalizeSessionTimestamps rewrites start and end instants stored by older
// builds (RFC 3339 with fractional seconds or a numeric offset) into the
// fixed-width UTC layout, so range queries can compare them as strings.
// Values that do not parse are left alone and surface as scan errors.
func normalizeSessionTimestamps(ctx context.Context, tx DBTX) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, start_timestamp, end_timestamp FROM sessions`)
	if err != nil {
		return fmt.Errorf("reading session timestamps: %w", err)
	}
	type rewrite struct {
		id         int64
		start, end sql.NullString
	}
	var pending []rewrite
	for rows.Next() {
		var id int64
		var start string
		var end sql.NullString
		if err := rows.Scan(&id, &start, &end); err != nil {
			rows.Close()
			return fmt.Errorf("scanning session timestamps: %w", err)
		}
		r := rewrite{id: id, start: sql.NullString{String: start, Valid: true}, end: end}
		changed := false
		if v, ok := canonicalTimestamp(start); ok && v != start {
			r.start.String, changed = v, true
		}
		if end.Valid {
			if v, ok := canonicalTimestamp(end.String); ok && v != end.String {
				r.end.String, changed = v, true
			}
		}
		if changed {
			pending = append(pending, r)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating session timestamps: %w", err)
	}
	rows.Close()

	for _, r := range pending {
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET start_timestamp = ?, end_timestamp = ? WHERE id = ?`,
			r.start, r.end, r.id,
		); err != nil {
			return fmt.Errorf("rewriting session %d timestamps: %w", r.id, err)
		}
	}
	return nil
}

func canonicalTimestamp(raw string) (string, bool) {
	t, err := domain.ParseTimestamp(raw)
	if err != nil {
		return "", false
	}
	return domain.FormatTimestamp(t), true
}

// LatestVersion returns the schema version a fully migrated store reports.
func LatestVersion() int {
	if len(migrations) == 0 {
		return 1
	}
	return migrations[len(migrations)-1].version
}

// Migrate ensures the base schema exists and applies pending migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}
	return ApplyMigrations(db)
}

// EnsureSchema creates the clients, sessions and meta tables if they are
// absent and seeds schema_version = 1 on a new store.
func EnsureSchema(db *sql.DB) error {
	ctx := context.Background()
	for i, stmt := range baseSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("base schema statement %d: %w", i, err)
		}
	}
	return nil
}

// ApplyMigrations applies every migration newer than the recorded version,
// in order. Each step and its version bump share one transaction, so a
// failed step leaves the store at the previous version.
func ApplyMigrations(db *sql.DB) error {
	ctx := context.Background()
	uow := NewSQLiteUnitOfWork(db)

	for _, m := range migrations {
		err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
			current, err := SchemaVersion(ctx, tx)
			if err != nil {
				return err
			}
			if current >= m.version {
				return nil
			}
			if err := m.up(ctx, tx); err != nil {
				return err
			}
			return setSchemaVersion(ctx, tx, m.version)
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// SchemaVersion reads the recorded schema version.
func SchemaVersion(ctx context.Context, q DBTX) (int, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, schemaVersionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("schema version not recorded")
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing schema version %q: %w", raw, err)
	}
	return v, nil
}

func setSchemaVersion(ctx context.Context, tx DBTX, version int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		schemaVersionKey, strconv.Itoa(version))
	if err != nil {
		return fmt.Errorf("recording schema version %d: %w", version, err)
	}
	return nil
}

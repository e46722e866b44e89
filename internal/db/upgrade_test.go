package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openLegacyV1 builds a store the way version 1 left it on disk: no
// offset_minutes column and schema_version = 1.
func openLegacyV1(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?"+dsnParams)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, EnsureSchema(db))

	_, err = db.Exec(`INSERT INTO clients (name, note) VALUES ('Acme', 'legacy client')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sessions (client_id, start_timestamp, end_timestamp, note)
		VALUES (1, '2025-01-15T10:00:00Z', '2025-01-15T11:30:00Z', 'closed'),
		       (1, '2025-01-16T09:00:00Z', NULL, 'open')`)
	require.NoError(t, err)
	return db
}

func TestMigrate_UpgradePath_V1ToLatest(t *testing.T) {
	db := openLegacyV1(t)
	ctx := context.Background()

	v, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.NotContains(t, columnNames(t, db, "sessions"), "offset_minutes")

	require.NoError(t, ApplyMigrations(db))

	v, err = SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)

	rows, err := db.Query(`SELECT note, offset_minutes FROM sessions ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	count := 0
	for rows.Next() {
		var note string
		var offset int
		require.NoError(t, rows.Scan(&note, &offset))
		assert.Equal(t, 0, offset, "legacy session %q should default to offset 0", note)
		count++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, count, "legacy sessions should survive migration")

	var clientNote string
	require.NoError(t, db.QueryRow(`SELECT note FROM clients WHERE name = 'Acme'`).Scan(&clientNote))
	assert.Equal(t, "legacy client", clientNote)
}

func TestMigrate_RerunOnV2IsNoop(t *testing.T) {
	db := openLegacyV1(t)
	require.NoError(t, ApplyMigrations(db))

	_, err := db.Exec(`UPDATE sessions SET offset_minutes = -15 WHERE id = 2`)
	require.NoError(t, err)

	var schemaBefore string
	require.NoError(t, db.QueryRow(`SELECT sql FROM sqlite_master WHERE name = 'sessions'`).Scan(&schemaBefore))

	require.NoError(t, Migrate(db))

	var schemaAfter string
	require.NoError(t, db.QueryRow(`SELECT sql FROM sqlite_master WHERE name = 'sessions'`).Scan(&schemaAfter))
	assert.Equal(t, schemaBefore, schemaAfter)

	var offset int
	require.NoError(t, db.QueryRow(`SELECT offset_minutes FROM sessions WHERE id = 2`).Scan(&offset))
	assert.Equal(t, -15, offset, "re-running migrations must not touch data")

	v, err := SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
}

func TestMigrate_ColumnPresentButVersionStale(t *testing.T) {
	db := openLegacyV1(t)

	_, err := db.Exec(`ALTER TABLE sessions ADD COLUMN offset_minutes INTEGER NOT NULL DEFAULT 0`)
	require.NoError(t, err)

	require.NoError(t, ApplyMigrations(db))

	v, err := SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
}

func TestMigrate_MissingVersionRowFails(t *testing.T) {
	db := openLegacyV1(t)

	_, err := db.Exec(`DELETE FROM meta`)
	require.NoError(t, err)

	err = ApplyMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version not recorded")
}

func TestMigrate_NormalizesLegacyTimestamps(t *testing.T) {
	db := openLegacyV1(t)

	// Older builds wrote RFC 3339 with fractional seconds and an offset.
	_, err := db.Exec(`INSERT INTO sessions (client_id, start_timestamp, end_timestamp, note)
		VALUES (1, '2025-06-17T00:00:00.250+00:00', '2025-06-17T01:30:00.999+00:00', 'edge'),
		       (1, '2025-06-17T10:00:00+02:00', NULL, 'offset')`)
	require.NoError(t, err)
	require.NoError(t, ApplyMigrations(db))

	stored := map[string][2]sql.NullString{}
	rows, err := db.Query(`SELECT note, start_timestamp, end_timestamp FROM sessions`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var note string
		var start, end sql.NullString
		require.NoError(t, rows.Scan(&note, &start, &end))
		stored[note] = [2]sql.NullString{start, end}
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, "2025-06-17T00:00:00Z", stored["edge"][0].String)
	assert.Equal(t, "2025-06-17T01:30:00Z", stored["edge"][1].String)
	assert.Equal(t, "2025-06-17T08:00:00Z", stored["offset"][0].String)
	assert.False(t, stored["offset"][1].Valid, "an open session stays open")
	assert.Equal(t, "2025-01-15T10:00:00Z", stored["closed"][0].String, "canonical rows are untouched")

	// The first second of the day is inside the day's string range.
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions
		WHERE start_timestamp >= '2025-06-17T00:00:00Z' AND start_timestamp <= '2025-06-17T23:59:59Z'`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestMigrate_LeavesMalformedTimestampsAlone(t *testing.T) {
	db := openLegacyV1(t)

	_, err := db.Exec(`UPDATE sessions SET start_timestamp = 'not-a-time' WHERE note = 'closed'`)
	require.NoError(t, err)

	require.NoError(t, ApplyMigrations(db))

	var start string
	require.NoError(t, db.QueryRow(`SELECT start_timestamp FROM sessions WHERE note = 'closed'`).Scan(&start))
	assert.Equal(t, "not-a-time", start)
}

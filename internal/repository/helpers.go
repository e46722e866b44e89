package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/timbertrack/timber/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqb builds SQLite statements with ? placeholders.
var sqb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// nullableString maps "" to SQL NULL so optional notes stay absent on disk.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullableTimestamp formats t for storage, or returns SQL NULL for nil.
func nullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return domain.FormatTimestamp(*t)
}

// parseNullableTimestamp parses a stored nullable instant. A NULL column
// yields nil; a malformed value is an error, never a silent default.
func parseNullableTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := domain.ParseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed")
}

// isConstraint matches the extended result code, falling back to the
// primary SQLITE_CONSTRAINT code plus the driver message when extended
// codes are not reported.
func isConstraint(err error, extended int, marker string) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == extended {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), marker)
}

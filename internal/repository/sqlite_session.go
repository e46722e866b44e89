package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/timbertrack/timber/internal/db"
	"github.com/timbertrack/timber/internal/domain"
)

var sessionColumns = []string{
	"id", "client_id", "start_timestamp", "end_timestamp", "note", "offset_minutes",
}

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) (int64, error) {
	query, args, err := sqb.Insert("sessions").
		Columns("client_id", "start_timestamp", "end_timestamp", "note", "offset_minutes").
		Values(
			s.ClientID,
			domain.FormatTimestamp(s.Start),
			nullableTimestamp(s.End),
			nullableString(s.Note),
			s.OffsetMinutes,
		).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building session insert: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("client %d: %w", s.ClientID, ErrNotFound)
		}
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading session id: %w", err)
	}
	s.ID = id
	return id, nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := r.getOne(ctx, sqb.Select(sessionColumns...).From("sessions").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) GetActive(ctx context.Context) (*domain.Session, error) {
	return r.getOne(ctx, sqb.Select(sessionColumns...).
		From("sessions").
		Where(sq.Eq{"end_timestamp": nil}).
		OrderBy("start_timestamp DESC", "id DESC").
		Limit(1))
}

func (r *SQLiteSessionRepo) List(ctx context.Context, clientID *int64) ([]*domain.Session, error) {
	q := sqb.Select(sessionColumns...).From("sessions")
	if clientID != nil {
		q = q.Where(sq.Eq{"client_id": *clientID})
	}
	return r.getMany(ctx, q.OrderBy("start_timestamp DESC", "id DESC"))
}

func (r *SQLiteSessionRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*domain.Session, error) {
	return r.getMany(ctx, sqb.Select(sessionColumns...).
		From("sessions").
		Where(sq.GtOrEq{"start_timestamp": domain.FormatTimestamp(start)}).
		Where(sq.LtOrEq{"start_timestamp": domain.FormatTimestamp(end)}).
		OrderBy("start_timestamp", "id"))
}

// Update writes every mutable column of s back to its row.
func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	query, args, err := sqb.Update("sessions").
		Set("client_id", s.ClientID).
		Set("start_timestamp", domain.FormatTimestamp(s.Start)).
		Set("end_timestamp", nullableTimestamp(s.End)).
		Set("note", nullableString(s.Note)).
		Set("offset_minutes", s.OffsetMinutes).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building session update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %d: %w", s.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a session by id. Deleting an id that does not exist is not
// an error.
func (r *SQLiteSessionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// getOne runs q and scans at most one row. No row yields nil, nil.
func (r *SQLiteSessionRepo) getOne(ctx context.Context, q sq.SelectBuilder) (*domain.Session, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building session query: %w", err)
	}
	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SQLiteSessionRepo) getMany(ctx context.Context, q sq.SelectBuilder) ([]*domain.Session, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building session query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession reads one row in sessionColumns order. sql.ErrNoRows is
// returned unwrapped so callers can test for it.
func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var startStr string
	var endStr, note sql.NullString
	if err := row.Scan(&s.ID, &s.ClientID, &startStr, &endStr, &note, &s.OffsetMinutes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	start, err := domain.ParseTimestamp(startStr)
	if err != nil {
		return nil, fmt.Errorf("session %d start_timestamp: %w", s.ID, err)
	}
	s.Start = start
	if s.End, err = parseNullableTimestamp(endStr); err != nil {
		return nil, fmt.Errorf("session %d end_timestamp: %w", s.ID, err)
	}
	s.Note = note.String
	return &s, nil
}

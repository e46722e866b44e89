package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/timbertrack/timber/internal/db"
	"github.com/timbertrack/timber/internal/domain"
)

// SQLiteClientRepo implements ClientRepo using a SQLite database.
type SQLiteClientRepo struct {
	db db.DBTX
}

// NewSQLiteClientRepo creates a new SQLiteClientRepo.
func NewSQLiteClientRepo(conn db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: conn}
}

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (name, note) VALUES (?, ?)`,
		c.Name, nullableString(c.Note),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("client %q: %w", c.Name, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("inserting client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading client id: %w", err)
	}
	c.ID = id
	return id, nil
}

func (r *SQLiteClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, note FROM clients WHERE id = ?`, id)
	var c domain.Client
	var note sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning client: %w", err)
	}
	c.Note = note.String
	return &c, nil
}

// FindIDByName looks up a client by exact name. The bool is false when no
// client has that name.
func (r *SQLiteClientRepo) FindIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM clients WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("finding client by name: %w", err)
	}
	return id, true, nil
}

func (r *SQLiteClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, note FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client
		var note sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &note); err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		c.Note = note.String
		clients = append(clients, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}

// Delete removes a client that no session references.
func (r *SQLiteClientRepo) Delete(ctx context.Context, id int64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE client_id = ?`, id,
	).Scan(&refs); err != nil {
		return fmt.Errorf("counting client sessions: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("client %d has %d sessions: %w", id, refs, ErrReferenced)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("client %d: %w", id, ErrReferenced)
		}
		return fmt.Errorf("deleting client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return nil
}

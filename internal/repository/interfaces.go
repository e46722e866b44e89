package repository

import (
	"context"
	"time"

	"github.com/timbertrack/timber/internal/domain"
)

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	FindIDByName(ctx context.Context, name string) (int64, bool, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	// GetActive returns the session with no end timestamp, or nil when idle.
	GetActive(ctx context.Context) (*domain.Session, error)
	// List returns sessions newest first, optionally for one client.
	List(ctx context.Context, clientID *int64) ([]*domain.Session, error)
	// ListInRange returns sessions whose start lies in [start, end], oldest first.
	ListInRange(ctx context.Context, start, end time.Time) ([]*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id int64) error
}

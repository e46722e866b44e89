package service

import (
	"context"
	"time"

	"github.com/timbertrack/timber/internal/domain"
)

type ClientService interface {
	Add(ctx context.Context, name, note string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	FindIDByName(ctx context.Context, name string) (int64, bool, error)
	// Resolve turns a by-name or by-id reference into an existing client id.
	Resolve(ctx context.Context, ref ClientRef) (int64, error)
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Client, error)
}

type SessionService interface {
	Start(ctx context.Context, clientID int64, note string) (*domain.Session, error)
	// End closes the active session and returns it with its final duration.
	End(ctx context.Context) (*domain.Session, time.Duration, error)
	// Patch adds minutes (possibly negative) to the active session's offset.
	Patch(ctx context.Context, minutes int) (*domain.Session, error)
	Switch(ctx context.Context, clientID int64, note string) (*SwitchResult, error)
	Active(ctx context.Context) (*domain.Session, error)
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context, clientID *int64) ([]*domain.Session, error)
	Delete(ctx context.Context, id int64) error
}

type SummaryService interface {
	Summarize(ctx context.Context, r domain.Range) (*Summary, error)
	ForPeriod(ctx context.Context, p domain.Period) (*Summary, error)
}

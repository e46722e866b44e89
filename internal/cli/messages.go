package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/timbertrack/timber/internal/repository"
	"github.com/timbertrack/timber/internal/service"
)

// Category is the stable, user-facing class of a failed command.
type Category string

const (
	CategoryAlreadyExists   Category = "already-exists"
	CategoryReferenced      Category = "referenced"
	CategoryNotFound        Category = "not-found"
	CategoryAlreadyActive   Category = "already-active"
	CategoryNoActiveSession Category = "no-active-session"
	CategoryStorage         Category = "storage-fault"
)

// CommandError is a service failure rendered for the terminal.
type CommandError struct {
	Category Category
	Message  string
	Err      error
}

func (e *CommandError) Error() string { return e.Message }

func (e *CommandError) Unwrap() error { return e.Err }

// CategoryOf returns the category of err, or "" for usage errors.
func CategoryOf(err error) Category {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}

// describe maps a service error to its message category. Anything the
// services do not name is a storage fault.
func (a *App) describe(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return err
	}

	var active *service.AlreadyActiveError
	switch {
	case errors.As(err, &active):
		return &CommandError{
			Category: CategoryAlreadyActive,
			Message:  fmt.Sprintf("a session is already active for %s; end or switch it first", a.clientName(ctx, active.Session.ClientID)),
			Err:      err,
		}
	case errors.Is(err, service.ErrNoActiveSession):
		return &CommandError{Category: CategoryNoActiveSession, Message: "no active session", Err: err}
	case errors.Is(err, repository.ErrAlreadyExists):
		return &CommandError{Category: CategoryAlreadyExists, Message: "client already exists", Err: err}
	case errors.Is(err, repository.ErrReferenced):
		return &CommandError{Category: CategoryReferenced, Message: "cannot remove client: sessions reference it", Err: err}
	case errors.Is(err, repository.ErrNotFound):
		return &CommandError{Category: CategoryNotFound, Message: fmt.Sprintf("not found: %v", err), Err: err}
	default:
		return &CommandError{Category: CategoryStorage, Message: fmt.Sprintf("storage error: %v", err), Err: err}
	}
}

// clientName looks up a display name, falling back to "#id" when the client
// cannot be read.
func (a *App) clientName(ctx context.Context, id int64) string {
	c, err := a.Clients.GetByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("#%d", id)
	}
	return c.Name
}

package service

import (
	"errors"
	"fmt"

	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/repository"
)

var (
	// ErrAlreadyActive is matched by every *AlreadyActiveError.
	ErrAlreadyActive = errors.New("a session is already active")
	// ErrNoActiveSession is returned by end and patch when nothing is running.
	ErrNoActiveSession = errors.New("no active session")
)

// AlreadyActiveError reports the session that blocked a start.
type AlreadyActiveError struct {
	Session *domain.Session
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("session %d for client %d is already active since %s",
		e.Session.ID, e.Session.ClientID, domain.FormatTimestamp(e.Session.Start))
}

func (e *AlreadyActiveError) Is(target error) bool {
	return target == ErrAlreadyActive
}

// IsExpectedOutcome reports whether err is a recoverable outcome of the
// session state machine or of client bookkeeping rather than a storage fault.
func IsExpectedOutcome(err error) bool {
	return errors.Is(err, ErrAlreadyActive) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrAlreadyExists) ||
		errors.Is(err, repository.ErrReferenced)
}

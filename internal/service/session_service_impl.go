package service

import (
	"context"
	"fmt"
	"time"

	"github.com/timbertrack/timber/internal/db"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/repository"
)

// SwitchResult is the outcome of a switch. Ended is nil when nothing was
// running and the switch behaved as a plain start.
type SwitchResult struct {
	Ended   *domain.Session
	Started *domain.Session
}

type sessionService struct {
	sessions repository.SessionRepo
	clients  repository.ClientRepo
	uow      db.UnitOfWork
	clock    domain.Clock
	observer UseCaseObserver
}

func NewSessionService(
	sessions repository.SessionRepo,
	clients repository.ClientRepo,
	uow db.UnitOfWork,
	clock domain.Clock,
	observers ...UseCaseObserver,
) SessionService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &sessionService{
		sessions: sessions,
		clients:  clients,
		uow:      uow,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sessionService) Start(ctx context.Context, clientID int64, note string) (started *domain.Session, err error) {
	fields := map[string]any{"client_id": clientID}
	defer observe(ctx, s.observer, "start-session", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		active, err := txSessions.GetActive(ctx)
		if err != nil {
			return err
		}
		if active != nil {
			return &AlreadyActiveError{Session: active}
		}
		started, err = startInTx(ctx, tx, clientID, note, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["session_id"] = started.ID
	return started, nil
}

func (s *sessionService) End(ctx context.Context) (ended *domain.Session, elapsed time.Duration, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "end-session", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ended, err = endInTx(ctx, repository.NewSQLiteSessionRepo(tx), s.clock.Now())
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	if ended == nil {
		err = ErrNoActiveSession
		return nil, 0, err
	}
	elapsed = ended.Duration(*ended.End)
	fields["session_id"] = ended.ID
	fields["minutes"] = ended.Minutes(*ended.End)
	return ended, elapsed, nil
}

func (s *sessionService) Patch(ctx context.Context, minutes int) (patched *domain.Session, err error) {
	fields := map[string]any{"minutes": minutes}
	defer observe(ctx, s.observer, "patch-session", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		active, err := txSessions.GetActive(ctx)
		if err != nil {
			return err
		}
		if active == nil {
			return ErrNoActiveSession
		}
		active.ApplyOffset(minutes)
		if err := txSessions.Update(ctx, active); err != nil {
			return err
		}
		patched = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["session_id"] = patched.ID
	fields["offset_minutes"] = patched.OffsetMinutes
	return patched, nil
}

// Switch ends the running session, if any, and starts a new one for
// clientID. Both writes share one transaction, so a failed start leaves the
// previous session running.
func (s *sessionService) Switch(ctx context.Context, clientID int64, note string) (result *SwitchResult, err error) {
	fields := map[string]any{"client_id": clientID}
	defer observe(ctx, s.observer, "switch-session", time.Now(), fields, &err)

	result = &SwitchResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		now := s.clock.Now()
		ended, err := endInTx(ctx, repository.NewSQLiteSessionRepo(tx), now)
		if err != nil {
			return err
		}
		result.Ended = ended
		result.Started, err = startInTx(ctx, tx, clientID, note, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result.Ended != nil {
		fields["ended_session_id"] = result.Ended.ID
	}
	fields["session_id"] = result.Started.ID
	return result, nil
}

func (s *sessionService) Active(ctx context.Context) (*domain.Session, error) {
	return s.sessions.GetActive(ctx)
}

func (s *sessionService) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *sessionService) List(ctx context.Context, clientID *int64) ([]*domain.Session, error) {
	return s.sessions.List(ctx, clientID)
}

func (s *sessionService) Delete(ctx context.Context, id int64) (err error) {
	defer observe(ctx, s.observer, "remove-session", time.Now(), map[string]any{"session_id": id}, &err)
	return s.sessions.Delete(ctx, id)
}

// startInTx inserts a new running session. The caller has already made sure
// no other session is active.
func startInTx(ctx context.Context, tx db.DBTX, clientID int64, note string, now time.Time) (*domain.Session, error) {
	if _, err := repository.NewSQLiteClientRepo(tx).GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	session := &domain.Session{
		ClientID: clientID,
		Start:    domain.TruncateTimestamp(now),
		Note:     note,
	}
	if _, err := repository.NewSQLiteSessionRepo(tx).Create(ctx, session); err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	return session, nil
}

// endInTx closes the active session at now. It returns nil, nil when idle.
func endInTx(ctx context.Context, sessions repository.SessionRepo, now time.Time) (*domain.Session, error) {
	active, err := sessions.GetActive(ctx)
	if err != nil || active == nil {
		return nil, err
	}
	active.Close(now)
	if err := sessions.Update(ctx, active); err != nil {
		return nil, err
	}
	return active, nil
}

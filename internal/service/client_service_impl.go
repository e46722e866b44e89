package service

import (
	"context"
	"fmt"
	"time"

	"github.com/timbertrack/timber/internal/db"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/repository"
)

type clientService struct {
	clients  repository.ClientRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewClientService(clients repository.ClientRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ClientService {
	return &clientService{
		clients:  clients,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add creates a client. Names are stored exactly as given; only a
// byte-identical name is a duplicate, which leaves the store untouched and
// returns repository.ErrAlreadyExists.
func (s *clientService) Add(ctx context.Context, name, note string) (id int64, err error) {
	fields := map[string]any{"name": name}
	defer observe(ctx, s.observer, "add-client", time.Now(), fields, &err)

	id, err = s.clients.Create(ctx, &domain.Client{
		Name: name,
		Note: note,
	})
	if err != nil {
		return 0, err
	}
	fields["client_id"] = id
	return id, nil
}

func (s *clientService) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *clientService) FindIDByName(ctx context.Context, name string) (int64, bool, error) {
	return s.clients.FindIDByName(ctx, name)
}

func (s *clientService) Resolve(ctx context.Context, ref ClientRef) (int64, error) {
	if id, ok := ref.ID(); ok {
		if _, err := s.clients.GetByID(ctx, id); err != nil {
			return 0, err
		}
		return id, nil
	}
	id, ok, err := s.clients.FindIDByName(ctx, ref.Name())
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("client %s: %w", ref, repository.ErrNotFound)
	}
	return id, nil
}

// Remove deletes a client that has no sessions. The reference count and the
// delete share one transaction.
func (s *clientService) Remove(ctx context.Context, id int64) (err error) {
	defer observe(ctx, s.observer, "remove-client", time.Now(), map[string]any{"client_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteClientRepo(tx).Delete(ctx, id)
	})
}

func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}

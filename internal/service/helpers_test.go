package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timbertrack/timber/internal/repository"
	"github.com/timbertrack/timber/internal/testutil"
)

// T0 is a Tuesday morning.
var T0 = time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *sql.DB
	clock    *testutil.ManualClock
	clients  ClientService
	sessions SessionService
	summary  SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := testutil.NewManualClock(T0)
	clientRepo := repository.NewSQLiteClientRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	uow := testutil.NewTestUoW(database)
	return &testEnv{
		db:       database,
		clock:    clock,
		clients:  NewClientService(clientRepo, uow),
		sessions: NewSessionService(sessionRepo, clientRepo, uow, clock),
		summary:  NewSummaryService(sessionRepo, clientRepo, clock),
	}
}

func (e *testEnv) addClient(t *testing.T, name string) int64 {
	t.Helper()
	id, err := e.clients.Add(context.Background(), name, "")
	require.NoError(t, err)
	return id
}

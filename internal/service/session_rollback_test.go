package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timbertrack/timber/internal/repository"
	"github.com/timbertrack/timber/internal/testutil"
)

func TestSwitch_RollbackOnStartFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.addClient(t, "Acme")
	globex := env.addClient(t, "Globex")

	first, err := env.sessions.Start(ctx, acme, "")
	require.NoError(t, err)
	env.clock.Advance(10 * time.Minute)

	// ExecContext #1 = end of the running session, #2 = insert of the new one.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected session create failure"),
	}
	sessionRepo := repository.NewSQLiteSessionRepo(env.db)
	svc := NewSessionService(sessionRepo, repository.NewSQLiteClientRepo(env.db), failUoW, env.clock)

	_, err = svc.Switch(ctx, globex, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected session create failure")

	active, err := sessionRepo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active, "previous session must still be running after rollback")
	assert.Equal(t, first.ID, active.ID)

	all, err := sessionRepo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1, "no session should be inserted after rollback")
}

func TestEnd_RollbackOnUpdateFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.addClient(t, "Acme")

	_, err := env.sessions.Start(ctx, acme, "")
	require.NoError(t, err)

	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 1,
		Err:    fmt.Errorf("injected update failure"),
	}
	sessionRepo := repository.NewSQLiteSessionRepo(env.db)
	svc := NewSessionService(sessionRepo, repository.NewSQLiteClientRepo(env.db), failUoW, env.clock)

	_, _, err = svc.End(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoActiveSession)

	active, err := sessionRepo.GetActive(ctx)
	require.NoError(t, err)
	assert.NotNil(t, active)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timbertrack/timber/internal/db"
	"github.com/timbertrack/timber/internal/repository"
	"github.com/timbertrack/timber/internal/testutil"
)

// openSharedStore opens n independent handles on one file-backed database,
// standing in for n timber processes. Each handle has its own single
// connection, so they only coordinate through SQLite's file lock.
func openSharedStore(t *testing.T, n int) []*sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shared.db")
	handles := make([]*sql.DB, 0, n)
	for i := 0; i < n; i++ {
		database, err := db.OpenDB(path)
		require.NoError(t, err, "opening handle %d", i)
		t.Cleanup(func() { database.Close() })
		handles = append(handles, database)
	}
	return handles
}

func sessionServiceOn(database *sql.DB, clock *testutil.ManualClock) SessionService {
	return NewSessionService(
		repository.NewSQLiteSessionRepo(database),
		repository.NewSQLiteClientRepo(database),
		db.NewSQLiteUnitOfWork(database),
		clock,
	)
}

func countActiveRows(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE end_timestamp IS NULL`).Scan(&n))
	return n
}

func TestStart_ConcurrentHandlesOnlyOneWins(t *testing.T) {
	const workers = 4
	handles := openSharedStore(t, workers)
	clock := testutil.NewManualClock(T0)
	ctx := context.Background()

	clientID, err := NewClientService(
		repository.NewSQLiteClientRepo(handles[0]),
		db.NewSQLiteUnitOfWork(handles[0]),
	).Add(ctx, "Acme", "")
	require.NoError(t, err)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, h := range handles {
		wg.Add(1)
		go func(i int, svc SessionService) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Start(ctx, clientID, "")
		}(i, sessionServiceOn(h, clock))
	}
	close(start)
	wg.Wait()

	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var active *AlreadyActiveError
		assert.True(t, errors.As(err, &active), "worker %d: unexpected error %v", i, err)
		assert.ErrorIs(t, err, ErrAlreadyActive)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, countActiveRows(t, handles[0]))
}

func TestEnd_RacingStartKeepsAtMostOneActive(t *testing.T) {
	handles := openSharedStore(t, 2)
	clock := testutil.NewManualClock(T0)
	ctx := context.Background()

	clientID, err := NewClientService(
		repository.NewSQLiteClientRepo(handles[0]),
		db.NewSQLiteUnitOfWork(handles[0]),
	).Add(ctx, "Acme", "")
	require.NoError(t, err)

	ender := sessionServiceOn(handles[0], clock)
	starter := sessionServiceOn(handles[1], clock)

	for round := 0; round < 10; round++ {
		_, err := ender.Start(ctx, clientID, "")
		require.NoError(t, err, "round %d: seeding active session", round)

		var endErr, startErr error
		var wg sync.WaitGroup
		begin := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-begin
			_, _, endErr = ender.End(ctx)
		}()
		go func() {
			defer wg.Done()
			<-begin
			_, startErr = starter.Start(ctx, clientID, "")
		}()
		close(begin)
		wg.Wait()

		require.NoError(t, endErr, "round %d: end", round)
		if startErr == nil {
			// Start ran after End committed.
			assert.Equal(t, 1, countActiveRows(t, handles[0]), "round %d", round)
			_, _, err = ender.End(ctx)
			require.NoError(t, err)
		} else {
			// Start saw the seeded session before End took the lock.
			assert.ErrorIs(t, startErr, ErrAlreadyActive, "round %d", round)
			assert.Equal(t, 0, countActiveRows(t, handles[0]), "round %d", round)
		}
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timbertrack/timber/internal/domain"
)

// book records a finished session of the given length starting at start.
func (e *testEnv) book(t *testing.T, clientID int64, start time.Time, length time.Duration) {
	t.Helper()
	ctx := context.Background()
	e.clock.Set(start)
	_, err := e.sessions.Start(ctx, clientID, "")
	require.NoError(t, err)
	e.clock.Advance(length)
	_, _, err = e.sessions.End(ctx)
	require.NoError(t, err)
}

func TestSummarize_TotalsPerClientSortedByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	zeta := env.addClient(t, "Zeta")
	acme := env.addClient(t, "Acme")

	env.book(t, zeta, T0, 30*time.Minute)
	env.book(t, acme, T0.Add(time.Hour), 45*time.Minute)
	env.book(t, zeta, T0.Add(2*time.Hour), 15*time.Minute)

	sum, err := env.summary.Summarize(ctx, domain.DayRange(T0))
	require.NoError(t, err)
	require.Len(t, sum.Clients, 2)
	assert.Equal(t, "Acme", sum.Clients[0].Name)
	assert.Equal(t, 45, sum.Clients[0].Minutes)
	assert.Equal(t, "Zeta", sum.Clients[1].Name)
	assert.Equal(t, 45, sum.Clients[1].Minutes)
	assert.Equal(t, 2, sum.Clients[1].Sessions)

	var total int
	for _, c := range sum.Clients {
		total += c.Minutes
	}
	assert.Equal(t, total, sum.TotalMinutes)
	assert.Equal(t, 90, sum.TotalMinutes)
}

func TestSummarize_FiltersOnStartOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.addClient(t, "Acme")

	day := domain.DayRange(T0)
	// Starts before the window, ends inside it: excluded.
	env.book(t, acme, day.Start.Add(-30*time.Minute), time.Hour)
	// Starts on the last second, runs into the next day: counted in full.
	env.book(t, acme, day.End, 2*time.Hour)

	sum, err := env.summary.Summarize(ctx, day)
	require.NoError(t, err)
	require.Len(t, sum.Clients, 1)
	assert.Equal(t, 120, sum.TotalMinutes)
}

func TestSummarize_ActiveSessionMeasuredToNow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.addClient(t, "Acme")

	_, err := env.sessions.Start(ctx, acme, "")
	require.NoError(t, err)
	env.clock.Advance(25 * time.Minute)

	sum, err := env.summary.ForPeriod(ctx, domain.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, 25, sum.TotalMinutes)
	assert.True(t, sum.Range.Start.Equal(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
}

func TestSummarize_Empty(t *testing.T) {
	env := newTestEnv(t)

	sum, err := env.summary.ForPeriod(context.Background(), domain.PeriodMonth)
	require.NoError(t, err)
	assert.Empty(t, sum.Clients)
	assert.Zero(t, sum.TotalMinutes)
}

func TestSummarize_NegativeOffsetCanMakeTotalNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.addClient(t, "Acme")

	_, err := env.sessions.Start(ctx, acme, "")
	require.NoError(t, err)
	env.clock.Advance(10 * time.Minute)
	_, err = env.sessions.Patch(ctx, -25)
	require.NoError(t, err)
	_, _, err = env.sessions.End(ctx)
	require.NoError(t, err)

	sum, err := env.summary.Summarize(ctx, domain.DayRange(T0))
	require.NoError(t, err)
	assert.Equal(t, -15, sum.TotalMinutes)
	assert.Equal(t, "-0h 15m", domain.FormatHM(sum.TotalMinutes))
}

package service

import (
	"context"
	"sort"
	"time"

	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/repository"
)

// ClientTotal is the time booked against one client inside a window.
type ClientTotal struct {
	ClientID int64
	Name     string
	Minutes  int
	Sessions int
}

// Summary aggregates the sessions that started inside Range.
type Summary struct {
	Range        domain.Range
	Clients      []ClientTotal
	TotalMinutes int
}

type summaryService struct {
	sessions repository.SessionRepo
	clients  repository.ClientRepo
	clock    domain.Clock
	observer UseCaseObserver
}

func NewSummaryService(
	sessions repository.SessionRepo,
	clients repository.ClientRepo,
	clock domain.Clock,
	observers ...UseCaseObserver,
) SummaryService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &summaryService{
		sessions: sessions,
		clients:  clients,
		clock:    clock,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Summarize totals every session whose start lies in r, per client. A
// session that runs past r.End is counted in full; active sessions are
// measured up to now.
func (s *summaryService) Summarize(ctx context.Context, r domain.Range) (summary *Summary, err error) {
	fields := map[string]any{
		"start": domain.FormatTimestamp(r.Start),
		"end":   domain.FormatTimestamp(r.End),
	}
	defer observe(ctx, s.observer, "summarize", time.Now(), fields, &err)

	sessions, err := s.sessions.ListInRange(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	now := s.clock.Now()
	byClient := make(map[int64]*ClientTotal)
	summary = &Summary{Range: r}
	for _, sess := range sessions {
		t, ok := byClient[sess.ClientID]
		if !ok {
			t = &ClientTotal{ClientID: sess.ClientID, Name: names[sess.ClientID]}
			byClient[sess.ClientID] = t
		}
		m := sess.Minutes(now)
		t.Minutes += m
		t.Sessions++
		summary.TotalMinutes += m
	}

	summary.Clients = make([]ClientTotal, 0, len(byClient))
	for _, t := range byClient {
		summary.Clients = append(summary.Clients, *t)
	}
	sort.Slice(summary.Clients, func(i, j int) bool {
		a, b := summary.Clients[i], summary.Clients[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ClientID < b.ClientID
	})
	fields["sessions"] = len(sessions)
	fields["total_minutes"] = summary.TotalMinutes
	return summary, nil
}

// ForPeriod summarizes the window of p that contains the current time.
func (s *summaryService) ForPeriod(ctx context.Context, p domain.Period) (*Summary, error) {
	return s.Summarize(ctx, p.Range(s.clock.Now()))
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/timbertrack/timber/internal/domain"
)

var testClientCounter atomic.Int64

// Client options
type ClientOption func(*domain.Client)

func WithClientNote(note string) ClientOption {
	return func(c *domain.Client) {
		c.Note = note
	}
}

// NewTestClient builds an unsaved client. An empty name is replaced by a
// unique generated one.
func NewTestClient(name string, opts ...ClientOption) *domain.Client {
	if name == "" {
		name = fmt.Sprintf("client-%03d", testClientCounter.Add(1))
	}
	c := &domain.Client{Name: name}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session options
type SessionOption func(*domain.Session)

func WithNote(note string) SessionOption {
	return func(s *domain.Session) {
		s.Note = note
	}
}

func WithEnd(end time.Time) SessionOption {
	return func(s *domain.Session) {
		e := domain.TruncateTimestamp(end)
		s.End = &e
	}
}

func WithOffset(minutes int) SessionOption {
	return func(s *domain.Session) {
		s.OffsetMinutes = minutes
	}
}

// NewTestSession builds an unsaved, active session starting at start.
func NewTestSession(clientID int64, start time.Time, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ClientID: clientID,
		Start:    domain.TruncateTimestamp(start),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

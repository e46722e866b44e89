package domain

import "time"

// Session is one tracked span of work for a client. A nil End means the
// session is still running; at most one such session exists in the store.
type Session struct {
	ID            int64
	ClientID      int64
	Start         time.Time
	End           *time.Time
	Note          string
	OffsetMinutes int
}

// IsActive reports whether the session has not been ended yet.
func (s *Session) IsActive() bool {
	return s.End == nil
}

// Duration returns the elapsed time of the session plus its manual offset.
// An active session is measured up to now. The result can be negative when
// a large negative offset was patched onto a short session.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.End != nil {
		end = *s.End
	}
	return end.Sub(s.Start) + time.Duration(s.OffsetMinutes)*time.Minute
}

// Minutes returns Duration in whole minutes, truncated toward zero.
func (s *Session) Minutes(now time.Time) int {
	return int(s.Duration(now) / time.Minute)
}

// Close sets the end of the session.
func (s *Session) Close(at time.Time) {
	end := TruncateTimestamp(at)
	s.End = &end
}

// ApplyOffset adds minutes (which may be negative) to the manual offset.
func (s *Session) ApplyOffset(minutes int) {
	s.OffsetMinutes += minutes
}

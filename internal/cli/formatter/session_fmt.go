package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/timbertrack/timber/internal/domain"
)

// SessionView pairs a session with the display name of its client.
type SessionView struct {
	Session    *domain.Session
	ClientName string
}

// FormatSession renders one session as a box. Running sessions are
// measured up to now.
func FormatSession(v SessionView, now time.Time) string {
	s := v.Session
	lines := []string{
		kvLine("client", Bold(v.ClientName)),
		kvLine("status", StatePill(s.IsActive())),
		kvLine("started", LocalTime(s.Start, now)),
	}
	if s.End != nil {
		lines = append(lines, kvLine("ended", LocalTime(*s.End, now)))
	}
	elapsed := Minutes(s.Minutes(now))
	if off := Offset(s.OffsetMinutes); off != "" {
		elapsed += " " + Dim("(") + off + Dim(")")
	}
	lines = append(lines, kvLine("elapsed", elapsed))
	if s.Note != "" {
		lines = append(lines, kvLine("note", s.Note))
	}
	return RenderBox("session #"+strconv.FormatInt(s.ID, 10), strings.Join(lines, "\n"))
}

// FormatSessionList renders sessions as a table in the order given.
func FormatSessionList(views []SessionView, now time.Time) string {
	headers := []string{"ID", "CLIENT", "STARTED", "ENDED", "DURATION", "OFFSET", "NOTE"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		s := v.Session
		ended := StatePill(true)
		if s.End != nil {
			ended = LocalTime(*s.End, now)
		}
		rows = append(rows, []string{
			Dim(strconv.FormatInt(s.ID, 10)),
			v.ClientName,
			LocalTime(s.Start, now),
			ended,
			Minutes(s.Minutes(now)),
			Offset(s.OffsetMinutes),
			Truncate(s.Note, 40),
		})
	}
	return RenderTable(headers, rows, 0, 4)
}

// FormatClientList renders clients in the order given.
func FormatClientList(clients []*domain.Client) string {
	headers := []string{"ID", "NAME", "NOTE"}
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			Dim(strconv.FormatInt(c.ID, 10)),
			Bold(c.Name),
			Truncate(c.Note, 50),
		})
	}
	return RenderTable(headers, rows, 0)
}

package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/timbertrack/timber/internal/service"
)

// SummaryTitle names a window for display, e.g. "week Jun 14 – Jun 20".
func SummaryTitle(label string, start, end time.Time) string {
	if start.Year() != end.Year() {
		return fmt.Sprintf("%s %s – %s", label, start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	}
	if start.YearDay() == end.YearDay() {
		return fmt.Sprintf("%s %s", label, start.Format("Mon Jan 2"))
	}
	return fmt.Sprintf("%s %s – %s", label, start.Format("Jan 2"), end.Format("Jan 2"))
}

// FormatSummary renders per-client totals with their share of the window.
func FormatSummary(label string, s *service.Summary) string {
	title := SummaryTitle(label, s.Range.Start, s.Range.End)
	if len(s.Clients) == 0 {
		return RenderBox(title, Dim("No sessions in this period."))
	}

	headers := []string{"CLIENT", "SESSIONS", "TIME", "SHARE"}
	rows := make([][]string, 0, len(s.Clients))
	for _, c := range s.Clients {
		rows = append(rows, []string{
			c.Name,
			strconv.Itoa(c.Sessions),
			Minutes(c.Minutes),
			RenderShare(c.Minutes, s.TotalMinutes, 16),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, 1, 2))
	b.WriteString("\n")
	b.WriteString(Bold("Total") + " " + Minutes(s.TotalMinutes))
	return RenderBox(title, b.String())
}

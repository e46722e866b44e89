package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// LocalTime renders a stored UTC instant in the local zone. Instants on the
// same calendar day as now only show the clock.
func LocalTime(t, now time.Time) string {
	lt, ln := t.Local(), now.Local()
	y1, m1, d1 := lt.Date()
	y2, m2, d2 := ln.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return lt.Format("15:04")
	}
	if y1 == y2 {
		return lt.Format("Jan 2 15:04")
	}
	return lt.Format("Jan 2, 2006 15:04")
}

// Elapsed renders a running duration with seconds, e.g. "1:02:05". Negative
// durations keep a leading minus.
func Elapsed(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}

// Truncate shortens s to at most n visible runes, ending with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}

// kvLine renders "label   value" with a dim, fixed-width label.
func kvLine(label, value string) string {
	return StyleDim.Render(fmt.Sprintf("%-9s", label)) + " " + value
}

package domain

import "fmt"

// SplitMinutes splits a non-negative minute total into hours and minutes.
// Negative totals are the caller's concern; use FormatHM to display them.
func SplitMinutes(total int) (hours, minutes int) {
	return total / 60, total % 60
}

// FormatHM renders a signed minute total as "1h 45m". Negative totals keep
// an explicit sign in front of the hours: -15 renders as "-0h 15m".
func FormatHM(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	h, m := SplitMinutes(total)
	return fmt.Sprintf("%s%dh %dm", sign, h, m)
}

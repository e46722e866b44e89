package domain

import (
	"fmt"
	"strings"
	"time"
)

// Range is a closed UTC window [Start, End] at second precision, matching
// the precision of stored timestamps.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Period names one of the canonical summary windows.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts day, week or month (plus the daily/weekly/monthly
// spellings).
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "daily", "today":
		return PeriodDay, nil
	case "week", "weekly":
		return PeriodWeek, nil
	case "month", "monthly":
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day, week or month)", s)
	}
}

// Range returns the window of p that contains ref.
func (p Period) Range(ref time.Time) Range {
	switch p {
	case PeriodWeek:
		return PayWeekRange(ref)
	case PeriodMonth:
		return MonthRange(ref)
	default:
		return DayRange(ref)
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// closeBefore returns the last stored instant before next.
func closeBefore(next time.Time) time.Time {
	return next.Add(-time.Second)
}

// DayRange is the UTC calendar day containing ref: 00:00:00 to 23:59:59.
func DayRange(ref time.Time) Range {
	start := startOfDay(ref)
	return Range{Start: start, End: closeBefore(start.AddDate(0, 0, 1))}
}

// PayWeekRange is the Saturday-to-Friday week containing ref. It starts on
// the most recent Saturday at 00:00:00 UTC (ref's own day when ref is a
// Saturday) and ends the following Friday at 23:59:59.
func PayWeekRange(ref time.Time) Range {
	day := startOfDay(ref)
	sinceSaturday := (int(day.Weekday()) - int(time.Saturday) + 7) % 7
	start := day.AddDate(0, 0, -sinceSaturday)
	return Range{Start: start, End: closeBefore(start.AddDate(0, 0, 7))}
}

// MonthRange is the UTC calendar month containing ref.
func MonthRange(ref time.Time) Range {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: closeBefore(start.AddDate(0, 1, 0))}
}

package aggregator

import (
	"time"
)

// WeekStart returns the Sunday on or before the anchor date.
func WeekStart(anchor time.Time) time.Time {
	d := dateOnly(anchor)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns the Saturday six days after the week start.
func WeekEnd(anchor time.Time) time.Time {
	return WeekStart(anchor).AddDate(0, 0, 6)
}

// MonthStart returns the first day of the calendar month containing anchor.
func MonthStart(anchor time.Time) time.Time {
	return time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of the calendar month containing anchor.
func MonthEnd(anchor time.Time) time.Time {
	return MonthStart(anchor).AddDate(0, 1, -1)
}

// dateOnly truncates a timestamp to a UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

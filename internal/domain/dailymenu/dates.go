package dailymenu

import (
	"fmt"
	"time"
)

// DayFormat is the canonical wire format for calendar days.
const DayFormat = "2006-01-02"

// NormalizeDay truncates a timestamp to midnight UTC so that two values on
// the same calendar day always compare equal regardless of clock or zone.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the canonical string form of a calendar day, suitable as a
// map key for conflict checks.
func DayKey(t time.Time) string {
	return NormalizeDay(t).Format(DayFormat)
}

// ParseDay parses a YYYY-MM-DD string into a normalized calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ExpandDateRange produces every calendar day a scheduling request covers,
// in ascending order with no duplicates. The range is inclusive on both
// ends; an empty slice is returned when to precedes from.
//
// RepeatNone yields every consecutive day. RepeatWeekly yields from plus
// every 7th day after it. RepeatMonthly anchors on from's day of month and
// skips months that do not contain that day (a January 31st series never
// lands in February).
func ExpandDateRange(from, to time.Time, pattern RepeatPattern) []time.Time {
	start := NormalizeDay(from)
	end := NormalizeDay(to)
	if end.Before(start) {
		return []time.Time{}
	}

	days := make([]time.Time, 0)
	switch pattern {
	case RepeatWeekly:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
			days = append(days, d)
		}
	case RepeatMonthly:
		anchor := start.Day()
		for k := 0; ; k++ {
			monthIndex := int(start.Month()) - 1 + k
			year := start.Year() + monthIndex/12
			month := time.Month(monthIndex%12 + 1)
			if anchor > daysInMonth(year, month) {
				// Some candidate beyond this skipped month may still fit,
				// so only stop once the first of the month passes the end.
				if time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).After(end) {
					break
				}
				continue
			}
			d := time.Date(year, month, anchor, 0, 0, 0, 0, time.UTC)
			if d.After(end) {
				break
			}
			days = append(days, d)
		}
	default: // RepeatNone
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	}
	return days
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

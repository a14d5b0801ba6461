// Package calendar provides pure business-day arithmetic over a holiday set.
package calendar

import "time"

// DateLayout is the canonical YYYY-MM-DD form used for holiday keys
const DateLayout = "2006-01-02"

// HolidaySet holds non-working dates keyed by their YYYY-MM-DD form
type HolidaySet map[string]struct{}

// NewHolidaySet builds a HolidaySet from concrete dates
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format(DateLayout)] = struct{}{}
	}
	return set
}

// Contains reports whether d is in the holiday set
func (h HolidaySet) Contains(d time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[d.Format(DateLayout)]
	return ok
}

// IsWeekend reports whether d falls on Saturday or Sunday
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether d is a working day: not a weekend and not
// in the holiday set.
func IsBusinessDay(d time.Time, holidays HolidaySet) bool {
	return !IsWeekend(d) && !holidays.Contains(d)
}

// BusinessDaysBetween counts working days strictly after start up to and
// including end. start >= end yields 0, so callers wanting an inclusive
// "days remaining counting today" figure pass start = reference date - 1 day.
func BusinessDaysBetween(start, end time.Time, holidays HolidaySet) int {
	start = truncate(start)
	end = truncate(end)
	if !start.Before(end) {
		return 0
	}
	count := 0
	for cur := start.AddDate(0, 0, 1); !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if IsBusinessDay(cur, holidays) {
			count++
		}
	}
	return count
}

// BusinessDayBefore returns the date D such that exactly n working days lie
// strictly after D and on/before deadline. n <= 0 returns deadline itself.
func BusinessDayBefore(deadline time.Time, n int, holidays HolidaySet) time.Time {
	cur := truncate(deadline)
	for remaining := n; remaining > 0; {
		cur = cur.AddDate(0, 0, -1)
		if IsBusinessDay(cur, holidays) {
			remaining--
		}
	}
	return cur
}

// truncate drops the time-of-day component, keeping the location
func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

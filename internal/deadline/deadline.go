// Package deadline derives filing due dates and reporting-period labels
// from a requirement's recurrence frequency.
package deadline

import (
	"fmt"
	"time"

	"taxmind/internal/models"
)

// Compute returns the next due date and the canonical reporting-period label
// for the given frequency, evaluated at ref. ok is false for an unrecognized
// frequency. A candidate equal to ref is still valid; only candidates
// strictly before ref roll forward.
//
// Period formats: monthly "MM/YYYY", quarterly "Qn/YYYY", yearly "YYYY".
// The period is always the reporting window the due date closes: the month
// before the due date's month, the quarter before the due date's quarter,
// or the year before the due date's year.
func Compute(freq models.Frequency, ref time.Time) (due time.Time, period string, ok bool) {
	ref = truncate(ref)

	switch freq {
	case models.Monthly:
		return monthly(ref)
	case models.Quarterly:
		return quarterly(ref)
	case models.Yearly:
		return yearly(ref)
	}
	return time.Time{}, "", false
}

// monthly filings are due on the 20th, covering the previous calendar month
func monthly(ref time.Time) (time.Time, string, bool) {
	y, m := ref.Year(), ref.Month()
	candidate := time.Date(y, m, 20, 0, 0, 0, 0, ref.Location())
	if candidate.Before(ref) {
		if m == time.December {
			y, m = y+1, time.January
		} else {
			m++
		}
		candidate = time.Date(y, m, 20, 0, 0, 0, 0, ref.Location())
	}

	pMonth, pYear := int(candidate.Month())-1, candidate.Year()
	if pMonth == 0 {
		pMonth, pYear = 12, pYear-1
	}
	return candidate, fmt.Sprintf("%02d/%d", pMonth, pYear), true
}

// quarterly filings are due at the end of the first month of the next
// quarter, covering the quarter before the due date's quarter
func quarterly(ref time.Time) (time.Time, string, bool) {
	y := ref.Year()
	currentQ := (int(ref.Month())-1)/3 + 1
	nextQ := currentQ + 1
	if nextQ == 5 {
		nextQ = 1
		y++
	}
	firstMonth := time.Month((nextQ-1)*3 + 1)
	candidate := lastDayOfMonth(y, firstMonth, ref.Location())
	if candidate.Before(ref) {
		nextQ++
		if nextQ == 5 {
			nextQ = 1
			y++
		}
		firstMonth = time.Month((nextQ-1)*3 + 1)
		candidate = lastDayOfMonth(y, firstMonth, ref.Location())
	}

	prevQ := (int(firstMonth) - 1) / 3
	prevYear := y
	if prevQ == 0 {
		prevQ, prevYear = 4, prevYear-1
	}
	return candidate, fmt.Sprintf("Q%d/%d", prevQ, prevYear), true
}

// yearly filings are due March 31 of the year after the reporting year
func yearly(ref time.Time) (time.Time, string, bool) {
	candidate := time.Date(ref.Year()+1, time.March, 31, 0, 0, 0, 0, ref.Location())
	if candidate.Before(ref) {
		candidate = time.Date(ref.Year()+2, time.March, 31, 0, 0, 0, 0, ref.Location())
	}
	return candidate, fmt.Sprintf("%d", candidate.Year()-1), true
}

func lastDayOfMonth(y int, m time.Month, loc *time.Location) time.Time {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

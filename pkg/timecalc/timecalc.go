// Package timecalc holds the pure time arithmetic of the calendar: elapsed
// hours between clock-in and clock-out, and date normalization helpers.
package timecalc

import (
	"time"

	"github.com/shopspring/decimal"
)

// ElapsedHours returns the hours between timeIn and timeOut rounded to two
// decimal places. If timeOut is an earlier clock value than timeIn the shift
// ran over midnight and timeOut is treated as the following day.
// Caller guarantees the inputs are present and distinct.
func ElapsedHours(timeIn, timeOut time.Time) float64 {
	if timeOut.Before(timeIn) {
		timeOut = timeOut.AddDate(0, 0, 1)
	}
	hours := decimal.NewFromFloat(timeOut.Sub(timeIn).Hours())
	return hours.Round(2).InexactFloat64()
}

// HoursDiff returns a-b rounded to two decimals, computed in decimal so the
// subtraction doesn't reintroduce float noise into the month totals.
func HoursDiff(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// StartOfDay normalizes t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth normalizes t to the first of its month, midnight UTC.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ShiftIntoMonth relabels t with target's year and month, preserving
// day-of-month and time-of-day. Days past the end of the target month are
// clamped to its last day.
func ShiftIntoMonth(t, target time.Time) time.Time {
	day := t.Day()
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

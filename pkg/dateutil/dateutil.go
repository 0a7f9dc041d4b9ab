// Package dateutil provides calendar arithmetic helpers shared by the
// tax calculators.
package dateutil

import "time"

// AddYears returns d shifted by the given number of years, keeping the
// same month and day. When the resulting month is shorter (Feb 29 on a
// non-leap year), the day is clamped to the last day of that month
// rather than rolling over into March, which is the behaviour the
// 8-year deemed disposal clock requires.
func AddYears(d time.Time, years int) time.Time {
	year := d.Year() + years
	month := d.Month()
	day := d.Day()

	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether the given year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// YearStart returns midnight on January 1 of the given year, UTC.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns midnight on December 31 of the given year, UTC.
func YearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package timetable

import "time"

// ISO weekdays, 1=Monday .. 7=Sunday.
const (
	Monday = 1 + iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ISOWeekday returns the ISO weekday number for t (Monday=1 .. Sunday=7).
func ISOWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return Sunday
}

// NormalizeWeekStart maps any date within a calendar week to that week's
// Monday, with the time component dropped. It is deterministic and
// idempotent: normalizing a Monday returns the same Monday.
func NormalizeWeekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(ISOWeekday(day) - 1))
}

// IsSchoolDay reports whether the ISO weekday carries lessons (Mon..Fri).
func IsSchoolDay(day int) bool {
	return day >= Monday && day <= Friday
}

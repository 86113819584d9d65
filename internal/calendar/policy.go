// Package calendar answers "how many days are left in this month" under the
// policies the shop may choose between, plus the period bounds used by reports.
package calendar

import (
	"fmt"
	"time"
)

// Policy returns the number of days, including ref itself, that still count
// toward the month containing ref. Policies are pure functions of ref.
type Policy func(ref time.Time) int

const (
	PolicyWorkdaysExcludingSunday = "workdays_excluding_sunday"
	PolicyAllCalendarDays         = "all_calendar_days"
)

// ByName resolves a configured policy name.
func ByName(name string) (Policy, error) {
	switch name {
	case PolicyWorkdaysExcludingSunday:
		return WorkdaysExcludingSunday, nil
	case PolicyAllCalendarDays:
		return AllCalendarDaysRemaining, nil
	default:
		return nil, fmt.Errorf("unknown calendar policy %q", name)
	}
}

// WorkdaysExcludingSunday counts the days from ref through the end of its month,
// inclusive, treating Monday to Saturday as workable.
func WorkdaysExcludingSunday(ref time.Time) int {
	y, m, d := ref.Date()
	last := DaysInMonth(y, m)

	count := 0
	for day := d; day <= last; day++ {
		if time.Date(y, m, day, 0, 0, 0, 0, ref.Location()).Weekday() != time.Sunday {
			count++
		}
	}
	return count
}

// AllCalendarDaysRemaining counts every day from ref through the end of its month,
// inclusive. Barbers pick their own days off, so no weekday is excluded.
func AllCalendarDaysRemaining(ref time.Time) int {
	y, m, d := ref.Date()
	return DaysInMonth(y, m) - d + 1
}

// DaysInMonth returns the number of days of month m in year y.
func DaysInMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, -1)
}

// WeekBounds returns the Sunday-to-Saturday week containing ref.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	y, m, d := ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

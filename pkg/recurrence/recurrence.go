// Package recurrence computes the next occurrence of repeating tasks and reminders.
package recurrence

import (
	"slices"
	"time"
)

// Frequency names a repetition rule.
type Frequency string

const (
	None      Frequency = "none"
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Weekdays  Frequency = "weekdays"
	Yearly    Frequency = "yearly"
)

// DateLayout is the ISO calendar date format used for due dates and stat keys.
const DateLayout = "2006-01-02"

// Options carries the extra parameters of quarterly rules.
type Options struct {
	// DayOfMonth is the target day (1-31). Zero means the day of the reference date.
	DayOfMonth int
	// StartMonth is the first quarter month (1-12). Zero means January.
	StartMonth int
}

// Valid reports whether f produces occurrences.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Weekdays, Yearly:
		return true
	default:
		return false
	}
}

// Next returns the occurrence following from. The boolean is false for none
// and unrecognized frequencies. The time of day is dropped.
func Next(freq Frequency, from time.Time, opts Options) (time.Time, bool) {
	day := truncate(from)
	switch freq {
	case Daily:
		return day.AddDate(0, 0, 1), true
	case Weekly:
		return day.AddDate(0, 0, 7), true
	case Monthly:
		return addMonths(day, 1), true
	case Yearly:
		return addMonths(day, 12), true
	case Weekdays:
		next := day.AddDate(0, 0, 1)
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
		return next, true
	case Quarterly:
		return nextQuarter(day, opts), true
	default:
		return time.Time{}, false
	}
}

// NextDate is Next over ISO date strings.
func NextDate(freq Frequency, from string, opts Options) (string, bool) {
	ref, err := ParseDate(from)
	if err != nil {
		return "", false
	}
	next, ok := Next(freq, ref, opts)
	if !ok {
		return "", false
	}
	return FormatDate(next), true
}

// ParseDate parses an ISO calendar date in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate renders t as an ISO calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func nextQuarter(from time.Time, opts Options) time.Time {
	start := opts.StartMonth
	if start < 1 || start > 12 {
		start = 1
	}
	dom := opts.DayOfMonth
	if dom < 1 || dom > 31 {
		dom = from.Day()
	}

	months := quarterMonths(start)
	current := int(from.Month())
	for _, m := range months {
		if m > current || (m == current && dom > from.Day()) {
			return dateClamped(from.Year(), time.Month(m), dom, from.Location())
		}
	}
	return dateClamped(from.Year()+1, time.Month(months[0]), dom, from.Location())
}

// quarterMonths returns the four quarter months in calendar order.
func quarterMonths(start int) []int {
	months := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		months = append(months, (start-1+3*i)%12+1)
	}
	slices.Sort(months)
	return months
}

// addMonths moves n calendar months forward, clamping the day to the end of
// the target month instead of rolling into the following one.
func addMonths(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)
	return dateClamped(year, month, t.Day(), t.Location())
}

func dateClamped(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysIn(year, month, loc); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package domain

import (
	"strconv"
	"strings"
	"time"
)

// PatternOnce marks a task that does not recur.
const PatternOnce = "once"

// Unit is the calendar unit of a recurrence interval.
type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

// legacyPatterns maps the old literal patterns onto their interval form.
var legacyPatterns = map[string]Pattern{
	"daily":   {Interval: 1, Unit: UnitDays},
	"weekly":  {Interval: 1, Unit: UnitWeeks},
	"monthly": {Interval: 1, Unit: UnitMonths},
	"yearly":  {Interval: 1, Unit: UnitYears},
}

// Pattern is a parsed "{interval}_{unit}" recurrence pattern.
// The zero value does not recur.
type Pattern struct {
	Unit     Unit
	Interval int
}

// ParsePattern parses a persisted recurrence pattern.
// It returns false for "once" and for anything it cannot parse; callers
// treat both as "does not recur".
func ParsePattern(s string) (Pattern, bool) {
	s = strings.TrimSpace(s)
	if p, ok := legacyPatterns[s]; ok {
		return p, true
	}
	if s == PatternOnce {
		return Pattern{}, false
	}

	parts := strings.Split(s, "_")
	if len(parts) != 2 {
		return Pattern{}, false
	}
	interval, err := strconv.Atoi(parts[0])
	if err != nil || interval <= 0 {
		return Pattern{}, false
	}
	unit := Unit(parts[1])
	switch unit {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
	default:
		return Pattern{}, false
	}
	return Pattern{Interval: interval, Unit: unit}, true
}

// ValidatePattern rejects patterns that are neither "once" nor parseable.
func ValidatePattern(s string) error {
	if s == "" || s == PatternOnce {
		return nil
	}
	if _, ok := ParsePattern(s); !ok {
		return ErrInvalidPattern
	}
	return nil
}

// IsRecurringPattern returns true if s describes an advancing recurrence.
func IsRecurringPattern(s string) bool {
	_, ok := ParsePattern(s)
	return ok
}

// String returns the canonical "{interval}_{unit}" form.
func (p Pattern) String() string {
	if p.Interval <= 0 {
		return PatternOnce
	}
	return strconv.Itoa(p.Interval) + "_" + string(p.Unit)
}

// Next returns the occurrence following current.
// For month and year units the day-of-month is min(anchorDay, days in the
// target month), so a series anchored on the 31st keeps returning to the 31st
// after passing through shorter months.
func (p Pattern) Next(current time.Time, anchorDay int) time.Time {
	if anchorDay < 1 || anchorDay > 31 {
		anchorDay = current.Day()
	}
	switch p.Unit {
	case UnitDays:
		return current.AddDate(0, 0, p.Interval)
	case UnitWeeks:
		return current.AddDate(0, 0, 7*p.Interval)
	case UnitMonths:
		monthIndex := int(current.Month()) - 1 + p.Interval
		year := current.Year() + monthIndex/12
		month := time.Month(monthIndex%12 + 1)
		return withDate(current, year, month, min(anchorDay, DaysIn(year, month)))
	case UnitYears:
		year := current.Year() + p.Interval
		return withDate(current, year, current.Month(), min(anchorDay, DaysIn(year, current.Month())))
	default:
		return current
	}
}

// NextOccurrence returns the occurrence after current for pattern.
// "once" and malformed patterns return current unchanged.
func NextOccurrence(current time.Time, pattern string) time.Time {
	p, ok := ParsePattern(pattern)
	if !ok {
		return current
	}
	return p.Next(current, current.Day())
}

// NextOccurrenceAnchored is NextOccurrence with an explicit anchor day used
// for month-end clamping.
func NextOccurrenceAnchored(current time.Time, pattern string, anchorDay int) time.Time {
	p, ok := ParsePattern(pattern)
	if !ok {
		return current
	}
	return p.Next(current, anchorDay)
}

// AnchorDay returns the day-of-month a template's monthly/yearly series is
// anchored to: the start date's day when set, else the next occurrence's day.
// The day is read in loc, the zone the series is scheduled in; nil keeps the
// stored zone.
func (t *Task) AnchorDay(loc *time.Location) int {
	day := func(v time.Time) int {
		if loc != nil {
			v = v.In(loc)
		}
		return v.Day()
	}
	if t.RecurrenceStartDate != nil {
		return day(*t.RecurrenceStartDate)
	}
	if t.NextOccurrence != nil {
		return day(*t.NextOccurrence)
	}
	return 0
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func withDate(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

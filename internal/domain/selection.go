package domain

import "time"

// maxSlotSearchDays bounds the slot search; four years plus a day always
// contains a Feb 29.
const maxSlotSearchDays = 4*366 + 1

// Selection constrains which days within a period are valid occurrences.
// Empty sets impose no constraint; when several sets are given a day matches
// if it matches any of them.
type Selection struct {
	WeekDays  []int      // 0 = Sunday ... 6 = Saturday
	MonthDays []int      // 1-31, clamped to the last day of shorter months
	YearDates []YearDate // month/day pairs, day clamped the same way
}

// IsEmpty returns true if no day constraint is set.
func (s Selection) IsEmpty() bool {
	return len(s.WeekDays) == 0 && len(s.MonthDays) == 0 && len(s.YearDates) == 0
}

// Validate checks that every selected value is in range.
func (s Selection) Validate() error {
	for _, d := range s.WeekDays {
		if d < 0 || d > 6 {
			return ErrInvalidSelection
		}
	}
	for _, d := range s.MonthDays {
		if d < 1 || d > 31 {
			return ErrInvalidSelection
		}
	}
	for _, yd := range s.YearDates {
		if yd.Month < 1 || yd.Month > 12 || yd.Day < 1 || yd.Day > DaysIn(2024, time.Month(yd.Month)) {
			return ErrInvalidSelection
		}
	}
	return nil
}

// Matches reports whether the calendar day of t is a selected slot.
func (s Selection) Matches(t time.Time) bool {
	if s.IsEmpty() {
		return true
	}
	last := DaysIn(t.Year(), t.Month())
	for _, wd := range s.WeekDays {
		if int(t.Weekday()) == wd {
			return true
		}
	}
	for _, md := range s.MonthDays {
		if t.Day() == min(md, last) {
			return true
		}
	}
	for _, yd := range s.YearDates {
		if int(t.Month()) == yd.Month && t.Day() == min(yd.Day, last) {
			return true
		}
	}
	return false
}

// NextSlot returns the earliest day on or after from's day that matches the
// selection, keeping from's time of day. If nothing matches within the search
// window, from is returned unchanged.
func (s Selection) NextSlot(from time.Time) time.Time {
	if s.IsEmpty() {
		return from
	}
	for i := 0; i < maxSlotSearchDays; i++ {
		day := from.AddDate(0, 0, i)
		if s.Matches(day) {
			return day
		}
	}
	return from
}

// AtExecutionTime returns day's calendar date at hour:minute in loc.
func AtExecutionTime(day time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = day.Location()
	}
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

// ValidateExecutionTime checks hour and minute ranges.
func ValidateExecutionTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidExecTime
	}
	return nil
}

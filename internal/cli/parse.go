package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
)

// parseClock parses an HH:MM execution time.
func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q (want HH:MM)", domain.ErrInvalidExecTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

// parseDate parses a YYYY-MM-DD calendar date at midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q (want YYYY-MM-DD)", domain.ErrValidation, s)
	}
	return t, nil
}

// parseYearDates parses MM-DD values such as "02-29".
func parseYearDates(values []string) ([]domain.YearDate, error) {
	dates := make([]domain.YearDate, 0, len(values))
	for _, v := range values {
		month, day, ok := strings.Cut(strings.TrimSpace(v), "-")
		if !ok {
			return nil, fmt.Errorf("%w: year date %q (want MM-DD)", domain.ErrInvalidSelection, v)
		}
		m, errM := strconv.Atoi(month)
		d, errD := strconv.Atoi(day)
		if errM != nil || errD != nil {
			return nil, fmt.Errorf("%w: year date %q (want MM-DD)", domain.ErrInvalidSelection, v)
		}
		dates = append(dates, domain.YearDate{Month: m, Day: d})
	}
	return dates, nil
}

// parseStatus validates a status given on the command line.
func parseStatus(s string) (domain.Status, error) {
	status := domain.Status(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	return status, nil
}

// parsePriority validates a priority given on the command line.
func parsePriority(s string) (domain.Priority, error) {
	p := domain.Priority(strings.TrimSpace(s))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidPriority, s)
	}
	return p.Normalize(), nil
}

// formatTime formats an optional timestamp in loc.
func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// orDash returns "-" for empty strings.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

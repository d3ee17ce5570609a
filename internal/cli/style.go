package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/hotelops/reklamacije/internal/domain"
)

// palette is the color palette for terminal output.
// lipgloss drops colors automatically when stdout is not a terminal.
var palette = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	// Status colors
	Open     lipgloss.Color
	Assigned lipgloss.Color
	Review   lipgloss.Color
	Returned lipgloss.Color
	Done     lipgloss.Color
	Closed   lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow

	Open:     lipgloss.Color("#74B9FF"), // Light blue
	Assigned: lipgloss.Color("#FDCB6E"), // Yellow
	Review:   lipgloss.Color("#A29BFE"), // Lavender
	Returned: lipgloss.Color("#E17055"), // Orange
	Done:     lipgloss.Color("#00B894"), // Green
	Closed:   lipgloss.Color("#636E72"), // Gray
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(palette.Primary)
	labelStyle   = lipgloss.NewStyle().Foreground(palette.Muted)
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(palette.Error)
	okStyle      = lipgloss.NewStyle().Foreground(palette.Success)
	warnStyle    = lipgloss.NewStyle().Foreground(palette.Warning)
)

// statusStyle returns the style for a given status.
func statusStyle(status domain.Status) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch status {
	case domain.StatusNew, domain.StatusWithSef:
		return s.Foreground(palette.Open)
	case domain.StatusAssignedToRadnik, domain.StatusWithExternal:
		return s.Foreground(palette.Assigned)
	case domain.StatusWithOperator:
		return s.Foreground(palette.Review)
	case domain.StatusReturnedToSef, domain.StatusReturnedToOperator:
		return s.Foreground(palette.Returned)
	case domain.StatusCompleted:
		return s.Foreground(palette.Done)
	case domain.StatusCancelled, domain.StatusDeleted:
		return s.Foreground(palette.Closed)
	default:
		return s
	}
}

// renderStatus renders the display name of a status in its color.
func renderStatus(status domain.Status) string {
	return statusStyle(status).Render(status.Display())
}

// renderPriority renders a priority, highlighting urgent tasks.
func renderPriority(p domain.Priority) string {
	p = p.Normalize()
	if p == domain.PriorityUrgent {
		return urgentStyle.Render("HITNO")
	}
	return string(p)
}

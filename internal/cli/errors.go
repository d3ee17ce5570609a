package cli

import (
	"github.com/hotelops/reklamacije/internal/domain"
)

// ExitMessage formats a command error for the terminal.
func ExitMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case domain.IsForbidden(err):
		return "Permission denied: " + err.Error() + " (check --as-role or [actor] role)"
	case domain.IsNotFound(err):
		return "Not found: " + err.Error()
	case domain.IsValidation(err):
		return "Invalid input: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

package domain

import "unicode/utf8"

const maxNotificationBody = 150

// NewAssignmentNotification builds the push sent to a task's recipients when
// it is assigned to them.
func NewAssignmentNotification(t *Task) Notification {
	subject := t.Location
	if subject == "" {
		subject = t.Title
	}
	detail := t.Description
	if t.Priority == PriorityUrgent {
		detail = "HITNO"
	} else if detail == "" {
		detail = "Kliknite za detalje"
	}
	return Notification{
		TaskID:     t.ID,
		Title:      "Nova reklamacija #" + t.ShortID(),
		Body:       truncate(subject+" - "+detail, maxNotificationBody),
		Priority:   t.Priority,
		Recipients: append([]string(nil), t.AssignedTo...),
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// History actions.
const (
	ActionTaskCreated   = "task_created"
	ActionStatusChanged = "status_changed"
	ActionTaskDeleted   = "task_deleted"
)

// TaskHistory is one append-only audit row for a task.
// Fields are ordered to minimize memory padding.
type TaskHistory struct {
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	ID             string    `json:"id" yaml:"id"`
	TaskID         string    `json:"taskID" yaml:"taskID"`
	UserID         string    `json:"userID" yaml:"userID"`
	UserName       string    `json:"userName" yaml:"userName"`
	UserRole       Role      `json:"userRole" yaml:"userRole"`
	Action         string    `json:"action" yaml:"action"`
	StatusFrom     Status    `json:"statusFrom,omitempty" yaml:"statusFrom,omitempty"`
	StatusTo       Status    `json:"statusTo" yaml:"statusTo"`
	Notes          string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	AssignedToName string    `json:"assignedToName,omitempty" yaml:"assignedToName,omitempty"`
	AssignedTo     []string  `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
}

// ReturnReason is a reason given when a task was returned.
type ReturnReason struct {
	Timestamp time.Time
	UserName  string
	Reason    string
}

// SortHistory orders history rows by timestamp, oldest first.
func SortHistory(h []TaskHistory) []TaskHistory {
	sorted := slices.Clone(h)
	slices.SortStableFunc(sorted, func(a, b TaskHistory) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// AssignmentPath renders the chain of people a task passed through,
// e.g. "Ana → Marko → Ana".
func AssignmentPath(history []TaskHistory) string {
	sorted := SortHistory(history)
	var names []string
	last := ""
	add := func(name string) {
		if name != "" && name != last {
			names = append(names, name)
			last = name
		}
	}

	for i, entry := range sorted {
		if entry.Action == ActionTaskCreated {
			continue
		}
		switch entry.StatusTo {
		case StatusAssignedToRadnik, StatusWithExternal:
			add(entry.UserName)
			add(entry.AssignedToName)
		case StatusReturnedToSef, StatusReturnedToOperator:
			add(entry.UserName)
			// The person who picked the task up after the return.
			for _, next := range sorted[i+1:] {
				if next.StatusTo != entry.StatusTo {
					add(next.UserName)
					break
				}
			}
		case StatusWithOperator, StatusWithSef, StatusCompleted:
			add(entry.UserName)
		}
	}
	return strings.Join(names, " → ")
}

var returnReasonRe = regexp.MustCompile(`Returned to (?:Supervisor|Operator):\s*([\s\S]+)`)

// ReturnReasons extracts the reasons recorded on returned_* transitions.
func ReturnReasons(history []TaskHistory) []ReturnReason {
	var reasons []ReturnReason
	for _, entry := range SortHistory(history) {
		if !entry.StatusTo.IsReturned() || entry.Notes == "" {
			continue
		}
		m := returnReasonRe.FindStringSubmatch(entry.Notes)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			continue
		}
		name := entry.UserName
		if name == "" {
			name = "Unknown"
		}
		reasons = append(reasons, ReturnReason{
			Timestamp: entry.Timestamp,
			UserName:  name,
			Reason:    strings.TrimSpace(m[1]),
		})
	}
	return reasons
}

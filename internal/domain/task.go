// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strings"
	"time"
)

// Priority represents how urgently a task should be handled.
type Priority string

const (
	PriorityUrgent  Priority = "urgent"
	PriorityNormal  Priority = "normal"
	PriorityCanWait Priority = "can_wait"

	// priorityLowLegacy is accepted on input and normalized to can_wait.
	priorityLowLegacy Priority = "low"
)

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityNormal, PriorityCanWait, priorityLowLegacy:
		return true
	default:
		return false
	}
}

// Normalize maps legacy values onto their current names.
func (p Priority) Normalize() Priority {
	if p == priorityLowLegacy {
		return PriorityCanWait
	}
	if p == "" {
		return PriorityNormal
	}
	return p
}

// YearDate is a month/day pair selecting a day within a year.
type YearDate struct {
	Month int `json:"month" yaml:"month"` // 1-12
	Day   int `json:"day" yaml:"day"`     // 1-31
}

// Task represents a maintenance task ("reklamacija").
// A task with IsRecurring set and no ParentTaskID is a template that generates
// child instances; a task with ParentTaskID set is a materialized child.
type Task struct {
	Created                time.Time  `json:"created" yaml:"created"`
	Updated                time.Time  `json:"updated" yaml:"updated"`
	RecurrenceStartDate    *time.Time `json:"recurrenceStartDate,omitempty" yaml:"recurrenceStartDate,omitempty"`
	NextOccurrence         *time.Time `json:"nextOccurrence,omitempty" yaml:"nextOccurrence,omitempty"`
	ScheduledFor           *time.Time `json:"scheduledFor,omitempty" yaml:"scheduledFor,omitempty"`
	CompletedAt            *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	ReceiptConfirmedAt     *time.Time `json:"receiptConfirmedAt,omitempty" yaml:"receiptConfirmedAt,omitempty"`
	ParentTaskID           *string    `json:"parentTaskID,omitempty" yaml:"parentTaskID,omitempty"`
	ID                     string     `json:"id" yaml:"-"`
	Title                  string     `json:"title" yaml:"title"`
	Description            string     `json:"description" yaml:"description"`
	Location               string     `json:"location" yaml:"location"`
	RoomNumber             string     `json:"roomNumber,omitempty" yaml:"roomNumber,omitempty"`
	Priority               Priority   `json:"priority" yaml:"priority"`
	Status                 Status     `json:"status" yaml:"status"`
	CreatedBy              string     `json:"createdBy" yaml:"createdBy"`
	CreatedByName          string     `json:"createdByName" yaml:"createdByName"`
	CreatedByDepartment    string     `json:"createdByDepartment,omitempty" yaml:"createdByDepartment,omitempty"`
	AssignedToName         string     `json:"assignedToName,omitempty" yaml:"assignedToName,omitempty"`
	ExternalCompanyName    string     `json:"externalCompanyName,omitempty" yaml:"externalCompanyName,omitempty"`
	RecurrencePattern      string     `json:"recurrencePattern,omitempty" yaml:"recurrencePattern,omitempty"`
	WorkerReport           string     `json:"workerReport,omitempty" yaml:"workerReport,omitempty"`
	CompletedBy            string     `json:"completedBy,omitempty" yaml:"completedBy,omitempty"`
	CompletedByName        string     `json:"completedByName,omitempty" yaml:"completedByName,omitempty"`
	ReceiptConfirmedBy     string     `json:"receiptConfirmedBy,omitempty" yaml:"receiptConfirmedBy,omitempty"`
	ReceiptConfirmedByName string     `json:"receiptConfirmedByName,omitempty" yaml:"receiptConfirmedByName,omitempty"`
	AssignedTo             []string   `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
	RecurrenceWeekDays     []int      `json:"recurrenceWeekDays,omitempty" yaml:"recurrenceWeekDays,omitempty"`
	RecurrenceMonthDays    []int      `json:"recurrenceMonthDays,omitempty" yaml:"recurrenceMonthDays,omitempty"`
	RecurrenceYearDates    []YearDate `json:"recurrenceYearDates,omitempty" yaml:"recurrenceYearDates,omitempty"`
	WorkerImages           []string   `json:"workerImages,omitempty" yaml:"workerImages,omitempty"`
	Images                 []string   `json:"images,omitempty" yaml:"images,omitempty"`
	ExecutionHour          int        `json:"executionHour" yaml:"executionHour"`
	ExecutionMinute        int        `json:"executionMinute" yaml:"executionMinute"`
	IsRecurring            bool       `json:"isRecurring" yaml:"isRecurring"`
}

// IsTemplate returns true if the task generates recurring child instances.
func (t *Task) IsTemplate() bool {
	return t.IsRecurring && t.ParentTaskID == nil
}

// IsChild returns true if the task was materialized from a template.
func (t *Task) IsChild() bool {
	return t.ParentTaskID != nil
}

// IsFinalized returns true if the task reached a terminal status.
func (t *Task) IsFinalized() bool {
	return t.Status.IsTerminal()
}

// IsAssignedTo returns true if userID is one of the task's recipients.
func (t *Task) IsAssignedTo(userID string) bool {
	return slices.Contains(t.AssignedTo, userID)
}

// Selection returns the day-selection constraints of the task.
func (t *Task) Selection() Selection {
	return Selection{
		WeekDays:  t.RecurrenceWeekDays,
		MonthDays: t.RecurrenceMonthDays,
		YearDates: t.RecurrenceYearDates,
	}
}

// ShortID returns the first eight characters of the ID for display.
func (t *Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.RecurrenceStartDate = cloneTime(t.RecurrenceStartDate)
	c.NextOccurrence = cloneTime(t.NextOccurrence)
	c.ScheduledFor = cloneTime(t.ScheduledFor)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.ReceiptConfirmedAt = cloneTime(t.ReceiptConfirmedAt)
	if t.ParentTaskID != nil {
		id := *t.ParentTaskID
		c.ParentTaskID = &id
	}
	c.AssignedTo = slices.Clone(t.AssignedTo)
	c.RecurrenceWeekDays = slices.Clone(t.RecurrenceWeekDays)
	c.RecurrenceMonthDays = slices.Clone(t.RecurrenceMonthDays)
	c.RecurrenceYearDates = slices.Clone(t.RecurrenceYearDates)
	c.WorkerImages = slices.Clone(t.WorkerImages)
	c.Images = slices.Clone(t.Images)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NormalizeRecipients trims whitespace, drops empty entries and duplicates,
// preserving the first-seen order.
func NormalizeRecipients(ids []string) []string {
	var out []string
	for _, id := range ids {
		id = strings.Join(strings.Fields(id), "")
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// ParseRecipients splits a comma-joined recipient list.
func ParseRecipients(s string) []string {
	return NormalizeRecipients(strings.Split(s, ","))
}

// JoinRecipients joins recipients into the comma-separated persisted form.
func JoinRecipients(ids []string) string {
	return strings.Join(ids, ",")
}

// SameRecipients reports whether both lists name the same recipients in the same order.
func SameRecipients(a, b []string) bool {
	return slices.Equal(NormalizeRecipients(a), NormalizeRecipients(b))
}

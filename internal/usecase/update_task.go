package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase/shared"
)

// UpdateTaskInput contains the parameters for mutating a task.
// Nil pointers leave the corresponding field unchanged.
// Fields are ordered to minimize memory padding.
type UpdateTaskInput struct {
	Status              *domain.Status
	AssignedTo          *[]string // Empty slice clears the assignment
	AssignedToName      *string
	WorkerReport        *string
	WorkerImages        *[]string
	ExternalCompanyName *string

	// Supervisor-only task details.
	Title       *string
	Description *string
	Location    *string
	RoomNumber  *string
	Priority    *domain.Priority
	Images      *[]string

	// Supervisor-only recurrence configuration.
	IsRecurring         *bool
	RecurrencePattern   *string
	RecurrenceStartDate *time.Time
	WeekDays            *[]int
	MonthDays           *[]int
	YearDates           *[]domain.YearDate
	ExecutionHour       *int
	ExecutionMinute     *int

	Actor          domain.Actor
	TaskID         string
	ConfirmReceipt bool // Assigned worker acknowledges the task
}

func (in UpdateTaskInput) editsDetails() bool {
	return in.Title != nil || in.Description != nil || in.Location != nil ||
		in.RoomNumber != nil || in.Priority != nil || in.Images != nil
}

func (in UpdateTaskInput) editsRecurrence() bool {
	return in.IsRecurring != nil || in.RecurrencePattern != nil || in.RecurrenceStartDate != nil ||
		in.WeekDays != nil || in.MonthDays != nil || in.YearDates != nil ||
		in.ExecutionHour != nil || in.ExecutionMinute != nil
}

func (in UpdateTaskInput) isEmpty() bool {
	return in.Status == nil && in.AssignedTo == nil && in.AssignedToName == nil &&
		in.WorkerReport == nil && in.WorkerImages == nil && in.ExternalCompanyName == nil &&
		!in.ConfirmReceipt && !in.editsDetails() && !in.editsRecurrence()
}

// UpdateTaskOutput contains the result of a task mutation.
type UpdateTaskOutput struct {
	Task    *domain.Task
	History *domain.TaskHistory
}

// UpdateTask applies a mutation to a task under the lifecycle rules: role
// restrictions, the status transition table, receipt and completion stamps,
// and one history row per call.
type UpdateTask struct {
	tasks    domain.TaskRepository
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(tasks domain.TaskRepository, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *UpdateTask {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &UpdateTask{
		tasks:    tasks,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Execute validates and applies the mutation. Authorization and validation
// failures leave the stored task untouched.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrMissingActor
	}
	if in.isEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorize(task, in); err != nil {
		return nil, err
	}
	if err := validateUpdate(task, in); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := task.Status
	to := from
	if in.Status != nil {
		to = *in.Status
	}

	if in.ConfirmReceipt {
		task.ReceiptConfirmedAt = &now
		task.ReceiptConfirmedBy = in.Actor.ID
		task.ReceiptConfirmedByName = in.Actor.Name
	}

	assignmentChanged := false
	if in.AssignedTo != nil {
		next := domain.NormalizeRecipients(*in.AssignedTo)
		assignmentChanged = !domain.SameRecipients(task.AssignedTo, next)
		task.AssignedTo = next
		if len(next) == 0 {
			task.AssignedToName = ""
		}
	}
	if in.AssignedToName != nil {
		task.AssignedToName = *in.AssignedToName
	}
	if assignmentChanged {
		clearReceipt(task)
	}

	task.Status = to
	if from == domain.StatusAssignedToRadnik && to != from && to != domain.StatusCompleted {
		clearReceipt(task)
	}
	switch {
	case to == domain.StatusCompleted && from != domain.StatusCompleted:
		task.CompletedAt = &now
		task.CompletedBy = in.Actor.ID
		task.CompletedByName = in.Actor.Name
	case from == domain.StatusCompleted && to != domain.StatusCompleted:
		task.CompletedAt = nil
		task.CompletedBy = ""
		task.CompletedByName = ""
	}

	if in.WorkerReport != nil && *in.WorkerReport != "" {
		task.WorkerReport = *in.WorkerReport
	}
	if in.WorkerImages != nil {
		task.WorkerImages = *in.WorkerImages
	}
	if in.ExternalCompanyName != nil {
		task.ExternalCompanyName = *in.ExternalCompanyName
	}

	applyDetails(task, in)
	applyRecurrence(task, in, now)
	task.Updated = now

	if err := uc.tasks.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	entry := shared.HistoryEntry{
		Actor:          in.Actor,
		Action:         domain.ActionStatusChanged,
		From:           from,
		To:             to,
		Notes:          historyNote(in),
		AssignedTo:     task.AssignedTo,
		AssignedToName: task.AssignedToName,
	}
	row, err := shared.RecordHistory(ctx, uc.tasks, now, task.ID, entry)
	if err != nil {
		return nil, err
	}

	if from != to {
		uc.logger.Info(task.ID, "status", fmt.Sprintf("%s -> %s by %s", from, to, in.Actor.Name))
	} else {
		uc.logger.Info(task.ID, "task", "updated by "+in.Actor.Name)
	}

	if in.AssignedTo != nil && len(task.AssignedTo) > 0 && notifiesAssignees(task.Status) {
		uc.notifier.Publish(ctx, domain.NewAssignmentNotification(task))
	}
	return &UpdateTaskOutput{Task: task, History: row}, nil
}

func (uc *UpdateTask) authorize(task *domain.Task, in UpdateTaskInput) error {
	if (in.editsDetails() || in.editsRecurrence()) && !in.Actor.Role.IsSupervisor() {
		return domain.ErrSupervisorOnly
	}
	if in.ConfirmReceipt && !task.IsAssignedTo(in.Actor.ID) {
		return domain.ErrNotAssignedWorker
	}
	return nil
}

func validateUpdate(task *domain.Task, in UpdateTaskInput) error {
	if in.Status != nil {
		if !in.Status.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
		}
		if !task.Status.CanTransition(*in.Status, in.Actor.Role) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, task.Status, *in.Status)
		}
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return domain.ErrEmptyDescription
	}
	if in.Location != nil && strings.TrimSpace(*in.Location) == "" {
		return domain.ErrEmptyLocation
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *in.Priority)
	}

	if !in.editsRecurrence() {
		return nil
	}
	if task.IsChild() {
		return domain.ErrChildRecurrence
	}
	if in.RecurrencePattern != nil {
		if err := domain.ValidatePattern(*in.RecurrencePattern); err != nil {
			return fmt.Errorf("%w: %q", err, *in.RecurrencePattern)
		}
	}
	sel := task.Selection()
	if in.WeekDays != nil {
		sel.WeekDays = *in.WeekDays
	}
	if in.MonthDays != nil {
		sel.MonthDays = *in.MonthDays
	}
	if in.YearDates != nil {
		sel.YearDates = *in.YearDates
	}
	if err := sel.Validate(); err != nil {
		return err
	}
	hour, minute := task.ExecutionHour, task.ExecutionMinute
	if in.ExecutionHour != nil {
		hour = *in.ExecutionHour
	}
	if in.ExecutionMinute != nil {
		minute = *in.ExecutionMinute
	}
	return domain.ValidateExecutionTime(hour, minute)
}

func applyDetails(task *domain.Task, in UpdateTaskInput) {
	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Location != nil {
		task.Location = strings.TrimSpace(*in.Location)
	}
	if in.RoomNumber != nil {
		task.RoomNumber = *in.RoomNumber
	}
	if in.Priority != nil {
		task.Priority = in.Priority.Normalize()
	}
	if in.Images != nil {
		task.Images = *in.Images
	}
}

// applyRecurrence updates the recurrence configuration and keeps
// next_occurrence consistent with it: nil when the task does not recur,
// seeded from the start date (or now) when recurrence is switched on.
func applyRecurrence(task *domain.Task, in UpdateTaskInput, now time.Time) {
	if !in.editsRecurrence() {
		return
	}
	wasRecurring := task.IsRecurring && domain.IsRecurringPattern(task.RecurrencePattern)

	if in.IsRecurring != nil {
		task.IsRecurring = *in.IsRecurring
	}
	if in.RecurrencePattern != nil {
		task.RecurrencePattern = strings.TrimSpace(*in.RecurrencePattern)
		if task.RecurrencePattern == "" {
			task.RecurrencePattern = domain.PatternOnce
		}
	}
	if in.RecurrenceStartDate != nil {
		start := *in.RecurrenceStartDate
		task.RecurrenceStartDate = &start
	}
	if in.WeekDays != nil {
		task.RecurrenceWeekDays = *in.WeekDays
	}
	if in.MonthDays != nil {
		task.RecurrenceMonthDays = *in.MonthDays
	}
	if in.YearDates != nil {
		task.RecurrenceYearDates = *in.YearDates
	}
	if in.ExecutionHour != nil {
		task.ExecutionHour = *in.ExecutionHour
	}
	if in.ExecutionMinute != nil {
		task.ExecutionMinute = *in.ExecutionMinute
	}

	recurring := task.IsRecurring && domain.IsRecurringPattern(task.RecurrencePattern)
	switch {
	case !recurring:
		task.NextOccurrence = nil
	case in.RecurrenceStartDate != nil:
		start := *in.RecurrenceStartDate
		task.NextOccurrence = &start
	case !wasRecurring || task.NextOccurrence == nil:
		seed := now
		if task.RecurrenceStartDate != nil && task.RecurrenceStartDate.After(now) {
			seed = *task.RecurrenceStartDate
		}
		if task.RecurrenceStartDate == nil {
			start := seed
			task.RecurrenceStartDate = &start
		}
		task.NextOccurrence = &seed
	}
}

// historyNote picks the note for the history row. Receipt confirmation wins
// over a worker report, which wins over an assignment change.
func historyNote(in UpdateTaskInput) string {
	if in.ConfirmReceipt {
		return "Receipt confirmed by " + in.Actor.Name
	}
	if in.WorkerReport != nil && *in.WorkerReport != "" && in.Status != nil {
		switch *in.Status {
		case domain.StatusCompleted:
			return "Completed: " + *in.WorkerReport
		case domain.StatusReturnedToSef:
			return "Returned to Supervisor: " + *in.WorkerReport
		case domain.StatusReturnedToOperator:
			return "Returned to Operator: " + *in.WorkerReport
		}
	}
	if in.AssignedTo != nil {
		if len(domain.NormalizeRecipients(*in.AssignedTo)) == 0 {
			return "Cleared technician assignment"
		}
		name := "technician(s)"
		if in.AssignedToName != nil && *in.AssignedToName != "" {
			name = *in.AssignedToName
		}
		return "Assigned to " + name
	}
	return ""
}

func clearReceipt(t *domain.Task) {
	t.ReceiptConfirmedAt = nil
	t.ReceiptConfirmedBy = ""
	t.ReceiptConfirmedByName = ""
}

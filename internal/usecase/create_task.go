package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase/shared"
)

// CreateTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	RecurrenceStartDate *time.Time        // First occurrence (optional, nil = now)
	Actor               domain.Actor      // Creator (required)
	Title               string            // Task title (required)
	Description         string            // Task description (required)
	Location            string            // Where the work is (required)
	RoomNumber          string            // Room number (optional)
	Department          string            // Creator's department (optional)
	Priority            domain.Priority   // Priority (optional, default normal)
	Status              domain.Status     // Initial status (optional, default new)
	AssignedToName      string            // Display names of the assignees
	ExternalCompanyName string            // External contractor (optional)
	RecurrencePattern   string            // "once", "{n}_{unit}" or a legacy literal
	AssignedTo          []string          // Recipient IDs (optional)
	Images              []string          // Image URLs (optional)
	WeekDays            []int             // Selected weekdays, 0 = Sunday
	MonthDays           []int             // Selected days of month
	YearDates           []domain.YearDate // Selected dates of year
	ExecutionHour       int               // Time of day children are scheduled at
	ExecutionMinute     int
	IsRecurring         bool // Create a recurring template
}

// CreateTaskOutput contains the result of creating a task.
type CreateTaskOutput struct {
	Task         *domain.Task
	ChildCreated bool // A first child was materialized for a recurring template
}

// CreateTask is the use case for creating a task or a recurring template.
type CreateTask struct {
	tasks     domain.TaskRepository
	notifier  domain.Notifier
	clock     domain.Clock
	logger    domain.Logger
	recurring *ProcessRecurring
}

// NewCreateTask creates a new CreateTask use case.
// recurring may be nil, in which case templates wait for the next processor run.
func NewCreateTask(
	tasks domain.TaskRepository,
	notifier domain.Notifier,
	clock domain.Clock,
	logger domain.Logger,
	recurring *ProcessRecurring,
) *CreateTask {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &CreateTask{
		tasks:     tasks,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
		recurring: recurring,
	}
}

// Execute validates the input, stores the task and its creation history row.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	task, err := uc.buildTask(in)
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	_, err = shared.RecordHistory(ctx, uc.tasks, task.Created, task.ID, shared.HistoryEntry{
		Actor:          in.Actor,
		Action:         domain.ActionTaskCreated,
		To:             task.Status,
		Notes:          task.Description,
		AssignedTo:     task.AssignedTo,
		AssignedToName: task.AssignedToName,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(task.ID, "task", fmt.Sprintf("created %q by %s", task.Title, in.Actor.Name))

	out := &CreateTaskOutput{Task: task}
	if task.IsTemplate() {
		out.ChildCreated = uc.ensureChildren(ctx, task)
		return out, nil
	}

	if len(task.AssignedTo) > 0 && notifiesAssignees(task.Status) {
		uc.notifier.Publish(ctx, domain.NewAssignmentNotification(task))
	}
	return out, nil
}

// ensureChildren materializes the first occurrence of a new template.
// Failures are logged; the template itself was created successfully.
func (uc *CreateTask) ensureChildren(ctx context.Context, task *domain.Task) bool {
	if uc.recurring == nil || task.NextOccurrence == nil {
		return false
	}
	created, err := uc.recurring.EnsureChildTasksExist(ctx, task)
	if err != nil {
		uc.logger.Error(task.ID, "recurring", "ensure child tasks: "+err.Error())
		return false
	}
	return created
}

func (uc *CreateTask) buildTask(in CreateTaskInput) (*domain.Task, error) {
	if in.Actor.ID == "" || in.Actor.Name == "" {
		return nil, domain.ErrMissingCreator
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.ErrEmptyDescription
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, domain.ErrEmptyLocation
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, in.Priority)
	}
	status := in.Status
	if status == "" {
		status = domain.StatusNew
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	pattern := strings.TrimSpace(in.RecurrencePattern)
	if pattern == "" || !in.IsRecurring {
		pattern = domain.PatternOnce
	}
	if err := domain.ValidatePattern(pattern); err != nil {
		return nil, fmt.Errorf("%w: %q", err, in.RecurrencePattern)
	}
	sel := domain.Selection{WeekDays: in.WeekDays, MonthDays: in.MonthDays, YearDates: in.YearDates}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateExecutionTime(in.ExecutionHour, in.ExecutionMinute); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	task := &domain.Task{
		ID:                  shared.NewID(),
		Title:               title,
		Description:         in.Description,
		Location:            location,
		RoomNumber:          in.RoomNumber,
		Priority:            in.Priority.Normalize(),
		Status:              status,
		CreatedBy:           in.Actor.ID,
		CreatedByName:       in.Actor.Name,
		CreatedByDepartment: in.Department,
		AssignedTo:          domain.NormalizeRecipients(in.AssignedTo),
		AssignedToName:      in.AssignedToName,
		ExternalCompanyName: in.ExternalCompanyName,
		Images:              in.Images,
		IsRecurring:         in.IsRecurring,
		RecurrencePattern:   pattern,
		RecurrenceStartDate: in.RecurrenceStartDate,
		RecurrenceWeekDays:  in.WeekDays,
		RecurrenceMonthDays: in.MonthDays,
		RecurrenceYearDates: in.YearDates,
		ExecutionHour:       in.ExecutionHour,
		ExecutionMinute:     in.ExecutionMinute,
		Created:             now,
		Updated:             now,
	}
	if in.IsRecurring && pattern != domain.PatternOnce {
		next := now
		if in.RecurrenceStartDate != nil {
			next = *in.RecurrenceStartDate
		} else {
			// The first occurrence anchors the series' day-of-month.
			start := next
			task.RecurrenceStartDate = &start
		}
		task.NextOccurrence = &next
	}
	return task, nil
}

// notifiesAssignees reports whether entering status should alert the assignees.
func notifiesAssignees(s domain.Status) bool {
	return s == domain.StatusAssignedToRadnik || s == domain.StatusWithSef
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
)

// CreateTasksFromFileInput contains the parameters for creating tasks from a file.
type CreateTasksFromFileInput struct {
	Actor   domain.Actor // Creator of every task
	Content string       // File content (Markdown with frontmatter)
	DryRun  bool         // If true, parse and validate without creating tasks
}

// CreateTasksFromFileOutput contains the result of creating tasks from a file.
type CreateTasksFromFileOutput struct {
	Tasks []*domain.Task // Created tasks (or tasks that would be created in dry-run mode)
}

// CreateTasksFromFile is the use case for creating tasks from a file.
type CreateTasksFromFile struct {
	create *CreateTask
	loc    *time.Location
}

// NewCreateTasksFromFile creates a new CreateTasksFromFile use case.
// Start dates in the file are read in loc.
func NewCreateTasksFromFile(create *CreateTask, loc *time.Location) *CreateTasksFromFile {
	if loc == nil {
		loc = time.Local
	}
	return &CreateTasksFromFile{create: create, loc: loc}
}

// Execute creates tasks from the given file content. Every draft is parsed and validated
// before the first task is created, so a malformed file creates nothing.
func (uc *CreateTasksFromFile) Execute(ctx context.Context, in CreateTasksFromFileInput) (*CreateTasksFromFileOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	inputs := make([]CreateTaskInput, 0, len(drafts))
	preview := make([]*domain.Task, 0, len(drafts))
	for i, draft := range drafts {
		ci, err := uc.toInput(draft, in.Actor)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		task, err := uc.create.buildTask(ci)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		inputs = append(inputs, ci)
		preview = append(preview, task)
	}

	if in.DryRun {
		return &CreateTasksFromFileOutput{Tasks: preview}, nil
	}

	result := &CreateTasksFromFileOutput{Tasks: make([]*domain.Task, 0, len(inputs))}
	for i, ci := range inputs {
		out, err := uc.create.Execute(ctx, ci)
		if err != nil {
			return result, fmt.Errorf("task %d: %w", i+1, err)
		}
		result.Tasks = append(result.Tasks, out.Task)
	}
	return result, nil
}

func (uc *CreateTasksFromFile) toInput(d domain.TaskDraft, actor domain.Actor) (CreateTaskInput, error) {
	hour, minute, err := d.ExecutionTime()
	if err != nil {
		return CreateTaskInput{}, err
	}
	start, err := d.StartDate(uc.loc)
	if err != nil {
		return CreateTaskInput{}, err
	}
	recurring := domain.IsRecurringPattern(d.Recurrence)
	if d.Recurrence != "" && !recurring && d.Recurrence != domain.PatternOnce {
		return CreateTaskInput{}, fmt.Errorf("%w: %q", domain.ErrInvalidPattern, d.Recurrence)
	}
	status := domain.StatusNew
	if len(d.AssignedTo) > 0 {
		status = domain.StatusAssignedToRadnik
	}
	return CreateTaskInput{
		Actor:               actor,
		Status:              status,
		Title:               d.Title,
		Description:         d.Description,
		Location:            d.Location,
		RoomNumber:          d.Room,
		Priority:            domain.Priority(d.Priority),
		AssignedTo:          d.AssignedTo,
		IsRecurring:         recurring,
		RecurrencePattern:   d.Recurrence,
		RecurrenceStartDate: start,
		WeekDays:            d.WeekDays,
		MonthDays:           d.MonthDays,
		ExecutionHour:       hour,
		ExecutionMinute:     minute,
	}, nil
}

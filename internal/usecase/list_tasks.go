package usecase

import (
	"context"
	"fmt"

	"github.com/hotelops/reklamacije/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	ParentID        *string       // Filter by template ID (nil = all tasks)
	Actor           domain.Actor  // Used by Mine
	Status          domain.Status // Filter by status (empty = any)
	Mine            bool          // Only tasks assigned to Actor
	TemplatesOnly   bool          // Only recurring templates
	IncludeTerminal bool          // Include completed and cancelled tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task // Tasks matching the filter, newest first
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{
		tasks: tasks,
	}
}

// Execute lists tasks matching the given input criteria.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}
	if in.Mine && in.Actor.IsZero() {
		return nil, domain.ErrMissingActor
	}

	filter := domain.TaskFilter{
		ParentID:      in.ParentID,
		Status:        in.Status,
		TemplatesOnly: in.TemplatesOnly,
	}
	if in.Mine {
		filter.AssignedTo = in.Actor.ID
	}

	tasks, err := uc.tasks.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	// An explicit status filter wins over the terminal filter.
	if !in.IncludeTerminal && in.Status == "" {
		tasks = filterActiveOnly(tasks)
	}
	return &ListTasksOutput{Tasks: tasks}, nil
}

func filterActiveOnly(tasks []*domain.Task) []*domain.Task {
	active := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsFinalized() {
			active = append(active, t)
		}
	}
	return active
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Actor  domain.Actor // Must be a supervisor or admin
	TaskID string       // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	DeletedChildIDs []string // Pending children removed with a template
}

// DeleteTask is the use case for deleting a task.
// Deleting a recurring template also deletes its unfinished children;
// completed and cancelled children are kept.
type DeleteTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *DeleteTask {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &DeleteTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute deletes a task with the given ID.
// Each removal first appends a task_deleted history row.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if !in.Actor.Role.IsSupervisor() {
		return nil, domain.ErrSupervisorOnly
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := &DeleteTaskOutput{}

	if task.IsTemplate() {
		children, err := uc.tasks.GetChildTasksByParentID(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("get child tasks: %w", err)
		}
		for _, child := range children {
			if child.IsFinalized() {
				continue
			}
			note := "Child task auto-deleted due to recurring template deletion by " + in.Actor.Name
			if err := uc.remove(ctx, child, in.Actor, now, note); err != nil {
				return out, err
			}
			out.DeletedChildIDs = append(out.DeletedChildIDs, child.ID)
		}
	}

	note := "Task deleted by " + in.Actor.Name
	switch {
	case task.IsTemplate():
		note += fmt.Sprintf(" (recurring template, %d future tasks deleted)", len(out.DeletedChildIDs))
	case task.IsChild():
		note += " (recurring instance)"
	}
	if err := uc.remove(ctx, task, in.Actor, now, note); err != nil {
		return out, err
	}
	return out, nil
}

func (uc *DeleteTask) remove(ctx context.Context, task *domain.Task, actor domain.Actor, now time.Time, note string) error {
	_, err := shared.RecordHistory(ctx, uc.tasks, now, task.ID, shared.HistoryEntry{
		Actor:          actor,
		Action:         domain.ActionTaskDeleted,
		From:           task.Status,
		To:             domain.StatusDeleted,
		Notes:          note,
		AssignedTo:     task.AssignedTo,
		AssignedToName: task.AssignedToName,
	})
	if err != nil {
		return err
	}
	if err := uc.tasks.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	// History rows go with the task; the log keeps the audit line.
	uc.logger.Info(task.ID, "task", note)
	return nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task ID (required)
}

// ShowTaskOutput contains the result of showing a task.
type ShowTaskOutput struct {
	Task     *domain.Task   // The task details
	Parent   *domain.Task   // Template a child was generated from
	Children []*domain.Task // Generated instances of a template
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	tasks domain.TaskRepository
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository) *ShowTask {
	return &ShowTask{
		tasks: tasks,
	}
}

// Execute retrieves and returns the task details.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	out := &ShowTaskOutput{Task: task}

	if task.IsTemplate() {
		children, err := uc.tasks.GetChildTasksByParentID(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("get children: %w", err)
		}
		out.Children = children
	}

	// A missing parent is not an error; the template may have been deleted.
	if task.IsChild() {
		parent, err := uc.tasks.GetTaskByID(ctx, *task.ParentTaskID)
		if err != nil {
			return nil, fmt.Errorf("get parent: %w", err)
		}
		out.Parent = parent
	}
	return out, nil
}

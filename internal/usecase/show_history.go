package usecase

import (
	"context"
	"fmt"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase/shared"
)

// ShowHistoryInput contains the parameters for showing a task's history.
type ShowHistoryInput struct {
	TaskID string
}

// ShowHistoryOutput contains the audit trail of a task.
type ShowHistoryOutput struct {
	AssignmentPath string                // e.g. "Ana → Marko → Ana"
	History        []domain.TaskHistory  // Oldest first
	ReturnReasons  []domain.ReturnReason // Reasons given on returned_* transitions
}

// ShowHistory is the use case for displaying a task's history.
type ShowHistory struct {
	tasks domain.TaskRepository
}

// NewShowHistory creates a new ShowHistory use case.
func NewShowHistory(tasks domain.TaskRepository) *ShowHistory {
	return &ShowHistory{tasks: tasks}
}

// Execute loads the history and derives the assignment path and return reasons.
func (uc *ShowHistory) Execute(ctx context.Context, in ShowHistoryInput) (*ShowHistoryOutput, error) {
	if _, err := shared.GetTask(ctx, uc.tasks, in.TaskID); err != nil {
		return nil, err
	}

	history, err := uc.tasks.GetTaskHistory(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("get task history: %w", err)
	}
	history = domain.SortHistory(history)

	return &ShowHistoryOutput{
		History:        history,
		AssignmentPath: domain.AssignmentPath(history),
		ReturnReasons:  domain.ReturnReasons(history),
	}, nil
}

package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/reklamacije/internal/domain"
)

// NewID returns a fresh identifier for tasks and history rows.
func NewID() string {
	return uuid.NewString()
}

// HistoryEntry describes a history row before it is stamped and stored.
type HistoryEntry struct {
	Actor          domain.Actor
	Action         string
	From           domain.Status
	To             domain.Status
	Notes          string
	AssignedToName string
	AssignedTo     []string
}

// RecordHistory appends a history row for taskID written by e.Actor at now
// and returns the stored row.
func RecordHistory(ctx context.Context, repo domain.TaskRepository, now time.Time, taskID string, e HistoryEntry) (*domain.TaskHistory, error) {
	row := &domain.TaskHistory{
		ID:             NewID(),
		TaskID:         taskID,
		Timestamp:      now,
		UserID:         e.Actor.ID,
		UserName:       e.Actor.Name,
		UserRole:       e.Actor.Role,
		Action:         e.Action,
		StatusFrom:     e.From,
		StatusTo:       e.To,
		Notes:          e.Notes,
		AssignedToName: e.AssignedToName,
		AssignedTo:     e.AssignedTo,
	}
	if err := repo.CreateTaskHistory(ctx, row); err != nil {
		return nil, fmt.Errorf("create task history: %w", err)
	}
	return row, nil
}

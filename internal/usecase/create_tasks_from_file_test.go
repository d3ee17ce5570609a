package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/testutil"
	"github.com/hotelops/reklamacije/internal/usecase"
)

const batchFile = `---
title: Leaking tap
location: Villa 3
room: "12"
priority: urgent
assigned_to: [u-1, u-2]
---
Bathroom tap drips constantly.

---
title: Pool filter check
location: Pool
recurrence: 7_days
start: 2025-04-01
at: "07:30"
week_days: [1]
---
Weekly backwash.
`

func newCreateTasksFromFile(repo domain.TaskRepository) *usecase.CreateTasksFromFile {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	return usecase.NewCreateTasksFromFile(newCreateTask(repo, nil, now), time.UTC)
}

func TestCreateTasksFromFile_Success(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	uc := newCreateTasksFromFile(repo)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.CreateTasksFromFileInput{
		Actor:   operator,
		Content: batchFile,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)

	tap := repo.Task(out.Tasks[0].ID)
	assert.Equal(t, "Leaking tap", tap.Title)
	assert.Equal(t, "12", tap.RoomNumber)
	assert.Equal(t, domain.PriorityUrgent, tap.Priority)
	assert.Equal(t, domain.StatusAssignedToRadnik, tap.Status)
	assert.Equal(t, []string{"u-1", "u-2"}, tap.AssignedTo)
	assert.Equal(t, "Bathroom tap drips constantly.", tap.Description)

	pool := repo.Task(out.Tasks[1].ID)
	assert.True(t, pool.IsTemplate())
	assert.Equal(t, "7_days", pool.RecurrencePattern)
	assert.Equal(t, 7, pool.ExecutionHour)
	assert.Equal(t, 30, pool.ExecutionMinute)
	assert.Equal(t, []int{1}, pool.RecurrenceWeekDays)
	require.NotNil(t, pool.NextOccurrence)
	assert.True(t, pool.NextOccurrence.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.StatusNew, pool.Status)
}

func TestCreateTasksFromFile_DryRun(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	uc := newCreateTasksFromFile(repo)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.CreateTasksFromFileInput{
		Actor:   operator,
		Content: batchFile,
		DryRun:  true,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	assert.Equal(t, "Pool filter check", out.Tasks[1].Title)
	assert.Empty(t, repo.Tasks)
}

func TestCreateTasksFromFile_InvalidDraftCreatesNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "bad time in second task",
			content: batchFile + "\n---\ntitle: Lamp\nlocation: Lobby\nat: \"25:00\"\n---\nFlickers.\n",
			wantErr: domain.ErrInvalidExecTime,
			wantMsg: "task 3",
		},
		{
			name:    "missing description",
			content: "---\ntitle: Lamp\nlocation: Lobby\n---\n",
			wantErr: domain.ErrEmptyDescription,
			wantMsg: "task 1",
		},
		{
			name:    "unknown recurrence",
			content: "---\ntitle: Lamp\nlocation: Lobby\nrecurrence: fortnightly\n---\nCheck.\n",
			wantErr: domain.ErrInvalidPattern,
			wantMsg: "task 1",
		},
		{
			name:    "empty file",
			content: "  \n",
			wantErr: domain.ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			uc := newCreateTasksFromFile(repo)

			// Execute
			_, err := uc.Execute(context.Background(), usecase.CreateTasksFromFileInput{
				Actor:   operator,
				Content: tt.content,
			})

			// Assert
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, repo.Tasks)
		})
	}
}

package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/testutil"
)

func TestGetTask(t *testing.T) {
	t.Run("returns task when found", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		repo.Put(&domain.Task{ID: "t-1", Title: "Leaking tap"})

		task, err := GetTask(context.Background(), repo, "t-1")

		require.NoError(t, err)
		assert.Equal(t, "Leaking tap", task.Title)
	})

	t.Run("returns ErrTaskNotFound when missing", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()

		task, err := GetTask(context.Background(), repo, "nope")

		assert.Nil(t, task)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository()
		repo.GetErr = errors.New("disk on fire")

		_, err := GetTask(context.Background(), repo, "t-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "get task: disk on fire")
	})
}

func TestRecordHistory(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	actor := domain.Actor{ID: "u-1", Name: "Ana", Role: domain.RoleSef}

	// Execute
	row, err := RecordHistory(context.Background(), repo, now, "t-1", HistoryEntry{
		Actor:  actor,
		Action: domain.ActionStatusChanged,
		From:   domain.StatusNew,
		To:     domain.StatusWithSef,
		Notes:  "routed",
	})

	// Assert
	require.NoError(t, err)
	rows := repo.History["t-1"]
	require.Len(t, rows, 1)
	assert.Equal(t, *row, rows[0])
	assert.NotEmpty(t, rows[0].ID)
	assert.Equal(t, "Ana", rows[0].UserName)
	assert.Equal(t, domain.RoleSef, rows[0].UserRole)
	assert.Equal(t, domain.StatusNew, rows[0].StatusFrom)
	assert.True(t, rows[0].Timestamp.Equal(now))
}

func TestRecordHistory_Error(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.HistoryErr = errors.New("locked")

	_, err := RecordHistory(context.Background(), repo, time.Now(), "t-1", HistoryEntry{})

	assert.ErrorContains(t, err, "create task history: locked")
}

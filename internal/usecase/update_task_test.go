package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/testutil"
	"github.com/hotelops/reklamacije/internal/usecase"
)

var (
	sef      = domain.Actor{ID: "u-sef", Name: "Petar", Role: domain.RoleSef}
	operator = domain.Actor{ID: "u-op", Name: "Ivana", Role: domain.RoleOperater}
	worker   = domain.Actor{ID: "u-1", Name: "Marko", Role: domain.RoleRadnik}
)

func ptr[T any](v T) *T { return &v }

func newAssignedTask(id string) *domain.Task {
	created := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:             id,
		Title:          "Leaking tap",
		Description:    "Bathroom tap drips",
		Location:       "Villa 3",
		RoomNumber:     "12",
		Priority:       domain.PriorityNormal,
		Status:         domain.StatusAssignedToRadnik,
		CreatedBy:      operator.ID,
		CreatedByName:  operator.Name,
		AssignedTo:     []string{"u-1"},
		AssignedToName: "Marko",
		Created:        created,
		Updated:        created,
	}
}

func newUpdateTask(repo domain.TaskRepository, notifier domain.Notifier) (*usecase.UpdateTask, *testutil.MockClock) {
	clock := &testutil.MockClock{NowTime: time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)}
	return usecase.NewUpdateTask(repo, notifier, clock, nil), clock
}

func TestUpdateTask_ConfirmReceipt(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	uc, clock := newUpdateTask(repo, nil)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:          worker,
		TaskID:         "task-1",
		ConfirmReceipt: true,
	})

	// Assert
	require.NoError(t, err)
	stored := repo.Task("task-1")
	require.NotNil(t, stored.ReceiptConfirmedAt)
	assert.True(t, stored.ReceiptConfirmedAt.Equal(clock.NowTime))
	assert.Equal(t, "u-1", stored.ReceiptConfirmedBy)
	assert.Equal(t, "Marko", stored.ReceiptConfirmedByName)
	assert.Equal(t, "Receipt confirmed by Marko", out.History.Notes)
}

func TestUpdateTask_ConfirmReceipt_NotAssigned(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	uc, _ := newUpdateTask(repo, nil)
	other := domain.Actor{ID: "u-2", Name: "Luka", Role: domain.RoleRadnik}

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:          other,
		TaskID:         "task-1",
		ConfirmReceipt: true,
	})

	// Assert
	require.ErrorIs(t, err, domain.ErrNotAssignedWorker)
	assert.True(t, domain.IsForbidden(err))
	assert.Nil(t, repo.Task("task-1").ReceiptConfirmedAt)
	assert.Zero(t, repo.HistoryWrites)
}

func TestUpdateTask_AssignmentChangeClearsReceipt(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := newAssignedTask("task-1")
	confirmed := time.Date(2025, time.March, 1, 11, 0, 0, 0, time.UTC)
	task.ReceiptConfirmedAt = &confirmed
	task.ReceiptConfirmedBy = "u-1"
	task.ReceiptConfirmedByName = "Marko"
	repo.Put(task)
	notifier := &testutil.MockNotifier{}
	uc, _ := newUpdateTask(repo, notifier)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:          sef,
		TaskID:         "task-1",
		AssignedTo:     ptr([]string{"u-2"}),
		AssignedToName: ptr("Luka"),
	})

	// Assert
	require.NoError(t, err)
	stored := repo.Task("task-1")
	assert.Nil(t, stored.ReceiptConfirmedAt)
	assert.Empty(t, stored.ReceiptConfirmedBy)
	assert.Empty(t, stored.ReceiptConfirmedByName)
	assert.Equal(t, []string{"u-2"}, stored.AssignedTo)
	assert.Equal(t, "Assigned to Luka", out.History.Notes)

	sent := notifier.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"u-2"}, sent[0].Recipients)
}

func TestUpdateTask_SameAssignmentKeepsReceipt(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := newAssignedTask("task-1")
	confirmed := time.Date(2025, time.March, 1, 11, 0, 0, 0, time.UTC)
	task.ReceiptConfirmedAt = &confirmed
	repo.Put(task)
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:      sef,
		TaskID:     "task-1",
		AssignedTo: ptr([]string{" u-1 ", "u-1"}),
	})

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, repo.Task("task-1").ReceiptConfirmedAt)
}

func TestUpdateTask_LeavingAssignedClearsReceipt(t *testing.T) {
	tests := []struct {
		name      string
		target    domain.Status
		wantClear bool
	}{
		{"to with_operator", domain.StatusWithOperator, true},
		{"to returned_to_sef", domain.StatusReturnedToSef, true},
		{"to completed", domain.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			task := newAssignedTask("task-1")
			confirmed := time.Date(2025, time.March, 1, 11, 0, 0, 0, time.UTC)
			task.ReceiptConfirmedAt = &confirmed
			task.ReceiptConfirmedBy = "u-1"
			repo.Put(task)
			uc, _ := newUpdateTask(repo, nil)

			// Execute
			_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
				Actor:  worker,
				TaskID: "task-1",
				Status: ptr(tt.target),
			})

			// Assert
			require.NoError(t, err)
			stored := repo.Task("task-1")
			assert.Equal(t, tt.target, stored.Status)
			if tt.wantClear {
				assert.Nil(t, stored.ReceiptConfirmedAt)
				assert.Empty(t, stored.ReceiptConfirmedBy)
			} else {
				assert.NotNil(t, stored.ReceiptConfirmedAt)
			}
		})
	}
}

func TestUpdateTask_CompletedStampsAndCorrectionClears(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	uc, clock := newUpdateTask(repo, nil)
	ctx := context.Background()

	// Execute
	_, err := uc.Execute(ctx, usecase.UpdateTaskInput{
		Actor:        worker,
		TaskID:       "task-1",
		Status:       ptr(domain.StatusCompleted),
		WorkerReport: ptr("Replaced the washer"),
	})
	require.NoError(t, err)
	completed := repo.Task("task-1")

	clock.Advance(time.Hour)
	out, err := uc.Execute(ctx, usecase.UpdateTaskInput{
		Actor:  sef,
		TaskID: "task-1",
		Status: ptr(domain.StatusWithOperator),
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, "u-1", completed.CompletedBy)
	assert.Equal(t, "Marko", completed.CompletedByName)
	assert.Equal(t, "Replaced the washer", completed.WorkerReport)

	reopened := repo.Task("task-1")
	assert.Equal(t, domain.StatusWithOperator, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
	assert.Empty(t, reopened.CompletedBy)
	assert.Empty(t, reopened.CompletedByName)
	assert.Equal(t, domain.StatusCompleted, out.History.StatusFrom)
	assert.Equal(t, domain.StatusWithOperator, out.History.StatusTo)
}

func TestUpdateTask_TerminalStatusRejectedForNonSupervisor(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := newAssignedTask("task-1")
	task.Status = domain.StatusCompleted
	repo.Put(task)
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:  operator,
		TaskID: "task-1",
		Status: ptr(domain.StatusWithOperator),
	})

	// Assert
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.StatusCompleted, repo.Task("task-1").Status)
	assert.Empty(t, repo.Updated)
}

func TestUpdateTask_UnknownStatus(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:  sef,
		TaskID: "task-1",
		Status: ptr(domain.Status("in_progress")),
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateTask_RestrictedFieldsRequireSupervisor(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.UpdateTaskInput
	}{
		{"title", usecase.UpdateTaskInput{Title: ptr("New title")}},
		{"priority", usecase.UpdateTaskInput{Priority: ptr(domain.PriorityUrgent)}},
		{"images", usecase.UpdateTaskInput{Images: ptr([]string{"a.jpg"})}},
		{"pattern", usecase.UpdateTaskInput{RecurrencePattern: ptr("2_weeks")}},
		{"execution hour", usecase.UpdateTaskInput{ExecutionHour: ptr(7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			repo.Put(newAssignedTask("task-1"))
			uc, _ := newUpdateTask(repo, nil)
			in := tt.input
			in.Actor = worker
			in.TaskID = "task-1"
			in.Status = ptr(domain.StatusWithOperator)

			// Execute
			_, err := uc.Execute(context.Background(), in)

			// Assert
			require.ErrorIs(t, err, domain.ErrSupervisorOnly)
			stored := repo.Task("task-1")
			assert.Equal(t, domain.StatusAssignedToRadnik, stored.Status)
			assert.Equal(t, "Leaking tap", stored.Title)
			assert.Zero(t, repo.HistoryWrites)
		})
	}
}

func TestUpdateTask_SupervisorEditsDetails(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:    sef,
		TaskID:   "task-1",
		Title:    ptr("  Leaking tap and shower  "),
		Priority: ptr(domain.Priority("can_wait")),
	})

	// Assert
	require.NoError(t, err)
	stored := repo.Task("task-1")
	assert.Equal(t, "Leaking tap and shower", stored.Title)
	assert.Equal(t, domain.PriorityCanWait, stored.Priority)
	assert.Equal(t, domain.StatusAssignedToRadnik, out.History.StatusFrom)
	assert.Equal(t, domain.StatusAssignedToRadnik, out.History.StatusTo)
	assert.Equal(t, domain.ActionStatusChanged, out.History.Action)
}

func TestUpdateTask_HistoryNotePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.UpdateTaskInput
		want  string
	}{
		{
			name: "receipt wins over report and assignment",
			input: usecase.UpdateTaskInput{
				Actor:          worker,
				ConfirmReceipt: true,
				WorkerReport:   ptr("On it"),
				Status:         ptr(domain.StatusReturnedToSef),
				AssignedTo:     ptr([]string{"u-1"}),
			},
			want: "Receipt confirmed by Marko",
		},
		{
			name: "report wins over assignment",
			input: usecase.UpdateTaskInput{
				Actor:        sef,
				WorkerReport: ptr("Needs a plumber"),
				Status:       ptr(domain.StatusReturnedToOperator),
				AssignedTo:   ptr([]string{}),
			},
			want: "Returned to Operator: Needs a plumber",
		},
		{
			name: "returned to supervisor",
			input: usecase.UpdateTaskInput{
				Actor:        worker,
				WorkerReport: ptr("Part missing"),
				Status:       ptr(domain.StatusReturnedToSef),
			},
			want: "Returned to Supervisor: Part missing",
		},
		{
			name: "cleared assignment",
			input: usecase.UpdateTaskInput{
				Actor:      sef,
				Status:     ptr(domain.StatusWithSef),
				AssignedTo: ptr([]string{}),
			},
			want: "Cleared technician assignment",
		},
		{
			name: "assignment without names",
			input: usecase.UpdateTaskInput{
				Actor:      sef,
				AssignedTo: ptr([]string{"u-3"}),
			},
			want: "Assigned to technician(s)",
		},
		{
			name: "plain status change",
			input: usecase.UpdateTaskInput{
				Actor:  worker,
				Status: ptr(domain.StatusWithOperator),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			repo.Put(newAssignedTask("task-1"))
			uc, _ := newUpdateTask(repo, nil)
			in := tt.input
			in.TaskID = "task-1"

			// Execute
			out, err := uc.Execute(context.Background(), in)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.History.Notes)
			assert.Len(t, repo.History["task-1"], 1)
		})
	}
}

func TestUpdateTask_NoFields(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{Actor: sef, TaskID: "task-1"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestUpdateTask_MissingActor(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		TaskID: "task-1",
		Status: ptr(domain.StatusWithSef),
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrMissingActor)
}

func TestUpdateTask_NotFound(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:  sef,
		TaskID: "missing",
		Status: ptr(domain.StatusWithSef),
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTask_PersistenceErrorPropagates(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	repo.UpdateErr = errors.New("disk full")
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:  worker,
		TaskID: "task-1",
		Status: ptr(domain.StatusWithOperator),
	})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update task")
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, repo.HistoryWrites)
}

func TestUpdateTask_UpdatedWithoutHistoryOnHistoryFailure(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newAssignedTask("task-1"))
	repo.HistoryErr = errors.New("history table locked")
	uc, _ := newUpdateTask(repo, nil)

	// Execute
	_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
		Actor:  worker,
		TaskID: "task-1",
		Status: ptr(domain.StatusWithOperator),
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, domain.StatusWithOperator, repo.Task("task-1").Status)
	assert.Empty(t, repo.History["task-1"])
}

func TestUpdateTask_NotifiesOnAssignment(t *testing.T) {
	tests := []struct {
		name   string
		status domain.Status
		want   int
	}{
		{"assigned", domain.StatusAssignedToRadnik, 1},
		{"with supervisor", domain.StatusWithSef, 1},
		{"with operator", domain.StatusWithOperator, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			repo.Put(newAssignedTask("task-1"))
			notifier := &testutil.MockNotifier{}
			uc, _ := newUpdateTask(repo, notifier)

			// Execute
			_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
				Actor:      sef,
				TaskID:     "task-1",
				Status:     ptr(tt.status),
				AssignedTo: ptr([]string{"u-2", "u-3"}),
			})

			// Assert
			require.NoError(t, err)
			assert.Len(t, notifier.Notifications(), tt.want)
		})
	}
}

func TestUpdateTask_Recurrence(t *testing.T) {
	now := time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)

	t.Run("switching to once clears next occurrence", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		repo.Put(newTemplate("tmpl-1", "1_weeks", now.AddDate(0, 0, 3)))
		uc, _ := newUpdateTask(repo, nil)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:             sef,
			TaskID:            "tmpl-1",
			RecurrencePattern: ptr(domain.PatternOnce),
		})

		// Assert
		require.NoError(t, err)
		stored := repo.Task("tmpl-1")
		assert.Equal(t, domain.PatternOnce, stored.RecurrencePattern)
		assert.Nil(t, stored.NextOccurrence)
	})

	t.Run("enabling recurrence seeds next occurrence", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		task := newAssignedTask("task-1")
		task.RecurrencePattern = domain.PatternOnce
		repo.Put(task)
		uc, _ := newUpdateTask(repo, nil)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:             sef,
			TaskID:            "task-1",
			IsRecurring:       ptr(true),
			RecurrencePattern: ptr("1_months"),
		})

		// Assert
		require.NoError(t, err)
		stored := repo.Task("task-1")
		require.NotNil(t, stored.NextOccurrence)
		assert.True(t, stored.NextOccurrence.Equal(now))
		assert.True(t, stored.IsTemplate())
	})

	t.Run("enabling recurrence anchors monthly series on its first day", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		task := newAssignedTask("task-1")
		task.RecurrencePattern = domain.PatternOnce
		repo.Put(task)
		uc, clock := newUpdateTask(repo, nil)
		seed := time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC)
		clock.NowTime = seed

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:             sef,
			TaskID:            "task-1",
			IsRecurring:       ptr(true),
			RecurrencePattern: ptr("1_months"),
		})
		require.NoError(t, err)
		for _, run := range []time.Time{
			time.Date(2025, time.January, 31, 11, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 11, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 31, 11, 0, 0, 0, time.UTC),
		} {
			clock.NowTime = run
			_, err := newProcessor(repo, clock, nil, nil).Execute(context.Background(), usecase.ProcessRecurringInput{Actor: admin})
			require.NoError(t, err)
		}

		// Assert
		stored := repo.Task("task-1")
		require.NotNil(t, stored.RecurrenceStartDate)
		assert.True(t, stored.RecurrenceStartDate.Equal(seed))
		assert.True(t, stored.NextOccurrence.Equal(time.Date(2025, time.April, 30, 10, 0, 0, 0, time.UTC)))

		var days []string
		for _, c := range repo.Children("task-1") {
			days = append(days, c.ScheduledFor.Format("2006-01-02"))
		}
		assert.ElementsMatch(t, []string{"2025-01-31", "2025-02-28", "2025-03-31"}, days)
	})

	t.Run("new start date becomes next occurrence", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		repo.Put(newTemplate("tmpl-1", "1_weeks", now.AddDate(0, 0, 3)))
		uc, _ := newUpdateTask(repo, nil)
		start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:               sef,
			TaskID:              "tmpl-1",
			RecurrenceStartDate: &start,
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, repo.Task("tmpl-1").NextOccurrence.Equal(start))
	})

	t.Run("pattern change keeps pending next occurrence", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		next := now.AddDate(0, 0, 3)
		repo.Put(newTemplate("tmpl-1", "1_weeks", next))
		uc, _ := newUpdateTask(repo, nil)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:             sef,
			TaskID:            "tmpl-1",
			RecurrencePattern: ptr("2_weeks"),
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, repo.Task("tmpl-1").NextOccurrence.Equal(next))
	})

	t.Run("malformed pattern rejected", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		repo.Put(newTemplate("tmpl-1", "1_weeks", now))
		uc, _ := newUpdateTask(repo, nil)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:             sef,
			TaskID:            "tmpl-1",
			RecurrencePattern: ptr("every_tuesday"),
		})

		// Assert
		assert.ErrorIs(t, err, domain.ErrInvalidPattern)
		assert.Equal(t, "1_weeks", repo.Task("tmpl-1").RecurrencePattern)
	})

	t.Run("child recurrence rejected", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		child := newAssignedTask("child-1")
		parent := "tmpl-1"
		child.ParentTaskID = &parent
		repo.Put(child)
		uc, _ := newUpdateTask(repo, nil)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:    sef,
			TaskID:   "child-1",
			WeekDays: ptr([]int{1, 3}),
		})

		// Assert
		assert.ErrorIs(t, err, domain.ErrChildRecurrence)
	})

	t.Run("execution time out of range", func(t *testing.T) {
		// Setup
		repo := testutil.NewMockTaskRepository()
		repo.Put(newTemplate("tmpl-1", "1_weeks", now))
		uc, _ := newUpdateTask(repo, nil)

		// Execute
		_, err := uc.Execute(context.Background(), usecase.UpdateTaskInput{
			Actor:         sef,
			TaskID:        "tmpl-1",
			ExecutionHour: ptr(24),
		})

		// Assert
		assert.ErrorIs(t, err, domain.ErrInvalidExecTime)
	})
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/testutil"
)

func TestUpdateCommand_Assign(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newTask("t-1", "Leaking tap", domain.StatusWithSef))
	container := newTestContainer(repo)
	notifier := container.Notifier.(*testutil.MockNotifier)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t-1", "--status", "assigned_to_radnik", "--assign", "w1", "--assign-name", "Marko"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Updated task t-1")
	assert.Contains(t, buf.String(), "Assigned to Marko")

	task := repo.Task("t-1")
	assert.Equal(t, domain.StatusAssignedToRadnik, task.Status)
	assert.Equal(t, []string{"w1"}, task.AssignedTo)
	assert.Equal(t, "Marko", task.AssignedToName)

	sent := notifier.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"w1"}, sent[0].Recipients)

	history := repo.History["t-1"]
	require.Len(t, history, 1)
	assert.Equal(t, "Ana", history[0].UserName)
	assert.Equal(t, domain.StatusWithSef, history[0].StatusFrom)
}

func TestUpdateCommand_Unassign(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := newTask("t-1", "Leaking tap", domain.StatusWithSef)
	task.AssignedTo = []string{"w1"}
	task.AssignedToName = "Marko"
	repo.Put(task)

	cmd := newUpdateCommand(newTestContainer(repo))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t-1", "--unassign"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Cleared technician assignment")
	got := repo.Task("t-1")
	assert.Empty(t, got.AssignedTo)
	assert.Empty(t, got.AssignedToName)
}

func TestUpdateCommand_WorkerReturnsTask(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := newTask("t-1", "Leaking tap", domain.StatusAssignedToRadnik)
	task.AssignedTo = []string{"w1"}
	repo.Put(task)
	container := newTestContainer(repo)
	actAs(container, "w1", "Marko", domain.RoleRadnik)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t-1", "--status", "returned_to_sef", "--report", "Needs a spare part"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Returned to Supervisor: Needs a spare part")
	got := repo.Task("t-1")
	assert.Equal(t, domain.StatusReturnedToSef, got.Status)
	assert.Equal(t, "Needs a spare part", got.WorkerReport)
}

func TestUpdateCommand_ConfirmReceipt(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task := newTask("t-1", "Leaking tap", domain.StatusAssignedToRadnik)
	task.AssignedTo = []string{"w1"}
	repo.Put(task)
	container := newTestContainer(repo)
	actAs(container, "w1", "Marko", domain.RoleRadnik)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t-1", "--confirm-receipt"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Receipt confirmed by Marko")
	got := repo.Task("t-1")
	require.NotNil(t, got.ReceiptConfirmedAt)
	assert.True(t, got.ReceiptConfirmedAt.Equal(testNow))
	assert.Equal(t, "w1", got.ReceiptConfirmedBy)
}

func TestUpdateCommand_EditTemplateRecurrence(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	tmpl := newTask("tmpl-1", "Pool filters", domain.StatusNew)
	next := testNow
	tmpl.IsRecurring = true
	tmpl.RecurrencePattern = "1_months"
	tmpl.NextOccurrence = &next
	repo.Put(tmpl)

	cmd := newUpdateCommand(newTestContainer(repo))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"tmpl-1", "--month-day", "15", "--at", "07:45"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	got := repo.Task("tmpl-1")
	assert.Equal(t, []int{15}, got.RecurrenceMonthDays)
	assert.Equal(t, 7, got.ExecutionHour)
	assert.Equal(t, 45, got.ExecutionMinute)
	assert.Equal(t, "1_months", got.RecurrencePattern)
}

func TestUpdateCommand_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		role    domain.Role
		args    []string
	}{
		{name: "details need a supervisor", role: domain.RoleRadnik, args: []string{"t-1", "--title", "New"}, wantErr: domain.ErrForbidden},
		{name: "unknown status", role: domain.RoleSef, args: []string{"t-1", "--status", "finished"}, wantErr: domain.ErrInvalidStatus},
		{name: "nothing to change", role: domain.RoleSef, args: []string{"t-1"}, wantErr: domain.ErrNoFieldsToUpdate},
		{name: "unknown task", role: domain.RoleSef, args: []string{"missing", "--status", "with_sef"}, wantErr: domain.ErrTaskNotFound},
		{name: "bad priority", role: domain.RoleSef, args: []string{"t-1", "--priority", "asap"}, wantErr: domain.ErrInvalidPriority},
		{name: "bad start", role: domain.RoleSef, args: []string{"t-1", "--start", "10.03.2025"}, wantErr: domain.ErrValidation},
		{name: "receipt by someone else", role: domain.RoleRadnik, args: []string{"t-1", "--confirm-receipt"}, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := testutil.NewMockTaskRepository()
			task := newTask("t-1", "Leaking tap", domain.StatusAssignedToRadnik)
			task.AssignedTo = []string{"w1"}
			repo.Put(task)
			container := newTestContainer(repo)
			actAs(container, "w2", "Ivan", tt.role)

			cmd := newUpdateCommand(container)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			// Execute
			err := cmd.Execute()

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.History["t-1"], "failed updates write no history")
		})
	}
}

func TestUpdateCommand_ConflictingFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "assign and unassign", args: []string{"t-1", "--assign", "w1", "--unassign"}},
		{name: "recurring and no-recurring", args: []string{"t-1", "--recurring", "1_days", "--no-recurring"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			repo.Put(newTask("t-1", "Leaking tap", domain.StatusWithSef))
			cmd := newUpdateCommand(newTestContainer(repo))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot use")
		})
	}
}

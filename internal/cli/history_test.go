package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/testutil"
)

func TestHistoryCommand(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	repo.Put(newTask("t-1", "Leaking tap", domain.StatusReturnedToSef))
	repo.History["t-1"] = []domain.TaskHistory{
		{
			ID: "h3", TaskID: "t-1", Timestamp: testNow.Add(2 * time.Hour),
			UserID: "w1", UserName: "Marko", UserRole: domain.RoleRadnik,
			Action: domain.ActionStatusChanged, StatusFrom: domain.StatusAssignedToRadnik, StatusTo: domain.StatusReturnedToSef,
			Notes: "Returned to Supervisor: Needs a spare part",
		},
		{
			ID: "h1", TaskID: "t-1", Timestamp: testNow,
			UserID: "op-1", UserName: "Ivana", UserRole: domain.RoleOperater,
			Action: domain.ActionTaskCreated, StatusTo: domain.StatusNew, Notes: "Tap drips\nin room 214",
		},
		{
			ID: "h2", TaskID: "t-1", Timestamp: testNow.Add(time.Hour),
			UserID: "sef-1", UserName: "Ana", UserRole: domain.RoleSef,
			Action: domain.ActionStatusChanged, StatusFrom: domain.StatusNew, StatusTo: domain.StatusAssignedToRadnik,
			AssignedTo: []string{"w1"}, AssignedToName: "Marko", Notes: "Assigned to Marko",
		},
	}

	cmd := newHistoryCommand(newTestContainer(repo))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t-1"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "TIME")
	assert.Contains(t, output, "Tap drips ...")
	assert.Contains(t, output, "new → assigned_to_radnik")
	assert.Contains(t, output, "Ana → Marko")
	assert.Contains(t, output, "Marko: Needs a spare part")

	// Oldest first
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Ivana")), bytes.Index(buf.Bytes(), []byte("Assigned to Marko")))
}

func TestHistoryCommand_Empty(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Put(newTask("t-1", "Leaking tap", domain.StatusNew))
	cmd := newHistoryCommand(newTestContainer(repo))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"t-1"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "No history\n", buf.String())
}

func TestHistoryCommand_NotFound(t *testing.T) {
	cmd := newHistoryCommand(newTestContainer(testutil.NewMockTaskRepository()))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"missing"})

	err := cmd.Execute()

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

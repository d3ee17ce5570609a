//go:build integration

package gitstore

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/reklamacije/internal/domain"
)

// run executes a command and fails the test if it errors.
func run(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "command failed: %s %v\noutput: %s", name, args, out)
	return string(out)
}

func TestIntegration_Open_CreatesBareRepo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tasks.git")

	store, err := Open(dir, "")
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))

	out := run(t, dir, "git", "rev-parse", "--is-bare-repository")
	assert.Equal(t, "true", strings.TrimSpace(out))
}

func TestIntegration_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "tasks.git")

	store1, err := Open(dir, "reklamacije-test")
	require.NoError(t, err)
	require.NoError(t, store1.Initialize(ctx))
	require.NoError(t, store1.CreateTask(ctx, newTemplate("t1")))
	require.NoError(t, store1.CreateTask(ctx, newChild("c1", "t1", base)))
	require.NoError(t, store1.CreateTaskHistory(ctx, &domain.TaskHistory{
		ID: "h1", TaskID: "c1", Action: domain.ActionTaskCreated, StatusTo: domain.StatusWithSef, Timestamp: base,
	}))

	// Simulate a process restart
	store2, err := Open(dir, "reklamacije-test")
	require.NoError(t, err)

	assert.True(t, store2.IsInitialized(ctx))
	got, err := store2.GetChildByParentAndDate(ctx, "t1", base)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)

	history, err := store2.GetTaskHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 1)

	// Refs are plain git refs, visible to the git CLI.
	refs := run(t, dir, "git", "for-each-ref", "--format=%(refname)", "refs/reklamacije-test/")
	assert.Contains(t, refs, "refs/reklamacije-test/tasks/t1")
	assert.Contains(t, refs, "refs/reklamacije-test/history/c1")
	assert.Contains(t, refs, "refs/reklamacije-test/children/t1/")

	blob := run(t, dir, "git", "cat-file", "-p", "refs/reklamacije-test/tasks/t1")
	assert.Contains(t, blob, "title: Replace filters")
}

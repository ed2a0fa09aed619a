package root

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questboard/internal/storage"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("QUESTBOARD_CONFIG", "")
	t.Setenv("QUESTBOARD_STORE", "sqlite")
	t.Setenv("QUESTBOARD_DB", path)
	t.Setenv("QUESTBOARD_OWNER", "cli-test")
	t.Setenv("QUESTBOARD_TZ", "UTC")
	t.Setenv("QUESTBOARD_SEED", "7")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func storedTasks(t *testing.T, path string) []storage.Task {
	t.Helper()
	db, err := storage.OpenSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()
	tasks, err := db.ListTasks(context.Background(), "cli-test")
	require.NoError(t, err)
	return tasks
}

func TestCLIAddListDo(t *testing.T) {
	path := setupEnv(t)

	out, err := run(t, "add", "Write", "report", "-p", "high", "--due", "2030-01-02", "--tags", "work, q1", "-e", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "worth 40 XP")

	_, err = run(t, "add", "Water plants", "-p", "low")
	require.NoError(t, err)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2030-01-02")
	assert.Contains(t, out, "#work #q1")

	out, err = run(t, "list", "--tag", "work")
	require.NoError(t, err)
	assert.NotContains(t, out, "Water plants")

	tasks := storedTasks(t, path)
	require.Len(t, tasks, 2)
	var id string
	for _, task := range tasks {
		if task.Title == "Write report" {
			id = task.ID
		}
	}

	out, err = run(t, "do", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "+40 XP")

	out, err = run(t, "do", id)
	require.NoError(t, err)
	assert.Contains(t, out, "already done")

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "40 / 60")
	assert.Contains(t, out, "First Clear")

	out, err = run(t, "restore", id)
	require.NoError(t, err)
	assert.Contains(t, out, "-40 XP")
}

func TestCLIQuestsAndClaim(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "claim", "daily_1_high")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not complete")

	_, err = run(t, "add", "Boss fight", "-p", "h")
	require.NoError(t, err)
	out, err := run(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, "Boss fight")

	out, err = run(t, "quests")
	require.NoError(t, err)
	assert.Contains(t, out, "daily_1_high")
	assert.Contains(t, out, "locked")
}

func TestCLIGoalClearTags(t *testing.T) {
	path := setupEnv(t)

	out, err := run(t, "goal", "900")
	require.NoError(t, err)
	assert.Contains(t, out, "500 XP")

	out, err = run(t, "goal")
	require.NoError(t, err)
	assert.Contains(t, out, "500 XP")

	out, err = run(t, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to clear")

	_, err = run(t, "add", "a", "--tags", "zeta,alpha")
	require.NoError(t, err)
	out, err = run(t, "tags")
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("alpha")), bytes.Index([]byte(out), []byte("zeta")))

	id := storedTasks(t, path)[0].ID
	_, err = run(t, "do", id)
	require.NoError(t, err)
	out, err = run(t, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "1 completed")
	assert.Empty(t, storedTasks(t, path))
}

func TestCLIRejectsBadInput(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "add")
	assert.Error(t, err)
	_, err = run(t, "add", "x", "-p", "urgent")
	assert.Error(t, err)
	_, err = run(t, "add", "x", "--due", "tomorrow")
	assert.Error(t, err)
	_, err = run(t, "list", "--due", "soon")
	assert.Error(t, err)
	_, err = run(t, "rm", "ffffffff")
	assert.Error(t, err)
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questboard/internal/calendar"
)

const owner = "owner-1"

func gateways(t *testing.T) map[string]Gateway {
	t.Helper()
	ctx := context.Background()

	sq, err := OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]Gateway{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func defaultSettings() Settings {
	return Settings{DailyGoalXP: 60, Claimed: map[string]ClaimRecord{}}
}

func intPtr(v int) *int { return &v }

func TestGatewayTaskLifecycle(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			due, err := calendar.ParseDate("2024-06-01")
			require.NoError(t, err)

			created, err := gw.CreateTask(ctx, owner, TaskInsert{
				Title:           "Write report",
				Priority:        "HIGH",
				DueDate:         &due,
				Tags:            []string{"work", "q2"},
				EstimateMinutes: intPtr(45),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.False(t, created.Done)
			assert.Nil(t, created.DoneAt)
			assert.False(t, created.CreatedAt.IsZero())

			_, err = gw.CreateTask(ctx, "someone-else", TaskInsert{Title: "Not mine", Priority: "LOW"})
			require.NoError(t, err)

			list, err := gw.ListTasks(ctx, owner)
			require.NoError(t, err)
			require.Len(t, list, 1)
			got := list[0]
			assert.Equal(t, "Write report", got.Title)
			assert.Equal(t, "HIGH", got.Priority)
			assert.Equal(t, []string{"work", "q2"}, got.Tags)
			require.NotNil(t, got.DueDate)
			assert.Equal(t, "2024-06-01", calendar.DueKey(*got.DueDate))
			require.NotNil(t, got.EstimateMinutes)
			assert.Equal(t, 45, *got.EstimateMinutes)

			doneAt := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
			require.NoError(t, gw.UpdateTask(ctx, got.ID, TaskPatch{Done: true, DoneAt: &doneAt}))
			list, err = gw.ListTasks(ctx, owner)
			require.NoError(t, err)
			require.True(t, list[0].Done)
			require.NotNil(t, list[0].DoneAt)
			assert.WithinDuration(t, doneAt, *list[0].DoneAt, time.Second)

			require.NoError(t, gw.UpdateTask(ctx, got.ID, TaskPatch{Done: false}))
			list, err = gw.ListTasks(ctx, owner)
			require.NoError(t, err)
			assert.False(t, list[0].Done)
			assert.Nil(t, list[0].DoneAt)

			err = gw.UpdateTask(ctx, "missing", TaskPatch{Done: true, DoneAt: &doneAt})
			assert.True(t, errors.Is(err, ErrNotFound), "err=%v", err)

			require.NoError(t, gw.DeleteTask(ctx, got.ID))
			list, err = gw.ListTasks(ctx, owner)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestGatewayDeleteTasksBatch(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var ids []string
			for _, title := range []string{"a", "b", "c"} {
				task, err := gw.CreateTask(ctx, owner, TaskInsert{Title: title, Priority: "MID"})
				require.NoError(t, err)
				ids = append(ids, task.ID)
			}
			require.NoError(t, gw.DeleteTasks(ctx, ids[:2]))
			require.NoError(t, gw.DeleteTasks(ctx, nil))

			list, err := gw.ListTasks(ctx, owner)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, ids[2], list[0].ID)
		})
	}
}

func TestGatewayUpsertSettingsKeepsExistingRow(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := gw.GetSettings(ctx, owner)
			assert.True(t, errors.Is(err, ErrNotFound), "err=%v", err)

			require.NoError(t, gw.UpsertSettings(ctx, owner, defaultSettings()))
			require.NoError(t, gw.UpdateSettings(ctx, owner, SettingsPatch{DailyGoalXP: intPtr(120)}))
			require.NoError(t, gw.UpsertSettings(ctx, owner, defaultSettings()))

			st, err := gw.GetSettings(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, 120, st.DailyGoalXP)
			assert.Equal(t, 0, st.BonusXP)
			assert.Empty(t, st.Claimed)
		})
	}
}

func TestGatewayClaimSettingsIsConditional(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, gw.UpsertSettings(ctx, owner, defaultSettings()))

			rec := ClaimRecord{BaseRewardXP: 20, BonusXP: 10, Label: "Small gem", ClaimedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
			require.NoError(t, gw.ClaimSettings(ctx, owner, "daily_3_done:2024-06-01", rec, 30))

			err := gw.ClaimSettings(ctx, owner, "daily_3_done:2024-06-01", rec, 30)
			assert.True(t, errors.Is(err, ErrAlreadyClaimed), "err=%v", err)

			st, err := gw.GetSettings(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, 30, st.BonusXP)
			require.Contains(t, st.Claimed, "daily_3_done:2024-06-01")
			got := st.Claimed["daily_3_done:2024-06-01"]
			assert.Equal(t, 20, got.BaseRewardXP)
			assert.Equal(t, 10, got.BonusXP)
			assert.Equal(t, "Small gem", got.Label)
			assert.WithinDuration(t, rec.ClaimedAt, got.ClaimedAt, time.Second)

			err = gw.ClaimSettings(ctx, "nobody", "total_30", rec, 30)
			assert.True(t, errors.Is(err, ErrNotFound), "err=%v", err)
		})
	}
}

func TestGatewayConcurrentClaimsAwardOnce(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, gw.UpsertSettings(ctx, owner, defaultSettings()))

			rec := ClaimRecord{BaseRewardXP: 150, Label: "Empty chest", ClaimedAt: time.Now().UTC()}
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				success int
			)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := gw.ClaimSettings(ctx, owner, "total_30", rec, 150); err == nil {
						mu.Lock()
						success++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, success)
			st, err := gw.GetSettings(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, 150, st.BonusXP)
		})
	}
}

func TestUpdateSettingsReplacesClaims(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, gw.UpsertSettings(ctx, owner, defaultSettings()))

			claimed := map[string]ClaimRecord{
				"streak_7": {BaseRewardXP: 120, BonusXP: 40, Label: "Rare stone", ClaimedAt: time.Now().UTC()},
			}
			require.NoError(t, gw.UpdateSettings(ctx, owner, SettingsPatch{BonusXP: intPtr(160), Claimed: claimed}))

			st, err := gw.GetSettings(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, 160, st.BonusXP)
			assert.Len(t, st.Claimed, 1)
			assert.Equal(t, "Rare stone", st.Claimed["streak_7"].Label)
		})
	}
}

func TestMigrateCreatesFullTaskTable(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Running again on an up to date schema is a no-op.
	require.NoError(t, Migrate(ctx, db))

	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('tasks')`)
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	assert.Contains(t, cols, "estimate_minutes")
}

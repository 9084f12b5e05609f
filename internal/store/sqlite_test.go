package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/quality-cli/internal/quality"
	"github.com/sells-group/quality-cli/internal/remediate"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleRun() *Run {
	return &Run{
		Dataset:      "customers.csv",
		Policy:       "policy.yaml",
		Epochs:       2,
		InitialScore: 71.5,
		FinalScore:   93.2,
		Converged:    true,
		IterationLog: []remediate.HistoryEntry{
			{Epoch: "Initial", Report: &quality.Report{GlobalScore: 71.5, TotalFields: 3}},
			{Epoch: "Iteration_1", Report: &quality.Report{GlobalScore: 88.0, TotalFields: 3}},
			{Epoch: "Iteration_2", Report: &quality.Report{GlobalScore: 93.2, TotalFields: 3}},
		},
	}
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := sampleRun()
	require.NoError(t, st.SaveRun(ctx, run))
	assert.NotEmpty(t, run.ID, "ID assigned on save")
	assert.False(t, run.CreatedAt.IsZero())

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "customers.csv", got.Dataset)
	assert.Equal(t, 2, got.Epochs)
	assert.InDelta(t, 93.2, got.FinalScore, 1e-9)
	assert.True(t, got.Converged)
	require.Len(t, got.IterationLog, 3)
	assert.Equal(t, "Iteration_2", got.IterationLog[2].Epoch)
}

func TestSQLite_GetRunMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetRun(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := sampleRun()
		if i == 2 {
			run.Dataset = "orders.csv"
		}
		require.NoError(t, st.SaveRun(ctx, run))
	}

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	orders, err := st.ListRuns(ctx, RunFilter{Dataset: "orders.csv"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "orders.csv", orders[0].Dataset)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/model"
)

var testPeriod = model.Period{
	Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 9, 30, 23, 59, 59, 0, time.UTC),
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_RunLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testPeriod)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	summary := &model.Summary{
		RunID:  run.ID,
		Period: testPeriod,
		Counts: model.Counts{Candidates: 3, Canonical: 2, SpamFiltered: 1, PerSource: map[model.OriginSource]int{model.OriginGmail: 3}},
		Adapters: []model.AdapterOutcome{
			{Source: model.OriginGmail, OK: true, Records: 4},
			{Source: model.OriginCalendar, OK: false, Error: "calendar: list events: HTTP 401"},
		},
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, model.RunStatusPartial, summary, "leads.json"))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusPartial, got.Status)
	assert.Equal(t, "leads.json", got.ArtifactPath)
	assert.True(t, got.Period.Start.Equal(testPeriod.Start))
	assert.True(t, got.Period.End.Equal(testPeriod.End))
	require.NotNil(t, got.Summary)
	assert.Equal(t, 2, got.Summary.Counts.Canonical)
	assert.Len(t, got.Summary.Failed(), 1)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testPeriod)
	require.NoError(t, err)
	require.NoError(t, st.FailRun(ctx, run.ID, "context canceled"))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "context canceled", got.Error)
	assert.Nil(t, got.Summary)
}

func TestSQLite_UnknownRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.GetRun(ctx, "missing")
	assert.ErrorContains(t, err, "run not found")

	err = st.CompleteRun(ctx, "missing", model.RunStatusComplete, &model.Summary{}, "")
	assert.ErrorContains(t, err, "run not found: missing")

	err = st.FailRun(ctx, "missing", "x")
	assert.Error(t, err)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.CreateRun(ctx, testPeriod)
	require.NoError(t, err)
	second, err := st.CreateRun(ctx, testPeriod)
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, second.ID, model.RunStatusComplete, &model.Summary{RunID: second.ID}, "out.json"))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, second.ID, complete[0].ID)

	running, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning, Limit: 10})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, first.ID, running[0].ID)
}

func TestSQLite_SkippedRecords(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testPeriod)
	require.NoError(t, err)

	skipped := []model.SkippedRecord{
		{Origin: model.OriginGmail, RecordID: "t1", Reason: "gmail: record t1: thread has no messages", ErrorType: "permanent"},
		{Origin: model.OriginCalendar, RecordID: "e9", Reason: "gcal: HTTP 503", ErrorType: "transient"},
	}
	require.NoError(t, st.RecordSkipped(ctx, run.ID, skipped))
	require.NoError(t, st.RecordSkipped(ctx, run.ID, nil))

	got, err := st.ListSkipped(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, skipped, got)

	none, err := st.ListSkipped(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, config.StoreConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, st)

	st, err = Open(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "ledger.db")})
	require.NoError(t, err)
	require.NotNil(t, st)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	_, err = st.CreateRun(ctx, testPeriod)
	require.NoError(t, err)

	_, err = Open(ctx, config.StoreConfig{Driver: "mongo"})
	var ce *config.ConfigurationError
	assert.ErrorAs(t, err, &ce)
}

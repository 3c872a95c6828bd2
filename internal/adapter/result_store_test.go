package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

func sampleRun(t *testing.T, id string, started time.Time) m.RunRecord {
	t.Helper()

	versions := m.KnownVersions[:2]
	table := m.NewResultTable(versions)
	edit := m.Edit{Property: m.Deletion, ArticulationPoint: 1, Severity: m.Bug}

	baseline := table.Add(m.RunConfiguration{Property: m.Deletion, Version: versions[0]})
	require.NoError(t, baseline.SetBuild(m.BuildOutcome{Succeeded: true, Elapsed: 3 * time.Second}))
	require.NoError(t, baseline.SetChecks([]m.CheckResult{
		{Checker: m.SolverChecker, Status: m.CheckSuccess, Duration: 1500 * time.Millisecond},
		{Checker: m.NativeChecker, Status: m.CheckSuccess, Duration: 20 * time.Millisecond},
	}))

	edited := table.Add(m.RunConfiguration{Property: m.Deletion, Version: versions[1], Edit: &edit})
	require.NoError(t, edited.SetBuild(m.BuildOutcome{Succeeded: true}))
	require.NoError(t, edited.SetChecks([]m.CheckResult{{Checker: m.SolverChecker, Status: m.CheckError, Duration: time.Second}}))
	edited.AppendErrMsg(m.ErrMsgResult{
		Template: m.TemplateMinimal,
		Status:   m.ErrMsgSuccess,
		Duration: 4 * time.Second,
		Payload:  m.PayloadSize{Kind: m.PayloadEdges, RegularEdges: 12, ErrorEdges: 3},
	})
	edited.AppendErrMsg(m.ErrMsgResult{Template: m.TemplateLabels, Status: m.ErrMsgMalformed, Problem: "missing key"})

	failed := table.Add(m.RunConfiguration{Property: m.Deletion, Version: versions[0], Edit: &edit})
	require.NoError(t, failed.SetBuild(m.BuildOutcome{Succeeded: false, Reason: "exit status 101"}))

	return m.RunRecord{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Templates:  []m.Template{m.TemplateMinimal, m.TemplateLabels},
		Checkers:   m.AllCheckers,
		Table:      table,
	}
}

func TestSQLiteResultStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	store, err := OpenSQLiteResultStore(ctx, m.Path(filepath.Join(t.TempDir(), "results.db")))
	require.NoError(t, err)
	defer store.Close()

	older := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, sampleRun(t, "run-a", older)))
	require.NoError(t, store.SaveRun(ctx, sampleRun(t, "run-b", older.Add(time.Hour))))

	loaded, err := store.LoadRun(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, "run-a", loaded.ID)
	assert.True(t, older.Equal(loaded.StartedAt))
	assert.Equal(t, []m.Template{m.TemplateMinimal, m.TemplateLabels}, loaded.Templates)
	assert.Equal(t, m.AllCheckers, loaded.Checkers)
	assert.Equal(t, []string{"lib", "baseline"}, m.VersionNames(loaded.Table.Versions()))
	assert.Equal(t, 3, loaded.Table.Len())

	baseline, ok := loaded.Table.Cell(m.Deletion, nil, "lib")
	require.True(t, ok)

	checks, checked := baseline.Checks()
	assert.True(t, checked)
	require.Len(t, checks, 2)
	assert.Equal(t, 1500*time.Millisecond, checks[0].Duration)

	edit := m.Edit{Property: m.Deletion, ArticulationPoint: 1, Severity: m.Bug}
	edited, ok := loaded.Table.Cell(m.Deletion, &edit, "baseline")
	require.True(t, ok)

	msgs := edited.ErrMsgs()
	require.Len(t, msgs, 2)
	assert.Equal(t, 3, msgs[0].Payload.ErrorEdges)
	assert.Equal(t, "missing key", msgs[1].Problem)

	failed, ok := loaded.Table.Cell(m.Deletion, &edit, "lib")
	require.True(t, ok)

	build, built := failed.Build()
	assert.True(t, built)
	assert.False(t, build.Succeeded)
	assert.Equal(t, "exit status 101", build.Reason)

	_, checked = failed.Checks()
	assert.False(t, checked)
}

func TestSQLiteResultStore_Latest(t *testing.T) {
	ctx := context.Background()

	store, err := OpenSQLiteResultStore(ctx, m.Path(filepath.Join(t.TempDir(), "results.db")))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LoadRun(ctx, "")
	require.ErrorIs(t, err, ErrRunNotFound)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, sampleRun(t, "first", base)))
	require.NoError(t, store.SaveRun(ctx, sampleRun(t, "second", base.Add(time.Hour))))

	latest, err := store.LoadRun(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "second", latest.ID)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].ID)
	assert.Equal(t, 3, runs[0].Cells)

	_, err = store.LoadRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

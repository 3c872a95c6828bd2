package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evaldriver.dev/pkg/evaldriver/internal/adapter"
	adaptermocks "evaldriver.dev/pkg/evaldriver/internal/adapter/mocks"
	controllermocks "evaldriver.dev/pkg/evaldriver/internal/controller/mocks"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

func newTestPipeline(t *testing.T, layout Layout, tools *fakeTools, templates []m.Template) (Pipeline, *Progress) {
	t.Helper()

	ui := quietUI(t)
	checkers := []m.CheckerKind{m.SolverChecker, m.NativeChecker}
	progress := NewProgress(1+len(checkers)+len(templates), ui)

	return NewPipeline(tools.runner(t), adapter.NewLocalScriptFS(), ui, progress, PipelineOptions{
		Layout:    layout,
		Tools:     DefaultTools(),
		Timeouts:  Timeouts{Build: time.Minute, Check: time.Second, ErrMsg: 2 * time.Second},
		Checkers:  checkers,
		Templates: templates,
	}), progress
}

func newCell(edit *m.Edit) *m.Cell {
	table := m.NewResultTable([]m.Version{testVersion})
	return table.Add(m.RunConfiguration{Property: m.Deletion, Version: testVersion, Edit: edit})
}

func TestPipeline_BuildArguments(t *testing.T) {
	layout := newTestLayout(t)
	annotations := filepath.Join(string(layout.Directory), "baseline-external-annotations.toml")
	require.NoError(t, os.WriteFile(annotations, []byte("[x]\n"), 0o644))

	tools := &fakeTools{}
	pipeline, _ := newTestPipeline(t, layout, tools, nil)

	edit := editDelB
	cfg := m.RunConfiguration{Property: m.Deletion, Version: testVersion, Edit: &edit}
	require.NoError(t, os.MkdirAll(string(layout.OutputDir(cfg)), 0o755))

	outcome, err := pipeline.Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)

	specs := tools.stepSpecs(StepBuild)
	require.Len(t, specs, 1)

	spec := specs[0]
	assert.Equal(t, "cargo", spec.Name)
	assert.Equal(t, layout.Directory, spec.Dir)
	assert.Equal(t, time.Minute, spec.Timeout)
	assert.Equal(t, m.OutputDiscard, spec.Output)
	assert.Equal(t, []string{
		"dfpp",
		"--result-path", string(layout.ArtifactPath(cfg)),
		"--graph-loc-path", string(layout.GraphPath(cfg)),
		"--model-version", "v2",
		"--inline-elision",
		"--skip-sigs",
		"--abort-after-analysis",
		"--external-annotations", "baseline-external-annotations.toml",
		"--", "--features", "v-ann-baseline",
		"--features", "edit-del-1-b",
	}, spec.Args)
}

func TestPipeline_BuildOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		outcome    m.ProcessOutcome
		wantReason string
	}{
		{name: "nonzero exit", outcome: m.ProcessFailed, wantReason: "exit status 101"},
		{name: "timeout", outcome: m.ProcessTimedOut, wantReason: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := newTestLayout(t)
			pipeline, progress := newTestPipeline(t, layout, &fakeTools{buildOutcome: tt.outcome}, []m.Template{m.TemplateMinimal})

			cell := newCell(&editDelB)
			require.NoError(t, pipeline.Run(context.Background(), cell))

			build, ok := cell.Build()
			require.True(t, ok)
			assert.False(t, build.Succeeded)
			assert.Equal(t, tt.wantReason, build.Reason)

			_, checked := cell.Checks()
			assert.False(t, checked)
			assert.Equal(t, progress.Total(), progress.Done())
		})
	}
}

func TestPipeline_BuilderLaunchFailureIsBuildFailure(t *testing.T) {
	layout := newTestLayout(t)

	runner := adaptermocks.NewMockProcessRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).Return(m.ProcessResult{}, errors.New("executable file not found"))

	ui := quietUI(t)
	pipeline := NewPipeline(runner, adapter.NewLocalScriptFS(), ui, NewProgress(3, ui), PipelineOptions{
		Layout:   layout,
		Tools:    DefaultTools(),
		Timeouts: DefaultTimeouts(),
		Checkers: []m.CheckerKind{m.SolverChecker},
	})

	cell := newCell(nil)
	require.NoError(t, pipeline.Run(context.Background(), cell))

	build, _ := cell.Build()
	assert.False(t, build.Succeeded)
	assert.Contains(t, build.Reason, "executable file not found")
}

func TestPipeline_CheckScriptLayout(t *testing.T) {
	layout := newTestLayout(t)
	tools := &fakeTools{}
	pipeline, progress := newTestPipeline(t, layout, tools, []m.Template{m.TemplateMinimal})

	cell := newCell(nil)
	require.NoError(t, pipeline.Run(context.Background(), cell))

	checks, ok := cell.Checks()
	require.True(t, ok)
	require.Len(t, checks, 2)
	assert.Equal(t, m.SolverChecker, checks[0].Checker)
	assert.Equal(t, m.NativeChecker, checks[1].Checker)
	assert.Equal(t, progress.Total(), progress.Done())

	cfg := cell.Config
	frg := string(layout.Fragments)
	want := "#lang forge\n" +
		"\n// " + filepath.Join(frg, "dfpp-props/sigs.frg") + "\nsig Flows {}\n" +
		"\n// " + string(layout.ArtifactPath(cfg)) + "\ninst artifact {}\n" +
		"\n// " + filepath.Join(frg, "dfpp-props/basic-helpers.frg") + "\npred basic {}\n" +
		"\n// " + filepath.Join(frg, "framework_helpers.frg") + "\npred framework {}\n" +
		"pred property {}\n" +
		"test expect { baseline_del: { property[flow, labels] } for Flows is theorem }\n"

	got, err := os.ReadFile(string(layout.CheckScriptPath(cfg)))
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	solver := tools.stepSpecs(m.SolverChecker.String())
	require.Len(t, solver, 1)
	assert.Equal(t, "racket", solver[0].Name)
	assert.Equal(t, []string{string(layout.CheckScriptPath(cfg))}, solver[0].Args)
	assert.Equal(t, time.Second, solver[0].Timeout)

	native := tools.stepSpecs(m.NativeChecker.String())
	require.Len(t, native, 1)
	assert.Equal(t, "dfpp-policy", native[0].Name)
	assert.Equal(t, []string{
		"--graph", string(layout.GraphPath(cfg)),
		"--property", "del",
		"--version", "baseline",
	}, native[0].Args)

	assert.Empty(t, tools.stepSpecs(StepErrMsg), "baseline never runs error-message templates")
}

func TestPipeline_ErrorMessages(t *testing.T) {
	layout := newTestLayout(t)
	tools := &fakeTools{failing: []m.Edit{editDelB}, errMsgOutput: edgeInstance}
	pipeline, progress := newTestPipeline(t, layout, tools, []m.Template{m.TemplateMinimal, m.TemplateOptimized})

	cell := newCell(&editDelB)
	require.NoError(t, pipeline.Run(context.Background(), cell))

	results := cell.ErrMsgs()
	require.Len(t, results, 2)
	assert.Equal(t, m.ErrMsgResult{
		Template: m.TemplateMinimal,
		Status:   m.ErrMsgSuccess,
		Duration: 3 * time.Second,
		Payload:  m.PayloadSize{Kind: m.PayloadEdges, RegularEdges: 4, ErrorEdges: 3},
	}, results[0])
	assert.Equal(t, m.TemplateOptimized, results[1].Template)
	assert.Equal(t, progress.Total(), progress.Done())

	specs := tools.stepSpecs(StepErrMsg)
	require.Len(t, specs, 2)
	assert.Equal(t, m.OutputFile, specs[0].Output)
	assert.Equal(t, layout.ErrMsgResultPath(cell.Config, m.TemplateMinimal), specs[0].StdoutPath)
	assert.Equal(t, 2*time.Second, specs[0].Timeout)

	script, err := os.ReadFile(string(layout.ErrMsgScriptPath(cell.Config, m.TemplateOptimized)))
	require.NoError(t, err)
	assert.Contains(t, string(script), "sig OptFlows {}\n")
	assert.Contains(t, string(script), "pred property {}\nrun optimized {}\n")
}

func TestPipeline_MalformedCounterexampleStopsTemplates(t *testing.T) {
	layout := newTestLayout(t)
	tools := &fakeTools{failing: []m.Edit{editDelB}, errMsgOutput: edgeInstance}
	pipeline, progress := newTestPipeline(t, layout, tools, []m.Template{m.TemplateLabels, m.TemplateMinimal})

	cell := newCell(&editDelB)
	require.NoError(t, pipeline.Run(context.Background(), cell))

	results := cell.ErrMsgs()
	require.Len(t, results, 1)
	assert.Equal(t, m.ErrMsgMalformed, results[0].Status)
	assert.Contains(t, results[0].Problem, KeyAdditionalLabels)
	assert.Len(t, tools.stepSpecs(StepErrMsg), 1)
	assert.Equal(t, progress.Total(), progress.Done())
}

func TestPipeline_SuccessfulSolverSkipsErrorMessages(t *testing.T) {
	layout := newTestLayout(t)
	tools := &fakeTools{}
	pipeline, progress := newTestPipeline(t, layout, tools, []m.Template{m.TemplateMinimal})

	cell := newCell(&editDelB)
	require.NoError(t, pipeline.Run(context.Background(), cell))

	assert.Empty(t, cell.ErrMsgs())
	assert.Empty(t, tools.stepSpecs(StepErrMsg))
	assert.Equal(t, progress.Total(), progress.Done())
}

func TestPipeline_MissingFragmentIsFatal(t *testing.T) {
	layout := newTestLayout(t)
	require.NoError(t, os.Remove(filepath.Join(string(layout.Fragments), "baseline-del-props.frg")))

	pipeline, _ := newTestPipeline(t, layout, &fakeTools{}, nil)

	err := pipeline.Run(context.Background(), newCell(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "read fragment")
}

func TestPipeline_CheckerLaunchFailureIsFatal(t *testing.T) {
	layout := newTestLayout(t)
	tools := &fakeTools{}

	runner := adaptermocks.NewMockProcessRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.MatchedBy(func(spec m.ProcessSpec) bool {
		return spec.Step == StepBuild
	})).RunAndReturn(tools.run)
	runner.EXPECT().Run(mock.Anything, mock.MatchedBy(func(spec m.ProcessSpec) bool {
		return spec.Step == m.NativeChecker.String()
	})).Return(m.ProcessResult{}, errors.New("dfpp-policy: not found"))

	ui := quietUI(t)
	pipeline := NewPipeline(runner, adapter.NewLocalScriptFS(), ui, NewProgress(2, ui), PipelineOptions{
		Layout:   layout,
		Tools:    DefaultTools(),
		Timeouts: DefaultTimeouts(),
		Checkers: []m.CheckerKind{m.NativeChecker},
	})

	err := pipeline.Run(context.Background(), newCell(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPipeline_CancelledContext(t *testing.T) {
	layout := newTestLayout(t)
	pipeline, _ := newTestPipeline(t, layout, &fakeTools{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pipeline.Run(ctx, newCell(nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_VerboseCommandsAreDisplayed(t *testing.T) {
	layout := newTestLayout(t)
	tools := &fakeTools{}

	ui := controllermocks.NewMockUI(t)
	ui.EXPECT().DisplayCommand(mock.Anything, mock.MatchedBy(func(spec m.ProcessSpec) bool {
		return spec.Step == StepBuild
	})).Once()
	ui.EXPECT().DisplayCommand(mock.Anything, mock.MatchedBy(func(spec m.ProcessSpec) bool {
		return spec.Step == m.NativeChecker.String()
	})).Once()
	ui.EXPECT().DisplayProgress(mock.Anything, mock.Anything).Maybe()

	pipeline := NewPipeline(tools.runner(t), adapter.NewLocalScriptFS(), ui, NewProgress(2, ui), PipelineOptions{
		Layout:          layout,
		Tools:           DefaultTools(),
		Timeouts:        DefaultTimeouts(),
		Checkers:        []m.CheckerKind{m.NativeChecker},
		VerboseCommands: true,
	})

	require.NoError(t, pipeline.Run(context.Background(), newCell(nil)))
}

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evaldriver.dev/pkg/evaldriver/internal/domain"
	domainmocks "evaldriver.dev/pkg/evaldriver/internal/domain/mocks"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

func TestRunCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newRunCmd())

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	wantLayout, err := domain.NewLayout(defaultDirectory, defaultOutputDir, defaultFragmentsDir)
	require.NoError(t, err)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Parallel == 1 &&
			args.Layout == wantLayout &&
			args.Timeouts == domain.DefaultTimeouts() &&
			len(args.Matrix.Versions) == len(m.KnownVersions) &&
			len(args.Matrix.Templates) == len(m.AllTemplates) &&
			len(args.Matrix.Checkers) == len(m.AllCheckers) &&
			len(args.Matrix.Only) == 0 &&
			!args.Matrix.NoEdits &&
			!args.VerboseCommands
	})).Return(nil)

	cmd.SetArgs([]string{"run"})
	err = cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_FlagsArePassedThrough(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newRunCmd())

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	outputDir := t.TempDir()

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Parallel == 4 &&
			args.Layout.Output == m.Path(outputDir) &&
			args.Timeouts.Check == 30*time.Second &&
			args.Timeouts.ErrMsg == 2*time.Minute &&
			args.Timeouts.Build == time.Hour &&
			len(args.Matrix.Only) == 1 &&
			args.Matrix.Only[0] == m.Edit{Property: m.Deletion, ArticulationPoint: 1, Severity: m.Bug} &&
			len(args.Matrix.Templates) == 0 &&
			len(args.Matrix.Checkers) == 1 && args.Matrix.Checkers[0] == m.SolverChecker &&
			args.VerboseCommands
	})).Return(nil)

	cmd.SetArgs([]string{
		"run", "-p", "4", "-o", outputDir,
		"--only", "edit-del-1-b",
		"--emv", "none",
		"--checker", "solver",
		"--check-timeout", "30s",
		"--err-msg-timeout", "2m",
		"--verbose-commands",
	})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_AcceptsFlagAliases(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newRunCmd())

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	outputDir := t.TempDir()
	fragmentsDir := t.TempDir()

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Parallel == 3 &&
			args.Layout.Output == m.Path(outputDir) &&
			args.Layout.Fragments == m.Path(fragmentsDir) &&
			len(args.Matrix.Versions) == 1 && args.Matrix.Versions[0].Name == "baseline" &&
			len(args.Matrix.Checkers) == 1 && args.Matrix.Checkers[0] == m.SolverChecker
	})).Return(nil)

	cmd.SetArgs([]string{
		"run",
		"--parallelism", "3",
		"--property-versions", "baseline",
		"--output-directory", outputDir,
		"--forge-source-dir", fragmentsDir,
		"--prop-type", "forge",
	})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_VerboseImpliesVerboseCommands(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd, _ := newTestRootCmd(t, newRunCmd())

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Verbose && args.VerboseCommands
	})).Return(nil)

	cmd.SetArgs([]string{"-v", "run", "--no-edits", "--only-property", "sc"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_InvalidSelectionsFail(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown property", []string{"run", "--only-property", "leak"}},
		{"malformed edit", []string{"run", "--only", "edit-del-b"}},
		{"unknown version", []string{"run", "--version-filter", "loose"}},
		{"unknown template", []string{"run", "--emv", "shortest"}},
		{"unknown checker", []string{"run", "--checker", "smt"}},
		{"bad timeout", []string{"run", "--check-timeout", "0s"}},
		{"unitless timeout", []string{"run", "--err-msg-timeout", "30"}},
		{"positional args", []string{"run", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := domainmocks.NewMockWorkflow(t)

			cmd, _ := newTestRootCmd(t, newRunCmd())

			originalWorkflow := workflow
			workflow = mockWorkflow
			defer func() { workflow = originalWorkflow }()

			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			require.Error(t, err)
			mockWorkflow.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)

	for _, name := range []string{
		runParallelFlagName, checkTimeoutFlagName, errMsgTimeoutFlagName, buildTimeoutFlagName,
		verboseCommandsFlagName, versionFilterFlagName, onlyPropertyFlagName, onlyFlagName,
		noEditsFlagName, templatesFlagName, checkerFlagName,
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "p", cmd.Flags().Lookup(runParallelFlagName).Shorthand)
}

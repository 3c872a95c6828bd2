package domain

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "evaldriver.dev/pkg/evaldriver/internal/adapter/mocks"
	controllermocks "evaldriver.dev/pkg/evaldriver/internal/controller/mocks"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

var testVersion = m.Version{Name: "baseline", Includes: []string{"dfpp-props/basic-helpers", "framework_helpers"}}

var (
	editDelA = m.Edit{Property: m.Deletion, ArticulationPoint: 1, Severity: m.Benign}
	editDelB = m.Edit{Property: m.Deletion, ArticulationPoint: 1, Severity: m.Bug}
)

// newTestLayout creates a fixture root with every fragment the del property
// of testVersion needs.
func newTestLayout(t *testing.T) Layout {
	t.Helper()

	layout, err := NewLayout(t.TempDir(), "verification", "frg")
	require.NoError(t, err)

	fragments := map[string]string{
		"dfpp-props/sigs.frg":                   "sig Flows {}\n",
		"dfpp-props/basic-helpers.frg":          "pred basic {}\n",
		"framework_helpers.frg":                 "pred framework {}\n",
		"baseline-del-props.frg":                "pred property {}\n",
		"dfpp-props/err_msg_sigs.frg":           "sig ErrFlows {}\n",
		"dfpp-props/err_msg_optimized_sigs.frg": "sig OptFlows {}\n",
		"dfpp-props/err_msg_labels_sigs.frg":    "sig Markers {}\n",
	}

	for _, template := range m.AllTemplates {
		fragments["dfpp-props/err_msg_template_"+string(template)+".frg"] = "run " + string(template) + " {}\n"
	}

	for name, content := range fragments {
		path := filepath.Join(string(layout.Fragments), name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return layout
}

// fakeTools scripts the external programs: the builder writes its artifact,
// checkers fail for configurations whose paths mention a failing edit and
// the error-message solver prints a canned counterexample.
type fakeTools struct {
	buildOutcome m.ProcessOutcome
	failing      []m.Edit
	errMsgOutput string

	mu    sync.Mutex
	specs []m.ProcessSpec
}

func (f *fakeTools) run(_ context.Context, spec m.ProcessSpec) (m.ProcessResult, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()

	switch spec.Step {
	case StepBuild:
		if f.buildOutcome != m.ProcessSucceeded {
			return m.ProcessResult{Outcome: f.buildOutcome, ExitCode: 101, Elapsed: time.Second}, nil
		}

		artifact := argAfter(spec.Args, "--result-path")
		if err := os.WriteFile(artifact, []byte("inst artifact {}\n"), 0o644); err != nil {
			return m.ProcessResult{}, err
		}

		return m.ProcessResult{Outcome: m.ProcessSucceeded, Elapsed: 2 * time.Second}, nil
	case StepErrMsg:
		if err := os.WriteFile(string(spec.StdoutPath), []byte(f.errMsgOutput), 0o644); err != nil {
			return m.ProcessResult{}, err
		}

		return m.ProcessResult{Outcome: m.ProcessFailed, ExitCode: 1, Elapsed: 3 * time.Second}, nil
	default:
		joined := strings.Join(spec.Args, " ")
		for _, edit := range f.failing {
			if strings.Contains(joined, edit.String()) {
				return m.ProcessResult{Outcome: m.ProcessFailed, ExitCode: 1, Elapsed: time.Second}, nil
			}
		}

		return m.ProcessResult{Outcome: m.ProcessSucceeded, Elapsed: time.Second}, nil
	}
}

func (f *fakeTools) stepSpecs(step string) []m.ProcessSpec {
	f.mu.Lock()
	defer f.mu.Unlock()

	var specs []m.ProcessSpec

	for _, spec := range f.specs {
		if spec.Step == step {
			specs = append(specs, spec)
		}
	}

	return specs
}

func (f *fakeTools) runner(t *testing.T) *adaptermocks.MockProcessRunner {
	runner := adaptermocks.NewMockProcessRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).RunAndReturn(f.run).Maybe()

	return runner
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}

	return args[i+1]
}

func quietUI(t *testing.T) *controllermocks.MockUI {
	ui := controllermocks.NewMockUI(t)
	ui.EXPECT().DisplayProgress(mock.Anything, mock.Anything).Maybe()
	ui.EXPECT().DisplayCommand(mock.Anything, mock.Anything).Maybe()

	return ui
}

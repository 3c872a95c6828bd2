package telemetry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "evaldriver.dev/pkg/evaldriver/internal/adapter/mocks"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

func TestInstrumentedRunner(t *testing.T) {
	metrics := NewMetrics()
	inner := adaptermocks.NewMockProcessRunner(t)

	inner.EXPECT().Run(mock.Anything, mock.MatchedBy(func(spec m.ProcessSpec) bool {
		return spec.Step == "check"
	})).Return(m.ProcessResult{Outcome: m.ProcessFailed, ExitCode: 1, Elapsed: 2 * time.Second}, nil).Twice()
	inner.EXPECT().Run(mock.Anything, mock.MatchedBy(func(spec m.ProcessSpec) bool {
		return spec.Step == "build"
	})).Return(m.ProcessResult{}, errors.New("exec: not found")).Once()

	runner := NewInstrumentedRunner(inner, metrics)

	for range 2 {
		result, err := runner.Run(context.Background(), m.ProcessSpec{Step: "check"})
		require.NoError(t, err)
		assert.Equal(t, m.ProcessFailed, result.Outcome)
	}

	_, err := runner.Run(context.Background(), m.ProcessSpec{Step: "build"})
	require.Error(t, err)

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.outcomes.WithLabelValues("check", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.launches.WithLabelValues("build")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.durations))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	metrics := NewMetrics()
	metrics.Observe("build", m.ProcessResult{Outcome: m.ProcessSucceeded, Elapsed: time.Minute})

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, metrics.WriteTextfile(m.Path(path)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), `evaldriver_process_outcomes_total{outcome="success",step="build"} 1`))
}

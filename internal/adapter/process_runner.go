// Package adapter contains the infrastructure adapters the evaluation engine
// drives: external processes, the file system and the result store.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// ProcessRunner launches external tools and monitors them until they exit
// or exceed their timeout.
type ProcessRunner interface {
	// Run blocks until the process exits, is killed on timeout, or ctx is
	// cancelled. An error is returned only when the process could not be
	// launched or waited for; nonzero exits and timeouts are outcomes.
	Run(ctx context.Context, spec m.ProcessSpec) (m.ProcessResult, error)
}

// LocalProcessRunner runs processes on the local machine.
type LocalProcessRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewLocalProcessRunner constructs a LocalProcessRunner that forwards
// inherited output to the current process streams.
func NewLocalProcessRunner() *LocalProcessRunner {
	return &LocalProcessRunner{stdout: os.Stdout, stderr: os.Stderr}
}

// Run implements ProcessRunner.
func (r *LocalProcessRunner) Run(ctx context.Context, spec m.ProcessSpec) (m.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return m.ProcessResult{}, err
	}

	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = string(spec.Dir)
	setProcessGroup(cmd)

	closeOutput, err := r.attachOutput(cmd, spec)
	if err != nil {
		return m.ProcessResult{}, err
	}
	defer closeOutput()

	slog.Debug("Starting process", "step", spec.Step, "name", spec.Name, "args", spec.Args, "dir", spec.Dir, "timeout", spec.Timeout)

	start := time.Now()

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to start process", "step", spec.Step, "name", spec.Name, "error", err)
		return m.ProcessResult{}, fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}

	done := make(chan error, 1)

	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time

	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()

		timeout = timer.C
	}

	select {
	case waitErr := <-done:
		return exitResult(spec, waitErr, time.Since(start))
	case <-timeout:
		r.kill(cmd, spec)
		<-done

		elapsed := time.Since(start)
		slog.Info("Process timed out", "step", spec.Step, "name", spec.Name, "elapsed", elapsed)

		return m.ProcessResult{Outcome: m.ProcessTimedOut, ExitCode: -1, Elapsed: elapsed}, nil
	case <-ctx.Done():
		r.kill(cmd, spec)
		<-done

		return m.ProcessResult{}, ctx.Err()
	}
}

func (r *LocalProcessRunner) attachOutput(cmd *exec.Cmd, spec m.ProcessSpec) (func(), error) {
	switch spec.Output {
	case m.OutputInherit:
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	case m.OutputFile:
		f, err := os.Create(string(spec.StdoutPath))
		if err != nil {
			slog.Error("Failed to create output file", "path", spec.StdoutPath, "error", err)
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}

		cmd.Stdout = f

		return func() {
			if err := f.Close(); err != nil {
				slog.Error("Failed to close output file", "path", spec.StdoutPath, "error", err)
			}
		}, nil
	case m.OutputDiscard:
	}

	return func() {}, nil
}

func (r *LocalProcessRunner) kill(cmd *exec.Cmd, spec m.ProcessSpec) {
	if err := killProcessGroup(cmd); err != nil {
		slog.Warn("Failed to kill process", "step", spec.Step, "name", spec.Name, "pid", cmd.Process.Pid, "error", err)
	}
}

func exitResult(spec m.ProcessSpec, waitErr error, elapsed time.Duration) (m.ProcessResult, error) {
	if waitErr == nil {
		return m.ProcessResult{Outcome: m.ProcessSucceeded, Elapsed: elapsed}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		slog.Debug("Process exited with failure", "step", spec.Step, "name", spec.Name, "code", exitErr.ExitCode())
		return m.ProcessResult{Outcome: m.ProcessFailed, ExitCode: exitErr.ExitCode(), Elapsed: elapsed}, nil
	}

	slog.Error("Failed to wait for process", "step", spec.Step, "name", spec.Name, "error", waitErr)

	return m.ProcessResult{}, fmt.Errorf("failed to wait for %s: %w", spec.Name, waitErr)
}

package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayPlan prints the matrix that a run would execute.
func (s *SimpleUI) DisplayPlan(ctx context.Context, plan m.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderPlan(plan))

	return nil
}

// DisplayCommand prints a command before it runs.
func (s *SimpleUI) DisplayCommand(ctx context.Context, spec m.ProcessSpec) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", formatCommand(spec))
}

// DisplayProgress prints one progress line.
func (s *SimpleUI) DisplayProgress(ctx context.Context, progress m.Progress) {
	if err := ctx.Err(); err != nil {
		return
	}

	slog.Debug("Progress", "message", progress.Message, "done", progress.Done, "total", progress.Total)
	s.printf("[%*d/%d] %s\n", len(fmt.Sprint(progress.Total)), progress.Done, progress.Total, progress.Message)
}

// DisplayReport prints the verdict tables and error-message results.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReport(report))

	return nil
}

// DisplayRuns prints stored runs.
func (s *SimpleUI) DisplayRuns(ctx context.Context, runs []m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(runs) == 0 {
		s.printf("No stored runs\n")
		return nil
	}

	s.printf("%s", renderRuns(runs))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

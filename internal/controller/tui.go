package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
	barPadding      = 40
)

var (
	messageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	countStyle   = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI with a Bubble Tea progress bar while a run is in flight.
// Plans, reports and run listings are rendered as plain tables once the
// program has stopped.
type TUI struct {
	cmd    *cobra.Command
	simple *SimpleUI

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd, simple: NewSimpleUI(cmd)}
}

// Start launches the progress program in run mode. Other modes render
// directly.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)
	if cfg.mode != ModeRun {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	t.program = tea.NewProgram(
		newProgressModel(cfg.total),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			_, _ = fmt.Fprintf(t.cmd.ErrOrStderr(), "progress display stopped: %v\n", err)
		}
	}(t.program, t.done)

	return nil
}

// Close stops the progress program and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	t.stop()
}

// DisplayPlan renders the plan as a table.
func (t *TUI) DisplayPlan(ctx context.Context, plan m.Plan) error {
	t.stop()
	return t.simple.DisplayPlan(ctx, plan)
}

// DisplayCommand prints the command above the progress bar.
func (t *TUI) DisplayCommand(ctx context.Context, spec m.ProcessSpec) {
	if err := ctx.Err(); err != nil {
		return
	}

	if program := t.running(); program != nil {
		program.Println(formatCommand(spec))
		return
	}

	t.simple.DisplayCommand(ctx, spec)
}

// DisplayProgress moves the progress bar.
func (t *TUI) DisplayProgress(ctx context.Context, p m.Progress) {
	if err := ctx.Err(); err != nil {
		return
	}

	if program := t.running(); program != nil {
		program.Send(progressMsg(p))
	}
}

// DisplayReport stops the progress bar and prints the report.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	t.stop()
	return t.simple.DisplayReport(ctx, report)
}

// DisplayRuns prints stored runs.
func (t *TUI) DisplayRuns(ctx context.Context, runs []m.RunSummary) error {
	t.stop()
	return t.simple.DisplayRuns(ctx, runs)
}

func (t *TUI) running() *tea.Program {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program
}

func (t *TUI) stop() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

type progressMsg m.Progress

// progressModel is the Bubble Tea model for the run progress bar.
type progressModel struct {
	bar     progress.Model
	message string
	done    int
	total   int
}

func newProgressModel(total int) progressModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultBarWidth

	return progressModel{bar: bar, total: total}
}

func (pm progressModel) Init() tea.Cmd {
	return nil
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		// Parallel workers may deliver positions out of order.
		if msg.Done < pm.done {
			return pm, nil
		}

		pm.message = msg.Message
		pm.done = msg.Done

		if msg.Total > 0 {
			pm.total = msg.Total
		}

		return pm, nil

	case tea.WindowSizeMsg:
		pm.bar.Width = min(max(msg.Width-barPadding, 10), maxBarWidth)
		return pm, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return pm, tea.Quit
		}
	}

	return pm, nil
}

func (pm progressModel) fraction() float64 {
	if pm.total <= 0 {
		return 0
	}

	frac := float64(pm.done) / float64(pm.total)

	return min(frac, 1)
}

func (pm progressModel) View() string {
	return fmt.Sprintf("%s %s %s\n",
		messageStyle.Render(fmt.Sprintf("%-24s", pm.message)),
		pm.bar.ViewAs(pm.fraction()),
		countStyle.Render(fmt.Sprintf("%d/%d", pm.done, pm.total)),
	)
}

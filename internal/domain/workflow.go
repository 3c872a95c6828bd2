package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"evaldriver.dev/pkg/evaldriver/internal/adapter"
	"evaldriver.dev/pkg/evaldriver/internal/controller"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
	"evaldriver.dev/pkg/evaldriver/internal/telemetry"
)

// Files written to the output root of every run.
const (
	ManifestFileName  = "run.yaml"
	ErrMsgCSVFileName = "err-msg-stats.csv"
	MetricsFileName   = "metrics.prom"
	StoreFileName     = "results.db"
)

// ErrNoResults is returned by View when the output root holds no result store.
var ErrNoResults = errors.New("no stored results")

// RunArgs contains the arguments for running the evaluation matrix.
type RunArgs struct {
	Matrix   MatrixOptions
	Layout   Layout
	Tools    Tools
	Timeouts Timeouts
	// Parallel is the number of configurations run at once; 1 or less runs
	// them sequentially.
	Parallel        int
	Verbose         bool
	VerboseCommands bool
}

// ListArgs contains the arguments for printing the matrix plan.
type ListArgs struct {
	Matrix MatrixOptions
}

// ViewArgs contains the arguments for rendering a stored run.
type ViewArgs struct {
	Output m.Path
	// RunID selects a run; empty selects the most recent one.
	RunID    string
	ListRuns bool
}

// StoreOpener opens the result store at path.
type StoreOpener func(ctx context.Context, path m.Path) (adapter.ResultStore, error)

// Workflow defines the evaluation commands.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.ScriptFS
	controller.UI

	runner    adapter.ProcessRunner
	openStore StoreOpener
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	runner adapter.ProcessRunner,
	fs adapter.ScriptFS,
	ui controller.UI,
	openStore StoreOpener,
) Workflow {
	return &workflow{
		ScriptFS:  fs,
		UI:        ui,
		runner:    runner,
		openStore: openStore,
	}
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := args.Tools.Validate(); err != nil {
		return err
	}

	matrix := GenerateMatrix(args.Matrix)
	output := args.Layout.Output

	if err := w.MkdirAll(output); err != nil {
		slog.Error("Failed to create output root", "path", output, "error", err)
		return fmt.Errorf("create output root %s: %w", output, err)
	}

	record := m.RunRecord{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Templates: matrix.Templates,
		Checkers:  matrix.Checkers,
		Table:     matrix.NewResultTable(),
	}

	if err := w.writeManifest(record, args, matrix); err != nil {
		return err
	}

	total := matrix.TotalSteps()
	slog.Info("Starting run", "run", record.ID, "configurations", record.Table.Len(), "steps", total, "parallel", args.Parallel)

	if err := w.Start(ctx, controller.WithRunMode(total)); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	// The report is rendered and saved even when the run aborts.
	finishCtx := context.WithoutCancel(ctx)
	defer w.Close(finishCtx)

	metrics := telemetry.NewMetrics()
	pipeline := NewPipeline(
		telemetry.NewInstrumentedRunner(w.runner, metrics),
		w.ScriptFS,
		w.UI,
		NewProgress(total, w.UI),
		PipelineOptions{
			Layout:          args.Layout,
			Tools:           args.Tools,
			Timeouts:        args.Timeouts,
			Checkers:        matrix.Checkers,
			Templates:       matrix.Templates,
			Verbose:         args.Verbose,
			VerboseCommands: args.VerboseCommands,
		},
	)

	runErr := runCells(ctx, pipeline, record.Table.Cells(), args.Parallel)
	if runErr != nil {
		slog.Error("Run aborted", "run", record.ID, "error", runErr)
	}

	record.FinishedAt = time.Now()

	return errors.Join(runErr, w.finish(finishCtx, output, record, metrics))
}

func runCells(ctx context.Context, pipeline Pipeline, cells []*m.Cell, parallel int) error {
	if parallel <= 1 {
		for _, cell := range cells {
			if err := pipeline.Run(ctx, cell); err != nil {
				return err
			}
		}

		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for _, cell := range cells {
		group.Go(func() error {
			return pipeline.Run(groupCtx, cell)
		})
	}

	return group.Wait()
}

func (w *workflow) finish(ctx context.Context, output m.Path, record m.RunRecord, metrics *telemetry.Metrics) error {
	report := BuildReport(record.ID, record.Table)

	var errs []error

	if err := w.DisplayReport(ctx, report); err != nil {
		slog.Error("Failed to display report", "error", err)
		errs = append(errs, fmt.Errorf("display report: %w", err))
	}

	var csv bytes.Buffer
	if err := WriteErrMsgCSV(&csv, report.ErrMsgs); err != nil {
		errs = append(errs, err)
	} else if err := w.WriteFile(w.JoinPath(string(output), ErrMsgCSVFileName), csv.Bytes()); err != nil {
		slog.Error("Failed to write error message statistics", "error", err)
		errs = append(errs, fmt.Errorf("write %s: %w", ErrMsgCSVFileName, err))
	}

	if err := metrics.WriteTextfile(w.JoinPath(string(output), MetricsFileName)); err != nil {
		errs = append(errs, err)
	}

	if err := w.saveRun(ctx, output, record); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (w *workflow) saveRun(ctx context.Context, output m.Path, record m.RunRecord) error {
	store, err := w.openStore(ctx, w.JoinPath(string(output), StoreFileName))
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close result store", "error", err)
		}
	}()

	if err := store.SaveRun(ctx, record); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	slog.Info("Run saved", "run", record.ID, "cells", record.Table.Len())

	return nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	matrix := GenerateMatrix(args.Matrix)

	if err := w.DisplayPlan(ctx, matrix.Plan()); err != nil {
		slog.Error("Failed to display plan", "error", err)
		return fmt.Errorf("display plan: %w", err)
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	path := w.JoinPath(string(args.Output), StoreFileName)

	exists, err := w.Exists(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !exists {
		return fmt.Errorf("%w in %s", ErrNoResults, args.Output)
	}

	store, err := w.openStore(ctx, path)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	if args.ListRuns {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		return w.DisplayRuns(ctx, runs)
	}

	record, err := store.LoadRun(ctx, args.RunID)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	return w.DisplayReport(ctx, BuildReport(record.ID, record.Table))
}

type manifestEntry struct {
	Property string   `yaml:"property"`
	Edits    []string `yaml:"edits"`
}

type runManifest struct {
	ID        string            `yaml:"id"`
	StartedAt time.Time         `yaml:"started_at"`
	Directory string            `yaml:"directory"`
	Output    string            `yaml:"output"`
	Fragments string            `yaml:"fragments"`
	Timeouts  map[string]string `yaml:"timeouts"`
	Parallel  int               `yaml:"parallel"`
	Tools     Tools             `yaml:"tools"`
	Versions  []string          `yaml:"versions"`
	Templates []string          `yaml:"templates"`
	Checkers  []string          `yaml:"checkers"`
	Matrix    []manifestEntry   `yaml:"matrix"`
	Steps     int               `yaml:"steps"`
}

func newManifest(record m.RunRecord, args RunArgs, matrix Matrix) runManifest {
	manifest := runManifest{
		ID:        record.ID,
		StartedAt: record.StartedAt,
		Directory: string(args.Layout.Directory),
		Output:    string(args.Layout.Output),
		Fragments: string(args.Layout.Fragments),
		Timeouts: map[string]string{
			"build":   args.Timeouts.Build.String(),
			"check":   args.Timeouts.Check.String(),
			"err_msg": args.Timeouts.ErrMsg.String(),
		},
		Parallel:  max(args.Parallel, 1),
		Tools:     args.Tools,
		Versions:  m.VersionNames(matrix.Versions),
		Templates: []string{},
		Checkers:  []string{},
		Steps:     matrix.TotalSteps(),
	}

	for _, t := range matrix.Templates {
		manifest.Templates = append(manifest.Templates, string(t))
	}

	for _, c := range matrix.Checkers {
		manifest.Checkers = append(manifest.Checkers, c.String())
	}

	for _, entry := range matrix.Entries {
		edits := make([]string, 0, len(entry.Edits))
		for _, e := range entry.Edits {
			edits = append(edits, e.String())
		}

		manifest.Matrix = append(manifest.Matrix, manifestEntry{Property: entry.Property.String(), Edits: edits})
	}

	return manifest
}

func (w *workflow) writeManifest(record m.RunRecord, args RunArgs, matrix Matrix) error {
	content, err := yaml.Marshal(newManifest(record, args, matrix))
	if err != nil {
		return fmt.Errorf("encode run manifest: %w", err)
	}

	path := w.JoinPath(string(args.Layout.Output), ManifestFileName)
	if err := w.WriteFile(path, content); err != nil {
		slog.Error("Failed to write run manifest", "path", path, "error", err)
		return fmt.Errorf("write run manifest: %w", err)
	}

	return nil
}

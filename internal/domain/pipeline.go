package domain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"evaldriver.dev/pkg/evaldriver/internal/adapter"
	"evaldriver.dev/pkg/evaldriver/internal/controller"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// Step names used in process specs, logs and metrics.
const (
	StepBuild  = "build"
	StepErrMsg = "err-msg"
)

const (
	scriptHeader   = "#lang forge\n"
	builderModel   = "v2"
	timeoutReason  = "timeout"
	versionFeature = "v-ann-"
)

// PipelineOptions configures how each configuration is built and checked.
type PipelineOptions struct {
	Layout    Layout
	Tools     Tools
	Timeouts  Timeouts
	Checkers  []m.CheckerKind
	Templates []m.Template
	// Verbose forwards child output to our own streams.
	Verbose bool
	// VerboseCommands prints every command before it runs.
	VerboseCommands bool
}

// Pipeline runs build, check and error-message steps for one configuration.
type Pipeline interface {
	// Run executes every step for cell and records the outcomes in it.
	// Only I/O failures and cancellation are returned as errors.
	Run(ctx context.Context, cell *m.Cell) error
	Build(ctx context.Context, cfg m.RunConfiguration) (m.BuildOutcome, error)
	Check(ctx context.Context, cfg m.RunConfiguration) ([]m.CheckResult, error)
	ErrorMessages(ctx context.Context, cell *m.Cell) error
}

type pipeline struct {
	adapter.ScriptFS
	controller.UI

	runner   adapter.ProcessRunner
	progress *Progress
	opts     PipelineOptions
}

// NewPipeline creates a Pipeline with the provided dependencies.
func NewPipeline(
	runner adapter.ProcessRunner,
	fs adapter.ScriptFS,
	ui controller.UI,
	progress *Progress,
	opts PipelineOptions,
) Pipeline {
	return &pipeline{
		ScriptFS: fs,
		UI:       ui,
		runner:   runner,
		progress: progress,
		opts:     opts,
	}
}

func (p *pipeline) Run(ctx context.Context, cell *m.Cell) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := cell.Config
	describe := cfg.Describe()

	outDir := p.opts.Layout.OutputDir(cfg)
	if err := p.MkdirAll(outDir); err != nil {
		slog.Error("Failed to create output directory", "path", outDir, "error", err)
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	outcome, err := p.Build(ctx, cfg)
	if err != nil {
		return err
	}

	if err := cell.SetBuild(outcome); err != nil {
		return fmt.Errorf("%s: %w", describe, err)
	}

	p.progress.Advance(ctx, 1, describe)

	if !outcome.Succeeded {
		slog.Info("Build failed", "config", describe, "reason", outcome.Reason)
		p.progress.Advance(ctx, len(p.opts.Checkers)+len(p.opts.Templates), describe)

		return nil
	}

	results, err := p.Check(ctx, cfg)
	if err != nil {
		return err
	}

	if err := cell.SetChecks(results); err != nil {
		return fmt.Errorf("%s: %w", describe, err)
	}

	if cfg.IsBaseline() || !cell.SolverFailed() {
		p.progress.Advance(ctx, len(p.opts.Templates), describe)
		return nil
	}

	return p.ErrorMessages(ctx, cell)
}

// Build runs the builder. A launch failure, nonzero exit or timeout is a
// failed build; only cancellation and I/O errors are returned.
func (p *pipeline) Build(ctx context.Context, cfg m.RunConfiguration) (m.BuildOutcome, error) {
	layout := p.opts.Layout

	args := slices.Clone(p.opts.Tools.Builder[1:])
	args = append(args,
		"--result-path", string(layout.ArtifactPath(cfg)),
		"--graph-loc-path", string(layout.GraphPath(cfg)),
		"--model-version", builderModel,
		"--inline-elision",
		"--skip-sigs",
		"--abort-after-analysis",
	)

	annotations := layout.ExternalAnnotationsName(cfg.Version)

	exists, err := p.Exists(p.JoinPath(string(layout.Directory), annotations))
	if err != nil {
		slog.Error("Failed to stat external annotations", "file", annotations, "error", err)
		return m.BuildOutcome{}, fmt.Errorf("stat external annotations %s: %w", annotations, err)
	}

	if exists {
		args = append(args, "--external-annotations", annotations)
	}

	args = append(args, "--", "--features", versionFeature+cfg.Version.Name)
	if cfg.Edit != nil {
		args = append(args, "--features", cfg.Edit.String())
	}

	result, err := p.execute(ctx, m.ProcessSpec{
		Step:    StepBuild,
		Name:    p.opts.Tools.Builder[0],
		Args:    args,
		Dir:     layout.Directory,
		Output:  p.outputMode(),
		Timeout: p.opts.Timeouts.Build,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.BuildOutcome{}, ctxErr
		}

		slog.Warn("Builder could not be run", "config", cfg.Describe(), "error", err)

		return m.BuildOutcome{Reason: err.Error()}, nil
	}

	switch result.Outcome {
	case m.ProcessSucceeded:
		return m.BuildOutcome{Succeeded: true, Elapsed: result.Elapsed}, nil
	case m.ProcessTimedOut:
		return m.BuildOutcome{Elapsed: result.Elapsed, Reason: timeoutReason}, nil
	default:
		return m.BuildOutcome{Elapsed: result.Elapsed, Reason: fmt.Sprintf("exit status %d", result.ExitCode)}, nil
	}
}

// Check runs every configured checker against the build artifact.
func (p *pipeline) Check(ctx context.Context, cfg m.RunConfiguration) ([]m.CheckResult, error) {
	results := make([]m.CheckResult, 0, len(p.opts.Checkers))

	for _, kind := range p.opts.Checkers {
		spec, err := p.checkSpec(cfg, kind)
		if err != nil {
			return results, err
		}

		result, err := p.execute(ctx, spec)
		if err != nil {
			return results, fmt.Errorf("%s check %s: %w", kind, cfg.Describe(), err)
		}

		check := m.CheckResultFromProcess(kind, result)
		slog.Debug("Check finished", "config", cfg.Describe(), "checker", kind, "result", check.Status)

		results = append(results, check)
		p.progress.Advance(ctx, 1, cfg.Describe())
	}

	return results, nil
}

func (p *pipeline) checkSpec(cfg m.RunConfiguration, kind m.CheckerKind) (m.ProcessSpec, error) {
	layout := p.opts.Layout

	switch kind {
	case m.SolverChecker:
		script := layout.CheckScriptPath(cfg)
		trailer := fmt.Sprintf("test expect { %s_%s: { property[flow, labels] } for Flows is theorem }\n", cfg.Version.Name, cfg.Property)

		if err := p.writeScript(cfg, script, CheckSignatureFragment, trailer); err != nil {
			return m.ProcessSpec{}, err
		}

		return m.ProcessSpec{
			Step:    kind.String(),
			Name:    p.opts.Tools.Solver[0],
			Args:    append(slices.Clone(p.opts.Tools.Solver[1:]), string(script)),
			Dir:     layout.Directory,
			Output:  p.outputMode(),
			Timeout: p.opts.Timeouts.Check,
		}, nil
	case m.NativeChecker:
		args := append(slices.Clone(p.opts.Tools.NativeChecker[1:]),
			"--graph", string(layout.GraphPath(cfg)),
			"--property", cfg.Property.String(),
			"--version", cfg.Version.Name,
		)

		return m.ProcessSpec{
			Step:    kind.String(),
			Name:    p.opts.Tools.NativeChecker[0],
			Args:    args,
			Dir:     layout.Directory,
			Output:  p.outputMode(),
			Timeout: p.opts.Timeouts.Check,
		}, nil
	default:
		return m.ProcessSpec{}, fmt.Errorf("%w: %d", m.ErrUnknownChecker, kind)
	}
}

// ErrorMessages runs each template against a configuration whose solver
// check failed. A malformed counterexample ends the step for this cell.
func (p *pipeline) ErrorMessages(ctx context.Context, cell *m.Cell) error {
	cfg := cell.Config
	describe := cfg.Describe()

	for i, template := range p.opts.Templates {
		result, err := p.errorMessage(ctx, cfg, template)
		if err != nil {
			return err
		}

		cell.AppendErrMsg(result)
		p.progress.Advance(ctx, 1, describe)

		if result.Status == m.ErrMsgMalformed {
			slog.Warn("Malformed counterexample", "config", describe, "template", template, "problem", result.Problem)
			p.progress.Advance(ctx, len(p.opts.Templates)-i-1, describe)

			break
		}
	}

	return nil
}

func (p *pipeline) errorMessage(ctx context.Context, cfg m.RunConfiguration, template m.Template) (m.ErrMsgResult, error) {
	layout := p.opts.Layout
	script := layout.ErrMsgScriptPath(cfg, template)

	body, err := p.readFragment(layout.FragmentPath(template.BodyFragment()))
	if err != nil {
		return m.ErrMsgResult{}, err
	}

	if err := p.writeScript(cfg, script, template.SignatureFragment(), string(body)); err != nil {
		return m.ErrMsgResult{}, err
	}

	outputPath := layout.ErrMsgResultPath(cfg, template)

	result, err := p.execute(ctx, m.ProcessSpec{
		Step:       StepErrMsg,
		Name:       p.opts.Tools.Solver[0],
		Args:       append(slices.Clone(p.opts.Tools.Solver[1:]), string(script)),
		Dir:        layout.Directory,
		Output:     m.OutputFile,
		StdoutPath: outputPath,
		Timeout:    p.opts.Timeouts.ErrMsg,
	})
	if err != nil {
		return m.ErrMsgResult{}, fmt.Errorf("%s %s: %w", template, cfg.Describe(), err)
	}

	switch result.Outcome {
	case m.ProcessTimedOut:
		return m.ErrMsgResult{Template: template, Status: m.ErrMsgTimeout}, nil
	case m.ProcessSucceeded:
		return m.ErrMsgResult{Template: template, Status: m.ErrMsgSat, Duration: result.Elapsed}, nil
	}

	output, err := p.ReadFile(outputPath)
	if err != nil {
		slog.Error("Failed to read solver output", "path", outputPath, "error", err)
		return m.ErrMsgResult{}, fmt.Errorf("read solver output %s: %w", outputPath, err)
	}

	payload, err := MeasureCounterexample(template.PayloadKind(), string(output))
	if err != nil {
		return m.ErrMsgResult{
			Template: template,
			Status:   m.ErrMsgMalformed,
			Duration: result.Elapsed,
			Problem:  err.Error(),
		}, nil
	}

	return m.ErrMsgResult{Template: template, Status: m.ErrMsgSuccess, Duration: result.Elapsed, Payload: payload}, nil
}

// writeScript assembles a solver script: the language header, then the
// signature fragment, the build artifact and the version includes, each
// preceded by a path comment, then the property file and the trailer.
func (p *pipeline) writeScript(cfg m.RunConfiguration, script m.Path, signature, trailer string) error {
	layout := p.opts.Layout

	includes := []m.Path{layout.FragmentPath(signature), layout.ArtifactPath(cfg)}
	for _, include := range cfg.Version.Includes {
		includes = append(includes, layout.FragmentPath(include))
	}

	var b strings.Builder

	b.WriteString(scriptHeader)

	for _, include := range includes {
		content, err := p.readFragment(include)
		if err != nil {
			return err
		}

		fmt.Fprintf(&b, "\n// %s\n", include)
		b.Write(content)
	}

	props, err := p.readFragment(layout.PropsPath(cfg))
	if err != nil {
		return err
	}

	b.Write(props)
	b.WriteString(trailer)

	if err := p.WriteFile(script, []byte(b.String())); err != nil {
		slog.Error("Failed to write solver script", "path", script, "error", err)
		return fmt.Errorf("write script %s: %w", script, err)
	}

	return nil
}

func (p *pipeline) readFragment(path m.Path) ([]byte, error) {
	content, err := p.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read script fragment", "path", path, "error", err)
		return nil, fmt.Errorf("read fragment %s: %w", path, err)
	}

	return content, nil
}

func (p *pipeline) execute(ctx context.Context, spec m.ProcessSpec) (m.ProcessResult, error) {
	if p.opts.VerboseCommands || p.opts.Verbose {
		p.DisplayCommand(ctx, spec)
	}

	slog.Debug("Running process", "step", spec.Step, "name", spec.Name, "args", spec.Args, "timeout", spec.Timeout)

	return p.runner.Run(ctx, spec)
}

func (p *pipeline) outputMode() m.OutputMode {
	if p.opts.Verbose {
		return m.OutputInherit
	}

	return m.OutputDiscard
}

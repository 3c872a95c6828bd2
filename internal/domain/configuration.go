package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// ErrEditPropertyMismatch is returned when an edit targets another property
// than its configuration.
var ErrEditPropertyMismatch = errors.New("edit does not belong to the configuration's property")

// ErrEmptyCommand is returned when a tool command has no program.
var ErrEmptyCommand = errors.New("empty tool command")

// CheckSignatureFragment is the signature fragment of the main solver check.
const CheckSignatureFragment = "dfpp-props/sigs"

// NewRunConfiguration validates and builds a configuration.
func NewRunConfiguration(property m.Property, version m.Version, edit *m.Edit) (m.RunConfiguration, error) {
	if edit != nil && edit.Property != property {
		return m.RunConfiguration{}, fmt.Errorf("%w: %s under %s", ErrEditPropertyMismatch, edit, property)
	}

	return m.RunConfiguration{Property: property, Version: version, Edit: edit}, nil
}

// Layout derives every file location of a run from its three roots.
type Layout struct {
	// Directory is the fixture root; external tools run there.
	Directory m.Path
	Output    m.Path
	Fragments m.Path
}

// NewLayout resolves output and fragments relative to directory and makes
// all three absolute.
func NewLayout(directory, output, fragments string) (Layout, error) {
	dir, err := filepath.Abs(directory)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve directory %q: %w", directory, err)
	}

	return Layout{
		Directory: m.Path(dir),
		Output:    m.Path(underDir(dir, output)),
		Fragments: m.Path(underDir(dir, fragments)),
	}, nil
}

func underDir(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(dir, path)
}

// OutputDir is the per-edit directory of cfg.
func (l Layout) OutputDir(cfg m.RunConfiguration) m.Path {
	return m.Path(filepath.Join(string(l.Output), cfg.OutputDirName()))
}

func solverFileName(cfg m.RunConfiguration, what string) string {
	return fmt.Sprintf("%s-%s-%s.frg", cfg.Version.Name, cfg.Property, what)
}

func (l Layout) outputFile(cfg m.RunConfiguration, name string) m.Path {
	return m.Path(filepath.Join(string(l.OutputDir(cfg)), name))
}

// ArtifactPath is where the builder writes the analysis result.
func (l Layout) ArtifactPath(cfg m.RunConfiguration) m.Path {
	return l.outputFile(cfg, solverFileName(cfg, "analysis-result"))
}

// GraphPath is where the builder writes the flow graph.
func (l Layout) GraphPath(cfg m.RunConfiguration) m.Path {
	return l.outputFile(cfg, fmt.Sprintf("%s-%s-flow-graph.json", cfg.Version.Name, cfg.Property))
}

// CheckScriptPath is the generated main solver script.
func (l Layout) CheckScriptPath(cfg m.RunConfiguration) m.Path {
	return l.outputFile(cfg, solverFileName(cfg, "check"))
}

// ErrMsgScriptPath is the generated solver script of one template.
func (l Layout) ErrMsgScriptPath(cfg m.RunConfiguration, template m.Template) m.Path {
	return l.outputFile(cfg, solverFileName(cfg, "err-msg-check-"+string(template)))
}

// ErrMsgResultPath captures the solver output of one template.
func (l Layout) ErrMsgResultPath(cfg m.RunConfiguration, template m.Template) m.Path {
	return l.outputFile(cfg, fmt.Sprintf("%s-%s-err-msg-result-%s.txt", cfg.Version.Name, cfg.Property, template))
}

// PropsPath is the property definition of cfg's version and property.
func (l Layout) PropsPath(cfg m.RunConfiguration) m.Path {
	return m.Path(filepath.Join(string(l.Fragments), solverFileName(cfg, "props")))
}

// FragmentPath resolves a fragment id such as dfpp-props/err_msg_sigs.
func (l Layout) FragmentPath(id string) m.Path {
	return m.Path(filepath.Join(string(l.Fragments), id+".frg"))
}

// ExternalAnnotationsName is the optional annotations file of a version,
// relative to Directory.
func (l Layout) ExternalAnnotationsName(version m.Version) string {
	return version.Name + "-external-annotations.toml"
}

// Tools names the external commands. Each entry is a program followed by
// leading arguments.
type Tools struct {
	Builder       []string `yaml:"builder"`
	Solver        []string `yaml:"solver"`
	NativeChecker []string `yaml:"native_checker"`
}

// DefaultTools returns the stock tool commands.
func DefaultTools() Tools {
	return Tools{
		Builder:       []string{"cargo", "dfpp"},
		Solver:        []string{"racket"},
		NativeChecker: []string{"dfpp-policy"},
	}
}

// Validate checks that every tool names a program.
func (t Tools) Validate() error {
	commands := []struct {
		name    string
		command []string
	}{
		{"builder", t.Builder},
		{"solver", t.Solver},
		{"native_checker", t.NativeChecker},
	}

	for _, c := range commands {
		if len(c.command) == 0 || c.command[0] == "" {
			return fmt.Errorf("%w: %s", ErrEmptyCommand, c.name)
		}
	}

	return nil
}

// Timeouts bounds each pipeline step.
type Timeouts struct {
	Build  time.Duration
	Check  time.Duration
	ErrMsg time.Duration
}

// DefaultTimeouts returns the stock step timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{Build: time.Hour, Check: 10 * time.Minute, ErrMsg: time.Hour}
}

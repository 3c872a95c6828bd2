package domain

import (
	"slices"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// MatrixOptions selects which cells of the evaluation matrix run.
type MatrixOptions struct {
	// EditCounts is the number of articulation points per property;
	// empty means model.DefaultEditCounts.
	EditCounts []m.PropertyEdits
	// Properties restricts the matrix to these properties; empty keeps all.
	Properties []m.Property
	// Only keeps just these edits; empty keeps all.
	Only []m.Edit
	// NoEdits runs only the baseline of every selected property.
	NoEdits   bool
	Versions  []m.Version
	Templates []m.Template
	Checkers  []m.CheckerKind
}

// MatrixEntry is one property and the edits selected for it.
type MatrixEntry struct {
	Property m.Property
	Edits    []m.Edit
}

// Matrix is the ordered set of run configurations of one run.
type Matrix struct {
	Entries   []MatrixEntry
	Versions  []m.Version
	Templates []m.Template
	Checkers  []m.CheckerKind
}

// GenerateMatrix enumerates property × articulation point × severity edits,
// applying the filters in opts. A property left without edits is dropped
// unless NoEdits is set, in which case it runs its baseline only.
func GenerateMatrix(opts MatrixOptions) Matrix {
	counts := opts.EditCounts
	if len(counts) == 0 {
		counts = m.DefaultEditCounts
	}

	checkers := opts.Checkers
	if checkers == nil {
		checkers = m.AllCheckers
	}

	matrix := Matrix{
		Versions:  slices.Clone(opts.Versions),
		Templates: slices.Clone(opts.Templates),
		Checkers:  slices.Clone(checkers),
	}

	for _, count := range counts {
		if len(opts.Properties) > 0 && !slices.Contains(opts.Properties, count.Property) {
			continue
		}

		var edits []m.Edit

		for point := 1; point <= count.Points; point++ {
			for _, severity := range m.AllSeverities {
				edit := m.Edit{Property: count.Property, ArticulationPoint: point, Severity: severity}
				if isSelected(opts, edit) {
					edits = append(edits, edit)
				}
			}
		}

		if len(edits) == 0 && !opts.NoEdits {
			continue
		}

		matrix.Entries = append(matrix.Entries, MatrixEntry{Property: count.Property, Edits: edits})
	}

	return matrix
}

func isSelected(opts MatrixOptions, edit m.Edit) bool {
	if opts.NoEdits {
		return false
	}

	return len(opts.Only) == 0 || slices.Contains(opts.Only, edit)
}

// Configurations lists every run configuration: per property the baseline
// followed by its edits, each across all versions.
func (mx Matrix) Configurations() []m.RunConfiguration {
	var configs []m.RunConfiguration

	for _, entry := range mx.Entries {
		edits := make([]*m.Edit, 0, len(entry.Edits)+1)
		edits = append(edits, nil)

		for i := range entry.Edits {
			edits = append(edits, &entry.Edits[i])
		}

		for _, edit := range edits {
			for _, version := range mx.Versions {
				configs = append(configs, m.RunConfiguration{Property: entry.Property, Version: version, Edit: edit})
			}
		}
	}

	return configs
}

// StepsPerConfiguration is the progress weight of one configuration: its
// build, one step per checker and one per error-message template.
func (mx Matrix) StepsPerConfiguration() int {
	return 1 + len(mx.Checkers) + len(mx.Templates)
}

// TotalSteps is the progress denominator of the whole run.
func (mx Matrix) TotalSteps() int {
	rows := 0
	for _, entry := range mx.Entries {
		rows += len(entry.Edits) + 1
	}

	return rows * len(mx.Versions) * mx.StepsPerConfiguration()
}

// NewResultTable allocates one cell per configuration.
func (mx Matrix) NewResultTable() *m.ResultTable {
	table := m.NewResultTable(mx.Versions)
	for _, cfg := range mx.Configurations() {
		table.Add(cfg)
	}

	return table
}

// Plan renders the matrix for display.
func (mx Matrix) Plan() m.Plan {
	plan := m.Plan{
		Versions:   m.VersionNames(mx.Versions),
		Templates:  slices.Clone(mx.Templates),
		Checkers:   slices.Clone(mx.Checkers),
		TotalSteps: mx.TotalSteps(),
	}

	for _, entry := range mx.Entries {
		plan.Entries = append(plan.Entries, m.PlanEntry{Property: entry.Property, Edits: slices.Clone(entry.Edits)})
	}

	return plan
}

package model

import "time"

// Classification relates an observed verdict to the expected one.
type Classification int

const (
	// Uninteresting covers matching verdicts, timeouts and compilation errors.
	Uninteresting Classification = iota
	// FalsePositive is an Error verdict where Success was expected.
	FalsePositive
	// FalseNegative is a Success verdict where Error was expected.
	FalseNegative
)

func (c Classification) String() string {
	switch c {
	case FalsePositive:
		return "false positive"
	case FalseNegative:
		return "false negative"
	default:
		return "uninteresting"
	}
}

// ReportCell is one (edit, version) cell of the verdict table.
type ReportCell struct {
	CompilationError bool
	// Pending is set when the cell never completed its check step.
	Pending         bool
	Results         []CheckResult
	Classifications []Classification
}

// ReportRow is one edit (or the baseline) of a property table.
type ReportRow struct {
	Edit     *Edit
	Expected string
	Cells    []ReportCell
}

// Label returns the row label.
func (r ReportRow) Label() string {
	return EditLabel(r.Edit)
}

// PropertyReport is the verdict table of one property.
type PropertyReport struct {
	Property       Property
	Versions       []string
	Rows           []ReportRow
	FalseNegatives []int
	FalsePositives []int
}

// ErrMsgLine is one error-message outcome of one configuration.
type ErrMsgLine struct {
	Config RunConfiguration
	Result ErrMsgResult
}

// TemplateSummary aggregates error-message runtimes of one template.
type TemplateSummary struct {
	Template  Template
	Runs      int
	Succeeded int
	Sat       int
	TimedOut  int
	Mean      time.Duration
	Median    time.Duration
	Max       time.Duration
}

// Report is everything the UI renders after a run.
type Report struct {
	RunID      string
	Properties []PropertyReport
	ErrMsgs    []ErrMsgLine
	Summaries  []TemplateSummary
}

// PlanEntry is one property of the matrix with its selected edits.
type PlanEntry struct {
	Property Property
	Edits    []Edit
}

// Plan describes the matrix before anything runs.
type Plan struct {
	Entries    []PlanEntry
	Versions   []string
	Templates  []Template
	Checkers   []CheckerKind
	TotalSteps int
}

// Progress is a snapshot of run progress.
type Progress struct {
	Message string
	Done    int
	Total   int
}

package model

import "time"

// RunRecord is a finished run as persisted in the result store.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Templates  []Template
	Checkers   []CheckerKind
	Table      *ResultTable
}

// RunSummary is the listing form of a stored run.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Cells      int
}

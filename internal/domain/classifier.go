package domain

import (
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// ExpectedStatus is the verdict a correct checker gives: Success for the
// baseline and benign edits, Error otherwise.
func ExpectedStatus(edit *m.Edit) m.CheckStatus {
	if edit == nil || edit.Severity.ExpectsSuccess() {
		return m.CheckSuccess
	}

	return m.CheckError
}

// ExpectedMarker is the symbol of the "expected" column.
func ExpectedMarker(edit *m.Edit) string {
	if edit == nil {
		return m.SuccessMarker
	}

	return edit.Severity.ExpectedMarker()
}

// Classify relates one verdict to the expectation. Timeouts are never
// counted.
func Classify(edit *m.Edit, result m.CheckResult) m.Classification {
	expected := ExpectedStatus(edit)

	switch {
	case result.Status == m.CheckError && expected == m.CheckSuccess:
		return m.FalsePositive
	case result.Status == m.CheckSuccess && expected == m.CheckError:
		return m.FalseNegative
	default:
		return m.Uninteresting
	}
}

// BuildReport classifies every cell of table and tallies false positives
// and negatives per (property, version).
func BuildReport(runID string, table *m.ResultTable) m.Report {
	report := m.Report{RunID: runID}
	versions := table.Versions()

	for _, property := range table.Properties() {
		report.Properties = append(report.Properties, buildPropertyReport(table, property, versions))
	}

	report.ErrMsgs = collectErrMsgLines(table, versions)
	report.Summaries = SummarizeErrMsgRuntimes(report.ErrMsgs)

	return report
}

func buildPropertyReport(table *m.ResultTable, property m.Property, versions []m.Version) m.PropertyReport {
	pr := m.PropertyReport{
		Property:       property,
		Versions:       m.VersionNames(versions),
		FalseNegatives: make([]int, len(versions)),
		FalsePositives: make([]int, len(versions)),
	}

	for _, edit := range table.Edits(property) {
		row := m.ReportRow{Edit: edit, Expected: ExpectedMarker(edit)}

		for i, version := range versions {
			cell, ok := table.Cell(property, edit, version.Name)
			if !ok {
				row.Cells = append(row.Cells, m.ReportCell{Pending: true})
				continue
			}

			rc := classifyCell(cell)

			for _, c := range rc.Classifications {
				switch c {
				case m.FalsePositive:
					pr.FalsePositives[i]++
				case m.FalseNegative:
					pr.FalseNegatives[i]++
				case m.Uninteresting:
				}
			}

			row.Cells = append(row.Cells, rc)
		}

		pr.Rows = append(pr.Rows, row)
	}

	return pr
}

func classifyCell(cell *m.Cell) m.ReportCell {
	build, built := cell.Build()
	if built && !build.Succeeded {
		return m.ReportCell{CompilationError: true}
	}

	checks, checked := cell.Checks()
	if !checked {
		return m.ReportCell{Pending: true}
	}

	rc := m.ReportCell{Results: checks}
	for _, result := range checks {
		rc.Classifications = append(rc.Classifications, Classify(cell.Config.Edit, result))
	}

	return rc
}

func collectErrMsgLines(table *m.ResultTable, versions []m.Version) []m.ErrMsgLine {
	var lines []m.ErrMsgLine

	for _, property := range table.Properties() {
		for _, edit := range table.Edits(property) {
			for _, version := range versions {
				cell, ok := table.Cell(property, edit, version.Name)
				if !ok {
					continue
				}

				for _, result := range cell.ErrMsgs() {
					lines = append(lines, m.ErrMsgLine{Config: cell.Config, Result: result})
				}
			}
		}
	}

	return lines
}

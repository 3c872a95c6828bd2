package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

const (
	pendingLabel   = "-"
	tallyFalseNeg  = "false neg"
	tallyFalsePos  = "false pos"
	expectedHeader = "expected"
	timeLayout     = "2006-01-02 15:04:05"
)

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	return table
}

func formatCell(cell m.ReportCell) string {
	switch {
	case cell.CompilationError:
		return m.CompileErrorMarker
	case cell.Pending:
		return pendingLabel
	}

	parts := make([]string, 0, len(cell.Results))
	for _, result := range cell.Results {
		parts = append(parts, fmt.Sprintf("%s: %s", result.Checker, result))
	}

	return strings.Join(parts, ", ")
}

func renderPropertyTable(pr m.PropertyReport) string {
	var buf bytes.Buffer

	header := append([]string{pr.Property.String(), expectedHeader}, pr.Versions...)
	table := newTable(&buf, header)

	alignment := make([]int, len(header))
	for i := range alignment {
		alignment[i] = tablewriter.ALIGN_CENTER
	}

	alignment[0] = tablewriter.ALIGN_LEFT
	table.SetColumnAlignment(alignment)

	for _, row := range pr.Rows {
		line := []string{row.Label(), row.Expected}
		for _, cell := range row.Cells {
			line = append(line, formatCell(cell))
		}

		table.Append(line)
	}

	table.Append(tallyRow(tallyFalseNeg, pr.FalseNegatives))
	table.Append(tallyRow(tallyFalsePos, pr.FalsePositives))
	table.Render()

	return buf.String()
}

func tallyRow(label string, counts []int) []string {
	row := []string{label, pendingLabel}
	for _, c := range counts {
		row = append(row, fmt.Sprintf("%d", c))
	}

	return row
}

func formatErrMsgLine(line m.ErrMsgLine) string {
	return fmt.Sprintf("%s: %s %s", line.Config.Describe(), line.Result.Template, line.Result)
}

func renderSummaryTable(summaries []m.TemplateSummary) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Template", "Runs", "Succeeded", "Sat", "Timed out", "Mean", "Median", "Max"})

	for _, s := range summaries {
		table.Append([]string{
			string(s.Template),
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%d", s.Succeeded),
			fmt.Sprintf("%d", s.Sat),
			fmt.Sprintf("%d", s.TimedOut),
			m.FormatDuration(s.Mean),
			m.FormatDuration(s.Median),
			m.FormatDuration(s.Max),
		})
	}

	table.Render()

	return buf.String()
}

func renderReport(report m.Report) string {
	var b strings.Builder

	if report.RunID != "" {
		fmt.Fprintf(&b, "Run %s\n\n", report.RunID)
	}

	for _, pr := range report.Properties {
		b.WriteString(renderPropertyTable(pr))
		b.WriteString("\n")
	}

	b.WriteString("Error message results:\n")

	for _, line := range report.ErrMsgs {
		b.WriteString(formatErrMsgLine(line))
		b.WriteString("\n")
	}

	if len(report.Summaries) > 0 {
		b.WriteString("\n")
		b.WriteString(renderSummaryTable(report.Summaries))
	}

	return b.String()
}

func renderPlan(plan m.Plan) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Property", "Edits", "Configurations"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	configurations := 0

	for _, entry := range plan.Entries {
		edits := make([]string, 0, len(entry.Edits)+1)
		edits = append(edits, m.BaselineLabel)

		for _, e := range entry.Edits {
			edits = append(edits, e.String())
		}

		count := len(edits) * len(plan.Versions)
		configurations += count

		table.Append([]string{entry.Property.String(), strings.Join(edits, " "), fmt.Sprintf("%d", count)})
	}

	table.SetFooter([]string{fmt.Sprintf("Properties %d", len(plan.Entries)), "", fmt.Sprintf("%d", configurations)})
	table.Render()

	templates := make([]string, 0, len(plan.Templates))
	for _, t := range plan.Templates {
		templates = append(templates, string(t))
	}

	if len(templates) == 0 {
		templates = append(templates, m.TemplatesNone)
	}

	checkers := make([]string, 0, len(plan.Checkers))
	for _, c := range plan.Checkers {
		checkers = append(checkers, c.String())
	}

	fmt.Fprintf(&buf, "Versions:  %s\n", strings.Join(plan.Versions, ", "))
	fmt.Fprintf(&buf, "Checkers:  %s\n", strings.Join(checkers, ", "))
	fmt.Fprintf(&buf, "Templates: %s\n", strings.Join(templates, ", "))
	fmt.Fprintf(&buf, "Steps:     %d\n", plan.TotalSteps)

	return buf.String()
}

func renderRuns(runs []m.RunSummary) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Run", "Started", "Finished", "Cells"})

	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.StartedAt.Local().Format(timeLayout),
			run.FinishedAt.Local().Format(timeLayout),
			fmt.Sprintf("%d", run.Cells),
		})
	}

	table.Render()

	return buf.String()
}

func formatCommand(spec m.ProcessSpec) string {
	return fmt.Sprintf("Executing %s command: %s %s", spec.Step, spec.Name, strings.Join(spec.Args, " "))
}

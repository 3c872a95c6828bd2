package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// ErrMsgCSVHeader is the header row of err-msg-stats.csv.
var ErrMsgCSVHeader = []string{
	"Property", "Version", "Articulation Point", "Severity", "Runtime",
	"Success", "Repair Type", "Error Size", "Graph Size", "Labels Size",
}

// SummarizeErrMsgRuntimes aggregates runtimes per template, in template order.
// Timed out and malformed runs count towards Runs but not towards the
// runtime statistics.
func SummarizeErrMsgRuntimes(lines []m.ErrMsgLine) []m.TemplateSummary {
	byTemplate := make(map[m.Template]*m.TemplateSummary)
	runtimes := make(map[m.Template][]float64)

	var order []m.Template

	for _, line := range lines {
		t := line.Result.Template

		summary, ok := byTemplate[t]
		if !ok {
			summary = &m.TemplateSummary{Template: t}
			byTemplate[t] = summary

			order = append(order, t)
		}

		summary.Runs++

		switch line.Result.Status {
		case m.ErrMsgSuccess:
			summary.Succeeded++
			runtimes[t] = append(runtimes[t], line.Result.Duration.Seconds())
		case m.ErrMsgSat:
			summary.Sat++
			runtimes[t] = append(runtimes[t], line.Result.Duration.Seconds())
		case m.ErrMsgTimeout:
			summary.TimedOut++
		case m.ErrMsgMalformed:
		}
	}

	slices.SortStableFunc(order, func(a, b m.Template) int {
		return slices.Index(m.AllTemplates, a) - slices.Index(m.AllTemplates, b)
	})

	summaries := make([]m.TemplateSummary, 0, len(order))

	for _, t := range order {
		summary := byTemplate[t]
		data := stats.Float64Data(runtimes[t])

		if data.Len() > 0 {
			summary.Mean = secondsOrZero(data.Mean())
			summary.Median = secondsOrZero(data.Median())
			summary.Max = secondsOrZero(data.Max())
		}

		summaries = append(summaries, *summary)
	}

	return summaries
}

func secondsOrZero(value float64, err error) time.Duration {
	if err != nil {
		slog.Debug("Runtime statistic unavailable", "error", err)
		return 0
	}

	return time.Duration(value * float64(time.Second))
}

// WriteErrMsgCSV writes one row per error-message result.
func WriteErrMsgCSV(w io.Writer, lines []m.ErrMsgLine) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ErrMsgCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, line := range lines {
		if err := writer.Write(errMsgRecord(line)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func errMsgRecord(line m.ErrMsgLine) []string {
	cfg := line.Config
	result := line.Result

	point, severity := "", ""
	if cfg.Edit != nil {
		point = strconv.Itoa(cfg.Edit.ArticulationPoint)
		severity = cfg.Edit.Severity.String()
	}

	var success string

	runtime := result.Duration

	switch result.Status {
	case m.ErrMsgTimeout:
		success = "timeout"
		runtime = 0
	case m.ErrMsgSat:
		success = "failed"
	case m.ErrMsgSuccess:
		success = "yes"
	case m.ErrMsgMalformed:
		success = "malformed"
	}

	errorSize, graphSize, labelsSize := "", "", ""

	if result.Status == m.ErrMsgSuccess {
		if result.Payload.Kind == m.PayloadMarkers {
			labelsSize = strconv.Itoa(result.Payload.Markers)
		} else {
			errorSize = strconv.Itoa(result.Payload.ErrorEdges)
			graphSize = strconv.Itoa(result.Payload.RegularEdges)
		}
	}

	return []string{
		cfg.Property.String(),
		cfg.Version.Name,
		point,
		severity,
		m.FormatDuration(runtime),
		success,
		string(result.Template),
		errorSize,
		graphSize,
		labelsSize,
	}
}

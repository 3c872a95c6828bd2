package model

import (
	"fmt"
	"time"
)

// Markers used when rendering verdicts.
const (
	SuccessMarker      = "✅"
	ErrorMarker        = "❌"
	TimeoutMarker      = "⏲"
	CompileErrorMarker = "🚧"
)

// CheckStatus is the verdict of a single checker run.
type CheckStatus int

const (
	// CheckSuccess means the checker accepted the artifact.
	CheckSuccess CheckStatus = iota
	// CheckError means the checker reported a violation.
	CheckError
	// CheckTimeout means the checker was killed.
	CheckTimeout
)

func (s CheckStatus) String() string {
	switch s {
	case CheckSuccess:
		return "success"
	case CheckError:
		return "error"
	case CheckTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CheckResult is the outcome of one checker against one configuration.
type CheckResult struct {
	Checker  CheckerKind
	Status   CheckStatus
	Duration time.Duration
}

// CheckResultFromProcess converts a process result into a verdict.
func CheckResultFromProcess(kind CheckerKind, result ProcessResult) CheckResult {
	switch result.Outcome {
	case ProcessSucceeded:
		return CheckResult{Checker: kind, Status: CheckSuccess, Duration: result.Elapsed}
	case ProcessFailed:
		return CheckResult{Checker: kind, Status: CheckError, Duration: result.Elapsed}
	default:
		return CheckResult{Checker: kind, Status: CheckTimeout}
	}
}

func (r CheckResult) String() string {
	switch r.Status {
	case CheckSuccess:
		return fmt.Sprintf("%s(%s)", SuccessMarker, FormatDuration(r.Duration))
	case CheckError:
		return fmt.Sprintf("%s(%s)", ErrorMarker, FormatDuration(r.Duration))
	default:
		return TimeoutMarker
	}
}

// BuildOutcome records whether the builder produced an artifact.
type BuildOutcome struct {
	Succeeded bool
	Elapsed   time.Duration
	// Reason is set when the build failed, e.g. "exit status 101" or "timeout".
	Reason string
}

// PayloadSize is the diagnostic size extracted from a counterexample.
type PayloadSize struct {
	Kind         PayloadKind
	RegularEdges int
	ErrorEdges   int
	Markers      int
}

// ErrMsgStatus enumerates error-message check outcomes.
type ErrMsgStatus int

const (
	// ErrMsgTimeout means the solver was killed before it answered.
	ErrMsgTimeout ErrMsgStatus = iota
	// ErrMsgSat means the solver did not refute the property.
	ErrMsgSat
	// ErrMsgSuccess means a counterexample was found and measured.
	ErrMsgSuccess
	// ErrMsgMalformed means the solver refuted but its counterexample could not be read.
	ErrMsgMalformed
)

func (s ErrMsgStatus) String() string {
	switch s {
	case ErrMsgTimeout:
		return "timeout"
	case ErrMsgSat:
		return "sat"
	case ErrMsgSuccess:
		return "success"
	case ErrMsgMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ErrMsgResult is the outcome of one error-message template run.
type ErrMsgResult struct {
	Template Template
	Status   ErrMsgStatus
	Duration time.Duration
	Payload  PayloadSize
	// Problem describes why a counterexample was malformed.
	Problem string
}

func (r ErrMsgResult) String() string {
	switch r.Status {
	case ErrMsgTimeout:
		return "timed out"
	case ErrMsgSat:
		return fmt.Sprintf("was satisfiable in %s", FormatDuration(r.Duration))
	case ErrMsgSuccess:
		if r.Payload.Kind == PayloadMarkers {
			return fmt.Sprintf("succeeded in %s with %d new markers", FormatDuration(r.Duration), r.Payload.Markers)
		}

		return fmt.Sprintf("succeeded in %s with %d of %d edges", FormatDuration(r.Duration), r.Payload.ErrorEdges, r.Payload.RegularEdges)
	case ErrMsgMalformed:
		return "malformed counterexample: " + r.Problem
	default:
		return "unknown"
	}
}

// FormatDuration renders a duration rounded to milliseconds.
func FormatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

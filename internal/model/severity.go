package model

import (
	"errors"
	"fmt"
)

// ErrUnknownSeverity is returned when a severity token is not recognised.
var ErrUnknownSeverity = errors.New("unrecognized severity")

// Severity encodes the verdict a check is expected to produce for an edit.
type Severity int

const (
	// Benign edits must not be flagged by the checker.
	Benign Severity = iota
	// Bug edits introduce an accidental policy violation.
	Bug
	// Intentional edits introduce a deliberate policy violation.
	Intentional
)

// AllSeverities lists every severity in order.
var AllSeverities = []Severity{Benign, Bug, Intentional}

func (s Severity) String() string {
	switch s {
	case Benign:
		return "a"
	case Bug:
		return "b"
	case Intentional:
		return "c"
	default:
		return "?"
	}
}

// ParseSeverity parses the single letter form of a severity (a, b, c).
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range AllSeverities {
		if sev.String() == s {
			return sev, nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrUnknownSeverity, s)
}

// ExpectsSuccess reports whether a check of an edit with this severity
// should pass.
func (s Severity) ExpectsSuccess() bool {
	return s == Benign
}

// ExpectedMarker is the symbol rendered in the "expected" column.
func (s Severity) ExpectedMarker() string {
	if s.ExpectsSuccess() {
		return SuccessMarker
	}

	return ErrorMarker
}

package domain

import (
	"errors"
	"fmt"
	"strings"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
	"evaldriver.dev/pkg/evaldriver/pkg/sexpr"
)

// Sentinel errors of counterexample extraction.
var (
	ErrMissingDelimiter        = errors.New("missing counterexample delimiter")
	ErrMalformedCounterexample = errors.New("malformed counterexample")
)

// Delimiters of the unsat instance printed by the solver.
const (
	counterexampleStart = "'(#hash"
	counterexampleEnd   = "'(("
	counterexampleClose = ")"
)

// Keys of the counterexample association list.
const (
	KeyMinimalSubflow   = "minimal_subflow"
	KeyFlow             = "flow"
	KeyAdditionalLabels = "additional_labels"
)

// ExtractCounterexample cuts the association list out of the solver output
// and parses it.
func ExtractCounterexample(output string) (sexpr.Value, error) {
	_, rest, found := strings.Cut(output, counterexampleStart)
	if !found {
		return sexpr.Value{}, fmt.Errorf("%w: did not find pattern %q", ErrMissingDelimiter, counterexampleStart)
	}

	end := strings.LastIndex(rest, counterexampleEnd)
	if end < 0 {
		return sexpr.Value{}, fmt.Errorf("%w: did not find pattern %q at the end of the output", ErrMissingDelimiter, counterexampleEnd)
	}

	rest = rest[:end]

	closing := strings.LastIndex(rest, counterexampleClose)
	if closing < 0 {
		return sexpr.Value{}, fmt.Errorf("%w: did not find pattern %q before %q", ErrMissingDelimiter, counterexampleClose, counterexampleEnd)
	}

	value, err := sexpr.Parse(rest[:closing])
	if err != nil {
		return sexpr.Value{}, fmt.Errorf("%w: %w", ErrMalformedCounterexample, err)
	}

	return value, nil
}

// ParseCounterexampleEdges returns the number of regular flow edges and of
// error-subgraph edges.
func ParseCounterexampleEdges(output string) (regular, errorEdges int, err error) {
	value, err := ExtractCounterexample(output)
	if err != nil {
		return 0, 0, err
	}

	errorEdges, err = countTuples(value, KeyMinimalSubflow)
	if err != nil {
		return 0, 0, err
	}

	regular, err = countTuples(value, KeyFlow)
	if err != nil {
		return 0, 0, err
	}

	return regular, errorEdges, nil
}

// ParseCounterexampleMarkers returns the number of additional labels.
func ParseCounterexampleMarkers(output string) (int, error) {
	value, err := ExtractCounterexample(output)
	if err != nil {
		return 0, err
	}

	return countTuples(value, KeyAdditionalLabels)
}

// MeasureCounterexample computes the payload a template reports.
func MeasureCounterexample(kind m.PayloadKind, output string) (m.PayloadSize, error) {
	if kind == m.PayloadMarkers {
		markers, err := ParseCounterexampleMarkers(output)
		if err != nil {
			return m.PayloadSize{}, err
		}

		return m.PayloadSize{Kind: m.PayloadMarkers, Markers: markers}, nil
	}

	regular, errorEdges, err := ParseCounterexampleEdges(output)
	if err != nil {
		return m.PayloadSize{}, err
	}

	return m.PayloadSize{Kind: m.PayloadEdges, RegularEdges: regular, ErrorEdges: errorEdges}, nil
}

// countTuples counts the 2- or 3-element atom lists bound to key.
func countTuples(alist sexpr.Value, key string) (int, error) {
	value, ok := alist.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: did not find %q key", ErrMalformedCounterexample, key)
	}

	if !value.IsList() {
		return 0, fmt.Errorf("%w: %q is not a list", ErrMalformedCounterexample, key)
	}

	for i, tuple := range value.Items {
		if !tuple.IsList() {
			return 0, fmt.Errorf("%w: %q element %d is not a list", ErrMalformedCounterexample, key, i)
		}

		if n := len(tuple.Items); n != 2 && n != 3 {
			return 0, fmt.Errorf("%w: %q element %d has %d entries, expected 2 or 3", ErrMalformedCounterexample, key, i, n)
		}

		for _, atom := range tuple.Items {
			if !atom.IsAtom() {
				return 0, fmt.Errorf("%w: %q element %d contains a nested list", ErrMalformedCounterexample, key, i)
			}
		}
	}

	return len(value.Items), nil
}

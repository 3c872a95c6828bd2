package model

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidEdit is returned when an edit token cannot be parsed.
var ErrInvalidEdit = errors.New("invalid edit")

const editPrefix = "edit"

// Edit identifies one injected mutation of the analysed fixture.
type Edit struct {
	Property          Property
	ArticulationPoint int
	Severity          Severity
}

// String renders the canonical token, e.g. edit-del-2-a.
func (e Edit) String() string {
	return fmt.Sprintf("%s-%s-%d-%s", editPrefix, e.Property, e.ArticulationPoint, e.Severity)
}

// ParseEdit parses the canonical token produced by Edit.String.
func ParseEdit(s string) (Edit, error) {
	fields := strings.Split(s, "-")
	if fields[0] != editPrefix {
		return Edit{}, fmt.Errorf("%w %q: token must start with %q", ErrInvalidEdit, s, editPrefix+"-")
	}

	if len(fields) != 4 {
		return Edit{}, fmt.Errorf("%w %q: expected 3 '-' separated fields after %q, got %d", ErrInvalidEdit, s, editPrefix, len(fields)-1)
	}

	property, err := ParseProperty(fields[1])
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: %w", ErrInvalidEdit, s, err)
	}

	point, err := strconv.Atoi(fields[2])
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: articulation point: %w", ErrInvalidEdit, s, err)
	}

	if point < 1 {
		return Edit{}, fmt.Errorf("%w %q: articulation point must be positive", ErrInvalidEdit, s)
	}

	severity, err := ParseSeverity(fields[3])
	if err != nil {
		return Edit{}, fmt.Errorf("%w %q: %w", ErrInvalidEdit, s, err)
	}

	return Edit{Property: property, ArticulationPoint: point, Severity: severity}, nil
}

// ParseEdits parses every token, failing on the first invalid one.
func ParseEdits(tokens []string) ([]Edit, error) {
	edits := make([]Edit, 0, len(tokens))

	for _, token := range tokens {
		edit, err := ParseEdit(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}

		edits = append(edits, edit)
	}

	return edits, nil
}

// Compare orders edits by property, then articulation point, then severity.
func (e Edit) Compare(other Edit) int {
	if c := cmp.Compare(e.Property, other.Property); c != 0 {
		return c
	}

	if c := cmp.Compare(e.ArticulationPoint, other.ArticulationPoint); c != 0 {
		return c
	}

	return cmp.Compare(e.Severity, other.Severity)
}

// CompareEditPtr orders optional edits with the baseline (nil) first.
func CompareEditPtr(a, b *Edit) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// EditLabel renders an optional edit, using "none" for the baseline.
func EditLabel(e *Edit) string {
	if e == nil {
		return BaselineLabel
	}

	return e.String()
}

// BaselineLabel is the row label of the unmodified fixture.
const BaselineLabel = "none"

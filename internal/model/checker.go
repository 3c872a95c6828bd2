package model

import (
	"errors"
	"fmt"
)

// ErrUnknownChecker is returned for an unrecognised checker kind.
var ErrUnknownChecker = errors.New("unknown checker kind")

// CheckerKind selects which verifier evaluates a build artifact.
type CheckerKind int

const (
	// SolverChecker runs the generated script through the external solver.
	SolverChecker CheckerKind = iota
	// NativeChecker runs the native policy checker against the flow graph.
	NativeChecker
)

// AllCheckers lists checker kinds in the order they run.
var AllCheckers = []CheckerKind{SolverChecker, NativeChecker}

func (k CheckerKind) String() string {
	switch k {
	case SolverChecker:
		return "solver"
	case NativeChecker:
		return "native"
	default:
		return "unknown"
	}
}

// checkerAliases maps the older property type names onto checker kinds.
var checkerAliases = map[string]CheckerKind{
	"forge": SolverChecker,
	"rust":  NativeChecker,
}

// ParseCheckerKind parses "solver" or "native". The older names "forge"
// and "rust" are accepted as well.
func ParseCheckerKind(s string) (CheckerKind, error) {
	if k, ok := checkerAliases[s]; ok {
		return k, nil
	}

	for _, k := range AllCheckers {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrUnknownChecker, s)
}

// ParseCheckers resolves an optional checker selection; empty selects all.
func ParseCheckers(s string) ([]CheckerKind, error) {
	if s == "" {
		return append([]CheckerKind(nil), AllCheckers...), nil
	}

	kind, err := ParseCheckerKind(s)
	if err != nil {
		return nil, err
	}

	return []CheckerKind{kind}, nil
}

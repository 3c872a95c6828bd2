// Package model defines the data structures shared by the evaluation engine,
// its adapters and its user interfaces.
package model

import (
	"errors"
	"fmt"
)

// ErrUnknownProperty is returned when a property token is not recognised.
var ErrUnknownProperty = errors.New("unknown property")

// Property identifies the policy family under test.
type Property int

const (
	// Deletion checks that stored sensitive data can be deleted.
	Deletion Property = iota
	// Storage checks that sensitive data is only stored in scoped locations.
	Storage
	// Disclosure checks that sensitive data only reaches authorised sinks.
	Disclosure
)

// AllProperties lists every property in declaration order.
var AllProperties = []Property{Deletion, Storage, Disclosure}

// DefaultEditCounts maps each property to the highest articulation point
// injected into the fixture for it.
var DefaultEditCounts = []PropertyEdits{
	{Property: Deletion, Points: 3},
	{Property: Storage, Points: 1},
	{Property: Disclosure, Points: 3},
}

// PropertyEdits pairs a property with its number of articulation points.
type PropertyEdits struct {
	Property Property
	Points   int
}

func (p Property) String() string {
	switch p {
	case Deletion:
		return "del"
	case Storage:
		return "sc"
	case Disclosure:
		return "dis"
	default:
		return "unknown"
	}
}

// ParseProperty parses the short token form of a property (del, sc, dis).
func ParseProperty(s string) (Property, error) {
	for _, p := range AllProperties {
		if p.String() == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrUnknownProperty, s)
}

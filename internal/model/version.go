package model

import (
	"errors"
	"fmt"
)

// ErrUnknownVersion is returned when a requested version is not known.
var ErrUnknownVersion = errors.New("unknown specification version")

// Version is a named composition of specification fragments.
type Version struct {
	Name     string
	Includes []string
}

// KnownVersions is the fixed catalogue of specification variants.
var KnownVersions = []Version{
	{Name: "lib", Includes: []string{"dfpp-props/basic-helpers", "lib_framework_helpers"}},
	{Name: "baseline", Includes: []string{"dfpp-props/basic-helpers", "framework_helpers"}},
	{Name: "strict", Includes: []string{"dfpp-props/basic-helpers", "strict_framework_helpers"}},
}

// LookupVersions resolves names against the catalogue, keeping catalogue
// order. An empty request selects every known version.
func LookupVersions(catalogue []Version, names []string) ([]Version, error) {
	if len(names) == 0 {
		return append([]Version(nil), catalogue...), nil
	}

	wanted := make(map[string]bool, len(names))

	for _, name := range names {
		if !containsVersion(catalogue, name) {
			return nil, fmt.Errorf("%w %q", ErrUnknownVersion, name)
		}

		wanted[name] = true
	}

	selected := make([]Version, 0, len(wanted))

	for _, v := range catalogue {
		if wanted[v.Name] {
			selected = append(selected, v)
		}
	}

	return selected, nil
}

func containsVersion(catalogue []Version, name string) bool {
	for _, v := range catalogue {
		if v.Name == name {
			return true
		}
	}

	return false
}

// VersionNames returns the names of the given versions.
func VersionNames(versions []Version) []string {
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		names = append(names, v.Name)
	}

	return names
}

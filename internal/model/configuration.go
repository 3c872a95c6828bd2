package model

import "strings"

// OriginalDirName is the output directory name of baseline configurations.
const OriginalDirName = "original"

// RunConfiguration identifies one matrix cell: a property, a version and an
// optional edit. A nil Edit denotes the unmodified baseline.
type RunConfiguration struct {
	Property Property
	Version  Version
	Edit     *Edit
}

// IsBaseline reports whether the configuration runs the unmodified fixture.
func (c RunConfiguration) IsBaseline() bool {
	return c.Edit == nil
}

// OutputDirName is the per-edit output subdirectory name.
func (c RunConfiguration) OutputDirName() string {
	if c.Edit == nil {
		return OriginalDirName
	}

	return c.Edit.String()
}

// Describe renders <property>-<version>-<edit|original>.
func (c RunConfiguration) Describe() string {
	var b strings.Builder

	b.WriteString(c.Property.String())
	b.WriteByte('-')
	b.WriteString(c.Version.Name)
	b.WriteByte('-')
	b.WriteString(c.OutputDirName())

	return b.String()
}

// Key returns the comparable identity of the configuration.
func (c RunConfiguration) Key() CellKey {
	key := CellKey{Property: c.Property, Version: c.Version.Name}
	if c.Edit != nil {
		key.Edit = *c.Edit
		key.HasEdit = true
	}

	return key
}

// CellKey is the comparable identity of a result table cell.
type CellKey struct {
	Property Property
	Edit     Edit
	HasEdit  bool
	Version  string
}

// EditPtr returns the key's edit, or nil for the baseline.
func (k CellKey) EditPtr() *Edit {
	if !k.HasEdit {
		return nil
	}

	edit := k.Edit

	return &edit
}

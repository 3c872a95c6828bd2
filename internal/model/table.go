package model

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrAlreadyRecorded is returned when a cell step is recorded twice.
var ErrAlreadyRecorded = errors.New("result already recorded")

// Cell holds every result produced for one run configuration. All accessors
// are safe for concurrent use; each cell carries its own lock.
type Cell struct {
	Config RunConfiguration

	mu      sync.Mutex
	build   *BuildOutcome
	checks  []CheckResult
	checked bool
	errMsgs []ErrMsgResult
}

// SetBuild records the build outcome. A configuration is built at most once.
func (c *Cell) SetBuild(outcome BuildOutcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.build != nil {
		return fmt.Errorf("%w: build of %s", ErrAlreadyRecorded, c.Config.Describe())
	}

	c.build = &outcome

	return nil
}

// Build returns the build outcome and whether it has been recorded.
func (c *Cell) Build() (BuildOutcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.build == nil {
		return BuildOutcome{}, false
	}

	return *c.build, true
}

// SetChecks records the checker verdicts. A configuration is checked at most once.
func (c *Cell) SetChecks(results []CheckResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checked {
		return fmt.Errorf("%w: checks of %s", ErrAlreadyRecorded, c.Config.Describe())
	}

	c.checks = slices.Clone(results)
	c.checked = true

	return nil
}

// Checks returns the checker verdicts and whether they have been recorded.
func (c *Cell) Checks() ([]CheckResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.checks), c.checked
}

// AppendErrMsg records one error-message template outcome.
func (c *Cell) AppendErrMsg(result ErrMsgResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsgs = append(c.errMsgs, result)
}

// ErrMsgs returns the error-message outcomes in the order they ran.
func (c *Cell) ErrMsgs() []ErrMsgResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.errMsgs)
}

// SolverFailed reports whether the solver checker returned an Error verdict.
func (c *Cell) SolverFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.checks {
		if r.Checker == SolverChecker && r.Status == CheckError {
			return true
		}
	}

	return false
}

// ResultTable maps property → edit → version to a result cell. Cells are
// created up front; afterwards the table itself is read-only and only the
// cells change.
type ResultTable struct {
	versions []Version
	order    []CellKey
	cells    map[CellKey]*Cell
}

// NewResultTable creates an empty table whose columns are the given versions.
func NewResultTable(versions []Version) *ResultTable {
	return &ResultTable{
		versions: slices.Clone(versions),
		cells:    make(map[CellKey]*Cell),
	}
}

// Add inserts a cell for cfg, returning the existing cell on duplicates.
// Add must not be called once cells are being filled concurrently.
func (t *ResultTable) Add(cfg RunConfiguration) *Cell {
	key := cfg.Key()
	if cell, ok := t.cells[key]; ok {
		return cell
	}

	cell := &Cell{Config: cfg}
	t.cells[key] = cell
	t.order = append(t.order, key)

	return cell
}

// Cell looks up the cell of a (property, edit, version) triple.
func (t *ResultTable) Cell(property Property, edit *Edit, version string) (*Cell, bool) {
	key := CellKey{Property: property, Version: version}
	if edit != nil {
		key.Edit = *edit
		key.HasEdit = true
	}

	cell, ok := t.cells[key]

	return cell, ok
}

// Cells returns every cell in insertion order.
func (t *ResultTable) Cells() []*Cell {
	cells := make([]*Cell, 0, len(t.order))
	for _, key := range t.order {
		cells = append(cells, t.cells[key])
	}

	return cells
}

// Len returns the number of cells.
func (t *ResultTable) Len() int {
	return len(t.order)
}

// Versions returns the table's version columns.
func (t *ResultTable) Versions() []Version {
	return slices.Clone(t.versions)
}

// Properties returns the properties present in the table in insertion order.
func (t *ResultTable) Properties() []Property {
	var properties []Property

	for _, key := range t.order {
		if !slices.Contains(properties, key.Property) {
			properties = append(properties, key.Property)
		}
	}

	return properties
}

// Edits returns the distinct optional edits of a property, baseline first
// and the remaining edits in Edit order.
func (t *ResultTable) Edits(property Property) []*Edit {
	seen := make(map[CellKey]bool)

	var edits []*Edit

	for _, key := range t.order {
		if key.Property != property {
			continue
		}

		rowKey := CellKey{Property: key.Property, Edit: key.Edit, HasEdit: key.HasEdit}
		if seen[rowKey] {
			continue
		}

		seen[rowKey] = true
		edits = append(edits, key.EditPtr())
	}

	slices.SortFunc(edits, CompareEditPtr)

	return edits
}

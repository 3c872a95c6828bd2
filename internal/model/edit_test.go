package model

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdit_RoundTrip(t *testing.T) {
	for _, p := range AllProperties {
		for _, sev := range AllSeverities {
			edit := Edit{Property: p, ArticulationPoint: 2, Severity: sev}

			parsed, err := ParseEdit(edit.String())
			require.NoError(t, err)
			assert.Equal(t, edit, parsed)
		}
	}
}

func TestParseEdit_Errors(t *testing.T) {
	tests := []struct {
		token   string
		message string
	}{
		{token: "edits-del-1-a", message: "must start with"},
		{token: "edit-del-1", message: "expected 3 '-' separated fields"},
		{token: "edit-del-1-a-b", message: "expected 3 '-' separated fields"},
		{token: "edit-xyz-1-a", message: "unknown property"},
		{token: "edit-del-x-a", message: "articulation point"},
		{token: "edit-del-0-a", message: "must be positive"},
		{token: "edit-del-1-z", message: "unrecognized severity"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := ParseEdit(tt.token)
			require.ErrorIs(t, err, ErrInvalidEdit)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseEdits(t *testing.T) {
	edits, err := ParseEdits([]string{"edit-dis-3-c", " edit-sc-1-a "})
	require.NoError(t, err)
	assert.Equal(t, []Edit{
		{Property: Disclosure, ArticulationPoint: 3, Severity: Intentional},
		{Property: Storage, ArticulationPoint: 1, Severity: Benign},
	}, edits)

	_, err = ParseEdits([]string{"edit-dis-3-c", "nope"})
	assert.ErrorIs(t, err, ErrInvalidEdit)
}

func TestCompareEditPtr(t *testing.T) {
	a := &Edit{Property: Deletion, ArticulationPoint: 2, Severity: Benign}
	b := &Edit{Property: Deletion, ArticulationPoint: 1, Severity: Bug}
	c := &Edit{Property: Deletion, ArticulationPoint: 1, Severity: Benign}

	edits := []*Edit{a, nil, b, c}
	slices.SortFunc(edits, CompareEditPtr)

	assert.Nil(t, edits[0])
	assert.Equal(t, []*Edit{c, b, a}, edits[1:])
	assert.Equal(t, BaselineLabel, EditLabel(nil))
	assert.Equal(t, "edit-del-2-a", EditLabel(a))
}

func TestSeverity_ExpectsSuccess(t *testing.T) {
	assert.True(t, Benign.ExpectsSuccess())
	assert.False(t, Bug.ExpectsSuccess())
	assert.False(t, Intentional.ExpectsSuccess())
	assert.Equal(t, ErrorMarker, Intentional.ExpectedMarker())
}

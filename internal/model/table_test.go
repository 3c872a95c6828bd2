package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfiguration_Describe(t *testing.T) {
	baseline := RunConfiguration{Property: Deletion, Version: KnownVersions[0]}
	assert.True(t, baseline.IsBaseline())
	assert.Equal(t, "del-lib-original", baseline.Describe())

	edit := Edit{Property: Storage, ArticulationPoint: 1, Severity: Bug}
	edited := RunConfiguration{Property: Storage, Version: KnownVersions[2], Edit: &edit}
	assert.Equal(t, "sc-strict-edit-sc-1-b", edited.Describe())
	assert.Equal(t, "edit-sc-1-b", edited.OutputDirName())
}

func TestResultTable(t *testing.T) {
	versions := KnownVersions[:2]
	table := NewResultTable(versions)

	edit := Edit{Property: Deletion, ArticulationPoint: 1, Severity: Bug}

	for _, v := range versions {
		table.Add(RunConfiguration{Property: Deletion, Version: v, Edit: &edit})
		table.Add(RunConfiguration{Property: Deletion, Version: v})
	}

	again := table.Add(RunConfiguration{Property: Deletion, Version: versions[0]})
	assert.Equal(t, 4, table.Len())

	cell, ok := table.Cell(Deletion, nil, "lib")
	require.True(t, ok)
	assert.Same(t, again, cell)

	_, ok = table.Cell(Storage, nil, "lib")
	assert.False(t, ok)

	assert.Equal(t, []Property{Deletion}, table.Properties())

	edits := table.Edits(Deletion)
	require.Len(t, edits, 2)
	assert.Nil(t, edits[0])
	assert.Equal(t, edit, *edits[1])
}

func TestCell_RecordsOnce(t *testing.T) {
	cell := &Cell{Config: RunConfiguration{Property: Disclosure, Version: KnownVersions[0]}}

	_, built := cell.Build()
	assert.False(t, built)

	require.NoError(t, cell.SetBuild(BuildOutcome{Succeeded: true}))
	assert.ErrorIs(t, cell.SetBuild(BuildOutcome{}), ErrAlreadyRecorded)

	require.NoError(t, cell.SetChecks([]CheckResult{{Checker: SolverChecker, Status: CheckError}}))
	assert.ErrorIs(t, cell.SetChecks(nil), ErrAlreadyRecorded)
	assert.True(t, cell.SolverFailed())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			cell.AppendErrMsg(ErrMsgResult{Template: TemplateOriginal, Status: ErrMsgSat})
		}()
	}

	wg.Wait()
	assert.Len(t, cell.ErrMsgs(), 8)
}

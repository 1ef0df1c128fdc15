package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSetsDerivesModelYearsFromLoadForecast(t *testing.T) {
	_, sets, _ := toySystem()
	assert.Equal(t, []int{2030}, sets.ModelYears)
	assert.Equal(t, []int{2030}, sets.Vintages, "vintages mirror model years")
}

func TestBuildSetsSortsEntityNamesLexicographically(t *testing.T) {
	_, sets, _ := toySystem()
	assert.Equal(t, []string{"gas_ct", "solar_pv"}, sets.Resources)
	assert.Equal(t, []string{"zoneA", "zoneB"}, sets.Zones)
	assert.ElementsMatch(t, []string{"gas_ct", "solar_pv", "tx_ab"}, sets.Assets, "Assets unions every buildable kind")
	assert.Equal(t, []string{"tx_ab"}, sets.TransmissionLines)
	assert.Equal(t, []string{"spin"}, sets.Reserves)
}

func TestBuildSetsFlagsCurtailableAndStorageResources(t *testing.T) {
	_, sets, _ := toySystem()
	assert.Empty(t, sets.UnitCommitmentRes)
	assert.Empty(t, sets.CurtailableRes, "solar_pv is explicitly non-curtailable in the fixture")
	assert.Empty(t, sets.StorageRes, "no fixture resource carries a nonzero duration")
}

func TestBuildSetsDerivesRepPeriodsAndHoursFromTemporalResult(t *testing.T) {
	_, sets, temp := toySystem()
	require.Len(t, temp.RepPeriods, 1)
	assert.Equal(t, []int{0}, sets.RepPeriods)
	assert.Equal(t, []int{0, 1}, sets.Hours)
}

func TestBuildSetsWithoutInterPeriodActiveUsesRepPeriodsAsChronoPeriods(t *testing.T) {
	_, sets, _ := toySystem()
	assert.Equal(t, sets.RepPeriods, sets.ChronoPeriods[2030])
	assert.Empty(t, sets.AdjacentPairs[2030])
}

package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/system"
)

func storageFixture(t *testing.T) (*system.System, *Sets) {
	t.Helper()
	sys := system.New(map[string]linkage.KindSpec{})
	bess := component.New("bess_1", component.KindResource)
	mustSet(bess, "planned_installed_capacity", annualSeries([]int{2030}, []float64{50}))
	mustSet(bess, "duration", scalarNum(4))
	mustSet(bess, "charging_efficiency", component.Value{Type: component.AttrScalarFractional, Number: 0.95})
	mustSet(bess, "discharging_efficiency", component.Value{Type: component.AttrScalarFractional, Number: 0.95})
	require.NoError(t, sys.AddComponent(bess))

	sets := &Sets{
		ModelYears: []int{2030}, Vintages: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1, 2},
		Assets: []string{"bess_1"}, Resources: []string{"bess_1"}, StorageRes: []string{"bess_1"},
		ChronoPeriods: map[int][]int{2030: {0}},
	}
	return sys, sets
}

func TestStorageIntraPeriodLoopsWithoutInterPeriodDynamics(t *testing.T) {
	sys, sets := storageFixture(t)
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildStorageVariables()
	b.buildStorageConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("SocIntraLoop", "bess_1", 2030, 0))
	assert.Equal(t, EQ, c.Op)
	vars := termVars(c.Terms)
	assert.Contains(t, vars, varName("SocIntra", "bess_1", 2030, 0, 0))
	assert.Contains(t, vars, varName("SocIntra", "bess_1", 2030, 0, 2), "the last hour of the 3-hour fixture")
}

func TestStorageTrackingChargesAndDischargesAcrossConsecutiveHours(t *testing.T) {
	sys, sets := storageFixture(t)
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildStorageVariables()
	b.buildStorageConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("SocIntraTracking", "bess_1", 2030, 0, 1))
	vars := termVars(c.Terms)
	assert.Contains(t, vars, varName("SocIntra", "bess_1", 2030, 0, 1))
	assert.Contains(t, vars, varName("SocIntra", "bess_1", 2030, 0, 0))
	assert.Contains(t, vars, varName("IncreaseLoad", "bess_1", 2030, 0, 0))
	assert.Contains(t, vars, varName("ProvidePower", "bess_1", 2030, 0, 0))
}

func TestJointSoCBoundTracksOperationalStorageCapacity(t *testing.T) {
	sys, sets := storageFixture(t)
	b := NewBuilder(sys, sets, testTemporalResult())
	b.buildStorageVariables()
	b.buildStorageConstraints()

	upper := findConstraint(t, b.prob.Constraints, varName("SocUpperBound", "bess_1", 2030, 0, 0))
	assert.Equal(t, LE, upper.Op)
	assert.Contains(t, termVars(upper.Terms), varName("OperationalPlannedStorage", "bess_1", 2030))
}

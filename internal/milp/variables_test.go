package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCapacityVariablesDeclaresOperationalVarsPerAssetPerYear(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildCapacityVariables()

	names := varNames(b.prob.Vars)
	assert.Contains(t, names, varName("OperationalPlanned", "gas_ct", 2030))
	assert.Contains(t, names, varName("OperationalNewByVintage", "gas_ct", 2030, 2030))
	assert.NotContains(t, names, varName("OperationalPlannedStorage", "gas_ct", 2030), "gas_ct has no duration, so no storage capacity variant is declared")
}

func TestDeclareOverTimepointsCoversEveryModelYearRepPeriodHour(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.declareOverTimepoints("ProvidePower", "gas_ct")

	require.Len(t, b.prob.Vars, len(sets.ModelYears)*len(sets.RepPeriods)*len(sets.Hours))
	assert.Equal(t, varName("ProvidePower", "gas_ct", 2030, 0, 0), b.prob.Vars[0].Name)
	assert.Equal(t, varName("ProvidePower", "gas_ct", 2030, 0, 1), b.prob.Vars[1].Name)
}

func TestDeclareIsIdempotent(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.declare("x", Continuous, 0, 10)
	b.declare("x", Binary, -5, 5)

	require.Len(t, b.prob.Vars, 1, "a second declare of the same name must not add another variable")
	assert.Equal(t, Continuous, b.prob.Vars[0].Kind, "the first declaration wins")
}

func TestBuildDispatchVariablesDeclaresProvideReserveWithFullTimepointSuffix(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildDispatchVariables()

	names := varNames(b.prob.Vars)
	// Regression: ProvideReserve must carry the (y, rp, h) suffix declared
	// here, matching what buildReserveConstraints references.
	assert.Contains(t, names, varName("ProvideReserve", "gas_ct", "spin", 2030, 0, 0))
	assert.Contains(t, names, varName("ProvideReserve", "gas_ct", "spin", 2030, 0, 1))
}

func varNames(vars []Var) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name
	}
	return out
}

package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/system"
)

func baseAnnualEmissionsSystem(t *testing.T) (*system.System, *component.Component) {
	t.Helper()
	sys := system.New(map[string]linkage.KindSpec{})
	pol := component.New("carbon_cap", component.KindPolicyAnnualEmissions)
	mustSet(pol, "target", annualSeries([]int{2030}, []float64{1000}))
	mustSet(pol, "operator", component.Value{Type: component.AttrScalarString, Text: "<="})
	require.NoError(t, sys.AddComponent(pol))
	return sys, pol
}

// TestAnnualFuelUseTermsPricesFinalFuelOnFuelConsumption exercises the
// "policy_fuel" family for a fuel kind that does get a FuelConsumption
// variable declared.
func TestAnnualFuelUseTermsPricesFinalFuelOnFuelConsumption(t *testing.T) {
	sys, pol := baseAnnualEmissionsSystem(t)
	ff := component.New("pipeline_gas", component.KindFinalFuel)
	mustSet(ff, "emission_rate_mmbtu", scalarNum(0.05))
	require.NoError(t, sys.AddComponent(ff))
	link("policy_fuel", pol, ff, nil, nil)

	sets := &Sets{ModelYears: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1}, Policies: []string{"carbon_cap"}}
	temp := testTemporalResult()
	b := NewBuilder(sys, sets, temp)
	b.buildPolicyConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("AnnualEmissions", "carbon_cap", 2030))
	assert.Contains(t, termVars(c.Terms), varName("FuelConsumption", "pipeline_gas", 2030, 0, 0))
}

// TestAnnualFuelUseTermsPricesCandidateFuelOnFuelProduction is a
// regression test for the same dangling-variable bug addFuelCosts had:
// a candidate fuel linked via policy_fuel must be tracked through its
// FuelProduction variable, the only one fuel_variables.go declares for it.
func TestAnnualFuelUseTermsPricesCandidateFuelOnFuelProduction(t *testing.T) {
	sys, pol := baseAnnualEmissionsSystem(t)
	cf := component.New("green_h2", component.KindCandidateFuel)
	mustSet(cf, "emission_rate_mmbtu", scalarNum(0.01))
	require.NoError(t, sys.AddComponent(cf))
	link("policy_fuel", pol, cf, nil, nil)

	sets := &Sets{ModelYears: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1}, Policies: []string{"carbon_cap"}}
	temp := testTemporalResult()
	b := NewBuilder(sys, sets, temp)
	b.buildPolicyConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("AnnualEmissions", "carbon_cap", 2030))
	vars := termVars(c.Terms)
	assert.Contains(t, vars, varName("FuelProduction", "green_h2", 2030, 0, 0))
	assert.NotContains(t, vars, varName("FuelConsumption", "green_h2", 2030, 0, 0))
}

func TestPolicyOpDefaultsToGreaterEqual(t *testing.T) {
	c := component.New("std", component.KindPolicyAnnualEnergyStandard)
	assert.Equal(t, GE, policyOp(c))

	require.NoError(t, c.Set("operator", component.Value{Type: component.AttrScalarString, Text: "<="}))
	assert.Equal(t, LE, policyOp(c))
}

func TestPolicySlackSignLoosensTowardFeasibility(t *testing.T) {
	assert.Equal(t, 1.0, policySlackSign(GE), "a >= target is loosened by adding slack")
	assert.Equal(t, -1.0, policySlackSign(LE), "a <= target is loosened by subtracting slack")
}

package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/system"
)

func TestWithDiscountRateChangesLaterYearObjectiveCoefficients(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	a := component.New("gas_ct", component.KindResource)
	mustSet(a, "planned_installed_capacity", annualSeries([]int{2030, 2031}, []float64{100, 100}))
	require.NoError(t, sys.AddComponent(a))

	sets := &Sets{ModelYears: []int{2030, 2031}, Vintages: []int{2030, 2031}, Assets: []string{"gas_ct"}}
	temp := testTemporalResult()

	// ResourcePotentialSlack's objective coefficient is df*slackPenalty,
	// unconditional and independent of every other attribute, so it
	// isolates the discount factor cleanly.
	lowRate := NewBuilder(sys, sets, temp).WithDiscountRate(0.01)
	lowRate.buildObjective()
	lowCoef := objectiveCoef(t, lowRate, varName("ResourcePotentialSlack", "gas_ct", 2031))

	highRate := NewBuilder(sys, sets, temp).WithDiscountRate(0.50)
	highRate.buildObjective()
	highCoef := objectiveCoef(t, highRate, varName("ResourcePotentialSlack", "gas_ct", 2031))

	assert.Less(t, highCoef, lowCoef, "a higher discount rate shrinks later-year cost coefficients")
	assert.Equal(t, defaultDiscountRate, NewBuilder(sys, sets, temp).discountRate)
	assert.Equal(t, 0.50, highRate.discountRate)
}

func TestWithDiscountRateIgnoresNonPositiveRate(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp).WithDiscountRate(0)
	assert.Equal(t, defaultDiscountRate, b.discountRate)

	b = NewBuilder(sys, sets, temp).WithDiscountRate(-1)
	assert.Equal(t, defaultDiscountRate, b.discountRate)
}

func objectiveCoef(t *testing.T, b *Builder, name string) float64 {
	t.Helper()
	for _, term := range b.prob.Objective.Terms {
		if term.Var == name {
			return term.Coef
		}
	}
	return 0
}

func TestAddFuelCostsPricesFinalFuelsOnFuelConsumption(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	ff := component.New("pipeline_gas", component.KindFinalFuel)
	mustSet(ff, "price", flatNumericSeries(3))
	require.NoError(t, sys.AddComponent(ff))

	sets := &Sets{ModelYears: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1}, FinalFuels: []string{"pipeline_gas"}}
	temp := testTemporalResult()
	b := NewBuilder(sys, sets, temp)
	b.addFuelCosts(2030, 1.0)

	vars := termVars(b.prob.Objective.Terms)
	assert.Contains(t, vars, varName("FuelConsumption", "pipeline_gas", 2030, 0, 0), "final fuels price their declared FuelConsumption variable")
	assert.NotContains(t, vars, varName("FuelProduction", "pipeline_gas", 2030, 0, 0))
}

// TestAddFuelCostsPricesCandidateFuelsOnFuelProduction is a regression
// test: candidate fuels only ever get a FuelProduction variable
// declared (fuel_variables.go), never FuelConsumption, so pricing them
// must reference FuelProduction or the objective carries a dangling
// term for an undeclared variable.
func TestAddFuelCostsPricesCandidateFuelsOnFuelProduction(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	cf := component.New("green_h2", component.KindCandidateFuel)
	mustSet(cf, "price", flatNumericSeries(3))
	require.NoError(t, sys.AddComponent(cf))

	sets := &Sets{ModelYears: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1}, CandidateFuels: []string{"green_h2"}}
	temp := testTemporalResult()
	b := NewBuilder(sys, sets, temp)
	b.addFuelCosts(2030, 1.0)

	vars := termVars(b.prob.Objective.Terms)
	assert.Contains(t, vars, varName("FuelProduction", "green_h2", 2030, 0, 0))
	assert.NotContains(t, vars, varName("FuelConsumption", "green_h2", 2030, 0, 0), "green_h2 never gets a FuelConsumption variable declared")
}

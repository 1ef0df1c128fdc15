package resultbinder

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/milp"
	"github.com/aristath/gridforge/internal/solver"
	"github.com/aristath/gridforge/internal/system"
	"github.com/aristath/gridforge/internal/temporal"
)

func testTemporalResult() *temporal.Result {
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return &temporal.Result{
		RepPeriods:       []temporal.ChronoPeriod{{PeriodID: 0, Hours: []time.Time{base, base.Add(time.Hour)}}},
		ChronoPeriods:    []temporal.ChronoPeriod{{PeriodID: 0, Hours: []time.Time{base, base.Add(time.Hour)}}},
		MapToRepPeriods:  []int{0},
		RepPeriodWeights: []float64{1},
		Timesteps:        []time.Duration{time.Hour, time.Hour},
	}
}

// TestAnnualValueAggregatesTimepointPrimals exercises spec.md §4.7's
// "aggregate to annual (multiply by rep-period weights, periods-per-year,
// and hour timesteps)" rule.
func TestAnnualValueAggregatesTimepointPrimals(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	require.NoError(t, sys.AddComponent(component.New("gas_ct", component.KindResource)))

	sets := &milp.Sets{ModelYears: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1}}
	temp := testTemporalResult()
	b := New(sys, sets, temp, 0.05, zerolog.Nop())

	sol := solver.Solution{
		Status: solver.StatusOptimal,
		Primals: map[string]float64{
			"ProvidePower|gas_ct|2030|0|0": 50,
			"ProvidePower|gas_ct|2030|0|1": 60,
		},
	}

	v, ok := b.annualValue(sol, Mapping{Symbol: "ProvidePower", Attribute: "annual_generation_mwh"}, "gas_ct", 2030)
	require.True(t, ok)
	// rep weight 1 * periodsPerYear 1 * 1h timestep each hour: 50+60 = 110
	assert.InDelta(t, 110.0, v, 1e-9)
}

// TestBindWritesAnnualResultOntoComponent exercises the public Bind
// entry point end to end for a primal mapping.
func TestBindWritesAnnualResultOntoComponent(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	require.NoError(t, sys.AddComponent(component.New("gas_ct", component.KindResource)))

	sets := &milp.Sets{ModelYears: []int{2030}, RepPeriods: []int{0}, Hours: []int{0, 1}}
	temp := testTemporalResult()
	b := New(sys, sets, temp, 0.05, zerolog.Nop())

	sol := solver.Solution{
		Status: solver.StatusOptimal,
		Primals: map[string]float64{
			"ProvidePower|gas_ct|2030|0|0": 50,
			"ProvidePower|gas_ct|2030|0|1": 60,
		},
	}

	require.NoError(t, b.Bind(sol, []Mapping{{Symbol: "ProvidePower", Attribute: "annual_generation_mwh"}}))

	c, _ := sys.Component("gas_ct")
	v, ok := c.Result("annual_generation_mwh_2030")
	require.True(t, ok)
	assert.InDelta(t, 110.0, v, 1e-9)
}

// TestDualUndiscounted exercises "divide by the model-year discount
// factor to recover undiscounted shadow prices".
func TestDualUndiscounted(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	require.NoError(t, sys.AddComponent(component.New("zoneA", component.KindZone)))

	sets := &milp.Sets{ModelYears: []int{2030, 2031}}
	temp := testTemporalResult()
	b := New(sys, sets, temp, 0.05, zerolog.Nop())

	sol := solver.Solution{
		Status: solver.StatusOptimal,
		Duals: map[string]float64{
			"ZonalBalance|zoneA|2031": 40 / 1.05, // discounted dual at year index 1
		},
	}

	v, ok := b.annualValue(sol, Mapping{Symbol: "ZonalBalance", Attribute: "energy_price", Kind: Dual}, "zoneA", 2031)
	require.True(t, ok)
	assert.InDelta(t, 40.0, v, 1e-6)
}

// TestBindRejectsNonOptimalSolution refuses to bind anything but an
// optimal solve (spec.md §4.6.6).
func TestBindRejectsNonOptimalSolution(t *testing.T) {
	sys := system.New(map[string]linkage.KindSpec{})
	sets := &milp.Sets{}
	b := New(sys, sets, testTemporalResult(), 0.05, zerolog.Nop())

	err := b.Bind(solver.Solution{Status: solver.StatusInfeasible}, []Mapping{{Symbol: "ProvidePower", Attribute: "x"}})
	assert.Error(t, err)
}

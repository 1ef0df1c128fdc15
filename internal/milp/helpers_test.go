package milp

import (
	"time"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/system"
	"github.com/aristath/gridforge/internal/temporal"
	"github.com/aristath/gridforge/internal/timeseries"
)

// testTemporalResult mirrors internal/resultbinder's fixture: one rep
// period standing in for the whole year, two hourly timesteps, no
// inter-period dynamics.
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

func mustTS(kind timeseries.Kind, axis timeseries.AxisKind, instants []time.Time, values []float64) *timeseries.Timeseries {
	ts, err := timeseries.New(kind, axis, instants, values)
	if err != nil {
		panic(err)
	}
	return ts
}

// flatProfile returns a fractional series carrying the same value at
// both hours of testTemporalResult's single rep period.
func flatProfile(v float64) component.Value {
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := mustTS(timeseries.KindFractional, timeseries.AxisMonthHour, []time.Time{base, base.Add(time.Hour)}, []float64{v, v})
	return component.Value{Type: component.AttrSeriesFractional, Series: ts}
}

// flatNumericSeries returns a numeric series carrying v at both hours
// of testTemporalResult's single rep period.
func flatNumericSeries(v float64) component.Value {
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := mustTS(timeseries.KindNumeric, timeseries.AxisMonthHour, []time.Time{base, base.Add(time.Hour)}, []float64{v, v})
	return component.Value{Type: component.AttrSeriesNumeric, Series: ts}
}

// annualSeries returns a single-point-per-year numeric series, the
// shape annual_energy_forecast and planned_installed_capacity carry.
func annualSeries(years []int, values []float64) component.Value {
	instants := make([]time.Time, len(years))
	for i, y := range years {
		instants[i] = time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	ts := mustTS(timeseries.KindNumeric, timeseries.AxisModeledYear, instants, values)
	return component.Value{Type: component.AttrSeriesNumeric, Series: ts}
}

func scalarNum(v float64) component.Value {
	return component.Value{Type: component.AttrScalarNumeric, Number: v}
}

func scalarBool(v bool) component.Value {
	n := 0.0
	if v {
		n = 1
	}
	return component.Value{Type: component.AttrScalarBoolean, Number: n}
}

func mustSet(c *component.Component, attr string, v component.Value) {
	if err := c.Set(attr, v); err != nil {
		panic(err)
	}
}

// link constructs an unregistered linkage and attaches it directly to
// both endpoints, bypassing linkage.Registry: the MILP builder only
// ever reads via Component.Links, so nothing it exercises depends on
// the registry itself having seen the linkage.
func link(kind string, from, to *component.Component, labels map[string]string, attrs map[string]float64) {
	l := &linkage.Linkage{Kind: kind, From: from.Name, To: to.Name, Labels: labels, Attributes: attrs}
	from.AttachLink(kind, l)
	to.AttachLink(kind, l)
}

// toySystem builds a minimal two-zone system: a gas resource and a
// variable (solar) resource serving zoneA's load over a transmission
// path from zoneB, plus a flat operating reserve over both resources.
// ModelYears resolves to {2030} from the load's annual_energy_forecast.
func toySystem() (*system.System, *Sets, *temporal.Result) {
	sys := system.New(map[string]linkage.KindSpec{})

	zoneA := component.New("zoneA", component.KindZone)
	zoneB := component.New("zoneB", component.KindZone)

	gas := component.New("gas_ct", component.KindResource)
	mustSet(gas, "planned_installed_capacity", annualSeries([]int{2030}, []float64{100}))
	mustSet(gas, "variable_cost", flatNumericSeries(40))
	mustSet(gas, "can_build_new", scalarBool(false))
	mustSet(gas, "can_retire", scalarBool(false))

	solar := component.New("solar_pv", component.KindResource)
	mustSet(solar, "planned_installed_capacity", annualSeries([]int{2030}, []float64{50}))
	mustSet(solar, "is_variable", scalarBool(true))
	mustSet(solar, "is_curtailable", scalarBool(false))
	mustSet(solar, "provide_power_potential_profile", flatProfile(0.5))
	mustSet(solar, "can_build_new", scalarBool(false))
	mustSet(solar, "can_retire", scalarBool(false))

	load := component.New("load_a", component.KindLoad)
	mustSet(load, "profile", flatNumericSeries(80))
	mustSet(load, "annual_energy_forecast", annualSeries([]int{2030}, []float64{700800}))

	txAB := component.New("tx_ab", component.KindTxPath)
	mustSet(txAB, "planned_installed_capacity", annualSeries([]int{2030}, []float64{20}))
	mustSet(txAB, "forward_rating", scalarNum(1))
	mustSet(txAB, "reverse_rating", scalarNum(1))
	mustSet(txAB, "can_build_new", scalarBool(false))
	mustSet(txAB, "can_retire", scalarBool(false))

	reserve := component.New("spin", component.KindReserve)
	mustSet(reserve, "flat_requirement", flatNumericSeries(5))

	for _, c := range []*component.Component{zoneA, zoneB, gas, solar, load, txAB, reserve} {
		if err := sys.AddComponent(c); err != nil {
			panic(err)
		}
	}

	link("asset_zone", gas, zoneA, nil, nil)
	link("asset_zone", solar, zoneA, nil, nil)
	link("zone_load", zoneA, load, nil, nil)
	link("tx_zone", txAB, zoneB, map[string]string{"role": "from"}, nil)
	link("tx_zone", txAB, zoneA, map[string]string{"role": "to"}, nil)
	link("reserve_resource", reserve, gas, nil, map[string]float64{"contribution_fraction": 1})
	link("reserve_resource", reserve, solar, nil, map[string]float64{"contribution_fraction": 1})

	temp := testTemporalResult()
	sets := BuildSets(sys, temp, nil)
	return sys, sets, temp
}

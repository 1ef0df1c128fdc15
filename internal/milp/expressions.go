package milp

import "github.com/aristath/gridforge/internal/timeseries"

// operationalNewTerms returns one Term per vintage v <= y for
// OperationalNewByVintage[a, v, y], i.e. the summands of
// OperationalNew[a, y] (spec.md §4.6.3).
func (b *Builder) operationalNewTerms(a string, y int) []Term {
	var terms []Term
	for _, v := range b.sets.Vintages {
		if v > y {
			continue
		}
		terms = append(terms, Term{Var: varName("OperationalNewByVintage", a, v, y), Coef: 1})
	}
	return terms
}

// operationalCapacityTerms returns the terms of
// OperationalCapacity[a, y] = OperationalPlanned[a, y] + OperationalNew[a, y].
func (b *Builder) operationalCapacityTerms(a string, y int) []Term {
	terms := []Term{{Var: varName("OperationalPlanned", a, y), Coef: 1}}
	terms = append(terms, b.operationalNewTerms(a, y)...)
	return terms
}

// operationalStorageCapacityTerms mirrors operationalCapacityTerms for
// the MWh-denominated storage analogs.
func (b *Builder) operationalStorageCapacityTerms(a string, y int) []Term {
	terms := []Term{{Var: varName("OperationalPlannedStorage", a, y), Coef: 1}}
	for _, v := range b.sets.Vintages {
		if v > y {
			continue
		}
		terms = append(terms, Term{Var: varName("OperationalNewStorageByVintage", a, v, y), Coef: 1})
	}
	return terms
}

// providePowerPotential returns the coefficient OperationalCapacity is
// scaled by at (y, rp, h): the provide_power_potential_profile value,
// defaulting to 1 when the plant/resource carries no such profile
// (spec.md §4.6.3: "ProvidePowerCapacity = OperationalCapacity *
// provide_power_potential_profile").
func (b *Builder) providePowerPotential(name string, y, rp, h int) float64 {
	c, ok := b.sys.Component(name)
	if !ok {
		return 1
	}
	v, ok := c.Get("provide_power_potential_profile")
	if !ok {
		return 1
	}
	ts, err := v.AsSeries()
	if err != nil || ts.Len() == 0 {
		return 1
	}
	return valueAtTimepoint(b.temp, ts, y, rp, h, 1)
}

func (b *Builder) providePowerMinimum(name string, y, rp, h int) float64 {
	c, ok := b.sys.Component(name)
	if !ok {
		return 0
	}
	v, ok := c.Get("provide_power_minimum_profile")
	if !ok {
		return 0
	}
	ts, err := v.AsSeries()
	if err != nil || ts.Len() == 0 {
		return 0
	}
	return valueAtTimepoint(b.temp, ts, y, rp, h, 0)
}

// repWeight returns rep_period_weights[rp].
func (b *Builder) repWeight(rp int) float64 {
	if rp < 0 || rp >= len(b.temp.RepPeriodWeights) {
		return 0
	}
	return b.temp.RepPeriodWeights[rp]
}

// periodsPerYear is the number of chronological periods a year tiles
// into; with 24h periods over a 365-day year this is 365.
func (b *Builder) periodsPerYear() float64 {
	return float64(len(b.temp.ChronoPeriods))
}

func (b *Builder) timestepHours(h int) float64 {
	if h < 0 || h >= len(b.temp.Timesteps) {
		return 1
	}
	return b.temp.Timesteps[h].Hours()
}

// valueAtTimepoint slices ts at (y, rp, h) via the temporal reducer's
// TimepointResolver, falling back to fallback when the series has no
// point for that timepoint (e.g. a scalar-like series with one value).
func valueAtTimepoint(resolver timeseries.TimepointResolver, ts *timeseries.Timeseries, y, rp, h int, fallback float64) float64 {
	v, ok := ts.SliceByTimepoint(resolver, y, rp, h)
	if !ok {
		return fallback
	}
	return v
}

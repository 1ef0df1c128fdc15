// Package resultbinder implements spec.md §4.7: it reads the solver's
// primal values and constraint duals back onto component attributes.
// TIMEPOINTS-indexed primals are aggregated to annual totals (weighted
// by rep-period weight, periods-per-year, and hour timestep) unless
// explicitly kept timepoint-indexed; constraint duals are divided by
// the model-year discount factor to recover undiscounted shadow
// prices, and timepoint-indexed duals (zonal energy prices) are also
// unweighted per rep-period weight so the bound value reads in $/MWh.
//
// Grounded on spec.md §4.7 directly; the System is "logically frozen"
// from this phase onward except for these writes (spec.md §5), which is
// exactly what Component.SetResult/SetResultSeries are for.
package resultbinder

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/milp"
	"github.com/aristath/gridforge/internal/solver"
	"github.com/aristath/gridforge/internal/system"
	"github.com/aristath/gridforge/internal/temporal"
	"github.com/aristath/gridforge/internal/timeseries"
)

// Binder reads a solved LPProblem's Solution back onto the System's
// components.
type Binder struct {
	sys          *system.System
	sets         *milp.Sets
	temp         *temporal.Result
	discountRate float64
	log          zerolog.Logger
}

// New constructs a Binder over the same System/Sets/Result the Builder
// emitted the solved problem from.
func New(sys *system.System, sets *milp.Sets, temp *temporal.Result, discountRate float64, log zerolog.Logger) *Binder {
	return &Binder{
		sys:          sys,
		sets:         sets,
		temp:         temp,
		discountRate: discountRate,
		log:          log.With().Str("component", "resultbinder").Logger(),
	}
}

// Kind distinguishes a primal-value binding from a dual-value binding.
type Kind int

const (
	Primal Kind = iota
	Dual
)

// Mapping is one "model_symbol -> component_attribute" rule (spec.md
// §4.7). Symbol is the MILP variable/constraint name prefix
// (e.g. "ProvidePower", "ZonalBalance"); Attribute is the destination
// component attribute name. KeepTimepointIndexed skips annual
// aggregation, writing one value per (rep_period, hour) timepoint
// instead of a single annual scalar (e.g. zonal energy prices).
type Mapping struct {
	Symbol               string
	Attribute            string
	Kind                 Kind
	KeepTimepointIndexed bool
}

// Bind writes every (symbol, attribute) mapping in mappings back onto
// its target components from sol. It refuses to bind a non-optimal
// solution (spec.md §4.6.6: an infeasible/errored solve carries no
// meaningful primal/dual values to read back).
func (b *Binder) Bind(sol solver.Solution, mappings []Mapping) error {
	if sol.Status != solver.StatusOptimal {
		return fmt.Errorf("resultbinder: refusing to bind a non-optimal solution (status %s)", sol.Status)
	}
	for _, m := range mappings {
		for _, name := range b.sys.Names() {
			c, _ := b.sys.Component(name)
			if err := b.bindOne(sol, m, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Binder) bindOne(sol solver.Solution, m Mapping, c *component.Component) error {
	for _, y := range b.sets.ModelYears {
		if m.KeepTimepointIndexed {
			if err := b.bindTimepointIndexed(sol, m, c, y); err != nil {
				return err
			}
			continue
		}
		v, ok := b.annualValue(sol, m, c.Name, y)
		if !ok {
			continue
		}
		c.SetResult(fmt.Sprintf("%s_%d", m.Attribute, y), v)
	}
	return nil
}

// annualValue aggregates a timepoint-indexed primal to an annual total
// (spec.md §4.6.3's AnnualProvidePower shape), takes a per-year scalar
// primal directly when the symbol carries no timepoint index, or — for
// duals — looks up the named constraint and undiscounts it.
func (b *Binder) annualValue(sol solver.Solution, m Mapping, name string, y int) (float64, bool) {
	df := discountFactor(b.discountRate, b.earliestYear(), y)

	if m.Kind == Dual {
		d, ok := sol.Duals[varName(m.Symbol, name, y)]
		if !ok {
			return 0, false
		}
		return d / df, true
	}

	var total float64
	found := false
	for _, rp := range b.sets.RepPeriods {
		weight := b.repWeight(rp) * b.periodsPerYear()
		for _, h := range b.sets.Hours {
			if v, ok := sol.Primals[varName(m.Symbol, name, y, rp, h)]; ok {
				total += v * weight * b.timestepHours(h)
				found = true
			}
		}
	}
	if found {
		return total, true
	}
	v, ok := sol.Primals[varName(m.Symbol, name, y)]
	return v, ok
}

// bindTimepointIndexed writes one unweighted value per (rep, hour),
// keyed by the weather-year timestamp the timepoint maps to; duals are
// divided by the discount factor and by rep-period weight ×
// periods-per-year, so prices read in $/MWh (spec.md §4.7).
func (b *Binder) bindTimepointIndexed(sol solver.Solution, m Mapping, c *component.Component, y int) error {
	df := discountFactor(b.discountRate, b.earliestYear(), y)

	var instants []time.Time
	var values []float64
	for _, rp := range b.sets.RepPeriods {
		for _, h := range b.sets.Hours {
			var raw float64
			var ok bool
			if m.Kind == Dual {
				raw, ok = sol.Duals[varName(m.Symbol, c.Name, y, rp, h)]
				if ok {
					raw /= df
					if w := b.repWeight(rp) * b.periodsPerYear(); w != 0 {
						raw /= w
					}
				}
			} else {
				raw, ok = sol.Primals[varName(m.Symbol, c.Name, y, rp, h)]
			}
			if !ok {
				continue
			}
			t, tok := b.temp.WeatherTimestamp(y, rp, h)
			if !tok {
				continue
			}
			instants = append(instants, t)
			values = append(values, raw)
		}
	}
	if len(instants) == 0 {
		return nil
	}
	ts, err := timeseries.New(timeseries.KindNumeric, timeseries.AxisWeatherYear, instants, values)
	if err != nil {
		return fmt.Errorf("resultbinder: binding %s for %s: %w", m.Attribute, c.Name, err)
	}
	c.SetResultSeries(fmt.Sprintf("%s_%d", m.Attribute, y), ts)
	return nil
}

func (b *Binder) earliestYear() int {
	min := 0
	for i, y := range b.sets.ModelYears {
		if i == 0 || y < min {
			min = y
		}
	}
	return min
}

func (b *Binder) repWeight(rp int) float64 {
	if rp < 0 || rp >= len(b.temp.RepPeriodWeights) {
		return 0
	}
	return b.temp.RepPeriodWeights[rp]
}

func (b *Binder) periodsPerYear() float64 {
	return float64(len(b.temp.ChronoPeriods))
}

func (b *Binder) timestepHours(h int) float64 {
	if h < 0 || h >= len(b.temp.Timesteps) {
		return 1
	}
	return b.temp.Timesteps[h].Hours()
}

// discountFactor mirrors milp/objective.go's discountFactor so a dual's
// undiscounting matches how the objective originally discounted it.
func discountFactor(rate float64, baseYear, y int) float64 {
	df := 1.0
	for i := baseYear; i < y; i++ {
		df /= 1 + rate
	}
	return df
}

func varName(parts ...any) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "|"
		}
		s += fmt.Sprintf("%v", p)
	}
	return s
}

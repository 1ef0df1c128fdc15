package milp

import (
	"time"

	"github.com/aristath/gridforge/internal/component"
)

// buildPolicyConstraints implements spec.md §4.6.4's "Policies" family:
// annual energy standard, hourly energy standard, annual emissions, and
// planning reserve margin, each respecting its declared operator
// (>=, ==, <=) and an additive slack term.
func (b *Builder) buildPolicyConstraints() {
	for _, pol := range b.sets.Policies {
		c, _ := b.sys.Component(pol)
		switch c.Kind {
		case component.KindPolicyAnnualEnergyStandard:
			b.buildAnnualEnergyStandard(c)
		case component.KindPolicyHourlyEnergyStandard:
			b.buildHourlyEnergyStandard(c)
		case component.KindPolicyAnnualEmissions:
			b.buildAnnualEmissionsPolicy(c)
		case component.KindPolicyPlanningReserveMargin:
			b.buildPlanningReserveMargin(c)
		}
	}
}

// policyOp maps a policy's declared operator string to an Op, defaulting
// to GE per spec.md §4.6.4's predominant usage ("target >= ...").
func policyOp(c *component.Component) Op {
	switch c.MustString("operator", ">=") {
	case "<=":
		return LE
	case "==":
		return EQ
	default:
		return GE
	}
}

func (b *Builder) policyTargetAt(c *component.Component, attr string, y int) float64 {
	v, ok := c.Get(attr)
	if !ok {
		return 0
	}
	ts, err := v.AsSeries()
	if err != nil {
		return 0
	}
	jan1 := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	val, ok := ts.AtOrBefore(jan1)
	if !ok {
		return 0
	}
	return val
}

// buildAnnualEnergyStandard: Σ_resources multiplier(y) · AnnualProvidePower
// >= target(y) + adjustment (spec.md §4.6.4).
func (b *Builder) buildAnnualEnergyStandard(c *component.Component) {
	op := policyOp(c)
	for _, y := range b.sets.ModelYears {
		var terms []Term
		for _, l := range c.Links("policy_resource") {
			multiplier := l.Float("multiplier", 1)
			if multiplier == 0 {
				continue
			}
			terms = append(terms, b.annualProvidePowerTerms(l.To, y, multiplier)...)
		}
		terms = append(terms, Term{Var: varName("PolicySlack", c.Name, y), Coef: policySlackSign(op)})

		target := b.policyTargetAt(c, "target", y) + b.policyTargetAt(c, "adjustment", y)
		b.prob.AddConstraint(Constraint{
			Name:  varName("AnnualEnergyStandard", c.Name, y),
			Terms: terms,
			Op:    op,
			RHS:   target,
		})
	}
}

// buildHourlyEnergyStandard adds one constraint per timepoint (spec.md
// §4.6.4). Every timepoint's row shares the policy's per-year
// PolicySlack variable, which addSlackPenalties prices at slackPenalty;
// no per-hour penalty attribute is read. The target is rescaled by
// hourlyBasisFraction when the policy is relative.
func (b *Builder) buildHourlyEnergyStandard(c *component.Component) {
	op := policyOp(c)
	relative := c.MustString("target_units", "absolute") == "relative"
	for _, y := range b.sets.ModelYears {
		for _, rp := range b.sets.RepPeriods {
			for _, h := range b.sets.Hours {
				var terms []Term
				for _, l := range c.Links("policy_resource") {
					multiplier := l.Float("multiplier", 1)
					terms = append(terms, Term{Var: varName("ProvidePower", l.To, y, rp, h), Coef: multiplier})
				}
				terms = append(terms, Term{Var: varName("PolicySlack", c.Name, y), Coef: policySlackSign(op)})

				target := b.policyTargetAt(c, "target", y)
				if relative {
					target *= b.hourlyBasisFraction(c, y, rp, h)
				}
				target += b.policyTargetAt(c, "adjustment", y)

				b.prob.AddConstraint(Constraint{
					Name:  varName("HourlyEnergyStandard", c.Name, y, rp, h),
					Terms: terms,
					Op:    op,
					RHS:   target,
				})
			}
		}
	}
}

// buildAnnualEmissionsPolicy: sum of emission_rate*fuel_consumption plus
// per-MWh resource emissions plus transmission emissions <= target +
// adjustment (spec.md §4.6.4).
func (b *Builder) buildAnnualEmissionsPolicy(c *component.Component) {
	op := policyOp(c)
	if _, declared := c.Get("operator"); !declared {
		op = LE
	}
	for _, y := range b.sets.ModelYears {
		var terms []Term
		for _, l := range c.Links("policy_resource") {
			res, ok := b.sys.Component(l.To)
			if !ok {
				continue
			}
			rate := res.MustFloat("emission_rate_per_mwh", 0)
			if rate == 0 {
				continue
			}
			terms = append(terms, b.annualProvidePowerTerms(l.To, y, rate)...)
		}
		for _, l := range c.Links("policy_line") {
			line, ok := b.sys.Component(l.To)
			if !ok {
				continue
			}
			rate := line.MustFloat("emission_rate", 0)
			if rate == 0 {
				continue
			}
			terms = append(terms, b.annualFlowTerms(l.To, y, rate)...)
		}
		for _, l := range c.Links("policy_fuel") {
			fuel, ok := b.sys.Component(l.To)
			if !ok {
				continue
			}
			rate := fuel.MustFloat("emission_rate_mmbtu", 0)
			if rate == 0 {
				continue
			}
			terms = append(terms, b.annualFuelUseTerms(fuel, y, rate)...)
		}
		terms = append(terms, Term{Var: varName("PolicySlack", c.Name, y), Coef: policySlackSign(op)})

		target := b.policyTargetAt(c, "target", y) + b.policyTargetAt(c, "adjustment", y)
		b.prob.AddConstraint(Constraint{
			Name:  varName("AnnualEmissions", c.Name, y),
			Terms: terms,
			Op:    op,
			RHS:   target,
		})
	}
}

// buildPlanningReserveMargin: Σ NQC + Σ ELCC_MW >= target, with ELCC_MW
// bounded above by each facet's linear value over its axes (spec.md
// §4.6.4).
func (b *Builder) buildPlanningReserveMargin(c *component.Component) {
	op := policyOp(c)
	for _, y := range b.sets.ModelYears {
		var terms []Term
		for _, l := range c.Links("policy_resource") {
			res, ok := b.sys.Component(l.To)
			if !ok {
				continue
			}
			if nqc, hasNQC := res.Get("nqc_multiplier"); hasNQC {
				mult, err := nqc.AsFloat()
				if err == nil && mult != 0 {
					terms = append(terms, scaleTerms(b.operationalCapacityTerms(l.To, y), mult)...)
				}
			}
		}
		for _, surfaceName := range b.sets.ElccSurfaces {
			if b.elccSurfaceAppliesTo(surfaceName, c.Name) {
				terms = append(terms, Term{Var: varName("ElccMW", surfaceName, y), Coef: 1})
				b.buildElccFacetBounds(surfaceName, y)
			}
		}
		terms = append(terms, Term{Var: varName("PolicySlack", c.Name, y), Coef: policySlackSign(op)})

		target := b.policyTargetAt(c, "target", y)
		b.prob.AddConstraint(Constraint{
			Name:  varName("PlanningReserveMargin", c.Name, y),
			Terms: terms,
			Op:    op,
			RHS:   target,
		})
	}
}

// buildElccFacetBounds enforces ElccMW[surface, y] <= intercept +
// Σ_axes coef * (Σ_resources_on_axis axis_mult * ReliabilityCapacity),
// one constraint per facet (spec.md §4.6.4).
func (b *Builder) buildElccFacetBounds(surfaceName string, y int) {
	c, ok := b.sys.Component(surfaceName)
	if !ok {
		return
	}
	b.declare(varName("ElccMW", surfaceName, y), Continuous, 0, bigM)
	for i, f := range c.Facets {
		terms := []Term{{Var: varName("ElccMW", surfaceName, y), Coef: 1}}
		for axis, coef := range f.AxisCoefs {
			if coef == 0 {
				continue
			}
			for _, l := range c.Links("elcc_axis_membership") {
				if l.Label("axis", "") != axis {
					continue
				}
				axisMult := l.Float("axis_mult", 1)
				terms = append(terms, negateTerms(scaleTerms(b.operationalCapacityTerms(l.To, y), coef*axisMult))...)
			}
		}
		b.prob.AddConstraint(Constraint{
			Name:  varName("ElccFacet", surfaceName, y, i),
			Terms: terms,
			Op:    LE,
			RHS:   f.Intercept,
		})
	}
}

func (b *Builder) elccSurfaceAppliesTo(surfaceName, policyName string) bool {
	c, ok := b.sys.Component(surfaceName)
	if !ok {
		return false
	}
	for _, l := range c.Links("elcc_policy") {
		if l.To == policyName {
			return true
		}
	}
	return false
}

// policySlackSign returns the sign a slack variable must carry to
// relax a constraint toward feasibility: +1 loosens a >= (under-supply
// slack adds to LHS), -1 loosens a <= (over-supply slack subtracts).
func policySlackSign(op Op) float64 {
	if op == LE {
		return -1
	}
	return 1
}

// hourlyBasisFraction rescales a relative hourly-standard target by the
// basis zone's gross load share at (y, rp, h) relative to its annual
// total, approximating the reference implementation's hourly profile
// rescale.
func (b *Builder) hourlyBasisFraction(c *component.Component, y, rp, h int) float64 {
	for _, l := range c.Links("policy_zone") {
		var annual float64
		for _, r := range b.sets.RepPeriods {
			weight := b.repWeight(r) * b.periodsPerYear()
			for _, hh := range b.sets.Hours {
				annual += weight * b.timestepHours(hh) * b.zonalLoad(l.To, y, r, hh)
			}
		}
		if annual == 0 {
			return 0
		}
		return b.zonalLoad(l.To, y, rp, h) / annual
	}
	return 1
}

// annualProvidePowerTerms returns the weighted-annual terms for
// ProvidePower[name, y, rp, h] across all (rp, h), i.e. AnnualProvidePower
// scaled by multiplier.
func (b *Builder) annualProvidePowerTerms(name string, y int, multiplier float64) []Term {
	var terms []Term
	for _, rp := range b.sets.RepPeriods {
		weight := b.repWeight(rp) * b.periodsPerYear()
		for _, h := range b.sets.Hours {
			coef := multiplier * weight * b.timestepHours(h)
			terms = append(terms, Term{Var: varName("ProvidePower", name, y, rp, h), Coef: coef})
		}
	}
	return terms
}

func (b *Builder) annualFlowTerms(name string, y int, multiplier float64) []Term {
	var terms []Term
	for _, rp := range b.sets.RepPeriods {
		weight := b.repWeight(rp) * b.periodsPerYear()
		for _, h := range b.sets.Hours {
			coef := multiplier * weight * b.timestepHours(h)
			terms = append(terms, Term{Var: varName("Forward", name, y, rp, h), Coef: coef})
			terms = append(terms, Term{Var: varName("Reverse", name, y, rp, h), Coef: coef})
		}
	}
	return terms
}

// annualFuelUseTerms returns the annualized terms tracking a fuel
// commodity's use: FuelConsumption for fuels with a declared downstream
// consumer (final fuels, storages, transportations), FuelProduction for
// candidate fuels, the only variable fuel_variables.go declares at the
// candidate-fuel entity itself.
func (b *Builder) annualFuelUseTerms(fuel *component.Component, y int, multiplier float64) []Term {
	prefix := "FuelConsumption"
	if fuel.Kind == component.KindCandidateFuel {
		prefix = "FuelProduction"
	}
	var terms []Term
	for _, rp := range b.sets.RepPeriods {
		weight := b.repWeight(rp) * b.periodsPerYear()
		for _, h := range b.sets.Hours {
			coef := multiplier * weight * b.timestepHours(h)
			terms = append(terms, Term{Var: varName(prefix, fuel.Name, y, rp, h), Coef: coef})
		}
	}
	return terms
}

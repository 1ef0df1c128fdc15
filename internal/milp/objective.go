package milp

import "math"

// defaultDiscountRate is used when a run doesn't configure its own via
// config.Config.DiscountRate / Builder.WithDiscountRate.
const defaultDiscountRate = 0.05

// epsilonRegularizer is the small per-hurdle / per-ELCC_MW tie-breaking
// coefficient spec.md §4.6.5 calls for.
const epsilonRegularizer = 1e-5

// slackPenalty is the large per-unit cost levied on every slack
// variable so the solver only uses them when the problem would
// otherwise be infeasible (spec.md §4.6.4: "Slack variables with high
// penalty enable infeasibility diagnosis").
const slackPenalty = 1e6

// buildObjective implements spec.md §4.6.5: minimize the discounted sum
// of fixed, variable, start/shutdown, curtailment, hurdle, fuel, bio-
// production and slack-penalty costs, plus small regularizers.
func (b *Builder) buildObjective() {
	baseYear := b.earliestModelYear()
	for _, y := range b.sets.ModelYears {
		df := discountFactor(b.discountRate, baseYear, y)
		b.addFixedAndVariableCosts(y, df)
		b.addStartShutdownCosts(y, df)
		b.addCurtailmentCosts(y, df)
		b.addFuelCosts(y, df)
		b.addBiomassProductionCosts(y, df)
		b.addSlackPenalties(y, df)
		b.addElccRegularizer(y, df)
	}
}

func (b *Builder) earliestModelYear() int {
	if len(b.sets.ModelYears) == 0 {
		return 0
	}
	min := b.sets.ModelYears[0]
	for _, y := range b.sets.ModelYears {
		if y < min {
			min = y
		}
	}
	return min
}

func discountFactor(rate float64, baseYear, y int) float64 {
	return 1 / math.Pow(1+rate, float64(y-baseYear))
}

// addFixedAndVariableCosts adds capital/fixed O&M cost on build decisions
// and variable cost on dispatch (spec.md §4.6.3/§4.6.5).
func (b *Builder) addFixedAndVariableCosts(y int, df float64) {
	for _, a := range b.sets.Assets {
		c, _ := b.sys.Component(a)
		fixedOM := c.MustFloat("fixed_om_cost", 0)
		if fixedOM != 0 {
			for _, t := range b.operationalCapacityTerms(a, y) {
				b.prob.AddObjectiveTerm(t.Var, df*fixedOM*t.Coef)
			}
		}
		capCost := c.MustFloat("capital_cost", 0)
		if capCost != 0 {
			for _, v := range b.sets.Vintages {
				if v != y {
					continue
				}
				b.prob.AddObjectiveTerm(varName("OperationalNewByVintage", a, v, y), df*capCost)
			}
		}
	}

	for _, p := range b.sets.Plants {
		b.addVariableCostSeries(p, y, df)
	}
	for _, r := range b.sets.Resources {
		b.addVariableCostSeries(r, y, df)
		for _, pen := range []string{"ResourcePotentialSlack"} {
			c, _ := b.sys.Component(r)
			penalty := c.MustFloat("resource_potential_penalty", 0)
			if penalty != 0 {
				b.prob.AddObjectiveTerm(varName(pen, r, y), df*penalty)
			}
		}
	}
}

func (b *Builder) addVariableCostSeries(name string, y int, df float64) {
	c, ok := b.sys.Component(name)
	if !ok {
		return
	}
	v, ok := c.Get("variable_cost")
	if !ok {
		return
	}
	ts, err := v.AsSeries()
	if err != nil {
		return
	}
	for _, rp := range b.sets.RepPeriods {
		weight := b.repWeight(rp) * b.periodsPerYear()
		for _, h := range b.sets.Hours {
			cost := valueAtTimepoint(b.temp, ts, y, rp, h, 0)
			if cost == 0 {
				continue
			}
			b.prob.AddObjectiveTerm(varName("ProvidePower", name, y, rp, h), df*cost*weight*b.timestepHours(h))
		}
	}
}

// addStartShutdownCosts adds per-start/shutdown cost for unit-commitment
// resources (spec.md §4.6.4/§4.6.5).
func (b *Builder) addStartShutdownCosts(y int, df float64) {
	for _, r := range b.sets.UnitCommitmentRes {
		c, _ := b.sys.Component(r)
		startCost := c.MustFloat("start_cost", 0)
		shutdownCost := c.MustFloat("shutdown_cost", 0)
		if startCost == 0 && shutdownCost == 0 {
			continue
		}
		for _, rp := range b.sets.RepPeriods {
			weight := b.repWeight(rp) * b.periodsPerYear()
			for _, h := range b.sets.Hours {
				if startCost != 0 {
					b.prob.AddObjectiveTerm(varName("StartUnits", r, y, rp, h), df*startCost*weight)
				}
				if shutdownCost != 0 {
					b.prob.AddObjectiveTerm(varName("ShutdownUnits", r, y, rp, h), df*shutdownCost*weight)
				}
			}
		}
	}
}

// addCurtailmentCosts handles spec.md §4.6.5's "curtailment" term: each
// curtailable resource with a nonzero variable_cost gets a small
// negative (epsilonRegularizer) coefficient on its ProvidePower, keeping
// curtailment itself free while still preferring dispatch over waste
// when costs are otherwise tied. It also prices each transmission
// line's variable_cost on its Forward and Reverse flows.
func (b *Builder) addCurtailmentCosts(y int, df float64) {
	for _, r := range b.sets.CurtailableRes {
		c, _ := b.sys.Component(r)
		hurdle := c.MustFloat("variable_cost", 0)
		if hurdle == 0 {
			continue
		}
		for _, rp := range b.sets.RepPeriods {
			weight := b.repWeight(rp) * b.periodsPerYear()
			for _, h := range b.sets.Hours {
				b.prob.AddObjectiveTerm(varName("ProvidePower", r, y, rp, h), -df*epsilonRegularizer*weight*b.timestepHours(h))
			}
		}
	}

	for _, l := range b.sets.TransmissionLines {
		c, _ := b.sys.Component(l)
		hurdle := c.MustFloat("variable_cost", 0)
		if hurdle == 0 {
			continue
		}
		for _, rp := range b.sets.RepPeriods {
			weight := b.repWeight(rp) * b.periodsPerYear()
			for _, h := range b.sets.Hours {
				coef := df * hurdle * weight * b.timestepHours(h)
				b.prob.AddObjectiveTerm(varName("Forward", l, y, rp, h), coef)
				b.prob.AddObjectiveTerm(varName("Reverse", l, y, rp, h), coef)
			}
		}
	}
}

// addFuelCosts prices fuel use at the commodity's price series (spec.md
// §4.6.5's "fuel" term): final fuels are priced on their FuelConsumption
// variable (declared in fuel_variables.go, tracking use by downstream
// consumers), candidate fuels on their FuelProduction variable (the only
// variable declared at the candidate-fuel entity itself — consumption
// happens at the conversion plants that draw on it, not the fuel).
func (b *Builder) addFuelCosts(y int, df float64) {
	for _, ff := range b.sets.FinalFuels {
		b.addFuelPriceCost(ff, "FuelConsumption", y, df)
	}
	for _, cf := range b.sets.CandidateFuels {
		b.addFuelPriceCost(cf, "FuelProduction", y, df)
	}
}

func (b *Builder) addFuelPriceCost(name, varPrefix string, y int, df float64) {
	c, ok := b.sys.Component(name)
	if !ok {
		return
	}
	v, ok := c.Get("price")
	if !ok {
		return
	}
	ts, err := v.AsSeries()
	if err != nil {
		return
	}
	for _, rp := range b.sets.RepPeriods {
		weight := b.repWeight(rp) * b.periodsPerYear()
		for _, h := range b.sets.Hours {
			price := valueAtTimepoint(b.temp, ts, y, rp, h, 0)
			if price == 0 {
				continue
			}
			b.prob.AddObjectiveTerm(varName(varPrefix, name, y, rp, h), df*price*weight*b.timestepHours(h))
		}
	}
}

// addBiomassProductionCosts prices biomass feedstock use by the
// feedstock resource's own cost, if it carries one (spec.md §4.6.5's
// "bio-production" term).
func (b *Builder) addBiomassProductionCosts(y int, df float64) {
	for _, bio := range b.sets.BiomassResources {
		c, _ := b.sys.Component(bio)
		v, ok := c.Get("price")
		if !ok {
			continue
		}
		ts, err := v.AsSeries()
		if err != nil {
			continue
		}
		for _, cf := range b.sets.CandidateFuels {
			for _, rp := range b.sets.RepPeriods {
				weight := b.repWeight(rp) * b.periodsPerYear()
				for _, h := range b.sets.Hours {
					price := valueAtTimepoint(b.temp, ts, y, rp, h, 0)
					if price == 0 {
						continue
					}
					b.prob.AddObjectiveTerm(varName("FuelProduction", cf, y, rp, h), df*price*weight*b.timestepHours(h))
				}
			}
		}
	}
}

// addSlackPenalties levies slackPenalty on every slack variable so they
// only activate when the problem is otherwise infeasible.
func (b *Builder) addSlackPenalties(y int, df float64) {
	for _, z := range b.sets.Zones {
		for _, rp := range b.sets.RepPeriods {
			weight := b.repWeight(rp) * b.periodsPerYear()
			for _, h := range b.sets.Hours {
				coef := df * slackPenalty * weight * b.timestepHours(h)
				b.prob.AddObjectiveTerm(varName("UnservedEnergy", z, y, rp, h), coef)
				b.prob.AddObjectiveTerm(varName("Overgen", z, y, rp, h), coef)
			}
		}
	}
	for _, reserve := range b.sets.Reserves {
		for _, rp := range b.sets.RepPeriods {
			weight := b.repWeight(rp) * b.periodsPerYear()
			for _, h := range b.sets.Hours {
				b.prob.AddObjectiveTerm(varName("UnservedReserve", reserve, y, rp, h), df*slackPenalty*weight*b.timestepHours(h))
			}
		}
	}
	for _, a := range b.sets.Assets {
		b.prob.AddObjectiveTerm(varName("ResourcePotentialSlack", a, y), df*slackPenalty)
	}
	for _, pol := range b.sets.Policies {
		b.prob.AddObjectiveTerm(varName("PolicySlack", pol, y), df*slackPenalty)
	}
	for _, fz := range b.sets.FuelZones {
		for _, rp := range b.sets.RepPeriods {
			weight := b.repWeight(rp) * b.periodsPerYear()
			for _, h := range b.sets.Hours {
				coef := df * slackPenalty * weight * b.timestepHours(h)
				b.prob.AddObjectiveTerm(varName("FuelUnserved", fz, y, rp, h), coef)
				b.prob.AddObjectiveTerm(varName("FuelOverproduction", fz, y, rp, h), coef)
			}
		}
	}
	for _, g := range b.customConstraints {
		if _, ok := g.Rows[y]; !ok {
			continue
		}
		b.prob.AddObjectiveTerm(varName("CustomConstraintSlack", g.ID, y), df*slackPenalty)
	}
}

// addElccRegularizer subtracts a tiny value per ELCC_MW to break ties in
// favor of using available reliability capacity (spec.md §4.6.5).
func (b *Builder) addElccRegularizer(y int, df float64) {
	for _, surface := range b.sets.ElccSurfaces {
		b.declare(varName("ElccMW", surface, y), Continuous, 0, bigM)
		b.prob.AddObjectiveTerm(varName("ElccMW", surface, y), -df*epsilonRegularizer)
	}
}

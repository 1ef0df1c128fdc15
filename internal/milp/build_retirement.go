package milp

import (
	"time"

	"github.com/aristath/gridforge/internal/component"
)

// buildBuildRetirementConstraints implements spec.md §4.6.4's "Build and
// retirement" family: planned-capacity bounds, vintage lifecycle,
// tranche/group sums, resource potential, and the min-build/min-
// operational floors.
func (b *Builder) buildBuildRetirementConstraints() {
	for _, a := range b.sets.Assets {
		c, _ := b.sys.Component(a)
		canRetire := c.MustBool("can_retire", false)
		canBuildNew := c.MustBool("can_build_new", false)
		physicalLifetime := int(c.MustFloat("physical_lifetime", 1000))

		plannedInput, hasPlanned := plannedCapacityByYear(c)

		for i, y := range b.sets.ModelYears {
			plannedVar := varName("OperationalPlanned", a, y)

			if hasPlanned {
				target := plannedInput(y)
				if canRetire {
					// Planned capacity <= input; year-over-year growth capped
					// at the input's own growth ("no mothball": retired
					// capacity cannot silently come back).
					b.prob.AddConstraint(Constraint{
						Name: varName("PlannedCapUB", a, y),
						Terms: []Term{{Var: plannedVar, Coef: 1}},
						Op:    LE,
						RHS:   target,
					})
				} else {
					b.prob.AddConstraint(Constraint{
						Name: varName("PlannedCapEQ", a, y),
						Terms: []Term{{Var: plannedVar, Coef: 1}},
						Op:    EQ,
						RHS:   target,
					})
				}
				if i > 0 {
					prevY := b.sets.ModelYears[i-1]
					growth := target - plannedInput(prevY)
					if growth < 0 {
						growth = 0
					}
					b.prob.AddConstraint(Constraint{
						Name: varName("PlannedNoMothball", a, y),
						Terms: []Term{
							{Var: plannedVar, Coef: 1},
							{Var: varName("OperationalPlanned", a, prevY), Coef: -1},
						},
						Op:  LE,
						RHS: growth,
					})
				}
			}

			// Vintage lifecycle: zero before v, non-increasing afterward
			// unless retirable, zeroed at v + physical_lifetime.
			for _, v := range b.sets.Vintages {
				if v > y {
					continue
				}
				varV := varName("OperationalNewByVintage", a, v, y)
				if y >= v+physicalLifetime {
					b.prob.AddConstraint(Constraint{
						Name:  varName("VintageExpired", a, v, y),
						Terms: []Term{{Var: varV, Coef: 1}},
						Op:    EQ,
						RHS:   0,
					})
					continue
				}
				if !canBuildNew {
					b.prob.AddConstraint(Constraint{
						Name:  varName("NoNewBuild", a, v, y),
						Terms: []Term{{Var: varV, Coef: 1}},
						Op:    EQ,
						RHS:   0,
					})
				}
				if !canRetire && y > v {
					prevY := prevYear(b.sets.ModelYears, y)
					if prevY >= v {
						b.prob.AddConstraint(Constraint{
							Name: varName("VintageNonIncreasing", a, v, y),
							Terms: []Term{
								{Var: varV, Coef: 1},
								{Var: varName("OperationalNewByVintage", a, v, prevY), Coef: -1},
							},
							Op:  EQ,
							RHS: 0,
						})
					}
				}
			}

			// Resource potential: OperationalCapacity <= potential + slack.
			if potTS, ok := c.Get("potential"); ok {
				if ts, err := potTS.AsSeries(); err == nil && ts.Len() > 0 {
					_, potVal := ts.At(ts.Len() - 1)
					terms := b.operationalCapacityTerms(a, y)
					terms = append(terms, Term{Var: varName("ResourcePotentialSlack", a, y), Coef: -1})
					b.prob.AddConstraint(Constraint{
						Name:  varName("ResourcePotential", a, y),
						Terms: terms,
						Op:    LE,
						RHS:   potVal,
					})
				}
			}

			if minCum := c.MustFloat("min_cumulative_new_build", 0); minCum > 0 {
				b.prob.AddConstraint(Constraint{
					Name:  varName("MinCumulativeNewBuild", a, y),
					Terms: b.operationalNewTerms(a, y),
					Op:    GE,
					RHS:   minCum,
				})
			}
			if minOp := c.MustFloat("min_operational_capacity", 0); minOp > 0 {
				b.prob.AddConstraint(Constraint{
					Name:  varName("MinOperationalCapacity", a, y),
					Terms: b.operationalCapacityTerms(a, y),
					Op:    GE,
					RHS:   minOp,
				})
			}

			if c.MustBool("integer_build", false) {
				b.integerBuildSizing(a, y)
			}
		}
	}

	b.buildTrancheAndGroupConstraints()
}

// integerBuildSizing ties the vintage-v capacity first built in year v
// to the integer unit count, per spec.md §4.6.2: "Integer-build
// resources add IntegerBuild[a, v] ∈ ℕ" so that new capacity is added
// in discrete unit_size chunks rather than a continuous amount.
// OperationalNewByVintage[a,v,v] is the as-built quantity for vintage v
// (later years either hold it constant or let it retire, handled by
// the vintage-lifecycle constraints above); pinning it here is
// sufficient to make the whole vintage's build lumpy.
func (b *Builder) integerBuildSizing(a string, v int) {
	c, _ := b.sys.Component(a)
	unitSize := c.MustFloat("unit_size", 0)
	if unitSize <= 0 {
		return
	}
	b.prob.AddConstraint(Constraint{
		Name: varName("IntegerBuildSizing", a, v),
		Terms: []Term{
			{Var: varName("OperationalNewByVintage", a, v, v), Coef: 1},
			{Var: varName("IntegerBuild", a, v), Coef: -unitSize},
		},
		Op:  EQ,
		RHS: 0,
	})
}

// buildTrancheAndGroupConstraints bounds, for every Tranche and
// AssetGroup with a positive group_total_potential, the summed
// operational capacity of its linked components (tranche_of /
// group_member) from above by that total. The sum is not forced to
// equal the total, and no equality between tranches and a parent
// asset's capacity is emitted.
func (b *Builder) buildTrancheAndGroupConstraints() {
	for _, name := range b.sys.Names() {
		c, _ := b.sys.Component(name)
		if c.Kind != component.KindTranche && c.Kind != component.KindAssetGroup {
			continue
		}
		linkKind := "tranche_of"
		if c.Kind == component.KindAssetGroup {
			linkKind = "group_member"
		}
		for _, y := range b.sets.ModelYears {
			var terms []Term
			for _, l := range c.Links(linkKind) {
				terms = append(terms, b.operationalCapacityTerms(l.To, y)...)
			}
			if total := c.MustFloat("group_total_potential", 0); total > 0 {
				b.prob.AddConstraint(Constraint{
					Name:  varName("GroupTotal", name, y),
					Terms: terms,
					Op:    LE,
					RHS:   total,
				})
			}
		}
	}
}

// plannedCapacityByYear returns a lookup function giving
// planned_installed_capacity's value at or before January 1 of a given
// calendar year, and whether the attribute was set at all.
func plannedCapacityByYear(c *component.Component) (func(int) float64, bool) {
	v, ok := c.Get("planned_installed_capacity")
	if !ok {
		return nil, false
	}
	ts, err := v.AsSeries()
	if err != nil || ts.Len() == 0 {
		return nil, false
	}
	return func(y int) float64 {
		jan1 := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		val, ok := ts.AtOrBefore(jan1)
		if !ok {
			// before the series' first point: use the first recorded value.
			_, val = ts.At(0)
		}
		return val
	}, true
}

// prevYear returns the modeled year immediately preceding y in the
// sorted years slice, or y-1 if y is the first modeled year.
func prevYear(years []int, y int) int {
	for i, candidate := range years {
		if candidate == y {
			if i == 0 {
				return y - 1
			}
			return years[i-1]
		}
	}
	return y - 1
}

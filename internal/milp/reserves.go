package milp

import "github.com/aristath/gridforge/internal/component"

// buildReserveConstraints implements spec.md §4.6.4's "Operating
// reserves" family: per reserve per timepoint, Σ ProvideReserve +
// unserved_reserve == requirement, where the requirement sums a flat
// target plus fractional contributions from zonal gross load, from
// linked load components, and from resources (by committed capacity or
// by potential profile). Resource-based contributions are themselves
// decision-variable expressions (committed capacity or operational
// capacity scaled by a potential profile), so they're carried as
// negated LHS terms rather than folded into the scalar RHS.
func (b *Builder) buildReserveConstraints() {
	for _, reserve := range b.sets.Reserves {
		rc, _ := b.sys.Component(reserve)
		pctLoad := rc.MustFloat("pct_of_zonal_gross_load", 0)
		reserveResources := rc.Links("reserve_resource")
		reserveZones := rc.Links("reserve_zone")
		reserveLoads := rc.Links("reserve_load")

		for _, y := range b.sets.ModelYears {
			for _, rp := range b.sets.RepPeriods {
				for _, h := range b.sets.Hours {
					var terms []Term
					for _, r := range b.sets.Resources {
						terms = append(terms, Term{Var: varName("ProvideReserve", r, reserve, y, rp, h), Coef: 1})
					}
					terms = append(terms, Term{Var: varName("UnservedReserve", reserve, y, rp, h), Coef: 1})

					for _, l := range reserveResources {
						frac := l.Float("contribution_fraction", 0)
						if frac == 0 {
							continue
						}
						terms = append(terms, negateTerms(b.reserveResourceContributionTerms(l.To, y, rp, h, frac))...)
					}

					requirement := b.flatRequirement(rc, y, rp, h)
					if pctLoad > 0 {
						for _, l := range reserveZones {
							requirement += pctLoad * b.zonalLoad(l.To, y, rp, h)
						}
						for _, l := range reserveLoads {
							requirement += pctLoad * b.loadAt(l.To, y, rp, h)
						}
					}

					b.prob.AddConstraint(Constraint{
						Name:  varName("ReserveBalance", reserve, y, rp, h),
						Terms: terms,
						Op:    EQ,
						RHS:   requirement,
					})
				}
			}
		}
	}
}

// flatRequirement reads the reserve's flat_requirement series at (y, rp, h).
func (b *Builder) flatRequirement(rc *component.Component, y, rp, h int) float64 {
	v, ok := rc.Get("flat_requirement")
	if !ok {
		return 0
	}
	ts, err := v.AsSeries()
	if err != nil {
		return 0
	}
	return valueAtTimepoint(b.temp, ts, y, rp, h, 0)
}

// reserveResourceContributionTerms returns the terms of a resource's
// committed-capacity (if it carries unit commitment) or operational
// capacity contribution to a reserve requirement, scaled by the link's
// contribution fraction; operational capacity is also scaled by the
// resource's provide-power potential at (y, rp, h).
func (b *Builder) reserveResourceContributionTerms(name string, y, rp, h int, frac float64) []Term {
	c, ok := b.sys.Component(name)
	if !ok {
		return nil
	}
	if b.hasUnitCommitment(name) {
		unitSize := c.MustFloat("unit_size", 1)
		if unitSize <= 0 {
			unitSize = 1
		}
		return []Term{{Var: varName("CommittedUnits", name, y, rp, h), Coef: frac * unitSize}}
	}
	return scaleTerms(b.operationalCapacityTerms(name, y), frac*b.providePowerPotential(name, y, rp, h))
}

func (b *Builder) hasUnitCommitment(name string) bool {
	for _, r := range b.sets.UnitCommitmentRes {
		if r == name {
			return true
		}
	}
	return false
}

func (b *Builder) loadAt(name string, y, rp, h int) float64 {
	c, ok := b.sys.Component(name)
	if !ok {
		return 0
	}
	v, ok := c.Get("profile")
	if !ok {
		return 0
	}
	ts, err := v.AsSeries()
	if err != nil {
		return 0
	}
	return valueAtTimepoint(b.temp, ts, y, rp, h, 0)
}

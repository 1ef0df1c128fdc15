package milp

// buildUCConstraints implements spec.md §4.6.4's "Unit commitment"
// family for every resource that opted into linear or integer UC.
func (b *Builder) buildUCConstraints() {
	for _, r := range b.sets.UnitCommitmentRes {
		c, _ := b.sys.Component(r)
		unitSize := c.MustFloat("unit_size", 1)
		if unitSize <= 0 {
			unitSize = 1
		}
		minStable := c.MustFloat("min_stable_level", 0)
		minUp := int(c.MustFloat("min_up_time", 1))
		minDown := int(c.MustFloat("min_down_time", 1))

		for _, y := range b.sets.ModelYears {
			operationalUnitsTerms := scaleTerms(b.operationalCapacityTerms(r, y), 1/unitSize)

			for _, rp := range b.sets.RepPeriods {
				nHours := len(b.sets.Hours)
				for h := 0; h < nHours; h++ {
					for _, prefix := range []string{"CommittedUnits", "StartUnits", "ShutdownUnits"} {
						terms := []Term{{Var: varName(prefix, r, y, rp, h), Coef: 1}}
						terms = append(terms, negateTerms(operationalUnitsTerms)...)
						b.prob.AddConstraint(Constraint{
							Name:  varName(prefix+"UB", r, y, rp, h),
							Terms: terms,
							Op:    LE,
							RHS:   0,
						})
					}

					// Transition: Committed[t+1] = Committed[t] + Start[t+1] -
					// Shutdown[t+1], modular indexing within the rep period.
					next := (h + 1) % nHours
					b.prob.AddConstraint(Constraint{
						Name: varName("UCTransition", r, y, rp, next),
						Terms: []Term{
							{Var: varName("CommittedUnits", r, y, rp, next), Coef: 1},
							{Var: varName("CommittedUnits", r, y, rp, h), Coef: -1},
							{Var: varName("StartUnits", r, y, rp, next), Coef: -1},
							{Var: varName("ShutdownUnits", r, y, rp, next), Coef: 1},
						},
						Op:  EQ,
						RHS: 0,
					})

					// Pmin: ProvidePower >= min_stable_level * CommittedCapacity.
					if minStable > 0 {
						b.prob.AddConstraint(Constraint{
							Name: varName("PminUC", r, y, rp, h),
							Terms: []Term{
								{Var: varName("ProvidePower", r, y, rp, h), Coef: -1},
								{Var: varName("CommittedUnits", r, y, rp, h), Coef: minStable * unitSize},
							},
							Op:  LE,
							RHS: 0,
						})
					}

					// Minimum up/down time: starts over the up-time window
					// may not exceed the units committed now; a start now
					// plus shutdowns over the down-time window is at most 1.
					b.minUpDownWindow(r, y, rp, h, nHours, minUp, minDown)
				}
			}
		}
	}
}

// minUpDownWindow implements the min up/down time constraint by
// summing past-start (resp. past-shutdown) counts over a lookback
// window, accounting for variable timestep lengths (spec.md §4.6.4).
func (b *Builder) minUpDownWindow(r string, y, rp, h, nHours, minUp, minDown int) {
	if minUp > 1 {
		var hoursBack, w int
		var starts []Term
		for hoursBack < minUp && w < nHours {
			idx := (h - w + nHours) % nHours
			starts = append(starts, Term{Var: varName("StartUnits", r, y, rp, idx), Coef: 1})
			hoursBack += int(b.timestepHours(idx))
			w++
		}
		terms := append([]Term{{Var: varName("CommittedUnits", r, y, rp, h), Coef: -1}}, starts...)
		b.prob.AddConstraint(Constraint{
			Name:  varName("MinUpTime", r, y, rp, h),
			Terms: terms,
			Op:    LE,
			RHS:   0,
		})
	}
	if minDown > 1 {
		var hoursBack, w int
		var shutdowns []Term
		for hoursBack < minDown && w < nHours {
			idx := (h - w + nHours) % nHours
			shutdowns = append(shutdowns, Term{Var: varName("ShutdownUnits", r, y, rp, idx), Coef: 1})
			hoursBack += int(b.timestepHours(idx))
			w++
		}
		terms := append([]Term{{Var: varName("StartUnits", r, y, rp, h), Coef: 1}}, shutdowns...)
		b.prob.AddConstraint(Constraint{
			Name:  varName("MinDownTime", r, y, rp, h),
			Terms: terms,
			Op:    LE,
			RHS:   1, // at most one of {start now, recent shutdown} fires
		})
	}
}

package milp

import "math"

// buildStorageConstraints implements spec.md §4.6.4's "Storage state of
// charge" family: intra-period SoC tracking, anchoring, inter-period
// carry, and the joint SoC bound.
func (b *Builder) buildStorageConstraints() {
	for _, r := range b.sets.StorageRes {
		c, _ := b.sys.Component(r)
		chargeEff := c.MustFloat("charging_efficiency", 1)
		dischargeEff := c.MustFloat("discharging_efficiency", 1)
		if dischargeEff <= 0 {
			dischargeEff = 1
		}
		parasiticLoss := c.MustFloat("parasitic_loss", 0)
		socMinFrac := c.MustFloat("soc_min_fraction", 0)
		interPeriod := c.MustBool("inter_period_dynamics_active", false)

		for _, y := range b.sets.ModelYears {
			storageCapTerms := b.operationalStorageCapacityTerms(r, y)
			nHours := len(b.sets.Hours)

			for _, rp := range b.sets.RepPeriods {
				for h := 0; h < nHours; h++ {
					if h == 0 {
						if interPeriod {
							// Anchored to 0 at the first hour when inter-period
							// sharing is enabled; SocInter carries the
							// between-period state instead.
							b.prob.AddConstraint(Constraint{
								Name:  varName("SocIntraAnchor", r, y, rp),
								Terms: []Term{{Var: varName("SocIntra", r, y, rp, 0), Coef: 1}},
								Op:    EQ,
								RHS:   0,
							})
						}
						continue
					}

					dt := b.timestepHours(h)
					decay := math.Pow(1-parasiticLoss, dt)
					terms := []Term{
						{Var: varName("SocIntra", r, y, rp, h), Coef: 1},
						{Var: varName("SocIntra", r, y, rp, h-1), Coef: -decay},
						{Var: varName("IncreaseLoad", r, y, rp, h-1), Coef: -chargeEff},
						{Var: varName("ProvidePower", r, y, rp, h-1), Coef: 1 / dischargeEff},
					}
					b.prob.AddConstraint(Constraint{
						Name:  varName("SocIntraTracking", r, y, rp, h),
						Terms: terms,
						Op:    EQ,
						RHS:   0,
					})
				}

				if !interPeriod {
					// Loops within the rep period: last hour's SoC must
					// return to the first hour's, closing the cycle.
					if nHours > 0 {
						b.prob.AddConstraint(Constraint{
							Name: varName("SocIntraLoop", r, y, rp),
							Terms: []Term{
								{Var: varName("SocIntra", r, y, rp, 0), Coef: 1},
								{Var: varName("SocIntra", r, y, rp, nHours-1), Coef: -1},
							},
							Op:  EQ,
							RHS: 0,
						})
					}
				}
			}

			if interPeriod {
				b.interPeriodCarry(r, y, chargeEff, dischargeEff, parasiticLoss)
			}

			b.jointSoCBound(r, y, storageCapTerms, dischargeEff, socMinFrac, interPeriod)
		}
	}
}

// interPeriodCarry tracks SocInter between chronological periods,
// applying parasitic loss for the whole period and carrying the last-
// hour intra SoC plus the current period's net charge/discharge
// (spec.md §4.6.4).
func (b *Builder) interPeriodCarry(r string, y int, chargeEff, dischargeEff, parasiticLoss float64) {
	chronoYears := b.sets.ChronoPeriods[y]
	nHours := len(b.sets.Hours)
	for i, ch := range chronoYears {
		repIdx := ch
		if ch < len(b.temp.MapToRepPeriods) {
			repIdx = b.temp.MapToRepPeriods[ch]
		}
		periodHours := 0.0
		for h := 0; h < nHours; h++ {
			periodHours += b.timestepHours(h)
		}
		decay := math.Pow(1-parasiticLoss, periodHours)

		if i == 0 {
			b.prob.AddConstraint(Constraint{
				Name:  varName("SocInterAnchor", r, y, ch),
				Terms: []Term{{Var: varName("SocInter", r, y, ch), Coef: 1}},
				Op:    EQ,
				RHS:   0,
			})
			continue
		}
		prevCh := chronoYears[i-1]
		terms := []Term{
			{Var: varName("SocInter", r, y, ch), Coef: 1},
			{Var: varName("SocInter", r, y, prevCh), Coef: -decay},
		}
		if nHours > 0 {
			terms = append(terms,
				Term{Var: varName("SocIntra", r, y, repIdx, nHours-1), Coef: -1},
				Term{Var: varName("IncreaseLoad", r, y, repIdx, nHours-1), Coef: -chargeEff},
				Term{Var: varName("ProvidePower", r, y, repIdx, nHours-1), Coef: 1 / dischargeEff},
			)
		}
		b.prob.AddConstraint(Constraint{
			Name:  varName("SocInterTracking", r, y, ch),
			Terms: terms,
			Op:    EQ,
			RHS:   0,
		})
	}
}

// jointSoCBound enforces soc_min * E <= intra + inter <= E / eta_d
// across all chronological (period, hour) (spec.md §4.6.4).
func (b *Builder) jointSoCBound(r string, y int, storageCapTerms []Term, dischargeEff, socMinFrac float64, interPeriod bool) {
	periods := b.sets.RepPeriods
	if interPeriod {
		periods = b.sets.ChronoPeriods[y]
	}
	for _, p := range periods {
		rp := p
		if interPeriod && p < len(b.temp.MapToRepPeriods) {
			rp = b.temp.MapToRepPeriods[p]
		}
		for h := 0; h < len(b.sets.Hours); h++ {
			terms := []Term{{Var: varName("SocIntra", r, y, rp, h), Coef: 1}}
			if interPeriod {
				terms = append(terms, Term{Var: varName("SocInter", r, y, p), Coef: 1})
			}

			lowerTerms := append(append([]Term{}, terms...), negateTerms(scaleTerms(storageCapTerms, socMinFrac))...)
			b.prob.AddConstraint(Constraint{
				Name:  varName("SocLowerBound", r, y, p, h),
				Terms: negateTerms(lowerTerms),
				Op:    LE,
				RHS:   0,
			})

			upperTerms := append(append([]Term{}, terms...), negateTerms(scaleTerms(storageCapTerms, 1/dischargeEff))...)
			b.prob.AddConstraint(Constraint{
				Name:  varName("SocUpperBound", r, y, p, h),
				Terms: upperTerms,
				Op:    LE,
				RHS:   0,
			})
		}
	}
}

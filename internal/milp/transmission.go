package milp

// buildTransmissionConstraints implements spec.md §4.6.4's
// "Transmission" family: rating bounds plus the directional
// decomposition into Forward/Reverse.
func (b *Builder) buildTransmissionConstraints() {
	for _, l := range b.sets.TransmissionLines {
		c, _ := b.sys.Component(l)
		forwardRating := c.MustFloat("forward_rating", 1)
		reverseRating := c.MustFloat("reverse_rating", 1)

		for _, y := range b.sets.ModelYears {
			capTerms := b.operationalCapacityTerms(l, y)
			for _, rp := range b.sets.RepPeriods {
				for _, h := range b.sets.Hours {
					flow := varName("TransmitPower", l, y, rp, h)
					forward := varName("Forward", l, y, rp, h)
					reverse := varName("Reverse", l, y, rp, h)

					upTerms := append([]Term{{Var: flow, Coef: 1}}, negateTerms(scaleTerms(capTerms, forwardRating))...)
					b.prob.AddConstraint(Constraint{Name: varName("TxUB", l, y, rp, h), Terms: upTerms, Op: LE, RHS: 0})

					lowTerms := append([]Term{{Var: flow, Coef: -1}}, negateTerms(scaleTerms(capTerms, reverseRating))...)
					b.prob.AddConstraint(Constraint{Name: varName("TxLB", l, y, rp, h), Terms: lowTerms, Op: LE, RHS: 0})

					b.prob.AddConstraint(Constraint{
						Name:  varName("TxForwardGEFlow", l, y, rp, h),
						Terms: []Term{{Var: forward, Coef: 1}, {Var: flow, Coef: -1}},
						Op:    GE,
						RHS:   0,
					})
					b.prob.AddConstraint(Constraint{
						Name:  varName("TxReverseGENegFlow", l, y, rp, h),
						Terms: []Term{{Var: reverse, Coef: 1}, {Var: flow, Coef: 1}},
						Op:    GE,
						RHS:   0,
					})
				}
			}
		}
	}
}

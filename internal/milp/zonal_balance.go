package milp

// buildZonalBalanceConstraints implements spec.md §4.6.4's "Zonal
// balance": Σ ProvidePower + imports - exports - Σ IncreaseLoad +
// unserved - overgen == input_load.
func (b *Builder) buildZonalBalanceConstraints() {
	for _, z := range b.sets.Zones {
		zc, _ := b.sys.Component(z)
		members := zc.Links("asset_zone")

		for _, y := range b.sets.ModelYears {
			for _, rp := range b.sets.RepPeriods {
				for _, h := range b.sets.Hours {
					var terms []Term
					for _, l := range members {
						terms = append(terms,
							Term{Var: varName("ProvidePower", l.From, y, rp, h), Coef: 1},
							Term{Var: varName("IncreaseLoad", l.From, y, rp, h), Coef: -1},
						)
					}
					for _, line := range b.sets.TransmissionLines {
						if b.lineEndpoint(line, "to") == z {
							terms = append(terms, Term{Var: varName("TransmitPower", line, y, rp, h), Coef: 1})
						}
						if b.lineEndpoint(line, "from") == z {
							terms = append(terms, Term{Var: varName("TransmitPower", line, y, rp, h), Coef: -1})
						}
					}
					terms = append(terms,
						Term{Var: varName("UnservedEnergy", z, y, rp, h), Coef: 1},
						Term{Var: varName("Overgen", z, y, rp, h), Coef: -1},
					)

					load := b.zonalLoad(z, y, rp, h)
					b.prob.AddConstraint(Constraint{
						Name:  varName("ZonalBalance", z, y, rp, h),
						Terms: terms,
						Op:    EQ,
						RHS:   load,
					})
				}
			}
		}
	}
}

func (b *Builder) lineEndpoint(line, role string) string {
	c, ok := b.sys.Component(line)
	if !ok {
		return ""
	}
	for _, l := range c.Links("tx_zone") {
		if l.Label("role", "") == role {
			return l.To
		}
	}
	return ""
}

func (b *Builder) zonalLoad(zone string, y, rp, h int) float64 {
	zc, _ := b.sys.Component(zone)
	var total float64
	for _, l := range zc.Links("zone_load") {
		loadC, ok := b.sys.Component(l.To)
		if !ok {
			continue
		}
		v, ok := loadC.Get("profile")
		if !ok {
			continue
		}
		ts, err := v.AsSeries()
		if err != nil {
			continue
		}
		total += valueAtTimepoint(b.temp, ts, y, rp, h, 0)
	}
	return total
}

package milp

// buildCapacityVariables declares the per-asset, per-year build/retire
// state variables from spec.md §4.6.2.
func (b *Builder) buildCapacityVariables() {
	for _, a := range b.sets.Assets {
		c, _ := b.sys.Component(a)
		for _, y := range b.sets.ModelYears {
			b.declare(varName("OperationalPlanned", a, y), Continuous, 0, bigM)
			for _, v := range b.sets.Vintages {
				if v > y {
					continue
				}
				b.declare(varName("OperationalNewByVintage", a, v, y), Continuous, 0, bigM)
			}
			if c.MustFloat("duration", 0) > 0 {
				b.declare(varName("OperationalPlannedStorage", a, y), Continuous, 0, bigM)
				for _, v := range b.sets.Vintages {
					if v > y {
						continue
					}
					b.declare(varName("OperationalNewStorageByVintage", a, v, y), Continuous, 0, bigM)
				}
			}
		}
		if c.MustBool("integer_build", false) {
			for _, v := range b.sets.Vintages {
				b.declare(varName("IntegerBuild", a, v), Integer, 0, bigM)
			}
		}
	}
}

// buildDispatchVariables declares per-plant, per-timepoint dispatch and
// reserve-provision variables.
func (b *Builder) buildDispatchVariables() {
	for _, p := range b.sets.Plants {
		b.declareOverTimepoints("ProvidePower", p)
		b.declareOverTimepoints("IncreaseLoad", p)
	}
	for _, r := range b.sets.Resources {
		b.declareOverTimepoints("ProvidePower", r)
		b.declareOverTimepoints("IncreaseLoad", r)
		for _, reserve := range b.sets.Reserves {
			b.declareOverTimepoints("ProvideReserve", r, reserve)
		}
	}
}

// buildUCVariables declares the unit-commitment variable trio for every
// resource that opted in (linear or integer relaxation, spec.md
// §4.6.4 "Unit commitment").
func (b *Builder) buildUCVariables() {
	for _, r := range b.sets.UnitCommitmentRes {
		c, _ := b.sys.Component(r)
		kind := Continuous
		if c.MustBool("integer_uc", false) {
			kind = Integer
		}
		for _, y := range b.sets.ModelYears {
			for _, rp := range b.sets.RepPeriods {
				for _, h := range b.sets.Hours {
					b.declare(varName("CommittedUnits", r, y, rp, h), kind, 0, bigM)
					b.declare(varName("StartUnits", r, y, rp, h), kind, 0, bigM)
					b.declare(varName("ShutdownUnits", r, y, rp, h), kind, 0, bigM)
				}
			}
		}
	}
}

// buildStorageVariables declares intra- and inter-period state-of-
// charge variables for every storage resource.
func (b *Builder) buildStorageVariables() {
	for _, r := range b.sets.StorageRes {
		for _, y := range b.sets.ModelYears {
			for _, rp := range b.sets.RepPeriods {
				for _, h := range b.sets.Hours {
					b.declare(varName("SocIntra", r, y, rp, h), Continuous, -bigM, bigM)
				}
			}
			for _, ch := range b.sets.ChronoPeriods[y] {
				b.declare(varName("SocInter", r, y, ch), Continuous, 0, bigM)
			}
		}
	}
}

// buildTransmissionVariables declares per-line transmission flow and
// its directional decomposition.
func (b *Builder) buildTransmissionVariables() {
	for _, l := range b.sets.TransmissionLines {
		for _, y := range b.sets.ModelYears {
			for _, rp := range b.sets.RepPeriods {
				for _, h := range b.sets.Hours {
					b.declare(varName("TransmitPower", l, y, rp, h), Continuous, -bigM, bigM)
					b.declare(varName("Forward", l, y, rp, h), Continuous, 0, bigM)
					b.declare(varName("Reverse", l, y, rp, h), Continuous, 0, bigM)
				}
			}
		}
	}
}

// buildSlackVariables declares the non-negative slack variables that
// enable infeasibility diagnosis instead of hard infeasibility
// (spec.md §4.6.4: "Slack variables with high penalty enable
// infeasibility diagnosis").
func (b *Builder) buildSlackVariables() {
	for _, z := range b.sets.Zones {
		b.declareOverTimepoints("UnservedEnergy", z)
		b.declareOverTimepoints("Overgen", z)
	}
	for _, reserve := range b.sets.Reserves {
		b.declareOverTimepoints("UnservedReserve", reserve)
	}
	for _, a := range b.sets.Assets {
		for _, y := range b.sets.ModelYears {
			b.declare(varName("ResourcePotentialSlack", a, y), Continuous, 0, bigM)
		}
	}
	for _, pol := range b.sets.Policies {
		for _, y := range b.sets.ModelYears {
			b.declare(varName("PolicySlack", pol, y), Continuous, 0, bigM)
		}
	}
}

// declareOverTimepoints declares prefix|entity|y|r|h for every
// TIMEPOINTS element (spec.md §4.6.1: TIMEPOINTS = MODEL_YEARS x
// REP_PERIODS x HOURS).
func (b *Builder) declareOverTimepoints(prefix string, keys ...interface{}) {
	base := append([]interface{}{prefix}, keys...)
	for _, y := range b.sets.ModelYears {
		for _, rp := range b.sets.RepPeriods {
			for _, h := range b.sets.Hours {
				parts := make([]interface{}, 0, len(base)+3)
				parts = append(parts, base...)
				parts = append(parts, y, rp, h)
				b.declare(varName(parts...), Continuous, 0, bigM)
			}
		}
	}
}

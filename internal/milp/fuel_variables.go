package milp

// buildFuelVariables declares the fuel-side production/consumption and
// slack variables that buildFuelBalanceConstraints references, mirroring
// the power-side dispatch variables (spec.md §4.6.4 "Fuel balance").
func (b *Builder) buildFuelVariables() {
	for _, p := range b.sets.FuelConversionPlants {
		b.declareOverTimepoints("FuelProduction", p)
	}
	for _, cf := range b.sets.CandidateFuels {
		b.declareOverTimepoints("FuelProduction", cf)
	}
	for _, s := range b.sets.FuelStorages {
		b.declareOverTimepoints("FuelProduction", s)
		b.declareOverTimepoints("FuelConsumption", s)
	}
	for _, t := range b.sets.FuelTransportations {
		b.declareOverTimepoints("FuelProduction", t)
		b.declareOverTimepoints("FuelConsumption", t)
	}
	for _, ff := range b.sets.FinalFuels {
		b.declareOverTimepoints("FuelConsumption", ff)
	}
	for _, fz := range b.sets.FuelZones {
		b.declareOverTimepoints("FuelUnserved", fz)
		b.declareOverTimepoints("FuelOverproduction", fz)
	}
}

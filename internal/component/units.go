package component

import "fmt"

// dimension groups units that can be converted among themselves by a
// single multiplicative factor. Units outside any dimension are
// dimensionless and always convert 1:1 (spec.md §4.2: "a dimensionless
// default applies when unknown").
type dimension struct {
	toBase map[string]float64 // unit -> multiple of the dimension's base unit
}

var dimensions = []dimension{
	{toBase: map[string]float64{"MW": 1, "kW": 1e-3, "GW": 1e3}},
	{toBase: map[string]float64{"MWh": 1, "kWh": 1e-3, "GWh": 1e3}},
	{toBase: map[string]float64{"MMBtu": 1, "MWh_th": 0.293071, "therm": 0.1}},
	{toBase: map[string]float64{"$": 1, "$k": 1e3, "$M": 1e6}},
	{toBase: map[string]float64{"tCO2": 1, "ktCO2": 1e3, "MtCO2": 1e6}},
	{toBase: map[string]float64{"MMBtu/MWh": 1}},
	{toBase: map[string]float64{"$/MWh": 1, "$/kWh": 1e3}},
	{toBase: map[string]float64{"h": 1}},
}

// ConvertUnit converts value from givenUnit to declaredUnit when both
// share a dimension, per spec.md §4.2. Units the table has never seen are
// treated as dimensionless and pass through unchanged.
func ConvertUnit(value float64, declaredUnit, givenUnit string) (float64, error) {
	if declaredUnit == "" || givenUnit == "" || declaredUnit == givenUnit {
		return value, nil
	}
	for _, d := range dimensions {
		declaredFactor, declaredOK := d.toBase[declaredUnit]
		givenFactor, givenOK := d.toBase[givenUnit]
		if declaredOK && givenOK {
			// value[given] * givenFactor = value[base]; value[base] / declaredFactor = value[declared]
			return value * givenFactor / declaredFactor, nil
		}
	}
	return 0, fmt.Errorf("unit: %q and %q do not share a known dimension", declaredUnit, givenUnit)
}

package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZonalBalanceRHSEqualsLinkedLoad(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildZonalBalanceConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("ZonalBalance", "zoneA", 2030, 0, 0))
	assert.Equal(t, 80.0, c.RHS, "zoneA's load_a carries a flat 80 MW profile")
	assert.Equal(t, EQ, c.Op)

	empty := findConstraint(t, b.prob.Constraints, varName("ZonalBalance", "zoneB", 2030, 0, 0))
	assert.Equal(t, 0.0, empty.RHS, "zoneB has no linked load")
}

func TestZonalBalanceIncludesTransmissionAndSlackTerms(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildZonalBalanceConstraints()

	c := findConstraint(t, b.prob.Constraints, varName("ZonalBalance", "zoneA", 2030, 0, 0))
	vars := termVars(c.Terms)
	assert.Contains(t, vars, varName("ProvidePower", "gas_ct", 2030, 0, 0))
	assert.Contains(t, vars, varName("ProvidePower", "solar_pv", 2030, 0, 0))
	assert.Contains(t, vars, varName("TransmitPower", "tx_ab", 2030, 0, 0), "zoneA is the tx path's 'to' endpoint")
	assert.Contains(t, vars, varName("UnservedEnergy", "zoneA", 2030, 0, 0))
	assert.Contains(t, vars, varName("Overgen", "zoneA", 2030, 0, 0))

	cB := findConstraint(t, b.prob.Constraints, varName("ZonalBalance", "zoneB", 2030, 0, 0))
	assert.Contains(t, termVars(cB.Terms), varName("TransmitPower", "tx_ab", 2030, 0, 0), "zoneB is the tx path's 'from' endpoint")
}

func findConstraint(t *testing.T, cs []Constraint, name string) Constraint {
	t.Helper()
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	require.Fail(t, "constraint not found", name)
	return Constraint{}
}

func termVars(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Var
	}
	return out
}

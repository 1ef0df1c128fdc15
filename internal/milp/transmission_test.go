package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransmissionBoundsScaleByRatingAndOperationalCapacity(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildTransmissionConstraints()

	ub := findConstraint(t, b.prob.Constraints, varName("TxUB", "tx_ab", 2030, 0, 0))
	assert.Equal(t, LE, ub.Op)
	vars := termVars(ub.Terms)
	assert.Contains(t, vars, varName("TransmitPower", "tx_ab", 2030, 0, 0))
	assert.Contains(t, vars, varName("OperationalPlanned", "tx_ab", 2030))
}

func TestTransmissionForwardAndReverseDecomposeFlow(t *testing.T) {
	sys, sets, temp := toySystem()
	b := NewBuilder(sys, sets, temp)
	b.buildTransmissionConstraints()

	fwd := findConstraint(t, b.prob.Constraints, varName("TxForwardGEFlow", "tx_ab", 2030, 0, 0))
	assert.Equal(t, GE, fwd.Op)
	assert.Contains(t, termVars(fwd.Terms), varName("Forward", "tx_ab", 2030, 0, 0))

	rev := findConstraint(t, b.prob.Constraints, varName("TxReverseGENegFlow", "tx_ab", 2030, 0, 0))
	assert.Equal(t, GE, rev.Op)
	assert.Contains(t, termVars(rev.Terms), varName("Reverse", "tx_ab", 2030, 0, 0))
}

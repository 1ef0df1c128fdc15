package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRescaleLoadMatchesAnnualForecast exercises spec.md §8's "rescaled
// load energy" testable property: within 1e-6 relative tolerance.
func TestRescaleLoadMatchesAnnualForecast(t *testing.T) {
	hoursPerRep := 2
	repWeights := []float64{0.5, 0.5}
	repValues := []float64{10, 20, 30, 40} // two rep periods of two hours each
	periodsPerYear := 365.0

	target := 50000.0
	rescaled, err := RescaleLoad(repValues, repWeights, hoursPerRep, target, periodsPerYear)
	require.NoError(t, err)

	got, err := annualEnergy(rescaled, repWeights, hoursPerRep, periodsPerYear)
	require.NoError(t, err)
	assert.InEpsilon(t, target, got, 1e-6)
}

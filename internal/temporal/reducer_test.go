package temporal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chronoPeriods(n int, hoursPerPeriod int) []ChronoPeriod {
	out := make([]ChronoPeriod, n)
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		hours := make([]time.Time, hoursPerPeriod)
		for h := 0; h < hoursPerPeriod; h++ {
			hours[h] = base.Add(time.Duration(i*hoursPerPeriod+h) * time.Hour)
		}
		out[i] = ChronoPeriod{PeriodID: i, Hours: hours}
	}
	return out
}

func timesteps(hoursPerPeriod int) []time.Duration {
	out := make([]time.Duration, hoursPerPeriod)
	for i := range out {
		out[i] = time.Hour
	}
	return out
}

// TestRepPeriodWeightsSumToOneAndMappingIsTotal exercises the
// "rep-period round-trip" testable property from spec.md §8.
func TestRepPeriodWeightsSumToOneAndMappingIsTotal(t *testing.T) {
	n := 20
	profile := Profile{Name: "load", Weight: 1, Periods: make([][]float64, n)}
	for i := range profile.Periods {
		profile.Periods[i] = []float64{float64(i % 5), float64((i + 1) % 5)}
	}
	settings := Settings{Method: MethodKMedoids, NumClusters: 3, NormOrder: 2, Seed: 0}

	result, err := Reduce(settings, []Profile{profile}, chronoPeriods(n, 2), timesteps(2))
	require.NoError(t, err)

	var sum float64
	for _, w := range result.RepPeriodWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	assert.Equal(t, n, len(result.MapToRepPeriods))
	for _, repIdx := range result.MapToRepPeriods {
		assert.True(t, repIdx >= 0 && repIdx < len(result.RepPeriods))
	}
}

// TestKMedoidsFindsBimodalPeaks exercises spec.md §8 scenario 6: given a
// known bimodal distribution with K=2, medoids under seed 0 should be
// the two density peaks, and map_to_rep_periods should partition by
// nearest medoid.
func TestKMedoidsFindsBimodalPeaks(t *testing.T) {
	n := 365
	profile := Profile{Name: "synthetic", Weight: 1, Periods: make([][]float64, n)}
	for i := 0; i < n; i++ {
		var v float64
		if i%2 == 0 {
			v = 10 + 0.01*float64(i%3) // cluster around 10
		} else {
			v = 90 + 0.01*float64(i%3) // cluster around 90
		}
		profile.Periods[i] = []float64{v}
	}

	settings := Settings{Method: MethodKMedoids, NumClusters: 2, NormOrder: 2, Seed: 0}
	result, err := Reduce(settings, []Profile{profile}, chronoPeriods(n, 1), timesteps(1))
	require.NoError(t, err)
	require.Len(t, result.RepPeriods, 2)

	var medoidValues []float64
	for _, rp := range result.RepPeriods {
		idx := rp.PeriodID
		medoidValues = append(medoidValues, profile.Periods[idx][0])
	}
	sortedLow, sortedHigh := math.Min(medoidValues[0], medoidValues[1]), math.Max(medoidValues[0], medoidValues[1])
	assert.InDelta(t, 10, sortedLow, 1)
	assert.InDelta(t, 90, sortedHigh, 1)

	for chronoIdx, repIdx := range result.MapToRepPeriods {
		assignedValue := profile.Periods[result.RepPeriods[repIdx].PeriodID][0]
		actualValue := profile.Periods[chronoIdx][0]
		assert.Less(t, math.Abs(actualValue-assignedValue), 50.0)
	}
}

func TestManualModeRequiresMatchingShapes(t *testing.T) {
	n := 4
	settings := Settings{
		Method:      MethodManual,
		UserMedoids: []int{0, 2},
		UserMapping: []int{0, 0, 1, 1},
		UserWeights: []float64{0.5, 0.5},
	}
	result, err := Reduce(settings, nil, chronoPeriods(n, 1), timesteps(1))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, result.MapToRepPeriods)

	badSettings := Settings{
		Method:      MethodManual,
		UserMedoids: []int{0, 2},
		UserMapping: []int{0, 0, 1}, // wrong length
		UserWeights: []float64{0.5, 0.5},
	}
	_, err = Reduce(badSettings, nil, chronoPeriods(n, 1), timesteps(1))
	assert.Error(t, err)
}

func TestAssignRepPeriodsComputesMappingOnly(t *testing.T) {
	n := 6
	profile := Profile{Name: "p", Weight: 1, Periods: make([][]float64, n)}
	for i := range profile.Periods {
		profile.Periods[i] = []float64{float64(i)}
	}
	settings := Settings{Method: MethodAssignRepPeriods, NumClusters: 2, UserMedoids: []int{0, 5}}
	result, err := Reduce(settings, []Profile{profile}, chronoPeriods(n, 1), timesteps(1))
	require.NoError(t, err)
	assert.Equal(t, 2, len(result.RepPeriods))
	assert.Equal(t, n, len(result.MapToRepPeriods))
}

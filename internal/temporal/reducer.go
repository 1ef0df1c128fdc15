// Package temporal implements the representative-period clusterer
// described in spec.md §4.5: it reduces a full chronological year (or
// run of years) of reference profiles down to a small set of
// representative periods, plus the chrono↔rep mapping and weights the
// MILP builder needs to annualize everything it emits.
//
// Grounded on the original's Clusterer (common/temporal.py): same
// STEPS_MAX=100 PAM cap, same four selectable methods. k-medoids always
// starts from the greedy (smallest distance row-sum) medoid init; there
// is no random init, and Settings.Seed does not affect it. gonum's mat/floats/stat/optimize subpackages
// stand in for the original's scipy.spatial/sklearn/scipy.optimize
// stack, mirroring how the teacher's portfolio optimizer already reaches
// for the same four gonum subpackages for an unrelated numerical
// problem.
package temporal

import (
	"fmt"
	"time"
)

// Method selects the clustering algorithm spec.md §4.5 enumerates.
type Method int

const (
	MethodKMedoids Method = iota
	MethodAffinityPropagation
	MethodAssignRepPeriods
	MethodManual
)

// STEPSMax bounds PAM iterations (spec.md §4.5 step 4).
const STEPSMax = 100

// String renders a Method for logs and run manifests.
func (m Method) String() string {
	switch m {
	case MethodKMedoids:
		return "k_medoids"
	case MethodAffinityPropagation:
		return "affinity_propagation"
	case MethodAssignRepPeriods:
		return "assign_rep_periods"
	case MethodManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Settings configures one reduction run.
type Settings struct {
	Method      Method
	NumClusters int
	NormOrder   float64 // Minkowski order; 0 means "use the default of 2".
	Seed        int64

	// Only used by MethodAssignRepPeriods and MethodManual.
	UserMedoids []int
	// Only used by MethodManual.
	UserMapping []int
	UserWeights []float64
}

// Profile is one reference chronological profile, already tiled into
// equal-length chronological periods (spec.md §3: "chronological
// period: a fixed-length window tiling the available weather years").
type Profile struct {
	Name   string
	Weight float64
	// Periods[chronoIdx][hour] is the profile's value at that hour of
	// that chronological period.
	Periods [][]float64
}

// ChronoPeriod is one fixed-length window of the input data: a
// period index paired with the weather-year timestamp of each hour.
type ChronoPeriod struct {
	PeriodID int
	Hours    []time.Time
}

// Result is the full output set spec.md §4.5 names.
type Result struct {
	RepPeriods       []ChronoPeriod // rep_idx -> (period_id, hour -> timestamp)
	ChronoPeriods    []ChronoPeriod // chrono_idx -> (period_id, hour -> timestamp)
	MapToRepPeriods  []int          // chrono_idx -> rep_idx
	RepPeriodWeights []float64      // rep_idx -> fraction summing to 1
	Timesteps        []time.Duration
}

// Reduce runs the configured method over profiles tiled across the
// given chronological periods and returns the representative-period
// mapping (spec.md §4.5 steps 1-7).
func Reduce(settings Settings, profiles []Profile, chrono []ChronoPeriod, timesteps []time.Duration) (*Result, error) {
	if len(chrono) == 0 {
		return nil, fmt.Errorf("temporal: no chronological periods supplied")
	}
	norm := settings.NormOrder
	if norm == 0 {
		norm = 2
	}

	if settings.Method == MethodManual {
		return reduceManual(settings, chrono, timesteps)
	}

	data, err := pivot(profiles, len(chrono))
	if err != nil {
		return nil, err
	}

	var medoids []int
	var mapping []int
	var weights []float64

	switch settings.Method {
	case MethodKMedoids:
		dist := minkowskiDistance(data, norm)
		init := initMedoidsHeuristic(dist, settings.NumClusters)
		medoids = runPAM(dist, init)
		mapping, weights = mapAndWeight(dist, medoids)
	case MethodAffinityPropagation:
		medoids, mapping = affinityPropagation(data, settings.Seed)
		weights = weightsFromMapping(mapping, medoids)
	case MethodAssignRepPeriods:
		if len(settings.UserMedoids) == 0 {
			return nil, fmt.Errorf("temporal: assign_rep_periods requires UserMedoids")
		}
		medoids = append([]int(nil), settings.UserMedoids...)
		if len(medoids) != settings.NumClusters {
			// spec.md §4.5 step 6 only requires computing the mapping for
			// user-supplied medoids; a count mismatch is a warning in the
			// original, not a hard error, so it isn't here either.
			_ = settings.NumClusters
		}
		dist := minkowskiDistance(data, norm)
		mapping, weights = mapAndWeight(dist, medoids)
	default:
		return nil, fmt.Errorf("temporal: unknown method %d", settings.Method)
	}

	return assembleResult(chrono, timesteps, medoids, mapping, weights), nil
}

func reduceManual(settings Settings, chrono []ChronoPeriod, timesteps []time.Duration) (*Result, error) {
	if len(settings.UserMedoids) == 0 || len(settings.UserMapping) != len(chrono) || len(settings.UserWeights) != len(settings.UserMedoids) {
		return nil, fmt.Errorf("temporal: manual mode requires medoids, a mapping for every chronological period, and matching weights")
	}
	sum := 0.0
	for _, w := range settings.UserWeights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return nil, fmt.Errorf("temporal: manual rep_period_weights must sum to 1, got %f", sum)
	}
	return assembleResult(chrono, timesteps, settings.UserMedoids, settings.UserMapping, settings.UserWeights), nil
}

func assembleResult(chrono []ChronoPeriod, timesteps []time.Duration, medoids, mapping []int, weights []float64) *Result {
	rep := make([]ChronoPeriod, len(medoids))
	for i, m := range medoids {
		rep[i] = chrono[m]
	}
	return &Result{
		RepPeriods:       rep,
		ChronoPeriods:    chrono,
		MapToRepPeriods:  mapping,
		RepPeriodWeights: weights,
		Timesteps:        timesteps,
	}
}

// pivot lays out each profile's (chrono_idx, hour) grid as columns of
// a (num_chrono_periods, profile*hour) matrix, column-weighted by each
// profile's declared weight (spec.md §4.5 step 1).
func pivot(profiles []Profile, numChrono int) ([][]float64, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("temporal: no reference profiles supplied")
	}
	hoursPerPeriod := 0
	for _, p := range profiles {
		if len(p.Periods) != numChrono {
			return nil, fmt.Errorf("temporal: profile %q has %d periods, want %d", p.Name, len(p.Periods), numChrono)
		}
		if len(p.Periods) > 0 {
			if hoursPerPeriod == 0 {
				hoursPerPeriod = len(p.Periods[0])
			}
		}
	}

	rows := make([][]float64, numChrono)
	for c := 0; c < numChrono; c++ {
		var row []float64
		for _, p := range profiles {
			for _, v := range p.Periods[c] {
				row = append(row, v*p.Weight)
			}
		}
		rows[c] = row
	}
	return rows, nil
}

// weightsFromMapping computes each representative period's weight as
// its share of the chronological periods assigned to it. mapping
// entries are indices into medoids (rep_idx), not raw chrono indices.
func weightsFromMapping(mapping, medoids []int) []float64 {
	weights := make([]float64, len(medoids))
	total := float64(len(mapping))
	for _, repIdx := range mapping {
		weights[repIdx]++
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

package temporal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	apMaxIter     = 200
	apConvergeFor = 15
	apDamping     = 0.5
)

// affinityPropagation runs standard affinity-propagation message
// passing (spec.md §4.5 step 5) and returns the cluster-center indices
// (adopted as medoids) and the chrono_idx -> rep_idx label mapping.
//
// The preference (self-similarity) defaults to the median of all
// pairwise similarities, matching scikit-learn's default and the
// original's bare `AffinityPropagation(random_state=SEED).fit(...)`
// call. seed is accepted for interface symmetry with the original's
// fixed-seed requirement; this implementation has no random step of
// its own to seed (no nearest-neighbor ties are broken stochastically
// here), so it is deterministic already.
func affinityPropagation(data [][]float64, seed int64) (medoids []int, mapping []int) {
	_ = seed
	n := len(data)
	sim := similarityMatrix(data)

	avail := make([][]float64, n)
	resp := make([][]float64, n)
	for i := range avail {
		avail[i] = make([]float64, n)
		resp[i] = make([]float64, n)
	}

	lastExemplars := map[int]struct{}{}
	stableFor := 0

	for iter := 0; iter < apMaxIter; iter++ {
		// Responsibility update: r(i,k) = s(i,k) - max_{k'!=k}(a(i,k') + s(i,k'))
		for i := 0; i < n; i++ {
			first, second := math.Inf(-1), math.Inf(-1)
			firstK := -1
			for k := 0; k < n; k++ {
				v := avail[i][k] + sim[i][k]
				if v > first {
					second = first
					first = v
					firstK = k
				} else if v > second {
					second = v
				}
			}
			for k := 0; k < n; k++ {
				var maxOther float64
				if k == firstK {
					maxOther = second
				} else {
					maxOther = first
				}
				newR := sim[i][k] - maxOther
				resp[i][k] = apDamping*resp[i][k] + (1-apDamping)*newR
			}
		}

		// Availability update.
		for k := 0; k < n; k++ {
			var colSum float64
			for i := 0; i < n; i++ {
				if i != k {
					colSum += math.Max(0, resp[i][k])
				}
			}
			for i := 0; i < n; i++ {
				var newA float64
				if i == k {
					newA = colSum
				} else {
					rkk := resp[k][k]
					sum := colSum - math.Max(0, resp[i][k])
					newA = math.Min(0, rkk+sum)
				}
				avail[i][k] = apDamping*avail[i][k] + (1-apDamping)*newA
			}
		}

		exemplars := map[int]struct{}{}
		for i := 0; i < n; i++ {
			if avail[i][i]+resp[i][i] > 0 {
				exemplars[i] = struct{}{}
			}
		}
		if sameSet(exemplars, lastExemplars) {
			stableFor++
			if stableFor >= apConvergeFor {
				break
			}
		} else {
			stableFor = 0
		}
		lastExemplars = exemplars
	}

	if len(lastExemplars) == 0 {
		// Degenerate input (e.g. all-identical rows): fall back to the
		// single point with highest combined availability+responsibility.
		best, bestVal := 0, math.Inf(-1)
		for i := 0; i < n; i++ {
			if v := avail[i][i] + resp[i][i]; v > bestVal {
				bestVal = v
				best = i
			}
		}
		lastExemplars[best] = struct{}{}
	}

	for k := range lastExemplars {
		medoids = append(medoids, k)
	}
	sort.Ints(medoids)

	mapping = make([]int, n)
	for i := 0; i < n; i++ {
		bestPos, bestSim := 0, math.Inf(-1)
		for pos, k := range medoids {
			if sim[i][k] > bestSim {
				bestSim = sim[i][k]
				bestPos = pos
			}
		}
		mapping[i] = bestPos
	}
	return medoids, mapping
}

// similarityMatrix builds s(i,k) = -||x_i - x_k||^2 with the diagonal
// set to the median of the off-diagonal entries (the scikit-learn
// default preference).
func similarityMatrix(data [][]float64) [][]float64 {
	n := len(data)
	s := make([][]float64, n)
	for i := range s {
		s[i] = make([]float64, n)
	}
	var offDiag []float64
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if i == k {
				continue
			}
			d := floats.Distance(data[i], data[k], 2)
			sq := -(d * d)
			s[i][k] = sq
			offDiag = append(offDiag, sq)
		}
	}
	sort.Float64s(offDiag)
	pref := stat.Quantile(0.5, stat.Empirical, offDiag, nil)
	for i := 0; i < n; i++ {
		s[i][i] = pref
	}
	return s
}

func sameSet(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

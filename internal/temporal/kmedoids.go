package temporal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// runPAM implements the swap-based partitioning-around-medoids loop of
// spec.md §4.5 step 4: up to STEPSMax iterations, every (medoid,
// non-medoid) swap considered each step, the best strictly-improving
// swap accepted, first-occurrence tie-break.
func runPAM(dist *mat.Dense, init []int) []int {
	n, _ := dist.Dims()
	medoids := append([]int(nil), init...)

	inMedoids := func(set []int, v int) bool {
		for _, m := range set {
			if m == v {
				return true
			}
		}
		return false
	}
	nonMedoids := func(set []int) []int {
		var out []int
		for i := 0; i < n; i++ {
			if !inMedoids(set, i) {
				out = append(out, i)
			}
		}
		return out
	}
	totalDist := func(set []int) float64 {
		var total float64
		for i := 0; i < n; i++ {
			best := math.Inf(1)
			for _, m := range set {
				if d := dist.At(i, m); d < best {
					best = d
				}
			}
			total += best
		}
		return total
	}

	total := totalDist(medoids)

	for step := 0; step < STEPSMax; step++ {
		nonM := nonMedoids(medoids)

		bestTotal := total
		bestM, bestN := -1, -1

		for _, m := range medoids {
			for _, nCand := range nonM {
				alt := swap(medoids, m, nCand)
				altTotal := totalDist(alt)
				if altTotal < bestTotal {
					bestTotal = altTotal
					bestM, bestN = m, nCand
				}
			}
		}

		if bestM == -1 {
			break // converged: no swap improves
		}
		medoids = swap(medoids, bestM, bestN)
		total = bestTotal
	}

	sort.Ints(medoids)
	return medoids
}

func swap(medoids []int, out, in int) []int {
	result := make([]int, 0, len(medoids))
	for _, m := range medoids {
		if m != out {
			result = append(result, m)
		}
	}
	result = append(result, in)
	sort.Ints(result)
	return result
}

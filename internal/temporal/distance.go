package temporal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// minkowskiDistance computes the full pairwise Minkowski distance
// matrix of the given order over data's rows (spec.md §4.5 step 2).
func minkowskiDistance(data [][]float64, order float64) *mat.Dense {
	n := len(data)
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := minkowski(data[i], data[j], order)
			m.Set(i, j, d)
			m.Set(j, i, d)
		}
	}
	return m
}

func minkowski(a, b []float64, order float64) float64 {
	var sum float64
	for k := range a {
		diff := math.Abs(a[k] - b[k])
		sum += math.Pow(diff, order)
	}
	return math.Pow(sum, 1/order)
}

// initMedoidsHeuristic picks the k rows with the smallest row-sum of
// distances (spec.md §4.5 step 3, "greedily"), mirroring the original's
// `dist.sum().argsort()[:num_clusters]`.
func initMedoidsHeuristic(dist *mat.Dense, k int) []int {
	n, _ := dist.Dims()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		row := dist.RawRowView(i)
		for _, v := range row {
			sums[i] += v
		}
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return sums[idx[i]] < sums[idx[j]] })
	if k > n {
		k = n
	}
	out := append([]int(nil), idx[:k]...)
	sort.Ints(out)
	return out
}

// mapAndWeight assigns every row to its nearest medoid and returns the
// chrono_idx -> rep_idx mapping (rep_idx is medoids' position, not the
// raw chrono index) plus each representative period's weight
// (spec.md §4.5 step 6: "reducer only computes the mapping").
func mapAndWeight(dist *mat.Dense, medoids []int) (mapping []int, weights []float64) {
	n, _ := dist.Dims()
	mapping = make([]int, n)
	for i := 0; i < n; i++ {
		best := 0
		bestDist := math.Inf(1)
		for pos, m := range medoids {
			d := dist.At(i, m)
			if d < bestDist {
				bestDist = d
				best = pos
			}
		}
		mapping[i] = best
	}
	weights = weightsFromMapping(mapping, medoids)
	return mapping, weights
}

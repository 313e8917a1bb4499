package algorithms

import (
	"math"

	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
)

// CountInfeasible returns how many members carry the infeasible cost.
func CountInfeasible(fitness framework.FitnessVector) int {
	n := 0
	for _, v := range fitness {
		if math.IsInf(v, 1) {
			n++
		}
	}
	return n
}

// UniqueCount returns the number of distinct quantities in a population.
func UniqueCount(population framework.Population) int {
	seen := make(map[float64]struct{}, len(population))
	for _, q := range population {
		seen[q] = struct{}{}
	}
	return len(seen)
}

// OptimalityGap returns (found - optimal) / optimal. A zero optimal cost
// yields the absolute difference instead.
func OptimalityGap(found, optimal float64) float64 {
	if optimal == 0 {
		return math.Abs(found)
	}
	return (found - optimal) / math.Abs(optimal)
}

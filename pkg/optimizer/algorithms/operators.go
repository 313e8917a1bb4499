package algorithms

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
)

// CrossoverFunc combines two parent quantities into one offspring.
type CrossoverFunc func(parent1, parent2 float64, rng *rand.Rand) float64

// ArithmeticCrossover returns alpha*p1 + (1-alpha)*p2 with alpha uniform
// in [0, 1]. The offspring never leaves [min(p1,p2), max(p1,p2)].
func ArithmeticCrossover(p1, p2 float64, rng *rand.Rand) float64 {
	alpha := rng.Float64()
	child := alpha*p1 + (1-alpha)*p2

	// Floating point rounding can step one ulp outside the parents' hull.
	lo, hi := math.Min(p1, p2), math.Max(p1, p2)
	return math.Max(lo, math.Min(hi, child))
}

// BoundedMutation perturbs x with probability rate by a value drawn
// uniformly from [-perturbation, perturbation] and clamps the result into
// bounds. Otherwise x is returned unchanged.
func BoundedMutation(x, rate, perturbation float64, bounds framework.Bounds, rng *rand.Rand) float64 {
	if rng.Float64() >= rate {
		return x
	}
	delta := -perturbation + 2*perturbation*rng.Float64()
	return bounds.Clamp(x + delta)
}

// TournamentSelect samples tournamentSize indices with replacement and
// returns the contestant with the lowest cost. Ties keep the earlier
// contestant.
func TournamentSelect(population framework.Population, fitness framework.FitnessVector, tournamentSize int, rng *rand.Rand) float64 {
	if tournamentSize < 1 {
		tournamentSize = 1
	}
	best := rng.Intn(len(population))

	for i := 1; i < tournamentSize; i++ {
		contestant := rng.Intn(len(population))
		if fitness[contestant] < fitness[best] {
			best = contestant
		}
	}

	return population[best]
}

// SelectParents runs count independent tournaments. Duplicates are expected.
func SelectParents(population framework.Population, fitness framework.FitnessVector, count, tournamentSize int, rng *rand.Rand) framework.Population {
	parents := make(framework.Population, count)
	for i := range parents {
		parents[i] = TournamentSelect(population, fitness, tournamentSize, rng)
	}
	return parents
}

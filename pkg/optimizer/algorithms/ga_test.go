package algorithms

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/inventory-sim/reorder/pkg/optimizer/inventory"
)

func newProblem(capacity float64) *inventory.Problem {
	return inventory.NewProblem(inventory.Parameters{
		Demand:      1000,
		OrderCost:   50,
		HoldingCost: 2,
		Capacity:    capacity,
		SafetyStock: 10,
	})
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Capacity binds: the unconstrained EOQ (223.6) exceeds C, so the search
// should pile up at the capacity boundary.
func TestGAWithBindingCapacity(t *testing.T) {
	problem := newProblem(200)
	ga := NewGeneticAlgorithm(DefaultGAConfig(), problem, seeded(2024))

	result := ga.Run()

	assert.InDelta(t, 200, result.BestQuantity, 1.0)
	assert.LessOrEqual(t, result.BestQuantity, 200.0)
	assert.InDelta(t, problem.TotalCost(200), result.BestCost, 0.5)
	assert.Equal(t, problem.TotalCost(result.BestQuantity), result.BestCost)
}

// Capacity is slack: the search should find the EOQ itself.
func TestGAWithSlackCapacity(t *testing.T) {
	problem := newProblem(500)
	ga := NewGeneticAlgorithm(DefaultGAConfig(), problem, seeded(2024))

	result := ga.Run()

	eoq := problem.EconomicOrderQuantity()
	assert.InDelta(t, 223.6, eoq, 0.01)
	assert.InDelta(t, eoq, result.BestQuantity, 5.0)
	// sqrt(2DSH) is the cost at the EOQ.
	assert.InDelta(t, math.Sqrt(2*1000*50*2), result.BestCost, 0.5)
}

func TestGAHistoryInvariants(t *testing.T) {
	config := GAConfig{
		PopulationSize:      40,
		MaxGenerations:      60,
		MutationProbability: 0.1,
		PerturbationRange:   10,
		TournamentSize:      3,
	}
	result := NewGeneticAlgorithm(config, newProblem(200), seeded(7)).Run()

	require.Equal(t, config.MaxGenerations, result.History.Len())
	require.Len(t, result.History.Mean, config.MaxGenerations)

	for g := 1; g < result.History.Len(); g++ {
		if result.History.Best[g] > result.History.Best[g-1] {
			t.Errorf("best cost increased at generation %d: %v -> %v",
				g, result.History.Best[g-1], result.History.Best[g])
		}
	}
	for g := range result.History.Best {
		assert.LessOrEqual(t, result.History.Best[g], result.History.Mean[g]+1e-9)
	}
	// The final population contains the last elite, so it cannot be worse.
	assert.LessOrEqual(t, result.BestCost, result.History.Best[result.History.Len()-1])
}

func TestGAPopulationSizeInvariant(t *testing.T) {
	problem := newProblem(200)
	for _, size := range []int{1, 2, 3, 10, 101} {
		ga := NewGeneticAlgorithm(GAConfig{
			PopulationSize:      size,
			MaxGenerations:      5,
			MutationProbability: 0.5,
			PerturbationRange:   10,
			TournamentSize:      3,
		}, problem, seeded(uint64(size)))

		population := problem.Initialize(size, ga.rng)
		require.Len(t, population, size)
		for gen := 0; gen < ga.NumGenerations; gen++ {
			fitness := ga.Evaluate(population)
			require.Len(t, fitness, size)

			parents := SelectParents(population, fitness, size, ga.TournamentSize, ga.rng)
			require.Len(t, parents, size)

			next := ga.reproduce(population, fitness, parents)
			require.Len(t, next, size, "population size %d, generation %d", size, gen)
			// The elite goes first, untouched.
			require.Equal(t, population[fitness.BestIndex()], next[0])
			for _, q := range next {
				require.True(t, problem.Bounds().Contains(q), "individual %v left the feasible band", q)
			}
			population = next
		}
	}
}

func TestGADegenerateRun(t *testing.T) {
	problem := newProblem(200)
	ga := NewGeneticAlgorithm(GAConfig{
		PopulationSize:      1,
		MaxGenerations:      1,
		MutationProbability: 0.1,
		PerturbationRange:   10,
		TournamentSize:      3,
	}, problem, seeded(99))

	result := ga.Run()

	assert.True(t, result.BestQuantity >= 10 && result.BestQuantity <= 200)
	assert.False(t, math.IsInf(result.BestCost, 0))
	assert.Equal(t, problem.TotalCost(result.BestQuantity), result.BestCost)
	assert.Equal(t, 1, result.History.Len())
}

func TestGADeterministicWithSeed(t *testing.T) {
	problem := newProblem(200)
	config := DefaultGAConfig()

	a := NewGeneticAlgorithm(config, problem, seeded(12345)).Run()
	b := NewGeneticAlgorithm(config, problem, seeded(12345)).Run()

	if a.BestQuantity != b.BestQuantity || a.BestCost != b.BestCost {
		t.Errorf("runs diverged: (%v, %v) vs (%v, %v)", a.BestQuantity, a.BestCost, b.BestQuantity, b.BestCost)
	}
	if diff := cmp.Diff(a.History, b.History); diff != "" {
		t.Errorf("histories diverged (-first +second):\n%s", diff)
	}

	c := NewGeneticAlgorithm(config, problem, seeded(54321)).Run()
	if cmp.Equal(a.History.Mean, c.History.Mean) {
		t.Errorf("different seeds produced identical mean histories")
	}
}

func TestEvaluateIsIndexAligned(t *testing.T) {
	problem := newProblem(200)
	ga := NewGeneticAlgorithm(DefaultGAConfig(), problem, seeded(1))

	population := []float64{5, 10, 100, 200, 250}
	fitness := ga.Evaluate(population)

	require.Len(t, fitness, len(population))
	for i, q := range population {
		assert.Equal(t, problem.TotalCost(q), fitness[i], "index %d", i)
	}
	assert.Equal(t, 2, CountInfeasible(fitness))
}

func TestOptimalityGap(t *testing.T) {
	assert.InDelta(t, 0.1, OptimalityGap(110, 100), 1e-12)
	assert.Equal(t, 0.0, OptimalityGap(100, 100))
	assert.Equal(t, 3.0, OptimalityGap(-3, 0))
	assert.Equal(t, 3, UniqueCount([]float64{1, 1, 2, 3}))
}

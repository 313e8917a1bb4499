package algorithms

import (
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
)

const (
	Name = "GA"
)

// GAConfig holds configuration parameters for the genetic algorithm
type GAConfig struct {
	PopulationSize      int
	MaxGenerations      int
	MutationProbability float64
	PerturbationRange   float64 // half-width of the uniform mutation step
	TournamentSize      int
}

// DefaultGAConfig returns the configuration the optimizer uses when the
// caller leaves a knob unset.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopulationSize:      100,
		MaxGenerations:      100,
		MutationProbability: 0.1,
		PerturbationRange:   10,
		TournamentSize:      3,
	}
}

// GeneticAlgorithm is a single-objective, elitist genetic algorithm over a
// scalar decision variable.
type GeneticAlgorithm struct {
	PopSize           int
	NumGenerations    int
	Problem           framework.Problem
	MutationRate      float64
	PerturbationRange float64
	TournamentSize    int
	Crossover         CrossoverFunc
	Logger            klog.Logger

	rng *rand.Rand
}

// Result is what a run returns: the best quantity of the last population,
// its cost, and the per-generation best/mean history.
type Result struct {
	BestQuantity float64
	BestCost     float64
	History      *framework.ConvergenceHistory
	Elapsed      time.Duration
}

// NewGeneticAlgorithm creates a new instance with the given parameters.
// All randomness is drawn from rng; a nil rng is replaced by a time-seeded
// source, which makes the run non-reproducible.
func NewGeneticAlgorithm(config GAConfig, problem framework.Problem, rng *rand.Rand) *GeneticAlgorithm {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &GeneticAlgorithm{
		PopSize:           config.PopulationSize,
		NumGenerations:    config.MaxGenerations,
		Problem:           problem,
		MutationRate:      config.MutationProbability,
		PerturbationRange: config.PerturbationRange,
		TournamentSize:    config.TournamentSize,
		Crossover:         ArithmeticCrossover,
		Logger:            klog.Background(),
		rng:               rng,
	}
}

// Evaluate maps every individual to its penalized cost, in population order.
func (g *GeneticAlgorithm) Evaluate(population framework.Population) framework.FitnessVector {
	fitness := make(framework.FitnessVector, len(population))
	for i, q := range population {
		fitness[i] = framework.Evaluate(g.Problem, q)
	}
	return fitness
}

// Run executes the genetic algorithm for NumGenerations generations.
func (g *GeneticAlgorithm) Run() *Result {
	startTime := time.Now()
	logger := g.Logger.WithValues("algorithm", Name, "problem", g.Problem.Name())

	logger.V(2).Info("Starting evolution",
		"populationSize", g.PopSize,
		"generations", g.NumGenerations,
		"mutationRate", g.MutationRate,
		"perturbationRange", g.PerturbationRange,
		"tournamentSize", g.TournamentSize)

	population := g.Problem.Initialize(g.PopSize, g.rng)
	history := framework.NewConvergenceHistory(g.NumGenerations)

	for gen := 0; gen < g.NumGenerations; gen++ {
		fitness := g.Evaluate(population)
		history.Record(fitness)

		parents := SelectParents(population, fitness, g.PopSize, g.TournamentSize, g.rng)
		population = g.reproduce(population, fitness, parents)
	}

	fitness := g.Evaluate(population)
	bestIdx := fitness.BestIndex()
	result := &Result{
		BestQuantity: population[bestIdx],
		BestCost:     fitness[bestIdx],
		History:      history,
		Elapsed:      time.Since(startTime),
	}

	logger.V(2).Info("Evolution complete",
		"uniqueSolutions", UniqueCount(population),
		"infeasible", CountInfeasible(fitness),
		"bestQuantity", result.BestQuantity,
		"bestCost", result.BestCost,
		"elapsed", result.Elapsed)

	return result
}

// reproduce builds the next generation: the current best individual goes
// first unchanged, the rest are mutated offspring of two parents drawn with
// replacement from the selected parents.
func (g *GeneticAlgorithm) reproduce(population framework.Population, fitness framework.FitnessVector, parents framework.Population) framework.Population {
	next := make(framework.Population, 0, g.PopSize)
	next = append(next, population[fitness.BestIndex()])

	bounds := g.Problem.Bounds()
	for len(next) < g.PopSize {
		parent1 := parents[g.rng.Intn(len(parents))]
		parent2 := parents[g.rng.Intn(len(parents))]

		child := g.Crossover(parent1, parent2, g.rng)
		child = BoundedMutation(child, g.MutationRate, g.PerturbationRange, bounds, g.rng)
		next = append(next, child)
	}

	return next
}

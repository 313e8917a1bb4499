package framework

import (
	"math"

	"golang.org/x/exp/rand"
)

// Infeasible is the cost assigned to a candidate that violates a constraint.
// It compares greater than every feasible cost, so min/mean over a
// FitnessVector keep working without special cases.
var Infeasible = math.Inf(1)

// ObjectiveFunc maps a candidate order quantity to its cost.
type ObjectiveFunc func(float64) float64

// Constraint returns true if the constraint is satisfied and false otherwise.
type Constraint func(float64) bool

// Bounds is the closed interval [L, H] a decision variable lives in.
type Bounds struct {
	L float64
	H float64
}

// Contains reports whether x lies in [L, H].
func (b Bounds) Contains(x float64) bool {
	return x >= b.L && x <= b.H
}

// Clamp moves x into [L, H].
func (b Bounds) Clamp(x float64) float64 {
	return math.Max(b.L, math.Min(b.H, x))
}

// Width returns H - L.
func (b Bounds) Width() float64 {
	return b.H - b.L
}

// Problem describes the contract a single-variable minimization problem
// needs to implement to be solved by the genetic algorithm.
type Problem interface {
	Name() string

	Objective() ObjectiveFunc
	Constraints() []Constraint
	Bounds() Bounds

	// Initialize returns a generation 0 population of the given size.
	Initialize(size int, rng *rand.Rand) Population
}

// Evaluate checks every constraint before touching the objective and
// returns Infeasible on the first violation.
func Evaluate(p Problem, x float64) float64 {
	for _, c := range p.Constraints() {
		if !c(x) {
			return Infeasible
		}
	}
	return p.Objective()(x)
}

// Population is an ordered, fixed-size set of candidate quantities.
type Population []float64

// Clone returns a copy of the population.
func (p Population) Clone() Population {
	c := make(Population, len(p))
	copy(c, p)
	return c
}

// FitnessVector holds one cost per population member, index aligned.
type FitnessVector []float64

// BestIndex returns the index of the lowest cost. Ties resolve to the
// first occurrence. It returns -1 for an empty vector.
func (f FitnessVector) BestIndex() int {
	if len(f) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(f); i++ {
		if f[i] < f[best] {
			best = i
		}
	}
	return best
}

// Best returns the lowest cost in the vector.
func (f FitnessVector) Best() float64 {
	idx := f.BestIndex()
	if idx < 0 {
		return Infeasible
	}
	return f[idx]
}

// Mean returns the arithmetic mean of the costs. Any infeasible member
// makes the mean Infeasible.
func (f FitnessVector) Mean() float64 {
	if len(f) == 0 {
		return Infeasible
	}
	sum := 0.0
	for _, v := range f {
		sum += v
	}
	return sum / float64(len(f))
}

// ConvergenceHistory records the best and mean cost of every completed
// generation. It is append-only while a run is in progress.
type ConvergenceHistory struct {
	Best []float64
	Mean []float64
}

// NewConvergenceHistory preallocates room for the given number of generations.
func NewConvergenceHistory(generations int) *ConvergenceHistory {
	return &ConvergenceHistory{
		Best: make([]float64, 0, generations),
		Mean: make([]float64, 0, generations),
	}
}

// Record appends the statistics of one generation.
func (h *ConvergenceHistory) Record(fitness FitnessVector) {
	h.Best = append(h.Best, fitness.Best())
	h.Mean = append(h.Mean, fitness.Mean())
}

// Len returns the number of recorded generations.
func (h *ConvergenceHistory) Len() int {
	return len(h.Best)
}

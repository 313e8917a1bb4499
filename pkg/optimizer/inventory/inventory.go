package inventory

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/inventory-sim/reorder/pkg/optimizer/constraints"
	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
)

const (
	Name = "SingleItemReorder"
)

// Parameters are the five scalars of the single-item inventory model.
// Callers validate them (0 <= SafetyStock < Capacity, positive costs and
// demand) before building a Problem.
type Parameters struct {
	Demand      float64 // D, annual demand
	OrderCost   float64 // S, fixed cost per order
	HoldingCost float64 // H, holding cost per unit per period
	Capacity    float64 // C, upper bound on the order quantity
	SafetyStock float64 // Sseg, lower bound on the order quantity
}

// Problem is the reorder quantity problem: minimize the ordering plus
// holding cost over Q in [SafetyStock, Capacity].
type Problem struct {
	params      Parameters
	constraints []framework.Constraint
}

var _ framework.Problem = &Problem{}

// NewProblem builds the problem. The parameters are copied and never
// mutated afterwards.
func NewProblem(params Parameters) *Problem {
	return &Problem{
		params: params,
		constraints: []framework.Constraint{
			constraints.PositiveQuantityConstraint(),
			constraints.SafetyStockConstraint(params.SafetyStock),
			constraints.CapacityConstraint(params.Capacity),
		},
	}
}

func (p *Problem) Name() string {
	return Name
}

// Parameters returns the model parameters.
func (p *Problem) Parameters() Parameters {
	return p.params
}

func (p *Problem) Objective() framework.ObjectiveFunc {
	return p.cost
}

// cost is the unconstrained total cost (D/Q)*S + (Q/2)*H.
func (p *Problem) cost(q float64) float64 {
	return (p.params.Demand/q)*p.params.OrderCost + (q/2)*p.params.HoldingCost
}

func (p *Problem) Constraints() []framework.Constraint {
	return p.constraints
}

func (p *Problem) Bounds() framework.Bounds {
	return framework.Bounds{L: p.params.SafetyStock, H: p.params.Capacity}
}

// TotalCost returns the cost of ordering q units, or framework.Infeasible
// when q lies outside [SafetyStock, Capacity] or is not positive.
func (p *Problem) TotalCost(q float64) float64 {
	return framework.Evaluate(p, q)
}

// Initialize draws size quantities uniformly from [SafetyStock, Capacity].
func (p *Problem) Initialize(size int, rng *rand.Rand) framework.Population {
	b := p.Bounds()
	population := make(framework.Population, size)
	for i := 0; i < size; i++ {
		population[i] = b.L + rng.Float64()*b.Width()
	}
	return population
}

// EconomicOrderQuantity is the closed-form optimum sqrt(2DS/H), ignoring
// capacity and safety stock.
func (p *Problem) EconomicOrderQuantity() float64 {
	return math.Sqrt(2 * p.params.Demand * p.params.OrderCost / p.params.HoldingCost)
}

// ConstrainedOptimum returns the exact minimizer over the feasible band.
// The cost is convex in Q, so it is the EOQ clamped into the band.
func (p *Problem) ConstrainedOptimum() float64 {
	return p.Bounds().Clamp(p.EconomicOrderQuantity())
}

// CostPoint is one (Q, totalCost(Q)) sample.
type CostPoint struct {
	Quantity float64
	Cost     float64
}

// CostCurve samples the cost at numPoints evenly spaced quantities from
// max(1, SafetyStock) to Capacity.
func (p *Problem) CostCurve(numPoints int) []CostPoint {
	if numPoints <= 0 {
		return nil
	}
	lo := math.Max(1, p.params.SafetyStock)
	hi := p.params.Capacity
	if numPoints == 1 || hi <= lo {
		return []CostPoint{{Quantity: hi, Cost: p.TotalCost(hi)}}
	}

	points := make([]CostPoint, numPoints)
	step := (hi - lo) / float64(numPoints-1)
	for i := 0; i < numPoints; i++ {
		q := lo + float64(i)*step
		if i == numPoints-1 {
			q = hi
		}
		points[i] = CostPoint{Quantity: q, Cost: p.TotalCost(q)}
	}
	return points
}

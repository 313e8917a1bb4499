package constraints

import (
	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
)

// SafetyStockConstraint rejects order quantities below the safety stock.
func SafetyStockConstraint(safetyStock float64) framework.Constraint {
	return func(q float64) bool {
		return q >= safetyStock
	}
}

// CapacityConstraint rejects order quantities above the storage capacity.
func CapacityConstraint(capacity float64) framework.Constraint {
	return func(q float64) bool {
		return q <= capacity
	}
}

// PositiveQuantityConstraint rejects zero and negative quantities. The
// ordering cost term divides by Q, so this must run before the objective
// whenever the safety stock is zero.
func PositiveQuantityConstraint() framework.Constraint {
	return func(q float64) bool {
		return q > 0
	}
}

// CombineConstraints combines multiple constraints into one
func CombineConstraints(constraints ...framework.Constraint) framework.Constraint {
	return func(q float64) bool {
		for _, constraint := range constraints {
			if !constraint(q) {
				return false
			}
		}
		return true
	}
}

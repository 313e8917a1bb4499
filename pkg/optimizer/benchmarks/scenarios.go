package benchmarks

import (
	"github.com/inventory-sim/reorder/pkg/optimizer/inventory"
)

// Scenario is a named inventory instance with a known analytic optimum.
type Scenario struct {
	Name   string
	Params inventory.Parameters
}

// Problem builds the inventory problem of the scenario.
func (s Scenario) Problem() *inventory.Problem {
	return inventory.NewProblem(s.Params)
}

// CapacityBinding has an EOQ (223.6) above the capacity, so the optimum
// sits on the capacity boundary.
func CapacityBinding() Scenario {
	return Scenario{
		Name: "CapacityBinding",
		Params: inventory.Parameters{
			Demand: 1000, OrderCost: 50, HoldingCost: 2, Capacity: 200, SafetyStock: 10,
		},
	}
}

// CapacitySlack leaves the EOQ strictly inside the feasible band.
func CapacitySlack() Scenario {
	return Scenario{
		Name: "CapacitySlack",
		Params: inventory.Parameters{
			Demand: 1000, OrderCost: 50, HoldingCost: 2, Capacity: 500, SafetyStock: 10,
		},
	}
}

// SafetyStockBinding has an EOQ below the safety stock, so the optimum sits
// on the lower boundary.
func SafetyStockBinding() Scenario {
	return Scenario{
		Name: "SafetyStockBinding",
		Params: inventory.Parameters{
			Demand: 1000, OrderCost: 50, HoldingCost: 2, Capacity: 600, SafetyStock: 300,
		},
	}
}

// ZeroSafetyStock lets mutation clamp individuals onto Q=0, which must be
// penalized rather than divided by.
func ZeroSafetyStock() Scenario {
	return Scenario{
		Name: "ZeroSafetyStock",
		Params: inventory.Parameters{
			Demand: 500, OrderCost: 20, HoldingCost: 4, Capacity: 150, SafetyStock: 0,
		},
	}
}

// NarrowBand is a band much narrower than the mutation step.
func NarrowBand() Scenario {
	return Scenario{
		Name: "NarrowBand",
		Params: inventory.Parameters{
			Demand: 1000, OrderCost: 50, HoldingCost: 2, Capacity: 230, SafetyStock: 220,
		},
	}
}

// StandardScenarios returns every built-in scenario.
func StandardScenarios() []Scenario {
	return []Scenario{
		CapacityBinding(),
		CapacitySlack(),
		SafetyStockBinding(),
		ZeroSafetyStock(),
		NarrowBand(),
	}
}

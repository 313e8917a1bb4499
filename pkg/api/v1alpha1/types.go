/*
Copyright 2024 The Reorder Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	GroupName = "reorder.inventory.io"
	Version   = "v1alpha1"
	Kind      = "ReorderPlan"
)

// APIVersion is the group/version string written into every plan.
var APIVersion = GroupName + "/" + Version

// ReorderPlan describes one reorder quantity optimization: the inventory
// model and run controls in Spec, the outcome of the run in Status.
type ReorderPlan struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ReorderPlanSpec   `json:"spec,omitempty"`
	Status ReorderPlanStatus `json:"status,omitempty"`
}

// ReorderPlanSpec defines the inventory model and the optimizer settings
type ReorderPlanSpec struct {
	// Demand is the annual demand D
	Demand float64 `json:"demand"`

	// OrderCost is the fixed cost S of placing one order
	OrderCost float64 `json:"orderCost"`

	// HoldingCost is the cost H of holding one unit for one period
	HoldingCost float64 `json:"holdingCost"`

	// Capacity is the largest admissible order quantity C
	Capacity float64 `json:"capacity"`

	// SafetyStock is the smallest admissible order quantity
	SafetyStock float64 `json:"safetyStock"`

	// Algorithm holds the genetic algorithm settings
	Algorithm AlgorithmSpec `json:"algorithm,omitempty"`
}

// AlgorithmSpec holds the run-size controls and operator knobs.
// Zero values are replaced by defaults.
type AlgorithmSpec struct {
	PopulationSize int `json:"populationSize,omitempty"`
	Generations    int `json:"generations,omitempty"`

	// MutationRate is the probability that an offspring is perturbed.
	// Zero disables mutation; nil means the default.
	MutationRate *float64 `json:"mutationRate,omitempty"`

	// PerturbationRange is the half-width of the uniform mutation step.
	// It is an absolute quantity, independent of the capacity.
	PerturbationRange *float64 `json:"perturbationRange,omitempty"`

	// TournamentSize is the number of contestants per parent selection
	TournamentSize int `json:"tournamentSize,omitempty"`

	// Seed makes the run reproducible. When unset every run draws a fresh seed.
	Seed *uint64 `json:"seed,omitempty"`
}

// ReorderPlanStatus is the outcome of an optimization run
type ReorderPlanStatus struct {
	// BestQuantity is the best order quantity found
	BestQuantity float64 `json:"bestQuantity"`

	// BestCost is the total cost of BestQuantity
	BestCost float64 `json:"bestCost"`

	// EconomicOrderQuantity is the unconstrained closed-form optimum
	EconomicOrderQuantity float64 `json:"economicOrderQuantity"`

	// ConstrainedOptimum is the exact optimum over [SafetyStock, Capacity]
	ConstrainedOptimum float64 `json:"constrainedOptimum"`

	// OptimalityGap is (BestCost - cost(ConstrainedOptimum)) / cost(ConstrainedOptimum)
	OptimalityGap float64 `json:"optimalityGap"`

	// Seed is the seed the run actually used
	Seed uint64 `json:"seed"`

	// BestPerGeneration holds the lowest cost of each generation
	BestPerGeneration []float64 `json:"bestPerGeneration,omitempty"`

	// MeanPerGeneration holds the mean cost of each generation
	MeanPerGeneration []float64 `json:"meanPerGeneration,omitempty"`

	// CompletionTime is when the run finished
	CompletionTime *metav1.Time `json:"completionTime,omitempty"`
}

// NewReorderPlan returns a plan with its type metadata filled in.
func NewReorderPlan(name string, spec ReorderPlanSpec) *ReorderPlan {
	return &ReorderPlan{
		TypeMeta: metav1.TypeMeta{
			APIVersion: APIVersion,
			Kind:       Kind,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		Spec: spec,
	}
}

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

package optimizer

import (
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/inventory-sim/reorder/pkg/api/v1alpha1"
)

// ValidateReorderPlanSpec validates a defaulted plan spec. Every problem
// found is reported, aggregated into a single error.
func ValidateReorderPlanSpec(spec *v1alpha1.ReorderPlanSpec) error {
	var allErrs field.ErrorList
	specPath := field.NewPath("spec")

	allErrs = append(allErrs, validatePositive(spec.Demand, specPath.Child("demand"))...)
	allErrs = append(allErrs, validatePositive(spec.OrderCost, specPath.Child("orderCost"))...)
	allErrs = append(allErrs, validatePositive(spec.HoldingCost, specPath.Child("holdingCost"))...)

	safetyStockPath := specPath.Child("safetyStock")
	capacityPath := specPath.Child("capacity")
	allErrs = append(allErrs, validateFinite(spec.SafetyStock, safetyStockPath)...)
	allErrs = append(allErrs, validateFinite(spec.Capacity, capacityPath)...)
	if spec.SafetyStock < 0 {
		allErrs = append(allErrs, field.Invalid(safetyStockPath, spec.SafetyStock, "must be greater than or equal to 0"))
	}
	if spec.Capacity <= spec.SafetyStock {
		allErrs = append(allErrs, field.Invalid(capacityPath, spec.Capacity, "must be greater than safetyStock"))
	}

	algoPath := specPath.Child("algorithm")
	if spec.Algorithm.PopulationSize <= 0 {
		allErrs = append(allErrs, field.Invalid(algoPath.Child("populationSize"), spec.Algorithm.PopulationSize, "must be greater than 0"))
	}
	if spec.Algorithm.Generations <= 0 {
		allErrs = append(allErrs, field.Invalid(algoPath.Child("generations"), spec.Algorithm.Generations, "must be greater than 0"))
	}
	if spec.Algorithm.MutationRate == nil {
		allErrs = append(allErrs, field.Required(algoPath.Child("mutationRate"), ""))
	} else if r := *spec.Algorithm.MutationRate; math.IsNaN(r) || r < 0 || r > 1 {
		allErrs = append(allErrs, field.Invalid(algoPath.Child("mutationRate"), r, "must be between 0 and 1"))
	}
	if spec.Algorithm.PerturbationRange == nil {
		allErrs = append(allErrs, field.Required(algoPath.Child("perturbationRange"), ""))
	} else if p := *spec.Algorithm.PerturbationRange; math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		allErrs = append(allErrs, field.Invalid(algoPath.Child("perturbationRange"), p, "must be a finite number greater than or equal to 0"))
	}
	if spec.Algorithm.TournamentSize < 1 {
		allErrs = append(allErrs, field.Invalid(algoPath.Child("tournamentSize"), spec.Algorithm.TournamentSize, "must be greater than or equal to 1"))
	}

	return allErrs.ToAggregate()
}

func validateFinite(v float64, path *field.Path) field.ErrorList {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return field.ErrorList{field.Invalid(path, v, "must be a finite number")}
	}
	return nil
}

func validatePositive(v float64, path *field.Path) field.ErrorList {
	if errs := validateFinite(v, path); len(errs) > 0 {
		return errs
	}
	if v <= 0 {
		return field.ErrorList{field.Invalid(path, v, "must be greater than 0")}
	}
	return nil
}

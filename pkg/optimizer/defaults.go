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
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/inventory-sim/reorder/pkg/api/v1alpha1"
	"github.com/inventory-sim/reorder/pkg/optimizer/algorithms"
)

// SetDefaults_ReorderPlanSpec fills unset algorithm knobs. The five model
// parameters have no defaults: zero is a meaningful safety stock. The
// mutation knobs are pointers because zero is a meaningful value for them too.
func SetDefaults_ReorderPlanSpec(spec *v1alpha1.ReorderPlanSpec) {
	klog.V(5).InfoS("Setting defaults", "optimizer", Name)
	defaults := algorithms.DefaultGAConfig()

	if spec.Algorithm.PopulationSize == 0 {
		spec.Algorithm.PopulationSize = defaults.PopulationSize
	}
	if spec.Algorithm.Generations == 0 {
		spec.Algorithm.Generations = defaults.MaxGenerations
	}
	if spec.Algorithm.MutationRate == nil {
		spec.Algorithm.MutationRate = ptr.To(defaults.MutationProbability)
	}
	if spec.Algorithm.PerturbationRange == nil {
		spec.Algorithm.PerturbationRange = ptr.To(defaults.PerturbationRange)
	}
	if spec.Algorithm.TournamentSize == 0 {
		spec.Algorithm.TournamentSize = defaults.TournamentSize
	}
}

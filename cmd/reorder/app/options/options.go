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

// Package options provides the flags used for the reorder command.
package options

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/inventory-sim/reorder/pkg/api/v1alpha1"
)

const (
	// EnvPrefix prefixes every environment variable read for flag defaults.
	EnvPrefix = "REORDER_"

	defaultPlanName = "reorder"
)

// envDefaults are the flag defaults, overridable through REORDER_* variables.
// Without any variables set the command solves the textbook D=1000, S=50, H=2 case.
type envDefaults struct {
	Demand            float64 `env:"DEMAND" envDefault:"1000"`
	OrderCost         float64 `env:"ORDER_COST" envDefault:"50"`
	HoldingCost       float64 `env:"HOLDING_COST" envDefault:"2"`
	Capacity          float64 `env:"CAPACITY" envDefault:"200"`
	SafetyStock       float64 `env:"SAFETY_STOCK" envDefault:"10"`
	PopulationSize    int     `env:"POPULATION_SIZE" envDefault:"100"`
	Generations       int     `env:"GENERATIONS" envDefault:"100"`
	MutationRate      float64 `env:"MUTATION_RATE" envDefault:"0.1"`
	PerturbationRange float64 `env:"PERTURBATION_RANGE" envDefault:"10"`
	TournamentSize    int     `env:"TOURNAMENT_SIZE" envDefault:"3"`

	TracingEndpoint   string  `env:"OTLP_ENDPOINT"`
	TracingInsecure   bool    `env:"OTLP_INSECURE" envDefault:"true"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1"`
}

// ReorderOptions holds everything the reorder command needs
type ReorderOptions struct {
	// Plan is the plan to run, complete once Complete has returned.
	Plan *v1alpha1.ReorderPlan

	PlanFile    string
	OutputFile  string
	PlotFile    string
	MetricsFile string

	TracingEndpoint   string
	TracingInsecure   bool
	TracingSampleRate float64

	spec              v1alpha1.ReorderPlanSpec
	mutationRate      float64
	perturbationRange float64
	seed              uint64
}

// NewOptions creates options with defaults read from the environment.
func NewOptions() (*ReorderOptions, error) {
	defaults := envDefaults{}
	if err := env.ParseWithOptions(&defaults, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to read %s environment: %w", EnvPrefix, err)
	}

	return &ReorderOptions{
		TracingEndpoint:   defaults.TracingEndpoint,
		TracingInsecure:   defaults.TracingInsecure,
		TracingSampleRate: defaults.TracingSampleRate,
		mutationRate:      defaults.MutationRate,
		perturbationRange: defaults.PerturbationRange,
		spec: v1alpha1.ReorderPlanSpec{
			Demand:      defaults.Demand,
			OrderCost:   defaults.OrderCost,
			HoldingCost: defaults.HoldingCost,
			Capacity:    defaults.Capacity,
			SafetyStock: defaults.SafetyStock,
			Algorithm: v1alpha1.AlgorithmSpec{
				PopulationSize:    defaults.PopulationSize,
				Generations:       defaults.Generations,
				MutationRate:      ptr.To(defaults.MutationRate),
				PerturbationRange: ptr.To(defaults.PerturbationRange),
				TournamentSize:    defaults.TournamentSize,
			},
		},
	}, nil
}

// AddFlags adds flags for the reorder command to the specified FlagSet
func (o *ReorderOptions) AddFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&o.spec.Demand, "demand", o.spec.Demand, "Annual demand (D).")
	fs.Float64Var(&o.spec.OrderCost, "order-cost", o.spec.OrderCost, "Fixed cost of placing one order (S).")
	fs.Float64Var(&o.spec.HoldingCost, "holding-cost", o.spec.HoldingCost, "Cost of holding one unit for one period (H).")
	fs.Float64Var(&o.spec.Capacity, "capacity", o.spec.Capacity, "Largest admissible order quantity (C).")
	fs.Float64Var(&o.spec.SafetyStock, "safety-stock", o.spec.SafetyStock, "Safety stock, the smallest admissible order quantity.")

	fs.IntVar(&o.spec.Algorithm.PopulationSize, "population-size", o.spec.Algorithm.PopulationSize, "Number of candidate quantities per generation.")
	fs.IntVar(&o.spec.Algorithm.Generations, "generations", o.spec.Algorithm.Generations, "Number of generations to evolve.")
	fs.Float64Var(&o.mutationRate, "mutation-rate", o.mutationRate, "Probability that an offspring is perturbed.")
	fs.Float64Var(&o.perturbationRange, "perturbation-range", o.perturbationRange, "Half-width of the uniform mutation step, in units.")
	fs.IntVar(&o.spec.Algorithm.TournamentSize, "tournament-size", o.spec.Algorithm.TournamentSize, "Contestants per tournament selection.")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed. When unset a fresh seed is drawn and reported.")

	fs.StringVar(&o.PlanFile, "plan", o.PlanFile, "ReorderPlan YAML file. Explicitly set flags override its spec.")
	fs.StringVarP(&o.OutputFile, "output", "o", o.OutputFile, "Write the completed ReorderPlan as YAML to this file, or '-' for stdout.")
	fs.StringVar(&o.PlotFile, "plot", o.PlotFile, "Write the convergence and cost curve charts to this HTML file.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write run metrics in the Prometheus text format to this file.")

	fs.StringVar(&o.TracingEndpoint, "otlp-endpoint", o.TracingEndpoint, "OTLP/gRPC collector endpoint. Tracing is disabled when empty.")
	fs.BoolVar(&o.TracingInsecure, "otlp-insecure", o.TracingInsecure, "Connect to the OTLP collector without TLS.")
	fs.Float64Var(&o.TracingSampleRate, "tracing-sample-rate", o.TracingSampleRate, "Fraction of runs to trace.")
}

// specFlags maps a flag name to the setter copying its value into a spec.
func (o *ReorderOptions) specFlags() map[string]func(*v1alpha1.ReorderPlanSpec) {
	return map[string]func(*v1alpha1.ReorderPlanSpec){
		"demand":             func(s *v1alpha1.ReorderPlanSpec) { s.Demand = o.spec.Demand },
		"order-cost":         func(s *v1alpha1.ReorderPlanSpec) { s.OrderCost = o.spec.OrderCost },
		"holding-cost":       func(s *v1alpha1.ReorderPlanSpec) { s.HoldingCost = o.spec.HoldingCost },
		"capacity":           func(s *v1alpha1.ReorderPlanSpec) { s.Capacity = o.spec.Capacity },
		"safety-stock":       func(s *v1alpha1.ReorderPlanSpec) { s.SafetyStock = o.spec.SafetyStock },
		"population-size":    func(s *v1alpha1.ReorderPlanSpec) { s.Algorithm.PopulationSize = o.spec.Algorithm.PopulationSize },
		"generations":        func(s *v1alpha1.ReorderPlanSpec) { s.Algorithm.Generations = o.spec.Algorithm.Generations },
		"mutation-rate":      func(s *v1alpha1.ReorderPlanSpec) { s.Algorithm.MutationRate = ptr.To(o.mutationRate) },
		"perturbation-range": func(s *v1alpha1.ReorderPlanSpec) { s.Algorithm.PerturbationRange = ptr.To(o.perturbationRange) },
		"tournament-size":    func(s *v1alpha1.ReorderPlanSpec) { s.Algorithm.TournamentSize = o.spec.Algorithm.TournamentSize },
		"seed":               func(s *v1alpha1.ReorderPlanSpec) { s.Algorithm.Seed = ptr.To(o.seed) },
	}
}

// Complete builds Plan from the plan file, if any, and the parsed flags.
// Without a plan file every flag value is used; with one only flags set
// explicitly on the command line override the file.
func (o *ReorderOptions) Complete(fs *pflag.FlagSet) error {
	if o.PlanFile == "" {
		spec := o.spec
		spec.Algorithm.MutationRate = ptr.To(o.mutationRate)
		spec.Algorithm.PerturbationRange = ptr.To(o.perturbationRange)
		if fs.Changed("seed") {
			spec.Algorithm.Seed = ptr.To(o.seed)
		}
		o.Plan = v1alpha1.NewReorderPlan(defaultPlanName, spec)
		return nil
	}

	plan, err := LoadPlan(o.PlanFile)
	if err != nil {
		return err
	}
	for name, apply := range o.specFlags() {
		if fs.Changed(name) {
			apply(&plan.Spec)
		}
	}
	o.Plan = plan
	return nil
}

// LoadPlan reads a ReorderPlan from a YAML file. Unknown fields are rejected.
func LoadPlan(path string) (*v1alpha1.ReorderPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %q: %w", path, err)
	}

	plan := &v1alpha1.ReorderPlan{}
	if err := yaml.UnmarshalStrict(data, plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan file %q: %w", path, err)
	}
	if plan.Kind != "" && plan.Kind != v1alpha1.Kind {
		return nil, fmt.Errorf("plan file %q has kind %q, want %q", path, plan.Kind, v1alpha1.Kind)
	}
	if plan.APIVersion != "" && plan.APIVersion != v1alpha1.APIVersion {
		return nil, fmt.Errorf("plan file %q has apiVersion %q, want %q", path, plan.APIVersion, v1alpha1.APIVersion)
	}

	plan.APIVersion = v1alpha1.APIVersion
	plan.Kind = v1alpha1.Kind
	if plan.Name == "" {
		plan.Name = defaultPlanName
	}
	return plan, nil
}

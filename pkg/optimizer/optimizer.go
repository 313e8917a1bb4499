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
	"context"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/rand"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/inventory-sim/reorder/pkg/api/v1alpha1"
	"github.com/inventory-sim/reorder/pkg/metrics"
	"github.com/inventory-sim/reorder/pkg/optimizer/algorithms"
	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
	"github.com/inventory-sim/reorder/pkg/optimizer/inventory"
	"github.com/inventory-sim/reorder/pkg/tracing"
)

const Name = "ReorderOptimizer"

// Optimizer runs the genetic algorithm for one validated reorder plan
type Optimizer struct {
	logger   klog.Logger
	spec     v1alpha1.ReorderPlanSpec
	problem  *inventory.Problem
	recorder *metrics.Recorder
	tracer   trace.Tracer
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithRecorder records every run on the given metrics recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *Optimizer) {
		o.recorder = r
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *Optimizer) {
		o.tracer = t
	}
}

// New defaults and validates the spec and builds the inventory problem.
// Invalid specs are rejected here so the run itself never fails.
func New(ctx context.Context, spec v1alpha1.ReorderPlanSpec, opts ...Option) (*Optimizer, error) {
	if spec.Algorithm.Seed != nil {
		spec.Algorithm.Seed = ptr.To(*spec.Algorithm.Seed)
	}
	if spec.Algorithm.MutationRate != nil {
		spec.Algorithm.MutationRate = ptr.To(*spec.Algorithm.MutationRate)
	}
	if spec.Algorithm.PerturbationRange != nil {
		spec.Algorithm.PerturbationRange = ptr.To(*spec.Algorithm.PerturbationRange)
	}
	SetDefaults_ReorderPlanSpec(&spec)
	if err := ValidateReorderPlanSpec(&spec); err != nil {
		return nil, err
	}

	o := &Optimizer{
		logger: klog.FromContext(ctx).WithValues("optimizer", Name),
		spec:   spec,
		problem: inventory.NewProblem(inventory.Parameters{
			Demand:      spec.Demand,
			OrderCost:   spec.OrderCost,
			HoldingCost: spec.HoldingCost,
			Capacity:    spec.Capacity,
			SafetyStock: spec.SafetyStock,
		}),
		tracer: tracing.Tracer(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Spec returns the defaulted spec the optimizer runs with.
func (o *Optimizer) Spec() v1alpha1.ReorderPlanSpec {
	return o.spec
}

// Problem returns the inventory problem built from the spec.
func (o *Optimizer) Problem() *inventory.Problem {
	return o.problem
}

// Run executes one genetic algorithm run to completion and returns its
// outcome. It does not honor cancellation: the run is bounded by the
// population size and generation count only.
func (o *Optimizer) Run(ctx context.Context) *v1alpha1.ReorderPlanStatus {
	logger := klog.FromContext(klog.NewContext(ctx, o.logger))

	seed := o.seed()
	_, span := o.tracer.Start(ctx, "ReorderOptimizer.Run", trace.WithAttributes(
		attribute.Float64("reorder.demand", o.spec.Demand),
		attribute.Float64("reorder.order_cost", o.spec.OrderCost),
		attribute.Float64("reorder.holding_cost", o.spec.HoldingCost),
		attribute.Float64("reorder.capacity", o.spec.Capacity),
		attribute.Float64("reorder.safety_stock", o.spec.SafetyStock),
		attribute.Int("reorder.population_size", o.spec.Algorithm.PopulationSize),
		attribute.Int("reorder.generations", o.spec.Algorithm.Generations),
		attribute.String("reorder.seed", strconv.FormatUint(seed, 10)),
	))
	defer span.End()

	o.printAlgorithmConfig(logger, seed)

	ga := algorithms.NewGeneticAlgorithm(algorithms.GAConfig{
		PopulationSize:      o.spec.Algorithm.PopulationSize,
		MaxGenerations:      o.spec.Algorithm.Generations,
		MutationProbability: *o.spec.Algorithm.MutationRate,
		PerturbationRange:   *o.spec.Algorithm.PerturbationRange,
		TournamentSize:      o.spec.Algorithm.TournamentSize,
	}, o.problem, rand.New(rand.NewSource(seed)))
	ga.Logger = logger
	result := ga.Run()

	optimum := o.problem.ConstrainedOptimum()
	gap := algorithms.OptimalityGap(result.BestCost, o.problem.TotalCost(optimum))
	now := metav1.NewTime(time.Now())

	status := &v1alpha1.ReorderPlanStatus{
		BestQuantity:          result.BestQuantity,
		BestCost:              finite(result.BestCost),
		EconomicOrderQuantity: o.problem.EconomicOrderQuantity(),
		ConstrainedOptimum:    optimum,
		OptimalityGap:         finite(gap),
		Seed:                  seed,
		BestPerGeneration:     finiteSlice(result.History.Best),
		MeanPerGeneration:     finiteSlice(result.History.Mean),
		CompletionTime:        &now,
	}

	span.SetAttributes(
		attribute.Float64("reorder.best_quantity", status.BestQuantity),
		attribute.Float64("reorder.best_cost", status.BestCost),
		attribute.Float64("reorder.optimality_gap", status.OptimalityGap),
	)

	if o.recorder != nil {
		o.recorder.ObserveRun(metrics.RunObservation{
			Problem:       o.problem.Name(),
			BestQuantity:  status.BestQuantity,
			BestCost:      status.BestCost,
			OptimalityGap: status.OptimalityGap,
			Generations:   result.History.Len(),
			Duration:      result.Elapsed,
		})
	}

	logger.Info("Optimization complete",
		"bestQuantity", status.BestQuantity,
		"bestCost", status.BestCost,
		"constrainedOptimum", optimum,
		"optimalityGap", status.OptimalityGap,
		"elapsed", result.Elapsed)

	return status
}

func (o *Optimizer) seed() uint64 {
	if o.spec.Algorithm.Seed != nil {
		return *o.spec.Algorithm.Seed
	}
	return uint64(time.Now().UnixNano())
}

func (o *Optimizer) printAlgorithmConfig(logger klog.Logger, seed uint64) {
	logger.V(1).Info("Algorithm configuration",
		"demand", o.spec.Demand,
		"orderCost", o.spec.OrderCost,
		"holdingCost", o.spec.HoldingCost,
		"capacity", o.spec.Capacity,
		"safetyStock", o.spec.SafetyStock,
		"populationSize", o.spec.Algorithm.PopulationSize,
		"generations", o.spec.Algorithm.Generations,
		"mutationRate", *o.spec.Algorithm.MutationRate,
		"perturbationRange", *o.spec.Algorithm.PerturbationRange,
		"tournamentSize", o.spec.Algorithm.TournamentSize,
		"seed", seed)
}

// History rebuilds the convergence history carried in a status.
func History(status *v1alpha1.ReorderPlanStatus) *framework.ConvergenceHistory {
	return &framework.ConvergenceHistory{
		Best: status.BestPerGeneration,
		Mean: status.MeanPerGeneration,
	}
}

// finite maps the infeasible cost to the largest float so the status
// stays encodable as JSON/YAML.
func finite(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func finiteSlice(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = finite(v)
	}
	return out
}

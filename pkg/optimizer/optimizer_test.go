package optimizer

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/inventory-sim/reorder/pkg/api/v1alpha1"
	"github.com/inventory-sim/reorder/pkg/metrics"
	"github.com/inventory-sim/reorder/pkg/optimizer/algorithms"
	"github.com/inventory-sim/reorder/pkg/optimizer/inventory"
)

func seededSpec(seed uint64) v1alpha1.ReorderPlanSpec {
	spec := v1alpha1.ReorderPlanSpec{
		Demand:      1000,
		OrderCost:   50,
		HoldingCost: 2,
		Capacity:    200,
		SafetyStock: 10,
	}
	spec.Algorithm.Seed = &seed
	return spec
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	spec := seededSpec(1)
	spec.SafetyStock = 250

	if _, err := New(context.Background(), spec); err == nil {
		t.Fatalf("expected New to reject safetyStock > capacity")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	o, err := New(context.Background(), seededSpec(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := o.Spec().Algorithm.PopulationSize; got != 100 {
		t.Errorf("populationSize = %d, want default 100", got)
	}
	if got := o.Problem().Parameters(); got != (inventory.Parameters{Demand: 1000, OrderCost: 50, HoldingCost: 2, Capacity: 200, SafetyStock: 10}) {
		t.Errorf("unexpected problem parameters %+v", got)
	}
}

func TestNewCopiesSeed(t *testing.T) {
	spec := seededSpec(11)
	o, err := New(context.Background(), spec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	*spec.Algorithm.Seed = 99
	if got := *o.Spec().Algorithm.Seed; got != 11 {
		t.Errorf("optimizer seed changed with the caller's spec: %d", got)
	}
}

func TestRun(t *testing.T) {
	ctx := klog.NewContext(context.Background(), klog.NewKlogr())

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	recorder := metrics.NewRecorder()

	o, err := New(ctx, seededSpec(2024), WithRecorder(recorder), WithTracer(tp.Tracer("test")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	status := o.Run(ctx)

	if math.Abs(status.BestQuantity-200) > 1 {
		t.Errorf("bestQuantity = %v, want about 200", status.BestQuantity)
	}
	if status.BestCost != o.Problem().TotalCost(status.BestQuantity) {
		t.Errorf("bestCost %v does not match totalCost(bestQuantity)", status.BestCost)
	}
	if status.ConstrainedOptimum != 200 {
		t.Errorf("constrainedOptimum = %v, want 200", status.ConstrainedOptimum)
	}
	if status.OptimalityGap < 0 || status.OptimalityGap > 0.01 {
		t.Errorf("optimalityGap = %v, want within 1%%", status.OptimalityGap)
	}
	if status.Seed != 2024 {
		t.Errorf("seed = %d, want 2024", status.Seed)
	}
	if len(status.BestPerGeneration) != 100 || len(status.MeanPerGeneration) != 100 {
		t.Errorf("history lengths = %d/%d, want 100/100", len(status.BestPerGeneration), len(status.MeanPerGeneration))
	}
	if status.CompletionTime == nil {
		t.Errorf("completionTime not set")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "ReorderOptimizer.Run" {
		t.Fatalf("unexpected spans: %+v", spans)
	}

	if got := testutil.ToFloat64(recorder.RunsTotal.WithLabelValues(inventory.Name)); got != 1 {
		t.Errorf("runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(recorder.BestQuantity.WithLabelValues(inventory.Name)); got != status.BestQuantity {
		t.Errorf("best_quantity gauge = %v, want %v", got, status.BestQuantity)
	}
}

func TestRunIsReproducible(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, seededSpec(77))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New(ctx, seededSpec(77))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ignoreTime := cmpopts.IgnoreFields(v1alpha1.ReorderPlanStatus{}, "CompletionTime")
	if diff := cmp.Diff(a.Run(ctx), b.Run(ctx), ignoreTime); diff != "" {
		t.Errorf("runs with the same seed diverged (-first +second):\n%s", diff)
	}
}

func TestRunZeroSafetyStockStaysEncodable(t *testing.T) {
	spec := seededSpec(5)
	spec.SafetyStock = 0
	spec.Capacity = 30
	spec.Algorithm.PerturbationRange = ptr.To(50.0)

	o, err := New(context.Background(), spec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	status := o.Run(context.Background())

	if status.BestQuantity <= 0 || status.BestQuantity > 30 {
		t.Errorf("bestQuantity = %v outside (0, 30]", status.BestQuantity)
	}
	for _, v := range append(status.BestPerGeneration, status.MeanPerGeneration...) {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("status history contains a non-finite value %v", v)
		}
	}
	h := History(status)
	if h.Len() != 100 {
		t.Errorf("History().Len() = %d, want 100", h.Len())
	}
}

func TestRunWithZeroMutationRate(t *testing.T) {
	ctx := context.Background()
	spec := seededSpec(13)
	spec.Algorithm.MutationRate = ptr.To(0.0)
	spec.Algorithm.PerturbationRange = ptr.To(0.0)

	o, err := New(ctx, spec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := *o.Spec().Algorithm.MutationRate; got != 0 {
		t.Fatalf("mutationRate = %v after defaulting, want 0", got)
	}
	if got := *o.Spec().Algorithm.PerturbationRange; got != 0 {
		t.Fatalf("perturbationRange = %v after defaulting, want 0", got)
	}

	status := o.Run(ctx)

	// Same seed, mutation switched off directly on the engine.
	config := algorithms.DefaultGAConfig()
	config.MutationProbability = 0
	config.PerturbationRange = 0
	want := algorithms.NewGeneticAlgorithm(config, o.Problem(), rand.New(rand.NewSource(13))).Run()

	if status.BestQuantity != want.BestQuantity {
		t.Errorf("bestQuantity = %v, want %v from a run without mutation", status.BestQuantity, want.BestQuantity)
	}
	if diff := cmp.Diff(want.History.Best, status.BestPerGeneration); diff != "" {
		t.Errorf("best history differs from a run without mutation (-want +got):\n%s", diff)
	}
}

func TestRunSpanCarriesFullSeed(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	spec := seededSpec(math.MaxUint64)
	spec.Algorithm.Generations = 2
	spec.Algorithm.PopulationSize = 4

	o, err := New(context.Background(), spec, WithTracer(tp.Tracer("test")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	status := o.Run(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	var got string
	for _, kv := range spans[0].Attributes {
		if kv.Key == "reorder.seed" {
			got = kv.Value.AsString()
		}
	}
	if want := strconv.FormatUint(status.Seed, 10); got != want {
		t.Errorf("reorder.seed attribute = %q, want %q", got, want)
	}
}

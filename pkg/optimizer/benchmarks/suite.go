package benchmarks

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/inventory-sim/reorder/pkg/optimizer/algorithms"
	"github.com/inventory-sim/reorder/pkg/optimizer/util"
)

// TestSuite runs the genetic algorithm over a set of scenarios and compares
// each result to the analytic constrained optimum.
type TestSuite struct {
	scenarios []Scenario
	config    algorithms.GAConfig
	seed      uint64
}

// Report is the outcome of one scenario.
type Report struct {
	Scenario      string
	BestQuantity  float64
	BestCost      float64
	Optimum       float64
	OptimumCost   float64
	OptimalityGap float64
}

// NewTestSuite creates a new benchmark test suite. Every scenario runs with
// its own generator seeded from seed, so reports are reproducible.
func NewTestSuite(config algorithms.GAConfig, seed uint64) *TestSuite {
	return &TestSuite{
		config: config,
		seed:   seed,
	}
}

// AddScenario adds a scenario to the test suite
func (ts *TestSuite) AddScenario(s Scenario) {
	ts.scenarios = append(ts.scenarios, s)
}

// AddStandardScenarios adds every built-in scenario
func (ts *TestSuite) AddStandardScenarios() {
	for _, s := range StandardScenarios() {
		ts.AddScenario(s)
	}
}

// Run executes the suite. When outputDir is not empty a report chart is
// written there for every scenario.
func (ts *TestSuite) Run(outputDir string) ([]Report, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	reports := make([]Report, 0, len(ts.scenarios))
	for i, scenario := range ts.scenarios {
		klog.V(2).InfoS("Running scenario", "scenario", scenario.Name, "algorithm", algorithms.Name)

		problem := scenario.Problem()
		rng := rand.New(rand.NewSource(ts.seed + uint64(i)))
		result := algorithms.NewGeneticAlgorithm(ts.config, problem, rng).Run()

		optimum := problem.ConstrainedOptimum()
		optimumCost := problem.TotalCost(optimum)
		report := Report{
			Scenario:      scenario.Name,
			BestQuantity:  result.BestQuantity,
			BestCost:      result.BestCost,
			Optimum:       optimum,
			OptimumCost:   optimumCost,
			OptimalityGap: algorithms.OptimalityGap(result.BestCost, optimumCost),
		}
		reports = append(reports, report)

		if outputDir != "" {
			plotFile := filepath.Join(outputDir, fmt.Sprintf("%s_%s_results.html", scenario.Name, algorithms.Name))
			if err := util.PlotReport(problem, result.BestQuantity, result.History, algorithms.Name, plotFile); err != nil {
				klog.ErrorS(err, "Failed to plot results", "scenario", scenario.Name)
			}
		}

		klog.V(2).InfoS("Scenario complete",
			"scenario", scenario.Name,
			"bestQuantity", report.BestQuantity,
			"optimum", report.Optimum,
			"gap", report.OptimalityGap)
	}

	return reports, nil
}

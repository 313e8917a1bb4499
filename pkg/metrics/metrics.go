package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ReorderSubsystem - subsystem name used by reorder optimizer runs
	ReorderSubsystem = "reorder"
)

// Recorder owns the collectors of optimizer runs, registered on a single
// registry so several recorders never collide.
type Recorder struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	GenerationsTotal *prometheus.CounterVec
	BestCost         *prometheus.GaugeVec
	BestQuantity     *prometheus.GaugeVec
	OptimalityGap    *prometheus.GaugeVec
	RunDuration      *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Subsystem: ReorderSubsystem,
			Name:      "runs_total",
			Help:      "Number of completed optimizer runs",
		}, []string{"problem"}),
		GenerationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Subsystem: ReorderSubsystem,
			Name:      "generations_total",
			Help:      "Number of generations evolved across all runs",
		}, []string{"problem"}),
		BestCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Subsystem: ReorderSubsystem,
			Name:      "best_cost",
			Help:      "Total cost of the best order quantity found by the last run",
		}, []string{"problem"}),
		BestQuantity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Subsystem: ReorderSubsystem,
			Name:      "best_quantity",
			Help:      "Best order quantity found by the last run",
		}, []string{"problem"}),
		OptimalityGap: factory.NewGaugeVec(prometheus.GaugeOpts{
			Subsystem: ReorderSubsystem,
			Name:      "optimality_gap_ratio",
			Help:      "Relative gap between the best cost found and the analytic optimum",
		}, []string{"problem"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: ReorderSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one optimizer run",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"problem"}),
	}
}

// RunObservation is the summary of one run.
type RunObservation struct {
	Problem       string
	BestQuantity  float64
	BestCost      float64
	OptimalityGap float64
	Generations   int
	Duration      time.Duration
}

// ObserveRun records the outcome of one run.
func (r *Recorder) ObserveRun(obs RunObservation) {
	r.RunsTotal.WithLabelValues(obs.Problem).Inc()
	r.GenerationsTotal.WithLabelValues(obs.Problem).Add(float64(obs.Generations))
	r.BestCost.WithLabelValues(obs.Problem).Set(obs.BestCost)
	r.BestQuantity.WithLabelValues(obs.Problem).Set(obs.BestQuantity)
	r.OptimalityGap.WithLabelValues(obs.Problem).Set(obs.OptimalityGap)
	r.RunDuration.WithLabelValues(obs.Problem).Observe(obs.Duration.Seconds())
}

// Gatherer exposes the registry, e.g. for an HTTP handler or tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteToTextfile dumps the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

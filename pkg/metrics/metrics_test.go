package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	r := NewRecorder()

	r.ObserveRun(RunObservation{
		Problem:       "SingleItemReorder",
		BestQuantity:  200,
		BestCost:      450,
		OptimalityGap: 0,
		Generations:   100,
		Duration:      20 * time.Millisecond,
	})
	r.ObserveRun(RunObservation{
		Problem:       "SingleItemReorder",
		BestQuantity:  199.5,
		BestCost:      450.1,
		OptimalityGap: 0.0002,
		Generations:   50,
		Duration:      10 * time.Millisecond,
	})

	if got := testutil.ToFloat64(r.RunsTotal.WithLabelValues("SingleItemReorder")); got != 2 {
		t.Errorf("runs_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.GenerationsTotal.WithLabelValues("SingleItemReorder")); got != 150 {
		t.Errorf("generations_total = %v, want 150", got)
	}
	if got := testutil.ToFloat64(r.BestQuantity.WithLabelValues("SingleItemReorder")); got != 199.5 {
		t.Errorf("best_quantity = %v, want the last run's value 199.5", got)
	}
	if got := testutil.CollectAndCount(r.RunDuration); got != 1 {
		t.Errorf("run_duration_seconds series = %d, want 1", got)
	}
}

func TestWriteToTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(RunObservation{Problem: "p", BestQuantity: 1, BestCost: 2, Generations: 3, Duration: time.Millisecond})

	path := filepath.Join(t.TempDir(), "reorder.prom")
	if err := r.WriteToTextfile(path); err != nil {
		t.Fatalf("WriteToTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading metrics file: %v", err)
	}
	for _, name := range []string{"reorder_runs_total", "reorder_best_cost", "reorder_run_duration_seconds_bucket"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("metrics file does not contain %s:\n%s", name, data)
		}
	}
}

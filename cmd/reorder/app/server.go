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

// Package app implements the reorder command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/inventory-sim/reorder/cmd/reorder/app/options"
	"github.com/inventory-sim/reorder/pkg/api/v1alpha1"
	"github.com/inventory-sim/reorder/pkg/metrics"
	"github.com/inventory-sim/reorder/pkg/optimizer"
	"github.com/inventory-sim/reorder/pkg/optimizer/algorithms"
	"github.com/inventory-sim/reorder/pkg/optimizer/util"
	"github.com/inventory-sim/reorder/pkg/tracing"
)

// NewReorderCommand creates a *cobra.Command object with default parameters
func NewReorderCommand() (*cobra.Command, error) {
	o, err := options.NewOptions()
	if err != nil {
		return nil, err
	}

	runE := func(cmd *cobra.Command, args []string) error {
		if err := o.Complete(cmd.Flags()); err != nil {
			return err
		}
		return Run(cmd.Context(), o, cmd.OutOrStdout())
	}

	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "reorder finds the cost-minimizing order quantity for a single item",
		Long: `reorder searches the order quantity Q in [safety stock, capacity] that
minimizes the annual ordering plus holding cost D*S/Q + H*Q/2, using an
elitist genetic algorithm. The closed-form optimum is reported alongside
the evolved one.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runE,
	}
	o.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:          "optimize",
		Short:        "Run one optimization (the default when no command is given)",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runE,
	})

	return cmd, nil
}

// Run executes one optimization for the completed options and writes the
// requested artifacts.
func Run(ctx context.Context, o *options.ReorderOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := klog.FromContext(ctx).WithValues("plan", o.Plan.Name)
	ctx = klog.NewContext(ctx, logger)

	_, shutdown, err := tracing.NewTracerProvider(ctx, o.TracingEndpoint, o.TracingInsecure, o.TracingSampleRate)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error(err, "Failed to shut down tracing")
		}
	}()

	recorder := metrics.NewRecorder()
	opt, err := optimizer.New(ctx, o.Plan.Spec, optimizer.WithRecorder(recorder))
	if err != nil {
		return fmt.Errorf("invalid reorder plan %q: %w", o.Plan.Name, err)
	}

	status := opt.Run(ctx)

	fmt.Fprintf(out, "Best solution found:\nQ* = %.2f\nTotal cost = %.2f\n", status.BestQuantity, status.BestCost)

	plan := *o.Plan
	plan.Spec = opt.Spec()
	plan.Status = *status

	if o.OutputFile != "" {
		if err := writePlan(&plan, o.OutputFile, out); err != nil {
			return err
		}
	}

	if o.PlotFile != "" {
		if err := util.PlotReport(opt.Problem(), status.BestQuantity, optimizer.History(status), algorithms.Name, o.PlotFile); err != nil {
			return fmt.Errorf("failed to plot results: %w", err)
		}
		logger.V(1).Info("Wrote report chart", "path", o.PlotFile)
	}

	if o.MetricsFile != "" {
		if err := recorder.WriteToTextfile(o.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.V(1).Info("Wrote metrics", "path", o.MetricsFile)
	}

	return nil
}

func writePlan(plan *v1alpha1.ReorderPlan, path string, stdout io.Writer) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan to %q: %w", path, err)
	}
	return nil
}
